// Package bolt provides a BoltDB-backed task store, selectable via
// STORE_BACKEND=bolt. Unlike the flat file it tolerates separators and
// newlines in task text, but the resulting file is not human-inspectable.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tasktrack/backend/domain"
)

const defaultBucket = "tasks"

// Store wraps a Bolt database holding the serialized task list.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the Bolt file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(defaultBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(defaultBucket),
	}, nil
}

// Load returns the persisted tasks in list order.
func (s *Store) Load(ctx context.Context) ([]domain.Task, error) {
	if s == nil || s.db == nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "load tasks", bolt.ErrDatabaseNotOpen)
	}
	var tasks []domain.Task
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				continue
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "load tasks", err)
	}
	return tasks, nil
}

// Save replaces the bucket contents with the given list. Keys are
// zero-padded positions so the cursor yields tasks in list order.
func (s *Store) Save(ctx context.Context, tasks []domain.Task) error {
	if s == nil || s.db == nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "save tasks", bolt.ErrDatabaseNotOpen)
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(s.bucket); err != nil {
			return err
		}
		b, err := tx.CreateBucket(s.bucket)
		if err != nil {
			return err
		}
		for i, task := range tasks {
			payload, err := json.Marshal(task)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(buildKey(i)), payload); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "save tasks", err)
	}
	return nil
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func buildKey(position int) string {
	return fmt.Sprintf("%020d", position)
}
