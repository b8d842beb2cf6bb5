// Package tasklist holds the task-list service, the only component allowed
// to mutate the list. Every mutation is followed by a persistence attempt,
// so the file on disk never lags memory by more than one operation.
package tasklist

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tasktrack/backend/domain"
	"github.com/tasktrack/backend/internal/infrastructure/monitor"
	"github.com/tasktrack/backend/repository"
)

// Service owns the in-memory ordered task list. Operations are serialized
// by a mutex; the store itself is not safe for concurrent mutation.
type Service struct {
	store  repository.TaskStore
	health *monitor.Monitor
	logger *zap.Logger

	mu    sync.Mutex
	tasks []domain.Task
}

func New(store repository.TaskStore, health *monitor.Monitor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		health: health,
		logger: logger,
	}
}

// Load populates the list from the store. Called once at startup; a store
// with no data yields an empty list, which is the normal first-run state.
func (s *Service) Load(ctx context.Context) error {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	s.logger.Info("task list loaded", zap.Int("count", len(tasks)))
	return nil
}

// AddTask appends a new uncompleted task and persists the list. Empty or
// whitespace-only text is rejected.
func (s *Service) AddTask(ctx context.Context, text string) (*domain.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyTaskText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := domain.Task{
		ID:   uuid.NewString(),
		Text: text,
	}
	s.tasks = append(s.tasks, task)
	s.persist(ctx)
	return &task, nil
}

// ToggleTask flips the completion flag of the referenced task and persists.
func (s *Service) ToggleTask(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.persist(ctx)
			task := s.tasks[i]
			return &task, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

// RemoveTasks removes every task whose ID is in ids and persists once for
// the whole batch. Unknown IDs are ignored. Returns the number removed.
func (s *Service) RemoveTasks(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	for _, task := range s.tasks {
		if _, ok := doomed[task.ID]; ok {
			continue
		}
		kept = append(kept, task)
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept
	if removed > 0 {
		s.persist(ctx)
	}
	return removed, nil
}

// ListTasks returns a snapshot of the list in display order.
func (s *Service) ListTasks(ctx context.Context) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]domain.Task, len(s.tasks))
	copy(snapshot, s.tasks)
	return snapshot
}

// Shutdown performs a final unconditional save. Harmless when the last
// mutation already saved the same content.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, s.tasks); err != nil {
		s.logger.Error("final save failed", zap.Error(err))
		return err
	}
	s.logger.Info("task list persisted on shutdown", zap.Int("count", len(s.tasks)))
	return nil
}

// persist flushes the list after a mutation. A failed save is recoverable:
// the session keeps its in-memory state and the failure is logged and
// reported through the persistence monitor, not returned to the caller.
// Must be called with the mutex held.
func (s *Service) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.tasks); err != nil {
		s.logger.Warn("save failed, continuing with in-memory state", zap.Error(err))
		if s.health != nil {
			s.health.RecordFailure(err)
		}
		return
	}
	if s.health != nil {
		s.health.RecordSuccess()
	}
}
