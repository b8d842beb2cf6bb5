package repository

import (
	"context"

	"github.com/tasktrack/backend/domain"
)

// TaskStore translates the in-memory task list to and from durable storage.
// Save is a full rewrite of the backing store in list order; Load returns an
// empty list when no data has been persisted yet.
type TaskStore interface {
	Load(ctx context.Context) ([]domain.Task, error)
	Save(ctx context.Context, tasks []domain.Task) error
}
