package service

import (
	"context"
	"time"

	"github.com/mtlprog/taskflow/internal/domain"
)

// TaskStore is the document store view of the tasks collection.
// Implementations translate their native identifiers to opaque strings.
type TaskStore interface {
	// Insert stores a new task and returns its identifier.
	Insert(ctx context.Context, task *domain.Task) (string, error)
	// FindAll returns every task, newest created_at first.
	FindAll(ctx context.Context) ([]domain.Task, error)
	// UpdateStatus sets status and updated_at. It reports whether one task
	// was modified; an unknown or malformed id is (false, nil).
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus, at time.Time) (bool, error)
	// Delete removes one task, with the same not-found semantics.
	Delete(ctx context.Context, id string) (bool, error)
	// Count returns the number of tasks matching filter.
	Count(ctx context.Context, filter domain.TaskFilter) (int64, error)
}

// ActivityStore is the append-only activity_logs collection.
type ActivityStore interface {
	Insert(ctx context.Context, entry *domain.ActivityLog) error
}
