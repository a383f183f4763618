package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
)

// TaskFilter narrows FindAll. A nil OwnerID matches every task.
type TaskFilter struct {
	OwnerID *uuid.UUID
}

// FindOptions controls what FindAll attaches to each task.
type FindOptions struct {
	// IncludeOwner attaches the owner's name and email as Task.Owner.
	IncludeOwner bool
}

// TaskStore defines the interface for task data persistence.
//
// Implementations enforce the schema constraints (lengths, status, owner
// reference) as a second line of defence; callers validate first.
type TaskStore interface {
	// FindByID retrieves a task by its unique ID, without the owner projection.
	// Returns ErrTaskNotFound if the task does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// FindAll returns the tasks matching filter ordered by creation time, then ID.
	// Returns an empty slice when nothing matches.
	FindAll(ctx context.Context, filter TaskFilter, opts FindOptions) ([]*domain.Task, error)

	// Insert saves a new task. Returns ErrInvalidEntity if the owner does not exist
	// or a constraint is violated.
	Insert(ctx context.Context, task *domain.Task) error

	// UpdateByID writes the patched fields and updatedAt, then returns the stored row.
	// The owner column is never written.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateByID(ctx context.Context, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (*domain.Task, error)

	// DeleteByID removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteByOwner removes every task owned by ownerID and returns how many were removed.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
