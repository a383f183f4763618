package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the progress state of a task.
// Any status may move to any other; there is no transition table.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Length bounds for task text fields, counted in characters.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// OwnerProjection is the subset of the owning user attached to tasks
// listed under admin scope.
type OwnerProjection struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          uuid.UUID        `json:"id"`
	OwnerID     uuid.UUID        `json:"ownerId"`
	Title       string           `json:"title" validate:"min=1,max=100"`
	Description string           `json:"description" validate:"min=1,max=500"`
	Status      TaskStatus       `json:"status" validate:"oneof=pending in-progress completed"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Owner       *OwnerProjection `json:"-"`
}

// NewTask creates a task owned by ownerID. An empty status defaults to pending.
// Returns a *ValidationError if any field violates its constraints.
func NewTask(ownerID uuid.UUID, title, description string, status TaskStatus) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks the identifiers, the length bounds and the status enumeration.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.OwnerID == uuid.Nil {
		return NewValidationError("ownerId", "cannot be empty", ErrInvalidID)
	}
	return validateStruct(t)
}

// TaskPatch is a partial update. Nil fields are left unchanged.
// It has no ID or owner field, so neither can be changed through it.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Apply returns a copy of t with the patch merged over it and UpdatedAt set to now.
// The result is not validated; callers validate the merged record.
func (t *Task) Apply(p TaskPatch, now time.Time) *Task {
	merged := *t
	merged.Owner = nil
	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Description != nil {
		merged.Description = *p.Description
	}
	if p.Status != nil {
		merged.Status = *p.Status
	}
	merged.UpdatedAt = now.UTC()
	return &merged
}
