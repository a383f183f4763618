package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
)

// EventType names a task lifecycle transition.
type EventType string

const (
	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"
)

// TaskEvent records a committed change to a task.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates which lifecycle transition happened
	Type EventType `json:"type"`

	// Task is a snapshot of the task after the change; for deletions it is
	// the last state the task had before removal.
	Task domain.Task `json:"task"`

	// ActorID is the user whose request caused the change
	ActorID uuid.UUID `json:"actorId"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"createdAt"`
}

// NewTaskEvent creates a new TaskEvent for the given task and actor.
func NewTaskEvent(eventType EventType, task *domain.Task, actorID uuid.UUID) *TaskEvent {
	event := &TaskEvent{
		ID:        uuid.New(),
		Type:      eventType,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	}
	if task != nil {
		event.Task = *task
		event.Task.Owner = nil
	}
	return event
}

// OwnerID returns the owner of the task the event is about.
func (e *TaskEvent) OwnerID() uuid.UUID {
	return e.Task.OwnerID
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// EventHandlerFunc adapts an ordinary function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}
