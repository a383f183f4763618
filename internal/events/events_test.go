package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskEvent(t *testing.T) {
	ownerID := uuid.New()
	task, err := domain.NewTask(ownerID, "Write report", "Quarterly numbers", "")
	require.NoError(t, err)
	task.Owner = &domain.OwnerProjection{Name: "Alice", Email: "alice@example.com"}

	actorID := uuid.New()
	event := NewTaskEvent(TaskCreated, task, actorID)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TaskCreated, event.Type)
	assert.Equal(t, actorID, event.ActorID)
	assert.Equal(t, ownerID, event.OwnerID())
	assert.Equal(t, task.ID, event.Task.ID)
	assert.Nil(t, event.Task.Owner, "snapshot should not carry the owner projection")
	assert.NotNil(t, task.Owner, "the source task must not be modified")
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	raw, err := json.Marshal(event)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "task.created", decoded["type"])
	assert.Equal(t, actorID.String(), decoded["actorId"])
}

func TestNewTaskEventNilTask(t *testing.T) {
	event := NewTaskEvent(TaskDeleted, nil, uuid.New())
	assert.Equal(t, uuid.Nil, event.OwnerID())
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *TaskEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestEventHandlerFunc(t *testing.T) {
	var got *TaskEvent
	handler := EventHandlerFunc(func(ctx context.Context, event *TaskEvent) error {
		got = event
		return errors.New("boom")
	})

	event := NewTaskEvent(TaskUpdated, nil, uuid.New())
	err := handler.HandleEvent(context.Background(), event)

	assert.EqualError(t, err, "boom")
	assert.Same(t, event, got)
}
