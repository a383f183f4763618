package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/novatasks-api/internal/events"
)

// EventEmitter records emitted events for later inspection.
type EventEmitter struct {
	// Err is returned from every EmitEvent call
	Err error

	mu     sync.Mutex
	events []*events.TaskEvent
}

var _ events.EventEmitter = (*EventEmitter)(nil)

// EmitEvent implements events.EventEmitter
func (m *EventEmitter) EmitEvent(ctx context.Context, event *events.TaskEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.Err
}

// Events returns a copy of the recorded events in emission order.
func (m *EventEmitter) Events() []*events.TaskEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.TaskEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Types returns the type of every recorded event in emission order.
func (m *EventEmitter) Types() []events.EventType {
	recorded := m.Events()
	out := make([]events.EventType, len(recorded))
	for i, e := range recorded {
		out[i] = e.Type
	}
	return out
}
