package mocks

import (
	"context"
	"sync"

	"github.com/hivelog/hivelog-api/internal/events"
)

// RecordingEmitter keeps every emitted event and optionally fails.
type RecordingEmitter struct {
	mu     sync.Mutex
	Events []*events.Event
	Err    error
}

// EmitEvent implements events.EventEmitter.
func (e *RecordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Events = append(e.Events, event)
	return e.Err
}

// Emitted returns a copy of the recorded events.
func (e *RecordingEmitter) Emitted() []*events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*events.Event, len(e.Events))
	copy(out, e.Events)
	return out
}

var _ events.EventEmitter = (*RecordingEmitter)(nil)
