package events

import (
	"context"
	"fmt"
)

// TransitionRecorder counts cell stage transitions.
type TransitionRecorder interface {
	RecordTransition(from, to string)
}

// TransitionCounter feeds CellStageChanged events into a TransitionRecorder.
// Other event types are ignored.
type TransitionCounter struct {
	recorder TransitionRecorder
}

// NewTransitionCounter creates a handler that reports to recorder.
func NewTransitionCounter(recorder TransitionRecorder) *TransitionCounter {
	if recorder == nil {
		panic("recorder cannot be nil")
	}
	return &TransitionCounter{recorder: recorder}
}

// HandleEvent implements EventHandler.
func (h *TransitionCounter) HandleEvent(_ context.Context, event *Event) error {
	if event.Type != EventTypeCellStageChanged {
		return nil
	}
	var payload CellStageChanged
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
	}
	h.recorder.RecordTransition(payload.From, payload.To)
	return nil
}

var _ EventHandler = (*TransitionCounter)(nil)
