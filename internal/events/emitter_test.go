package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	newEvent := func(t *testing.T) *Event {
		event, err := NewCellStageChangedEvent(CellStageChanged{From: "grafted", To: "accepted"})
		require.NoError(t, err)
		return event
	}

	t.Run("no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		assert.NoError(t, emitter.EmitEvent(ctx, newEvent(t)))
	})

	t.Run("nil event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		assert.Error(t, emitter.EmitEvent(ctx, nil))
	})

	t.Run("every handler sees the event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		all := &MockEventHandler{}
		typed := &MockEventHandler{}
		emitter.RegisterHandler(all)
		emitter.RegisterHandler(typed, EventTypeCellStageChanged)

		event := newEvent(t)
		require.NoError(t, emitter.EmitEvent(ctx, event))

		assert.Same(t, event, all.LastEvent)
		assert.Same(t, event, typed.LastEvent)
	})

	t.Run("handlers filtered by type", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		other := &MockEventHandler{}
		emitter.RegisterHandler(other, "batch.deleted")

		require.NoError(t, emitter.EmitEvent(ctx, newEvent(t)))
		assert.Zero(t, other.HandledCount)
	})

	t.Run("failures are joined and delivery continues", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		errA := errors.New("first")
		errB := errors.New("second")
		failA := &MockEventHandler{HandlerError: errA}
		ok := &MockEventHandler{}
		failB := &MockEventHandler{HandlerError: errB}
		emitter.RegisterHandler(failA)
		emitter.RegisterHandler(ok)
		emitter.RegisterHandler(failB)

		err := emitter.EmitEvent(ctx, newEvent(t))
		require.Error(t, err)
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
		assert.Equal(t, 1, ok.HandledCount)
		assert.Equal(t, 1, failB.HandledCount)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		assert.NotPanics(t, func() { NewInMemoryEventEmitter(nil) })
	})
}
