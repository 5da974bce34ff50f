package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hivelog/hivelog-api/internal/redact"
)

type subscription struct {
	handler EventHandler
	types   map[string]bool // nil means every type
}

func (s subscription) wants(eventType string) bool {
	return s.types == nil || s.types[eventType]
}

// InMemoryEventEmitter delivers events synchronously, in registration order,
// to handlers held in memory.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With(slog.String("component", "event_emitter")),
	}
}

// RegisterHandler subscribes handler to the given event types, or to every
// event when none are given.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, eventTypes ...string) {
	sub := subscription{handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = true
		}
	}

	e.mu.Lock()
	e.subs = append(e.subs, sub)
	count := len(e.subs)
	e.mu.Unlock()

	e.logger.Debug("registered event handler",
		slog.Int("handler_count", count),
		slog.Any("event_types", eventTypes))
}

// EmitEvent delivers event to every subscribed handler. A failing handler
// does not stop delivery; all failures are returned joined.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("cannot emit nil event")
	}

	e.mu.RLock()
	subs := append([]subscription(nil), e.subs...)
	e.mu.RUnlock()

	var errs []error
	delivered := 0
	for i, sub := range subs {
		if !sub.wants(event.Type) {
			continue
		}
		delivered++
		if err := sub.handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("event handler failed",
				redact.ErrorAttr(err),
				slog.Int("handler_index", i),
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.Type))
			errs = append(errs, fmt.Errorf("handler %d: %w", i, err))
		}
	}

	if delivered == 0 {
		e.logger.Debug("no handlers for event", slog.String("event_type", event.Type))
	}
	return errors.Join(errs...)
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)
