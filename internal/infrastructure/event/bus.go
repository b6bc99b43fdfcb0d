package event

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/shared"
)

// InMemoryEventBus implements shared.EventBus with synchronous
// in-process dispatch. A failing handler does not block the others.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	catchAll []shared.EventHandler
	logger   *zap.Logger
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus creates an in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
	}
}

// Publish dispatches events to all matching handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		b.mu.RLock()
		targets := make([]shared.EventHandler, 0, len(b.handlers[evt.EventType()])+len(b.catchAll))
		targets = append(targets, b.handlers[evt.EventType()]...)
		targets = append(targets, b.catchAll...)
		b.mu.RUnlock()

		for _, handler := range targets {
			if err := b.dispatch(ctx, handler, evt); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.Error(err))
			}
		}
	}
	return nil
}

// Subscribe registers a handler. With no event types the handler's
// own EventTypes decide; an empty list subscribes to everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.catchAll = append(b.catchAll, handler)
		return
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
}

// Unsubscribe removes a handler from all subscriptions
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for t, list := range b.handlers {
		b.handlers[t] = removeHandler(list, handler)
	}
	b.catchAll = removeHandler(b.catchAll, handler)
}

// Start starts the event bus
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.logger.Info("event bus started")
	return nil
}

// Stop stops the event bus
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, evt)
}

func removeHandler(list []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := list[:0]
	for _, h := range list {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}
