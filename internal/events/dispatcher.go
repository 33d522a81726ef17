package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans published events out to the handlers subscribed to their type.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type memoryDispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

// NewInMemoryDispatcher returns a synchronous in-process dispatcher. Handlers
// run on the publisher's goroutine in subscription order.
func NewInMemoryDispatcher() Dispatcher {
	return &memoryDispatcher{handlers: make(map[EventType][]EventHandler)}
}

// Publish runs every handler for event.Type even when earlier ones fail. A
// panicking handler is reported as an error instead of unwinding the caller.
func (d *memoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := d.handlers[event.Type]
	d.mu.RUnlock()

	var errs []error
	for i, handler := range handlers {
		if err := invoke(ctx, handler, event); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %d: %w", event.Type, i, err))
		}
	}
	return errors.Join(errs...)
}

func (d *memoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	// Copy on write so Publish can iterate a snapshot without holding the lock.
	next := make([]EventHandler, len(d.handlers[eventType]), len(d.handlers[eventType])+1)
	copy(next, d.handlers[eventType])
	d.handlers[eventType] = append(next, handler)
}

func invoke(ctx context.Context, handler EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return handler(ctx, event)
}
