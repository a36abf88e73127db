// Package event provides an in-process event dispatcher.
//
// Services fire events after their transaction commits; listeners such as
// the read-cache invalidator react to them.
//
//	bus.Listen(event.CatalogChanged, func(ctx context.Context, e event.Event) {
//	    cache.Flush(ctx)
//	})
//	bus.Fire(ctx, event.Event{Name: event.CatalogChanged, Entity: "category", ID: id})
package event

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/catalogue/pkg/logger"
)

// Event names.
const (
	// CatalogChanged fires after any committed write to a catalog entity.
	CatalogChanged = "catalog.changed"
	// CascadeApplied fires after a category status change was propagated to
	// its products.
	CascadeApplied = "catalog.cascade"
	// InboxReceived fires after an enquiry or contact was stored.
	InboxReceived = "inbox.received"
)

// Event is the payload handed to listeners.
type Event struct {
	Name   string
	Entity string
	ID     string
	Action string
	// Affected counts rows touched by a cascade.
	Affected int64
	Payload  interface{}
	At       time.Time
}

type Handler func(ctx context.Context, e Event)

// Bus dispatches events to listeners by name.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers h for name.
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Fire runs every listener of e.Name synchronously. A panicking listener is
// logged and does not stop the others.
func (b *Bus) Fire(ctx context.Context, e Event) {
	if b == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	for _, h := range b.listeners(e.Name) {
		b.call(ctx, h, e)
	}
}

// FireAsync runs the listeners on their own goroutines and returns at once.
// The context passed to listeners is detached from ctx's cancellation.
func (b *Bus) FireAsync(ctx context.Context, e Event) {
	if b == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	detached := context.WithoutCancel(ctx)
	for _, h := range b.listeners(e.Name) {
		go b.call(detached, h, e)
	}
}

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

func (b *Bus) listeners(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[name]))
	copy(hs, b.handlers[name])
	return hs
}

func (b *Bus) call(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "event: listener panicked", "event", e.Name, "panic", r)
		}
	}()
	h(ctx, e)
}
