// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package event implements the priority event bus that drives bot behaviors.
package event

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("pogobot/event")

// Event is what a listener receives.
type Event struct {
	Name string
	// Context is the object injected by FireWithContext, usually the bot session.
	Context any
	// Payload is the running payload; changes are seen by later listeners.
	Payload *Payload
}

// HandlerFunc processes an event. Returning Cancel stops the pipeline.
type HandlerFunc func(ctx context.Context, ev *Event) error

// Handler is a named listener. Its pointer is its identity on the bus.
type Handler struct {
	name string
	fn   HandlerFunc
}

// NewHandler creates a listener. The name identifies it in logs and errors.
func NewHandler(name string, fn HandlerFunc) *Handler {
	if fn == nil {
		return nil
	}
	return &Handler{name: name, fn: fn}
}

// Name returns the listener name.
func (h *Handler) Name() string {
	return h.name
}

type bucket struct {
	priority int
	handlers []*Handler
}

// Bus dispatches events to listeners in ascending priority order.
//
// The registry lock is never held while listeners run, so listeners may fire
// nested events and (un)register listeners. Fire itself must not be called
// concurrently on the same bus.
type Bus struct {
	mu     sync.RWMutex
	events map[string][]*bucket
	logger *slog.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the bus logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = l
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{events: make(map[string][]*bucket)}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Register adds h to the listeners of name at priority. Registering the same
// handler at the same priority again has no effect.
func (b *Bus) Register(name string, h *Handler, priority int) error {
	if name == "" {
		return ErrEmptyEventName()
	}
	if h == nil || h.fn == nil {
		return ErrNilHandler(name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	buckets := b.events[name]
	i := sort.Search(len(buckets), func(i int) bool { return buckets[i].priority >= priority })
	if i < len(buckets) && buckets[i].priority == priority {
		if !slices.Contains(buckets[i].handlers, h) {
			buckets[i].handlers = append(buckets[i].handlers, h)
		}
		return nil
	}
	buckets = slices.Insert(buckets, i, &bucket{priority: priority, handlers: []*Handler{h}})
	b.events[name] = buckets
	return nil
}

// Unregister removes h from every priority of name. It reports whether h was
// registered.
func (b *Bus) Unregister(name string, h *Handler) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := false
	buckets := b.events[name]
	for _, bk := range buckets {
		before := len(bk.handlers)
		bk.handlers = slices.DeleteFunc(bk.handlers, func(x *Handler) bool { return x == h })
		removed = removed || len(bk.handlers) != before
	}
	buckets = slices.DeleteFunc(buckets, func(bk *bucket) bool { return len(bk.handlers) == 0 })
	if len(buckets) == 0 {
		delete(b.events, name)
	} else {
		b.events[name] = buckets
	}
	return removed
}

// Events returns the names with at least one listener, sorted.
func (b *Bus) Events() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.events))
	for name := range b.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListenerCount returns the number of registrations for name.
func (b *Bus) ListenerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, bk := range b.events[name] {
		n += len(bk.handlers)
	}
	return n
}

// snapshot returns the listeners of name in invocation order.
func (b *Bus) snapshot(name string) []*Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*Handler
	for _, bk := range b.events[name] {
		out = append(out, bk.handlers...)
	}
	return out
}

// Fire runs the listeners of name without a context object.
// See FireWithContext.
func (b *Bus) Fire(ctx context.Context, name string, p *Payload) (*Payload, bool, error) {
	return b.FireWithContext(ctx, name, nil, p)
}

// FireWithContext runs the listeners of name in ascending priority order,
// handing each the running payload and obj as the event context.
//
// It returns the final payload and ok == true when every listener ran.
// A listener returning Cancel stops the pipeline: ok is false and err is nil.
// Any other listener error stops the pipeline and is returned wrapped.
// With no listeners a warning is logged and p is returned unchanged.
// Listeners work on a clone of p: replacing fields, slice elements or map
// entries does not show through to the caller, but the records those fields
// point to are shared.
func (b *Bus) FireWithContext(ctx context.Context, name string, obj any, p *Payload) (_ *Payload, ok bool, err error) {
	handlers := b.snapshot(name)
	if len(handlers) == 0 {
		Fired.WithLabelValues(name, OutcomeUnhandled).Inc()
		b.logger.WarnContext(ctx, "no listener registered for event", "event", name)
		if p == nil {
			p = &Payload{}
		}
		return p, true, nil
	}

	ctx, span := tracer.Start(ctx, "event.fire",
		trace.WithAttributes(
			attribute.String("event.name", name),
			attribute.Int("event.listeners", len(handlers)),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	ev := &Event{Name: name, Context: obj, Payload: p.Clone()}
	for _, h := range handlers {
		herr := h.fn(ctx, ev)
		if ev.Payload == nil {
			ev.Payload = &Payload{}
		}
		switch {
		case herr == nil:
			continue
		case errors.Is(herr, Cancel):
			Fired.WithLabelValues(name, OutcomeCancelled).Inc()
			span.SetAttributes(attribute.String("event.cancelled_by", h.name))
			b.logger.DebugContext(ctx, "event cancelled", "event", name, "listener", h.name)
			return nil, false, nil
		default:
			Fired.WithLabelValues(name, OutcomeFault).Inc()
			return nil, false, ErrListenerFault(name, h.name, herr)
		}
	}
	Fired.WithLabelValues(name, OutcomeCompleted).Inc()
	return ev.Payload, true, nil
}
