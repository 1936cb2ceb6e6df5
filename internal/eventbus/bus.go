// Package eventbus is the in-process implementation of domain.Bus. One
// instance is constructed at wiring time and injected into repositories and
// use cases; there is no package-level registry, so tests build a fresh bus
// per case.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/luissimon96/sistema-exames-sub000/internal/eventbus/metrics"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

const defaultLogCapacity = 10000

// Bus fans events out to subscribed handlers and keeps a bounded in-memory
// log of everything published. Delivery is FIFO per publish call; no ordering
// is guaranteed across concurrent publishers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]domain.Handler
	wildcard []domain.Handler

	logMu    sync.Mutex
	log      []domain.Event
	capacity int

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Bus at construction.
type Option func(*Bus)

// WithLogCapacity bounds the in-memory event log. Beyond the capacity the
// oldest entries are dropped.
func WithLogCapacity(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// New builds an empty bus. Metrics may be nil in tests.
func New(logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Bus {
	b := &Bus{
		handlers: make(map[string][]domain.Handler),
		capacity: defaultLogCapacity,
		logger:   logger,
		metrics:  m,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for an exact event type, or for all events
// when eventType is domain.Wildcard.
func (b *Bus) Subscribe(eventType string, h domain.Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if eventType == domain.Wildcard {
		b.wildcard = append(b.wildcard, h)
		return
	}
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Publish delivers each event in order: append to the log, then invoke every
// matching handler concurrently and wait for the whole batch. A failing
// handler never prevents the others from running; the first failure is
// returned after all handlers complete so callers can observe partial
// delivery without losing it.
func (b *Bus) Publish(ctx context.Context, events ...domain.Event) error {
	var firstErr error
	for _, evt := range events {
		if err := b.publishOne(ctx, evt); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (b *Bus) publishOne(ctx context.Context, evt domain.Event) error {
	start := time.Now()
	b.appendLog(evt)
	b.metrics.IncrementPublished(evt.Type)

	b.mu.RLock()
	handlers := make([]domain.Handler, 0, len(b.handlers[evt.Type])+len(b.wildcard))
	handlers = append(handlers, b.handlers[evt.Type]...)
	handlers = append(handlers, b.wildcard...)
	b.mu.RUnlock()

	// Plain errgroup without context cancellation: every handler must run
	// to completion even when a sibling fails.
	var g errgroup.Group
	for _, h := range handlers {
		g.Go(func() error {
			if err := h(ctx, evt); err != nil {
				b.metrics.IncrementHandlerOutcome(evt.Type, "failure")
				if b.logger != nil {
					b.logger.Error("event handler failed",
						"event_type", evt.Type,
						"event_id", evt.ID.String(),
						"aggregate_id", evt.AggregateID,
						"error", err)
				}
				return err
			}
			b.metrics.IncrementHandlerOutcome(evt.Type, "success")
			return nil
		})
	}
	err := g.Wait()
	b.metrics.ObservePublishLatency(time.Since(start))
	return err
}

func (b *Bus) appendLog(evt domain.Event) {
	b.logMu.Lock()
	defer b.logMu.Unlock()
	b.log = append(b.log, evt)
	if len(b.log) > b.capacity {
		b.log = b.log[len(b.log)-b.capacity:]
	}
}

// Events returns a snapshot of the published-event log, oldest first.
func (b *Bus) Events() []domain.Event {
	b.logMu.Lock()
	defer b.logMu.Unlock()
	out := make([]domain.Event, len(b.log))
	copy(out, b.log)
	return out
}

// SubscriberCount reports how many handlers are registered for a type.
// Wildcard handlers are counted under domain.Wildcard only.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if eventType == domain.Wildcard {
		return len(b.wildcard)
	}
	return len(b.handlers[eventType])
}

var _ domain.Bus = (*Bus)(nil)
