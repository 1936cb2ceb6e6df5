package domain

import (
	"context"
	"maps"
	"time"
)

// Wildcard subscribes a handler to every published event. Used by the audit
// trail, which must see all activity regardless of type.
const Wildcard = "*"

// Event is an immutable fact about something that happened to an aggregate.
// Types are dot-namespaced ("consent.granted", "user.profile_updated").
type Event struct {
	ID          EventID
	Type        string
	AggregateID string
	OccurredAt  time.Time
	Metadata    map[string]string
}

// NewEvent stamps a fresh id and occurrence time. Metadata is copied so the
// caller's map cannot mutate the event after the fact.
func NewEvent(eventType, aggregateID string, metadata map[string]string) Event {
	var md map[string]string
	if len(metadata) > 0 {
		md = maps.Clone(metadata)
	}
	return Event{
		ID:          NewEventID(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Metadata:    md,
	}
}

// Handler processes a single published event. A handler error does not stop
// delivery to other handlers.
type Handler func(ctx context.Context, evt Event) error

// Bus delivers events to subscribed handlers. It owns delivery ordering and
// handler invocation, never event content.
type Bus interface {
	// Publish delivers the events sequentially, fanning each one out to all
	// matching handlers. It returns after every handler has completed; the
	// first handler error (if any) is surfaced so callers can observe
	// partial failure.
	Publish(ctx context.Context, events ...Event) error

	// Subscribe registers a handler for an exact event type, or for every
	// event when eventType is Wildcard.
	Subscribe(eventType string, h Handler)
}
