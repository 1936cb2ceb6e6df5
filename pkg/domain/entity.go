package domain

// Entity is the base for anything with stable identity. Equality is
// identity-based, never structural: two entities are the same when their ids
// match, regardless of attribute state.
type Entity[ID comparable] struct {
	id ID
}

// NewEntity wraps an already-constructed identifier.
func NewEntity[ID comparable](id ID) Entity[ID] {
	return Entity[ID]{id: id}
}

// ID returns the entity's identifier.
func (e Entity[ID]) ID() ID { return e.id }

// Equals compares identity only.
func (e Entity[ID]) Equals(other Entity[ID]) bool { return e.id == other.id }

// AggregateRoot adds a pending-event queue to Entity. Mutations record events
// here; the owning repository drains and publishes them after a successful
// save, then marks them committed.
type AggregateRoot[ID comparable] struct {
	Entity[ID]
	pending []Event
}

// NewAggregateRoot wraps an identifier with an empty event queue.
func NewAggregateRoot[ID comparable](id ID) AggregateRoot[ID] {
	return AggregateRoot[ID]{Entity: NewEntity(id)}
}

// Record queues a domain event for publication on the next save.
func (a *AggregateRoot[ID]) Record(evt Event) {
	a.pending = append(a.pending, evt)
}

// PendingEvents returns the queued events in the order they were recorded.
// The returned slice is a copy; mutating it does not affect the queue.
func (a *AggregateRoot[ID]) PendingEvents() []Event {
	out := make([]Event, len(a.pending))
	copy(out, a.pending)
	return out
}

// MarkEventsCommitted clears the queue after the events have been published.
func (a *AggregateRoot[ID]) MarkEventsCommitted() {
	a.pending = nil
}

// ValueObject marks immutable, structurally-compared values. Concrete value
// objects implement field-wise Equals; construction is the only validation
// point, so an instance in hand is always valid.
type ValueObject[V any] interface {
	Equals(other V) bool
}
