package domain

import "context"

// Repository decouples aggregates from their persistence. Implementations
// translate storage faults into typed domain/infrastructure errors; a raw
// driver error must never cross this boundary.
type Repository[T any, ID comparable] interface {
	// FindByID loads an aggregate, returning a not-found domain error when
	// no row exists.
	FindByID(ctx context.Context, id ID) (T, error)

	// Save persists the aggregate, then publishes its queued domain events
	// and marks them committed.
	Save(ctx context.Context, aggregate T) (T, error)

	// Delete removes the aggregate by id, returning a not-found domain
	// error when no row exists.
	Delete(ctx context.Context, id ID) error
}
