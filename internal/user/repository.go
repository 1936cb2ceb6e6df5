package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/internal/user/metrics"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// Repository loads and saves User aggregates on top of a Store. Every call
// is measured; storage sentinels are translated into taxonomy errors; after
// a successful save the aggregate's queued events are published in order and
// marked committed.
type Repository struct {
	store   Store
	bus     domain.Bus
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewRepository(store Store, bus domain.Bus, m *metrics.Metrics, logger *slog.Logger) *Repository {
	return &Repository{store: store, bus: bus, metrics: m, logger: logger}
}

// FindByID loads the aggregate, or USER_NOT_FOUND.
func (r *Repository) FindByID(ctx context.Context, id domain.UserID) (*User, error) {
	start := time.Now()
	snap, err := r.store.FindByID(ctx, id)
	r.observe("find_by_id", start, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeUserNotFound, "user %s not found", id)
		}
		return nil, dErrors.Database("find user", err)
	}
	return UserFromSnapshot(snap)
}

// FindByEmail loads by the natural key, or USER_NOT_FOUND.
func (r *Repository) FindByEmail(ctx context.Context, email UserEmail) (*User, error) {
	start := time.Now()
	snap, err := r.store.FindByEmail(ctx, email.String())
	r.observe("find_by_email", start, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeUserNotFound, "no user with email %s", email)
		}
		return nil, dErrors.Database("find user by email", err)
	}
	return UserFromSnapshot(snap)
}

// Save persists the aggregate. The email pre-check is an early fail for the
// common case; the store's unique constraint still rejects the race between
// two concurrent saves. Queued events publish only after the row is durable.
func (r *Repository) Save(ctx context.Context, u *User) (*User, error) {
	start := time.Now()

	existing, err := r.store.FindByEmail(ctx, u.Email().String())
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.observe("save", start, err)
		return nil, dErrors.Database("check email uniqueness", err)
	}
	if err == nil && existing.ID != u.ID().String() {
		r.observe("save", start, ErrEmailConflict)
		return nil, dErrors.Newf(dErrors.CodeEmailExists, "email %s is already registered", u.Email())
	}

	err = r.store.Save(ctx, u.Snapshot())
	r.observe("save", start, err)
	if err != nil {
		if errors.Is(err, ErrEmailConflict) {
			return nil, dErrors.Newf(dErrors.CodeEmailExists, "email %s is already registered", u.Email())
		}
		return nil, dErrors.Database("save user", err)
	}

	if err := r.publishPending(ctx, u); err != nil && r.logger != nil {
		r.logger.Error("user event publication failed", "user_id", u.ID().String(), "error", err)
	}
	return u, nil
}

// Delete removes the user row, or USER_NOT_FOUND when it never existed.
func (r *Repository) Delete(ctx context.Context, id domain.UserID) error {
	start := time.Now()
	err := r.store.Delete(ctx, id)
	r.observe("delete", start, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return dErrors.Newf(dErrors.CodeUserNotFound, "user %s not found", id)
		}
		return dErrors.Database("delete user", err)
	}
	return nil
}

// Count reports how many users exist, for statistics consumers.
func (r *Repository) Count(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := r.store.Count(ctx)
	r.observe("count", start, err)
	if err != nil {
		return 0, dErrors.Database("count users", err)
	}
	return n, nil
}

func (r *Repository) publishPending(ctx context.Context, u *User) error {
	pending := u.PendingEvents()
	if len(pending) == 0 {
		return nil
	}
	err := r.bus.Publish(ctx, pending...)
	u.MarkEventsCommitted()
	return err
}

func (r *Repository) observe(operation string, start time.Time, err error) {
	d := time.Since(start)
	r.metrics.ObserveStore(operation, d, err)
	if r.logger == nil {
		return
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.Error("user store operation failed",
			"operation", operation, "duration_ms", d.Milliseconds(), "error", err)
		return
	}
	r.logger.Debug("user store operation",
		"operation", operation, "duration_ms", d.Milliseconds())
}

var _ domain.Repository[*User, domain.UserID] = (*Repository)(nil)
