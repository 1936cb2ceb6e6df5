package consent

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/internal/consent/metrics"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// Statistics summarizes a user's consent portfolio.
type Statistics struct {
	Total          int
	Active         int
	Revoked        int
	NeedingRenewal int
	Expired        int
}

// Repository loads and saves Consent aggregates on top of a Store,
// translating storage sentinels into taxonomy errors and publishing queued
// events after successful saves.
type Repository struct {
	store   Store
	bus     domain.Bus
	metrics *metrics.Metrics
	logger  *slog.Logger

	maxAgeMonths  int
	renewalMonths int
}

// RepositoryOption tunes retention windows away from the LGPD defaults.
type RepositoryOption func(*Repository)

// WithRetentionWindows overrides the expiry and renewal thresholds (months).
func WithRetentionWindows(maxAgeMonths, renewalMonths int) RepositoryOption {
	return func(r *Repository) {
		if maxAgeMonths > 0 {
			r.maxAgeMonths = maxAgeMonths
		}
		if renewalMonths > 0 {
			r.renewalMonths = renewalMonths
		}
	}
}

func NewRepository(store Store, bus domain.Bus, m *metrics.Metrics, logger *slog.Logger, opts ...RepositoryOption) *Repository {
	r := &Repository{
		store:         store,
		bus:           bus,
		metrics:       m,
		logger:        logger,
		maxAgeMonths:  DefaultMaxAgeMonths,
		renewalMonths: DefaultRenewalThresholdMonths,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindByID loads one consent, or CONSENT_NOT_FOUND.
func (r *Repository) FindByID(ctx context.Context, id domain.ConsentID) (*Consent, error) {
	start := time.Now()
	snap, err := r.store.FindByID(ctx, id)
	r.observe("find_by_id", start, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeConsentNotFound, "consent %s not found", id)
		}
		return nil, dErrors.Database("find consent", err)
	}
	return FromSnapshot(snap)
}

// FindByUser loads all of a user's consents.
func (r *Repository) FindByUser(ctx context.Context, userID domain.UserID) ([]*Consent, error) {
	start := time.Now()
	snaps, err := r.store.FindByUser(ctx, userID)
	r.observe("find_by_user", start, err)
	if err != nil {
		return nil, dErrors.Database("list consents", err)
	}
	return fromSnapshots(snaps)
}

// FindByUserAndType resolves the natural key, returning nil (not an error)
// when no record exists: absence is a normal state for grant decisions.
func (r *Repository) FindByUserAndType(ctx context.Context, userID domain.UserID, dataType DataType, purpose Purpose) (*Consent, error) {
	start := time.Now()
	snap, err := r.store.FindByUserAndType(ctx, userID, dataType, purpose)
	r.observe("find_by_user_and_type", start, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Database("find consent by type", err)
	}
	c, err := FromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindExpiredConsents returns consents older than the retention window.
func (r *Repository) FindExpiredConsents(ctx context.Context, now time.Time) ([]*Consent, error) {
	start := time.Now()
	cutoff := now.AddDate(0, -r.maxAgeMonths, 0)
	snaps, err := r.store.FindExpired(ctx, cutoff)
	r.observe("find_expired", start, err)
	if err != nil {
		return nil, dErrors.Database("find expired consents", err)
	}
	return fromSnapshots(snaps)
}

// Save persists the aggregate, then publishes its queued events in order.
func (r *Repository) Save(ctx context.Context, c *Consent) (*Consent, error) {
	start := time.Now()
	err := r.store.Save(ctx, c.Snapshot())
	r.observe("save", start, err)
	if err != nil {
		if errors.Is(err, ErrConsentConflict) {
			return nil, dErrors.Newf(dErrors.CodeConsentExists,
				"a consent for %s/%s already exists for this user",
				c.DataType(), c.Purpose())
		}
		return nil, dErrors.Database("save consent", err)
	}

	pending := c.PendingEvents()
	if len(pending) > 0 {
		if err := r.bus.Publish(ctx, pending...); err != nil && r.logger != nil {
			r.logger.Error("consent event publication failed",
				"consent_id", c.ID().String(), "error", err)
		}
		c.MarkEventsCommitted()
	}
	return c, nil
}

// Delete removes one consent row, or CONSENT_NOT_FOUND.
func (r *Repository) Delete(ctx context.Context, id domain.ConsentID) error {
	start := time.Now()
	err := r.store.Delete(ctx, id)
	r.observe("delete", start, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return dErrors.Newf(dErrors.CodeConsentNotFound, "consent %s not found", id)
		}
		return dErrors.Database("delete consent", err)
	}
	return nil
}

// RevokeAllForUser bulk-revokes every active consent a user holds, for the
// LGPD right-to-object flow. Inactive consents are skipped. It returns how
// many consents were revoked.
func (r *Repository) RevokeAllForUser(ctx context.Context, userID domain.UserID, reason string) (int, error) {
	consents, err := r.FindByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	revoked := 0
	for _, c := range consents {
		if !c.IsActive() {
			continue
		}
		if err := c.Revoke(reason); err != nil {
			return revoked, err
		}
		if _, err := r.Save(ctx, c); err != nil {
			return revoked, err
		}
		r.metrics.IncrementRevoked(string(c.DataType()), string(c.Purpose()))
		revoked++
	}
	return revoked, nil
}

// Statistics computes the consent summary for one user.
func (r *Repository) Statistics(ctx context.Context, userID domain.UserID, now time.Time) (Statistics, error) {
	consents, err := r.FindByUser(ctx, userID)
	if err != nil {
		return Statistics{}, err
	}
	stats := Statistics{Total: len(consents)}
	for _, c := range consents {
		if c.IsActive() {
			stats.Active++
			if c.NeedsRenewal(now, r.renewalMonths) {
				stats.NeedingRenewal++
			}
		}
		if c.RevokedDate() != nil {
			stats.Revoked++
		}
		if c.IsExpired(now, r.maxAgeMonths) {
			stats.Expired++
		}
	}
	return stats, nil
}

func fromSnapshots(snaps []Snapshot) ([]*Consent, error) {
	out := make([]*Consent, 0, len(snaps))
	for _, snap := range snaps {
		c, err := FromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Repository) observe(operation string, start time.Time, err error) {
	d := time.Since(start)
	r.metrics.ObserveStoreLatency(operation, d)
	if r.logger == nil {
		return
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.Error("consent store operation failed",
			"operation", operation, "duration_ms", d.Milliseconds(), "error", err)
		return
	}
	r.logger.Debug("consent store operation",
		"operation", operation, "duration_ms", d.Milliseconds())
}

var _ domain.Repository[*Consent, domain.ConsentID] = (*Repository)(nil)
