package consent

import (
	"context"
	"errors"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// ErrNotFound keeps storage-specific misses consistent across the in-memory
// and Postgres implementations. The repository translates it; it never
// crosses the repository boundary.
var ErrNotFound = errors.New("consent: record not found")

// ErrConsentConflict signals that another record already holds the same
// (user, dataType, purpose) natural key. The store is the arbiter here:
// two concurrent grants that both pass the repository's pre-check must
// still collapse to one row.
var ErrConsentConflict = errors.New("consent: user already holds a consent for this data type and purpose")

// Store is the row-level persistence contract for consents.
type Store interface {
	FindByID(ctx context.Context, id domain.ConsentID) (Snapshot, error)
	FindByUser(ctx context.Context, userID domain.UserID) ([]Snapshot, error)

	// FindByUserAndType resolves the single record for a (user, dataType,
	// purpose) triple, the consent natural key.
	FindByUserAndType(ctx context.Context, userID domain.UserID, dataType DataType, purpose Purpose) (Snapshot, error)

	// FindExpired returns consents whose ConsentDate is before the cutoff,
	// across all users.
	FindExpired(ctx context.Context, cutoff time.Time) ([]Snapshot, error)

	// Save upserts by id. Saving a record whose (user, dataType, purpose)
	// triple is already held by a different id fails with ErrConsentConflict.
	Save(ctx context.Context, s Snapshot) error

	Delete(ctx context.Context, id domain.ConsentID) error
	CountByUser(ctx context.Context, userID domain.UserID) (int, error)
}
