package user

import (
	"context"
	"errors"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// Store-level sentinels. The repository translates these into taxonomy
// errors; they never cross the repository boundary.
var (
	ErrNotFound      = errors.New("user: record not found")
	ErrEmailConflict = errors.New("user: email already taken by another user")
)

// Store is the row-level persistence contract for users. Implementations
// deal in snapshots only; business state lives in the aggregate.
type Store interface {
	FindByID(ctx context.Context, id domain.UserID) (Snapshot, error)
	FindByEmail(ctx context.Context, email string) (Snapshot, error)

	// Save upserts by id. The email column is unique; a different row
	// holding the same email fails with ErrEmailConflict regardless of any
	// pre-check the caller did.
	Save(ctx context.Context, s Snapshot) error

	Delete(ctx context.Context, id domain.UserID) error
	Count(ctx context.Context) (int, error)
}
