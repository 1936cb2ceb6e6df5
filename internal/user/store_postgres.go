package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// uniqueViolation is the Postgres error class for unique index conflicts.
const uniqueViolation = "23505"

// PostgresStore persists user snapshots in PostgreSQL. The unique index on
// email is the real arbiter for concurrent natural-key conflicts.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, email, name, bio, image_url, password_hash, theme,
	primary_color, secondary_color, email_verified, two_factor_enabled,
	subscription_tier, subscription_status, created_at, updated_at`

func (s *PostgresStore) FindByID(ctx context.Context, id domain.UserID) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id.String())
	return scanUser(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			bio = EXCLUDED.bio,
			image_url = EXCLUDED.image_url,
			password_hash = EXCLUDED.password_hash,
			theme = EXCLUDED.theme,
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			email_verified = EXCLUDED.email_verified,
			two_factor_enabled = EXCLUDED.two_factor_enabled,
			subscription_tier = EXCLUDED.subscription_tier,
			subscription_status = EXCLUDED.subscription_status,
			updated_at = EXCLUDED.updated_at`,
		snap.ID, snap.Email, snap.Name, nullable(snap.Bio), nullable(snap.ImageURL),
		snap.PasswordHash, snap.Theme, snap.PrimaryColor, snap.SecondaryColor,
		snap.EmailVerified, snap.TwoFactorEnabled,
		snap.SubscriptionTier, snap.SubscriptionStatus,
		snap.CreatedAt, snap.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrEmailConflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.UserID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row *sql.Row) (Snapshot, error) {
	var snap Snapshot
	var bio, imageURL sql.NullString
	err := row.Scan(&snap.ID, &snap.Email, &snap.Name, &bio, &imageURL,
		&snap.PasswordHash, &snap.Theme, &snap.PrimaryColor, &snap.SecondaryColor,
		&snap.EmailVerified, &snap.TwoFactorEnabled,
		&snap.SubscriptionTier, &snap.SubscriptionStatus,
		&snap.CreatedAt, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("scan user: %w", err)
	}
	snap.Bio = bio.String
	snap.ImageURL = imageURL.String
	return snap, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Store = (*PostgresStore)(nil)
