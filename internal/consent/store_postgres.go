package consent

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// uniqueViolation is the Postgres error class for unique index conflicts.
const uniqueViolation = "23505"

// PostgresStore persists consent snapshots in PostgreSQL. Metadata is stored
// as a JSONB column; the unique index on (user_id, data_type, purpose) is
// the real arbiter for concurrent grants of the same natural key.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const consentColumns = `id, user_id, data_type, purpose, consent_given,
	consent_date, revoked_date, source, legal_basis, metadata`

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ConsentID) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+consentColumns+` FROM consents WHERE id = $1`, id.String())
	return scanConsent(row)
}

func (s *PostgresStore) FindByUser(ctx context.Context, userID domain.UserID) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+consentColumns+` FROM consents WHERE user_id = $1 ORDER BY consent_date`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("find consents by user: %w", err)
	}
	defer rows.Close()
	return collectConsents(rows)
}

func (s *PostgresStore) FindByUserAndType(ctx context.Context, userID domain.UserID, dataType DataType, purpose Purpose) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+consentColumns+` FROM consents
		 WHERE user_id = $1 AND data_type = $2 AND purpose = $3`,
		userID.String(), string(dataType), string(purpose))
	return scanConsent(row)
}

func (s *PostgresStore) FindExpired(ctx context.Context, cutoff time.Time) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+consentColumns+` FROM consents WHERE consent_date < $1`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find expired consents: %w", err)
	}
	defer rows.Close()
	return collectConsents(rows)
}

func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	metadata, err := marshalMetadata(snap.Metadata)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO consents (`+consentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			consent_given = EXCLUDED.consent_given,
			consent_date = EXCLUDED.consent_date,
			revoked_date = EXCLUDED.revoked_date,
			source = EXCLUDED.source,
			legal_basis = EXCLUDED.legal_basis,
			metadata = EXCLUDED.metadata`,
		snap.ID, snap.UserID, snap.DataType, snap.Purpose, snap.Given,
		snap.ConsentDate, snap.RevokedDate, snap.Source, snap.LegalBasis, metadata)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrConsentConflict
		}
		return fmt.Errorf("save consent: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.ConsentID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM consents WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete consent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete consent: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountByUser(ctx context.Context, userID domain.UserID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM consents WHERE user_id = $1`, userID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count consents: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsent(row *sql.Row) (Snapshot, error) {
	snap, err := scanConsentFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	return snap, nil
}

func scanConsentFrom(sc rowScanner) (Snapshot, error) {
	var snap Snapshot
	var revoked sql.NullTime
	var metadata []byte
	err := sc.Scan(&snap.ID, &snap.UserID, &snap.DataType, &snap.Purpose,
		&snap.Given, &snap.ConsentDate, &revoked, &snap.Source,
		&snap.LegalBasis, &metadata)
	if err != nil {
		return Snapshot{}, err
	}
	if revoked.Valid {
		t := revoked.Time
		snap.RevokedDate = &t
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &snap.Metadata); err != nil {
			return Snapshot{}, fmt.Errorf("decode consent metadata: %w", err)
		}
	}
	return snap, nil
}

func collectConsents(rows *sql.Rows) ([]Snapshot, error) {
	var out []Snapshot
	for rows.Next() {
		snap, err := scanConsentFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consent: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consents: %w", err)
	}
	return out, nil
}

func marshalMetadata(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode consent metadata: %w", err)
	}
	return b, nil
}

var _ Store = (*PostgresStore)(nil)
