//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers Postgres instance with the
// application schema already applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                  UUID PRIMARY KEY,
	email               TEXT NOT NULL UNIQUE,
	name                TEXT NOT NULL,
	bio                 TEXT,
	image_url           TEXT,
	password_hash       TEXT NOT NULL DEFAULT '',
	theme               TEXT NOT NULL,
	primary_color       TEXT NOT NULL,
	secondary_color     TEXT NOT NULL,
	email_verified      BOOLEAN NOT NULL DEFAULT FALSE,
	two_factor_enabled  BOOLEAN NOT NULL DEFAULT FALSE,
	subscription_tier   TEXT NOT NULL,
	subscription_status TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS consents (
	id            UUID PRIMARY KEY,
	user_id       UUID NOT NULL,
	data_type     TEXT NOT NULL,
	purpose       TEXT NOT NULL,
	consent_given BOOLEAN NOT NULL,
	consent_date  TIMESTAMPTZ NOT NULL,
	revoked_date  TIMESTAMPTZ,
	source        TEXT NOT NULL,
	legal_basis   TEXT NOT NULL,
	metadata      JSONB NOT NULL DEFAULT '{}',
	UNIQUE (user_id, data_type, purpose)
);

CREATE INDEX IF NOT EXISTS idx_consents_user_id ON consents (user_id);
`

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("exames_test"),
		tcpostgres.WithUsername("exames"),
		tcpostgres.WithPassword("exames"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(context.Background())
	})

	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables clears all rows. Use between tests to ensure isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, `TRUNCATE TABLE users, consents`)
	return err
}
