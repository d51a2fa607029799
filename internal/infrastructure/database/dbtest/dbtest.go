// Package dbtest opens a migrated Postgres for repository tests.
//
// Tests using it are skipped unless MOMENTS_TEST_DATABASE_URL is set.
// Rows are never truncated: each test seeds its own profiles and asserts
// only on rows it created, so packages can share one database.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"moments-backend/internal/infrastructure/migrations"
)

const EnvDSN = "MOMENTS_TEST_DATABASE_URL"

// migrationLock serialises schema setup across concurrently tested packages.
const migrationLock = 72_610_001

// Open returns a pool on a database with every migration applied.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, migrate(ctx, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	// one connection so the advisory lock and the migrations share a session
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, migrationLock); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}
	defer func() {
		_, _ = db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, migrationLock)
	}()

	return migrations.Apply(ctx, db)
}

// Profile inserts a minimal profile and returns its id.
func Profile(t *testing.T, pool *pgxpool.Pool, displayName string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO profiles (id, email, password_hash, display_name)
		VALUES ($1, $2, 'x', $3)`,
		id, id.String()+"@test.local", displayName)
	require.NoError(t, err)
	return id
}

// Moment inserts a moment owned by creatorID.
func Moment(t *testing.T, pool *pgxpool.Pool, creatorID uuid.UUID, title, status string, expiresAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO moments (id, creator_id, type, title, description, category, reward_type,
		                     approx_area, status, expires_at)
		VALUES ($1, $2, 'need', $3, 'seeded', 'other', 'none', 'Hackney', $4, $5)`,
		id, creatorID, title, status, expiresAt)
	require.NoError(t, err)
	return id
}

// Application inserts an application with the given status.
func Application(t *testing.T, pool *pgxpool.Pool, momentID, applicantID uuid.UUID, status string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO applications (id, moment_id, applicant_id, message, status)
		VALUES ($1, $2, $3, 'I can help', $4)`,
		id, momentID, applicantID, status)
	require.NoError(t, err)
	return id
}

// Status reads the status column of one row.
func Status(t *testing.T, pool *pgxpool.Pool, table string, id uuid.UUID) string {
	t.Helper()

	var status string
	err := pool.QueryRow(context.Background(),
		`SELECT status FROM `+table+` WHERE id = $1`, id).Scan(&status)
	require.NoError(t, err)
	return status
}
