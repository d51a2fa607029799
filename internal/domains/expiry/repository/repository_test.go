package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moments-backend/internal/domains/expiry/model"
	"moments-backend/internal/infrastructure/database/dbtest"
)

func momentIDs(out *model.Outcome) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(out.Moments))
	for _, m := range out.Moments {
		ids = append(ids, m.ID)
	}
	return ids
}

func notices(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) []string {
	t.Helper()

	rows, err := pool.Query(context.Background(),
		`SELECT body FROM notifications WHERE user_id = $1 AND type = 'moment_expired'`, userID)
	require.NoError(t, err)
	defer rows.Close()

	var bodies []string
	for rows.Next() {
		var b string
		require.NoError(t, rows.Scan(&b))
		bodies = append(bodies, b)
	}
	require.NoError(t, rows.Err())
	return bodies
}

func TestExpireDue(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewPostgresExpiryRepository(pool)
	ctx := context.Background()

	// Postgres keeps microseconds.
	now := time.Now().UTC().Truncate(time.Microsecond)

	creator := dbtest.Profile(t, pool, "Creator")
	applicant := dbtest.Profile(t, pool, "Applicant")
	other := dbtest.Profile(t, pool, "Other")

	due := dbtest.Moment(t, pool, creator, `Fix "the" gate`, "active", now.Add(-time.Second))
	boundary := dbtest.Moment(t, pool, creator, "Boundary", "active", now)
	future := dbtest.Moment(t, pool, creator, "Future", "active", now.Add(time.Hour))
	matched := dbtest.Moment(t, pool, creator, "Matched", "matched", now.Add(-time.Hour))

	pending := dbtest.Application(t, pool, due, applicant, "pending")
	rejected := dbtest.Application(t, pool, due, other, "rejected")
	onBoundary := dbtest.Application(t, pool, boundary, applicant, "pending")
	onMatched := dbtest.Application(t, pool, matched, applicant, "pending")

	out, err := repo.ExpireDue(ctx, now)
	require.NoError(t, err)

	ids := momentIDs(out)
	assert.Contains(t, ids, due)
	assert.NotContains(t, ids, boundary)
	assert.NotContains(t, ids, future)
	assert.NotContains(t, ids, matched)

	assert.Equal(t, "expired", dbtest.Status(t, pool, "moments", due))
	assert.Equal(t, "active", dbtest.Status(t, pool, "moments", boundary))
	assert.Equal(t, "active", dbtest.Status(t, pool, "moments", future))
	assert.Equal(t, "matched", dbtest.Status(t, pool, "moments", matched))

	assert.Equal(t, "cancelled", dbtest.Status(t, pool, "applications", pending))
	assert.Equal(t, "rejected", dbtest.Status(t, pool, "applications", rejected))
	assert.Equal(t, "pending", dbtest.Status(t, pool, "applications", onBoundary))
	assert.Equal(t, "pending", dbtest.Status(t, pool, "applications", onMatched))
	assert.GreaterOrEqual(t, out.CancelledApplications, int64(1))

	assert.Equal(t, []string{`Your moment "Fix "the" gate" has expired`}, notices(t, pool, creator))
	assert.Len(t, out.Notifications, len(out.Moments))

	again, err := repo.ExpireDue(ctx, now)
	require.NoError(t, err)
	assert.NotContains(t, momentIDs(again), due)
	assert.Len(t, notices(t, pool, creator), 1, "a moment is only noticed once")
}

func TestExpireDue_RollsBackOnFailure(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewPostgresExpiryRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	creator := dbtest.Profile(t, pool, "Creator")
	applicant := dbtest.Profile(t, pool, "Applicant")
	due := dbtest.Moment(t, pool, creator, "Rollback", "active", now.Add(-time.Minute))
	pending := dbtest.Application(t, pool, due, applicant, "pending")

	// Reject the notice insert for this creator only.
	_, err := pool.Exec(ctx, fmt.Sprintf(`
		CREATE OR REPLACE FUNCTION reject_expiry_notice() RETURNS trigger AS $$
		BEGIN
			IF NEW.user_id = '%s' THEN
				RAISE EXCEPTION 'notice rejected';
			END IF;
			RETURN NEW;
		END $$ LANGUAGE plpgsql`, creator))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		CREATE TRIGGER reject_expiry_notice BEFORE INSERT ON notifications
		FOR EACH ROW EXECUTE FUNCTION reject_expiry_notice()`)
	require.NoError(t, err)

	dropped := false
	drop := func() {
		if dropped {
			return
		}
		dropped = true
		_, _ = pool.Exec(context.Background(), `DROP TRIGGER IF EXISTS reject_expiry_notice ON notifications`)
		_, _ = pool.Exec(context.Background(), `DROP FUNCTION IF EXISTS reject_expiry_notice()`)
	}
	t.Cleanup(drop)

	_, err = repo.ExpireDue(ctx, now)
	require.Error(t, err)

	assert.Equal(t, "active", dbtest.Status(t, pool, "moments", due))
	assert.Equal(t, "pending", dbtest.Status(t, pool, "applications", pending))
	assert.Empty(t, notices(t, pool, creator))

	drop()
	out, err := repo.ExpireDue(ctx, now)
	require.NoError(t, err)
	assert.Contains(t, momentIDs(out), due)
	assert.Equal(t, "cancelled", dbtest.Status(t, pool, "applications", pending))
}
