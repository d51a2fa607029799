package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moments-backend/internal/domains/application/model"
	"moments-backend/internal/infrastructure/database/dbtest"
)

func TestAccept(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewPostgresApplicationRepository(pool)
	ctx := context.Background()

	creator := dbtest.Profile(t, pool, "Creator")
	chosen := dbtest.Profile(t, pool, "Chosen")
	other := dbtest.Profile(t, pool, "Other")
	withdrawn := dbtest.Profile(t, pool, "Withdrawn")

	moment := dbtest.Moment(t, pool, creator, "Move a sofa", "active", time.Now().Add(time.Hour))
	accepted := dbtest.Application(t, pool, moment, chosen, "pending")
	pending := dbtest.Application(t, pool, moment, other, "pending")
	cancelled := dbtest.Application(t, pool, moment, withdrawn, "cancelled")

	applied, err := repo.HasApplied(ctx, moment, withdrawn)
	require.NoError(t, err)
	assert.True(t, applied, "a cancelled application still counts")
	applied, err = repo.HasApplied(ctx, moment, creator)
	require.NoError(t, err)
	assert.False(t, applied)

	res, err := repo.Accept(ctx, accepted, creator)
	require.NoError(t, err)

	assert.Equal(t, model.StatusAccepted, res.Application.Status)
	assert.Equal(t, "Move a sofa", res.MomentTitle)
	assert.Equal(t, []uuid.UUID{other}, res.Rejected)
	require.NotEqual(t, uuid.Nil, res.ConversationID)

	assert.Equal(t, "accepted", dbtest.Status(t, pool, "applications", accepted))
	assert.Equal(t, "rejected", dbtest.Status(t, pool, "applications", pending))
	assert.Equal(t, "cancelled", dbtest.Status(t, pool, "applications", cancelled))
	assert.Equal(t, "matched", dbtest.Status(t, pool, "moments", moment))

	var convCreator, convOther uuid.UUID
	err = pool.QueryRow(ctx,
		`SELECT creator_id, other_id FROM conversations WHERE id = $1 AND moment_id = $2 AND status = 'open'`,
		res.ConversationID, moment).Scan(&convCreator, &convOther)
	require.NoError(t, err)
	assert.Equal(t, creator, convCreator)
	assert.Equal(t, chosen, convOther)

	_, err = repo.Accept(ctx, accepted, creator)
	assert.ErrorIs(t, err, model.ErrNotPending)
}

func TestAccept_Rejections(t *testing.T) {
	pool := dbtest.Open(t)
	repo := NewPostgresApplicationRepository(pool)
	ctx := context.Background()

	creator := dbtest.Profile(t, pool, "Creator")
	applicant := dbtest.Profile(t, pool, "Applicant")
	stranger := dbtest.Profile(t, pool, "Stranger")

	open := dbtest.Moment(t, pool, creator, "Open", "active", time.Now().Add(time.Hour))
	closed := dbtest.Moment(t, pool, creator, "Called off", "cancelled", time.Now().Add(time.Hour))

	onOpen := dbtest.Application(t, pool, open, applicant, "pending")
	onClosed := dbtest.Application(t, pool, closed, applicant, "pending")

	tests := []struct {
		name      string
		id        uuid.UUID
		creatorID uuid.UUID
		wantErr   error
	}{
		{"unknown application", uuid.New(), creator, model.ErrApplicationNotFound},
		{"not the creator", onOpen, stranger, model.ErrNotAllowed},
		{"moment no longer active", onClosed, creator, model.ErrMomentNotOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Accept(ctx, tt.id, tt.creatorID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, "pending", dbtest.Status(t, pool, "applications", onOpen))
	assert.Equal(t, "pending", dbtest.Status(t, pool, "applications", onClosed))
	assert.Equal(t, "active", dbtest.Status(t, pool, "moments", open))
	assert.Equal(t, "cancelled", dbtest.Status(t, pool, "moments", closed))

	var conversations int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM conversations WHERE moment_id = ANY($1)`,
		[]uuid.UUID{open, closed}).Scan(&conversations))
	assert.Zero(t, conversations)
}
