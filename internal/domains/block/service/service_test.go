package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moments-backend/internal/domains/block/model"
)

type pair struct{ a, b uuid.UUID }

type fakeRepo struct {
	profiles map[uuid.UUID]bool
	blocks   map[pair]*model.Block
}

func newFakeRepo(profiles ...uuid.UUID) *fakeRepo {
	r := &fakeRepo{profiles: map[uuid.UUID]bool{}, blocks: map[pair]*model.Block{}}
	for _, p := range profiles {
		r.profiles[p] = true
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, b *model.Block) error {
	if _, ok := r.blocks[pair{b.BlockerID, b.BlockedID}]; !ok {
		r.blocks[pair{b.BlockerID, b.BlockedID}] = b
	}
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, blocker, blocked uuid.UUID) (bool, error) {
	_, ok := r.blocks[pair{blocker, blocked}]
	delete(r.blocks, pair{blocker, blocked})
	return ok, nil
}

func (r *fakeRepo) ListByBlocker(_ context.Context, blocker uuid.UUID) ([]model.BlockedUser, error) {
	var out []model.BlockedUser
	for k, b := range r.blocks {
		if k.a == blocker {
			bu := model.BlockedUser{Reason: b.Reason}
			bu.User.ID = k.b.String()
			out = append(out, bu)
		}
	}
	return out, nil
}

func (r *fakeRepo) IsBlockedEither(_ context.Context, a, b uuid.UUID) (bool, error) {
	_, ab := r.blocks[pair{a, b}]
	_, ba := r.blocks[pair{b, a}]
	return ab || ba, nil
}

func (r *fakeRepo) ProfileExists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.profiles[id], nil
}

func TestBlock(t *testing.T) {
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	repo := newFakeRepo(alice, bob)
	svc := NewBlockService(repo)

	_, err := svc.Block(ctx, alice, model.CreateBlockRequest{BlockedUserID: alice.String()})
	assert.True(t, errors.Is(err, model.ErrSelfBlock))

	_, err = svc.Block(ctx, alice, model.CreateBlockRequest{BlockedUserID: uuid.NewString()})
	assert.True(t, errors.Is(err, model.ErrUserNotFound))

	_, err = svc.Block(ctx, alice, model.CreateBlockRequest{BlockedUserID: "not-a-uuid"})
	assert.Error(t, err)

	_, err = svc.Block(ctx, alice, model.CreateBlockRequest{BlockedUserID: bob.String()})
	require.NoError(t, err)
	_, err = svc.Block(ctx, alice, model.CreateBlockRequest{BlockedUserID: bob.String()})
	require.NoError(t, err, "blocking twice is idempotent")

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	for _, dir := range []pair{{alice, bob}, {bob, alice}} {
		blocked, err := svc.IsBlockedEither(ctx, dir.a, dir.b)
		require.NoError(t, err)
		assert.True(t, blocked)
	}
}

func TestUnblock(t *testing.T) {
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	svc := NewBlockService(newFakeRepo(alice, bob))

	err := svc.Unblock(ctx, alice, bob)
	assert.True(t, errors.Is(err, model.ErrNotBlocked))

	_, err = svc.Block(ctx, alice, model.CreateBlockRequest{BlockedUserID: bob.String()})
	require.NoError(t, err)
	require.NoError(t, svc.Unblock(ctx, alice, bob))

	blocked, err := svc.IsBlockedEither(ctx, alice, bob)
	require.NoError(t, err)
	assert.False(t, blocked)
}
