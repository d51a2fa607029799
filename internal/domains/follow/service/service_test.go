package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moments-backend/internal/domains/follow/model"
	notificationModel "moments-backend/internal/domains/notification/model"
)

type edge struct{ from, to uuid.UUID }

type fakeRepo struct {
	names map[uuid.UUID]string
	edges map[edge]bool
}

func newFakeRepo(ids ...uuid.UUID) *fakeRepo {
	r := &fakeRepo{names: map[uuid.UUID]string{}, edges: map[edge]bool{}}
	for i, id := range ids {
		r.names[id] = []string{"Linh", "Minh", "Trang"}[i%3]
	}
	return r
}

func (r *fakeRepo) Follow(_ context.Context, a, b uuid.UUID) (bool, error) {
	if r.edges[edge{a, b}] {
		return false, nil
	}
	r.edges[edge{a, b}] = true
	return true, nil
}

func (r *fakeRepo) Unfollow(_ context.Context, a, b uuid.UUID) error {
	delete(r.edges, edge{a, b})
	return nil
}

func (r *fakeRepo) Status(_ context.Context, a, b uuid.UUID) (*model.FollowingStatus, error) {
	return &model.FollowingStatus{IsFollowing: r.edges[edge{a, b}], IsFollowedBy: r.edges[edge{b, a}]}, nil
}

func (r *fakeRepo) Followers(_ context.Context, id uuid.UUID, limit, offset int) ([]model.FollowEntry, error) {
	var out []model.FollowEntry
	for e := range r.edges {
		if e.to == id {
			out = append(out, model.FollowEntry{})
		}
	}
	return out, nil
}

func (r *fakeRepo) Following(_ context.Context, id uuid.UUID, limit, offset int) ([]model.FollowEntry, error) {
	var out []model.FollowEntry
	for e := range r.edges {
		if e.from == id {
			out = append(out, model.FollowEntry{})
		}
	}
	return out, nil
}

func (r *fakeRepo) ProfileName(_ context.Context, id uuid.UUID) (string, error) {
	name, ok := r.names[id]
	if !ok {
		return "", model.ErrProfileNotFound
	}
	return name, nil
}

type fakeNotifier struct {
	sent []notificationModel.NotifyInput
}

func (n *fakeNotifier) Notify(_ context.Context, in notificationModel.NotifyInput) (*notificationModel.Notification, error) {
	n.sent = append(n.sent, in)
	return &notificationModel.Notification{}, nil
}

func TestFollow_NotifiesOnlyOnNewEdge(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	repo := newFakeRepo(a, b)
	notifier := &fakeNotifier{}
	svc := NewFollowService(repo, notifier)
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, a, b))
	require.NoError(t, svc.Follow(ctx, a, b))

	require.Len(t, notifier.sent, 1)
	sent := notifier.sent[0]
	assert.Equal(t, b, sent.UserID)
	assert.Equal(t, notificationModel.TypeFollow, sent.Type)
	assert.Equal(t, "Linh started following you", sent.Body)
	require.NotNil(t, sent.ActorID)
	assert.Equal(t, a, *sent.ActorID)
}

func TestFollow_RejectsSelfAndUnknown(t *testing.T) {
	a := uuid.New()
	svc := NewFollowService(newFakeRepo(a), &fakeNotifier{})
	ctx := context.Background()

	err := svc.Follow(ctx, a, a)
	assert.ErrorIs(t, err, model.ErrSelfFollow)

	err = svc.Follow(ctx, a, uuid.New())
	assert.ErrorIs(t, err, model.ErrProfileNotFound)
}

func TestStatusAndUnfollow(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	repo := newFakeRepo(a, b)
	svc := NewFollowService(repo, &fakeNotifier{})
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, b, a))

	st, err := svc.Status(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, st.IsFollowing)
	assert.True(t, st.IsFollowedBy)

	followers, err := svc.Followers(ctx, a, 1)
	require.NoError(t, err)
	assert.Len(t, followers, 1)

	require.NoError(t, svc.Unfollow(ctx, b, a))
	st, err = svc.Status(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, st.IsFollowedBy)

	self, err := svc.Status(ctx, a, a)
	require.NoError(t, err)
	assert.Equal(t, &model.FollowingStatus{}, self)
}
