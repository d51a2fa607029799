package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moments-backend/internal/config"
	"moments-backend/internal/domains/moment/model"
)

type fakeRepo struct {
	moments  map[uuid.UUID]*model.Moment
	standing model.Standing
	lastFeed model.FeedParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{moments: map[uuid.UUID]*model.Moment{}}
}

func (r *fakeRepo) Create(_ context.Context, m *model.Moment) error {
	r.moments[m.ID] = m
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MomentView, error) {
	m, ok := r.moments[id]
	if !ok {
		return nil, model.ErrMomentNotFound
	}
	return &model.MomentView{Moment: *m}, nil
}

func (r *fakeRepo) Feed(_ context.Context, p model.FeedParams) ([]model.MomentView, error) {
	r.lastFeed = p
	out := []model.MomentView{}
	for _, m := range r.moments {
		if m.IsOpen(p.Now) {
			out = append(out, model.MomentView{Moment: *m})
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByCreator(_ context.Context, creatorID uuid.UUID) ([]model.MomentView, error) {
	out := []model.MomentView{}
	for _, m := range r.moments {
		if m.CreatorID == creatorID {
			out = append(out, model.MomentView{Moment: *m})
		}
	}
	return out, nil
}

func (r *fakeRepo) Cancel(_ context.Context, id uuid.UUID) (bool, error) {
	m := r.moments[id]
	if m.Status != model.StatusActive {
		return false, nil
	}
	m.Status = model.StatusCancelled
	return true, nil
}

func (r *fakeRepo) CreatorStanding(_ context.Context, _ uuid.UUID) (*model.Standing, error) {
	s := r.standing
	return &s, nil
}

type fakeQuota struct {
	remaining int
	calls     int
}

func (q *fakeQuota) CanCreateMoment(_ context.Context, _ string, _ int, _ bool) (bool, error) {
	q.calls++
	if q.remaining <= 0 {
		return false, nil
	}
	q.remaining--
	return true, nil
}

func (q *fakeQuota) MomentLimit(trustLevel int, verified bool) int { return 3 + 2*trustLevel }

var feedCfg = config.FeedConfig{DefaultLimit: 20, MaxLimit: 50, EndingSoonMinutes: 60}

func newService(repo *fakeRepo, quota *fakeQuota, now time.Time) *momentService {
	s := NewMomentService(repo, quota, feedCfg).(*momentService)
	s.now = func() time.Time { return now }
	return s
}

func validRequest() model.CreateMomentRequest {
	return model.CreateMomentRequest{
		Type:           model.TypeNeed,
		Title:          "Borrow a ladder",
		Description:    "Need a 3m ladder for an hour to clear gutters",
		Category:       "Home & Garden",
		RewardType:     model.RewardSwap,
		ApproxArea:     "Islington",
		ExpiresInHours: 2,
	}
}

func TestCreate_AppliesQuota(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	quota := &fakeQuota{remaining: 1}
	svc := newService(repo, quota, now)
	ctx := context.Background()
	creator := uuid.New()

	v, err := svc.Create(ctx, creator, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Swap", v.RewardLabel)
	assert.Equal(t, 120, v.MinutesRemaining)
	assert.Equal(t, "2h", v.TimeRemaining)

	_, err = svc.Create(ctx, creator, validRequest())
	var mErr *model.MomentError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, model.ErrCodeRateLimited, mErr.Code)
	assert.Len(t, repo.moments, 1)
}

func TestCreate_InvalidSkipsQuota(t *testing.T) {
	quota := &fakeQuota{remaining: 5}
	svc := newService(newFakeRepo(), quota, time.Now())

	req := validRequest()
	req.Title = "ab"
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.Error(t, err)
	assert.Zero(t, quota.calls)
}

func TestFeed_NormalisesParams(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	svc := newService(repo, &fakeQuota{}, now)
	viewer := uuid.New()

	_, err := svc.Feed(context.Background(), FeedQuery{Limit: 500, Offset: -3, ViewerID: &viewer})
	require.NoError(t, err)
	assert.Equal(t, model.FeedAll, repo.lastFeed.Mode)
	assert.Equal(t, 50, repo.lastFeed.Limit)
	assert.Equal(t, 0, repo.lastFeed.Offset)
	assert.Equal(t, 60, repo.lastFeed.EndingSoonMinutes)
	assert.Equal(t, now, repo.lastFeed.Now)
	assert.Equal(t, &viewer, repo.lastFeed.ViewerID)

	_, err = svc.Feed(context.Background(), FeedQuery{})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastFeed.Limit)

	_, err = svc.Feed(context.Background(), FeedQuery{Mode: "nearby"})
	var mErr *model.MomentError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, model.ErrCodeInvalidFeedMode, mErr.Code)
}

func TestFeed_DecoratesRows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	lat, lng := 51.5, -0.12
	m := validRequest().ToMoment(uuid.New(), now.Add(-time.Hour))
	m.Lat, m.Lng = &lat, &lng
	repo.moments[m.ID] = m

	svc := newService(repo, &fakeQuota{}, now)
	views, err := svc.Feed(context.Background(), FeedQuery{Lat: &lat, Lng: &lng})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 60, views[0].MinutesRemaining)
	assert.Equal(t, model.BandUnder500m, views[0].DistanceBand)
}

func TestCancel(t *testing.T) {
	now := time.Now()
	repo := newFakeRepo()
	creator := uuid.New()
	m := validRequest().ToMoment(creator, now)
	repo.moments[m.ID] = m
	svc := newService(repo, &fakeQuota{}, now)
	ctx := context.Background()

	err := svc.Cancel(ctx, uuid.New(), m.ID)
	assert.ErrorIs(t, err, model.ErrNotCreator)

	require.NoError(t, svc.Cancel(ctx, creator, m.ID))
	assert.Equal(t, model.StatusCancelled, repo.moments[m.ID].Status)

	err = svc.Cancel(ctx, creator, m.ID)
	assert.ErrorIs(t, err, model.ErrNotActive)

	err = svc.Cancel(ctx, creator, uuid.New())
	assert.ErrorIs(t, err, model.ErrMomentNotFound)
}
