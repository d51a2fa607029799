package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moments-backend/internal/domains/expiry/model"
	notificationModel "moments-backend/internal/domains/notification/model"
	"moments-backend/internal/infrastructure/metrics"
)

type fakeMoment struct {
	model.ExpiredMoment
	status    string
	expiresAt time.Time
}

type fakeRepo struct {
	moments []*fakeMoment
	err     error
	calls   int
}

func (r *fakeRepo) ExpireDue(_ context.Context, now time.Time) (*model.Outcome, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := &model.Outcome{}
	for _, m := range r.moments {
		if m.status == "active" && m.expiresAt.Before(now) {
			m.status = "expired"
			out.Moments = append(out.Moments, m.ExpiredMoment)
			n, err := model.Notice(m.ExpiredMoment).ToNotification(now)
			if err != nil {
				return nil, err
			}
			out.Notifications = append(out.Notifications, *n)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	published []notificationModel.Notification
}

func (p *recordingPublisher) Published(_ context.Context, ns []notificationModel.Notification) {
	p.published = append(p.published, ns...)
}

var now = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

func moment(title, status string, expiresAt time.Time) *fakeMoment {
	return &fakeMoment{
		ExpiredMoment: model.ExpiredMoment{ID: uuid.New(), CreatorID: uuid.New(), Title: title},
		status:        status,
		expiresAt:     expiresAt,
	}
}

func TestSweep_ExpiresOnlyActiveAndDue(t *testing.T) {
	due := moment("Dog walk", "active", now.Add(-time.Minute))
	future := moment("Lunch", "active", now.Add(time.Hour))
	matched := moment("Ladder", "matched", now.Add(-time.Hour))
	repo := &fakeRepo{moments: []*fakeMoment{due, future, matched}}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub)

	before := testutil.ToFloat64(metrics.MomentsExpiredTotal)

	res, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, []uuid.UUID{due.ID}, res.MomentIDs)
	assert.Equal(t, model.MessageExpired, res.Message)
	assert.Equal(t, "active", future.status)
	assert.Equal(t, "matched", matched.status)

	require.Len(t, pub.published, 1)
	n := pub.published[0]
	assert.Equal(t, due.CreatorID, n.UserID)
	assert.Equal(t, notificationModel.TypeMomentExpired, n.Type)
	assert.Equal(t, "Moment Expired", n.Title)
	assert.Equal(t, `Your moment "Dog walk" has expired`, n.Body)

	var data map[string]string
	require.NoError(t, json.Unmarshal(n.Data, &data))
	assert.Equal(t, due.ID.String(), data["moment_id"])

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MomentsExpiredTotal))
}

func TestSweep_NothingDue(t *testing.T) {
	repo := &fakeRepo{moments: []*fakeMoment{moment("Later", "active", now.Add(time.Minute))}}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub)

	res, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.MomentIDs)
	assert.Empty(t, res.MomentIDs)
	assert.Equal(t, model.MessageNoneExpired, res.Message)
	assert.Empty(t, pub.published)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"moment_ids":[],"message":"No expired moments found"}`, string(raw))
}

func TestSweep_IsIdempotent(t *testing.T) {
	repo := &fakeRepo{moments: []*fakeMoment{moment("Once", "active", now.Add(-time.Second))}}
	svc := NewService(repo, &recordingPublisher{})

	first, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)
	second, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Count)
	assert.Equal(t, 0, second.Count)
}

func TestSweep_PropagatesError(t *testing.T) {
	boom := errors.New("connection reset")
	pub := &recordingPublisher{}
	svc := NewService(&fakeRepo{err: boom}, pub)

	before := testutil.ToFloat64(metrics.ExpirySweepsTotal.WithLabelValues("error"))

	res, err := svc.Sweep(context.Background(), now)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, pub.published)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ExpirySweepsTotal.WithLabelValues("error")))
}

func TestSweepNow_UsesClock(t *testing.T) {
	repo := &fakeRepo{moments: []*fakeMoment{moment("Edge", "active", now)}}
	svc := NewService(repo, nil)

	svc.clock = func() time.Time { return now }
	res, err := svc.SweepNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count, "expires_at equal to now is not yet expired")

	svc.clock = func() time.Time { return now.Add(time.Nanosecond) }
	res, err = svc.SweepNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
}
