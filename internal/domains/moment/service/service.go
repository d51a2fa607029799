package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/config"
	"moments-backend/internal/domains/moment/model"
	"moments-backend/internal/domains/moment/repository"
	"moments-backend/pkg/logger"
)

type momentService struct {
	repo  repository.MomentRepository
	quota QuotaChecker
	feed  config.FeedConfig
	now   func() time.Time
}

func NewMomentService(repo repository.MomentRepository, quota QuotaChecker, feed config.FeedConfig) ServiceInterface {
	return &momentService{repo: repo, quota: quota, feed: feed, now: time.Now}
}

func (s *momentService) Create(ctx context.Context, creatorID uuid.UUID, req model.CreateMomentRequest) (*model.MomentView, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. CHECK QUOTA
	standing, err := s.repo.CreatorStanding(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.quota.CanCreateMoment(ctx, creatorID.String(), standing.TrustLevel, standing.IsVerified)
	if err != nil {
		return nil, fmt.Errorf("check moment quota: %w", err)
	}
	if !allowed {
		return nil, model.NewRateLimitedError(s.quota.MomentLimit(standing.TrustLevel, standing.IsVerified))
	}

	// 3. PERSIST
	m := req.ToMoment(creatorID, s.now())
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	logger.Info("moment created", map[string]interface{}{
		"moment_id":  m.ID.String(),
		"creator_id": creatorID.String(),
		"type":       m.Type,
		"expires_at": m.ExpiresAt,
	})

	return s.Get(ctx, m.ID, m.Lat, m.Lng)
}

func (s *momentService) Get(ctx context.Context, id uuid.UUID, lat, lng *float64) (*model.MomentView, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrMomentNotFound) {
			return nil, model.NewMomentNotFoundError()
		}
		return nil, err
	}
	v.Decorate(s.now(), lat, lng)
	return v, nil
}

func (s *momentService) Feed(ctx context.Context, q FeedQuery) ([]model.MomentView, error) {
	if q.Mode == "" {
		q.Mode = model.FeedAll
	}
	if !model.ValidFeedMode(q.Mode) {
		return nil, model.NewInvalidFeedModeError(q.Mode)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = s.feed.DefaultLimit
	}
	if limit > s.feed.MaxLimit {
		limit = s.feed.MaxLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	now := s.now()
	views, err := s.repo.Feed(ctx, model.FeedParams{
		Mode:              q.Mode,
		Lat:               q.Lat,
		Lng:               q.Lng,
		Limit:             limit,
		Offset:            offset,
		ViewerID:          q.ViewerID,
		Now:               now,
		EndingSoonMinutes: s.feed.EndingSoonMinutes,
	})
	if err != nil {
		return nil, err
	}

	for i := range views {
		views[i].Decorate(now, q.Lat, q.Lng)
	}
	return views, nil
}

func (s *momentService) Mine(ctx context.Context, creatorID uuid.UUID) ([]model.MomentView, error) {
	views, err := s.repo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range views {
		views[i].Decorate(now, nil, nil)
	}
	return views, nil
}

func (s *momentService) Cancel(ctx context.Context, creatorID, id uuid.UUID) error {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrMomentNotFound) {
			return model.NewMomentNotFoundError()
		}
		return err
	}
	if v.CreatorID != creatorID {
		return model.NewNotCreatorError()
	}
	if v.Status != model.StatusActive {
		return model.NewNotActiveError()
	}

	cancelled, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return err
	}
	if !cancelled {
		return model.NewNotActiveError()
	}
	return nil
}
