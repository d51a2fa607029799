package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/domains/expiry/model"
	"moments-backend/internal/domains/expiry/repository"
	notificationModel "moments-backend/internal/domains/notification/model"
	"moments-backend/internal/infrastructure/metrics"
	"moments-backend/pkg/logger"
)

// Publisher pushes notifications that are already stored.
type Publisher interface {
	Published(ctx context.Context, notifications []notificationModel.Notification)
}

type Service struct {
	repo      repository.ExpiryRepository
	publisher Publisher
	clock     func() time.Time
}

func NewService(repo repository.ExpiryRepository, publisher Publisher) *Service {
	return &Service{repo: repo, publisher: publisher, clock: time.Now}
}

// Sweep expires everything due at now. The first database error aborts
// and rolls back the whole sweep.
func (s *Service) Sweep(ctx context.Context, now time.Time) (*model.SweepResult, error) {
	start := s.clock()

	out, err := s.repo.ExpireDue(ctx, now)
	if err != nil {
		metrics.RecordSweep(0, s.clock().Sub(start).Seconds(), err)
		logger.Error("[EXPIRY] Sweep failed", err)
		return nil, err
	}
	metrics.RecordSweep(len(out.Moments), s.clock().Sub(start).Seconds(), nil)

	result := &model.SweepResult{
		Count:     len(out.Moments),
		MomentIDs: make([]uuid.UUID, 0, len(out.Moments)),
	}
	if result.Count == 0 {
		result.Message = model.MessageNoneExpired
		return result, nil
	}

	for _, m := range out.Moments {
		result.MomentIDs = append(result.MomentIDs, m.ID)
	}
	result.Message = model.MessageExpired

	if s.publisher != nil {
		s.publisher.Published(ctx, out.Notifications)
	}

	logger.Info("[EXPIRY] Sweep completed", map[string]interface{}{
		"expired":                len(out.Moments),
		"cancelled_applications": out.CancelledApplications,
	})
	return result, nil
}

// SweepNow runs Sweep at the current time.
func (s *Service) SweepNow(ctx context.Context) (*model.SweepResult, error) {
	return s.Sweep(ctx, s.clock())
}
