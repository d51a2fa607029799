package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	momentModel "moments-backend/internal/domains/moment/model"
	"moments-backend/internal/domains/review/model"
	"moments-backend/internal/domains/review/repository"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo repository.ReviewRepository
	now        func() time.Time
}

func NewReviewService(reviewRepo repository.ReviewRepository) ServiceInterface {
	return &reviewService{reviewRepo: reviewRepo, now: time.Now}
}

// =====================================================
// CREATE REVIEW
// =====================================================

func (s *reviewService) CreateReview(
	ctx context.Context,
	fromID uuid.UUID,
	momentID uuid.UUID,
	req model.CreateReviewRequest,
) (*model.Review, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Check eligibility
	p, err := s.reviewRepo.Participants(ctx, momentID)
	if err != nil {
		if errors.Is(err, model.ErrMomentNotFound) {
			return nil, model.NewMomentNotFoundError()
		}
		return nil, err
	}
	if p.MomentStatus != momentModel.StatusMatched {
		return nil, model.NewNotEligibleError("moment has not been matched")
	}
	toID, ok := p.Counterpart(fromID)
	if !ok {
		return nil, model.NewNotEligibleError("only the creator and the accepted applicant can review")
	}

	// Step 3: Create review entity
	review := &model.Review{
		ID:        uuid.New(),
		MomentID:  momentID,
		FromID:    fromID,
		ToID:      toID,
		Rating:    req.Rating,
		Note:      trimNote(req.Note),
		CreatedAt: s.now(),
	}

	// Step 4: Save (rating recomputed in the same transaction)
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, model.ErrAlreadyReviewed) {
			return nil, model.NewAlreadyReviewedError()
		}
		return nil, err
	}

	logger.Info("review created", map[string]interface{}{
		"review_id": review.ID.String(),
		"moment_id": momentID.String(),
		"to_id":     toID.String(),
		"rating":    review.Rating,
	})

	return review, nil
}

// =====================================================
// LIST REVIEWS
// =====================================================

func (s *reviewService) ListForProfile(ctx context.Context, toID uuid.UUID, page, limit int) (*model.ProfileReviewsResponse, int, error) {
	_, limit, offset := utils.NormalizePage(page, limit, model.DefaultPageSize, model.MaxPageSize)

	summary, err := s.reviewRepo.Summary(ctx, toID)
	if err != nil {
		return nil, 0, err
	}

	reviews, total, err := s.reviewRepo.ListByTarget(ctx, toID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return &model.ProfileReviewsResponse{Summary: *summary, Reviews: reviews}, total, nil
}

func trimNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
