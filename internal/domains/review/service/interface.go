package service

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/review/model"
)

type ServiceInterface interface {
	// CreateReview lets the creator and the accepted applicant of a matched
	// moment rate each other once.
	CreateReview(ctx context.Context, fromID, momentID uuid.UUID, req model.CreateReviewRequest) (*model.Review, error)

	// ListForProfile returns the rating summary and one page of received reviews.
	ListForProfile(ctx context.Context, toID uuid.UUID, page, limit int) (*model.ProfileReviewsResponse, int, error)
}
