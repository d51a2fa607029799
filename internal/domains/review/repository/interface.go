package repository

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/review/model"
)

// =====================================================
// REVIEW REPOSITORY INTERFACE
// =====================================================

type ReviewRepository interface {
	// Participants loads the moment status, its creator and the accepted applicant.
	Participants(ctx context.Context, momentID uuid.UUID) (*model.Participants, error)

	// Create inserts the review and recomputes the target's rating in one
	// transaction. A second review of the same moment returns ErrAlreadyReviewed.
	Create(ctx context.Context, review *model.Review) error

	// ListByTarget lists reviews received by a profile, newest first.
	ListByTarget(ctx context.Context, toID uuid.UUID, limit, offset int) ([]model.ReviewView, int, error)

	// Summary returns the stored rating plus a count per star.
	Summary(ctx context.Context, toID uuid.UUID) (*model.RatingSummary, error)
}
