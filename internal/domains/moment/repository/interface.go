package repository

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/moment/model"
)

type MomentRepository interface {
	Create(ctx context.Context, m *model.Moment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MomentView, error)
	Feed(ctx context.Context, p model.FeedParams) ([]model.MomentView, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.MomentView, error)

	// Cancel moves an active moment to cancelled together with its pending
	// applications. It returns false when the moment was no longer active.
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)

	CreatorStanding(ctx context.Context, userID uuid.UUID) (*model.Standing, error)
}
