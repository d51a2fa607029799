package service

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/moment/model"
)

type ServiceInterface interface {
	Create(ctx context.Context, creatorID uuid.UUID, req model.CreateMomentRequest) (*model.MomentView, error)
	Get(ctx context.Context, id uuid.UUID, lat, lng *float64) (*model.MomentView, error)
	Feed(ctx context.Context, q FeedQuery) ([]model.MomentView, error)
	Mine(ctx context.Context, creatorID uuid.UUID) ([]model.MomentView, error)
	Cancel(ctx context.Context, creatorID, id uuid.UUID) error
}

// QuotaChecker is satisfied by ratelimit.Policy.
type QuotaChecker interface {
	CanCreateMoment(ctx context.Context, userID string, trustLevel int, verified bool) (bool, error)
	MomentLimit(trustLevel int, verified bool) int
}

type FeedQuery struct {
	Mode     string
	Lat      *float64
	Lng      *float64
	Limit    int
	Offset   int
	ViewerID *uuid.UUID
}
