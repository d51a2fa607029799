package service

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/application/model"
)

type ServiceInterface interface {
	Apply(ctx context.Context, applicantID, momentID uuid.UUID, req model.ApplyRequest) (*model.Application, error)
	ListForMoment(ctx context.Context, creatorID, momentID uuid.UUID) ([]model.ApplicationView, error)
	ListMine(ctx context.Context, applicantID uuid.UUID) ([]model.ApplicationView, error)
	Accept(ctx context.Context, creatorID, id uuid.UUID) (*model.AcceptResult, error)
	Reject(ctx context.Context, creatorID, id uuid.UUID) error
	Withdraw(ctx context.Context, applicantID, id uuid.UUID) error
}

type BlockChecker interface {
	IsBlockedEither(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// QuotaChecker is satisfied by ratelimit.Policy.
type QuotaChecker interface {
	CanApply(ctx context.Context, userID string, trustLevel int) (bool, error)
	ApplyLimit(trustLevel int) int
}
