package service

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/block/model"
)

type ServiceInterface interface {
	Block(ctx context.Context, blockerID uuid.UUID, req model.CreateBlockRequest) (*model.Block, error)
	Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error
	List(ctx context.Context, blockerID uuid.UUID) ([]model.BlockedUser, error)

	// IsBlockedEither reports whether a blocked b or b blocked a.
	IsBlockedEither(ctx context.Context, a, b uuid.UUID) (bool, error)
}
