package repository

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/block/model"
)

type BlockRepository interface {
	// Create is a no-op when the block already exists.
	Create(ctx context.Context, b *model.Block) error
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
	ListByBlocker(ctx context.Context, blockerID uuid.UUID) ([]model.BlockedUser, error)
	IsBlockedEither(ctx context.Context, a, b uuid.UUID) (bool, error)
	ProfileExists(ctx context.Context, id uuid.UUID) (bool, error)
}
