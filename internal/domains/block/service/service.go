package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"moments-backend/internal/domains/block/model"
	"moments-backend/internal/domains/block/repository"
)

type blockService struct {
	repo repository.BlockRepository
}

func NewBlockService(repo repository.BlockRepository) ServiceInterface {
	return &blockService{repo: repo}
}

func (s *blockService) Block(ctx context.Context, blockerID uuid.UUID, req model.CreateBlockRequest) (*model.Block, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	blockedID := uuid.MustParse(req.BlockedUserID)
	if blockedID == blockerID {
		return nil, model.NewSelfBlockError()
	}

	exists, err := s.repo.ProfileExists(ctx, blockedID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.NewUserNotFoundError()
	}

	b := &model.Block{BlockerID: blockerID, BlockedID: blockedID, Reason: req.Reason}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("block user: %w", err)
	}
	return b, nil
}

func (s *blockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, blockerID, blockedID)
	if err != nil {
		return fmt.Errorf("unblock user: %w", err)
	}
	if !deleted {
		return model.NewNotBlockedError()
	}
	return nil
}

func (s *blockService) List(ctx context.Context, blockerID uuid.UUID) ([]model.BlockedUser, error) {
	return s.repo.ListByBlocker(ctx, blockerID)
}

func (s *blockService) IsBlockedEither(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if a == b {
		return false, nil
	}
	return s.repo.IsBlockedEither(ctx, a, b)
}
