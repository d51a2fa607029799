package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"moments-backend/internal/domains/follow/model"
	"moments-backend/internal/domains/follow/repository"
	notificationModel "moments-backend/internal/domains/notification/model"
	notificationService "moments-backend/internal/domains/notification/service"
	"moments-backend/pkg/logger"
)

const PageSize = 50

type ServiceInterface interface {
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	Status(ctx context.Context, viewerID, otherID uuid.UUID) (*model.FollowingStatus, error)
	Followers(ctx context.Context, userID uuid.UUID, page int) ([]model.FollowEntry, error)
	Following(ctx context.Context, userID uuid.UUID, page int) ([]model.FollowEntry, error)
}

type followService struct {
	repo     repository.FollowRepository
	notifier notificationService.Notifier
}

func NewFollowService(repo repository.FollowRepository, notifier notificationService.Notifier) ServiceInterface {
	return &followService{repo: repo, notifier: notifier}
}

// Follow is idempotent; only a new edge notifies the followed user.
func (s *followService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return model.NewSelfFollowError()
	}

	if _, err := s.repo.ProfileName(ctx, followingID); err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return model.NewProfileNotFoundError()
		}
		return err
	}

	created, err := s.repo.Follow(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	name, err := s.repo.ProfileName(ctx, followerID)
	if err != nil {
		name = "Someone"
	}

	actor := followerID
	if _, err := s.notifier.Notify(ctx, notificationModel.NotifyInput{
		UserID:  followingID,
		Type:    notificationModel.TypeFollow,
		Title:   "New follower",
		Body:    fmt.Sprintf("%s started following you", name),
		ActorID: &actor,
		Data:    map[string]any{"follower_id": followerID.String()},
	}); err != nil {
		logger.Error("follow notification failed", err)
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return model.NewSelfFollowError()
	}
	return s.repo.Unfollow(ctx, followerID, followingID)
}

func (s *followService) Status(ctx context.Context, viewerID, otherID uuid.UUID) (*model.FollowingStatus, error) {
	if viewerID == otherID {
		return &model.FollowingStatus{}, nil
	}
	return s.repo.Status(ctx, viewerID, otherID)
}

func (s *followService) Followers(ctx context.Context, userID uuid.UUID, page int) ([]model.FollowEntry, error) {
	limit, offset := pageWindow(page)
	return s.repo.Followers(ctx, userID, limit, offset)
}

func (s *followService) Following(ctx context.Context, userID uuid.UUID, page int) ([]model.FollowEntry, error) {
	limit, offset := pageWindow(page)
	return s.repo.Following(ctx, userID, limit, offset)
}

func pageWindow(page int) (int, int) {
	if page < 1 {
		page = 1
	}
	return PageSize, (page - 1) * PageSize
}
