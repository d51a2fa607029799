package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/domains/comment/model"
	"moments-backend/internal/domains/comment/repository"
	notificationModel "moments-backend/internal/domains/notification/model"
	notificationService "moments-backend/internal/domains/notification/service"
	"moments-backend/pkg/logger"
)

type ServiceInterface interface {
	List(ctx context.Context, postID uuid.UUID) ([]model.CommentView, error)
	Create(ctx context.Context, authorID, postID uuid.UUID, req model.CommentRequest) (*model.CommentView, error)
	Update(ctx context.Context, userID, id uuid.UUID, req model.CommentRequest) (*model.CommentView, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type commentService struct {
	repo     repository.CommentRepository
	notifier notificationService.Notifier
	now      func() time.Time
}

func NewCommentService(repo repository.CommentRepository, notifier notificationService.Notifier) ServiceInterface {
	return &commentService{repo: repo, notifier: notifier, now: time.Now}
}

func (s *commentService) List(ctx context.Context, postID uuid.UUID) ([]model.CommentView, error) {
	if _, err := s.repo.FindPost(ctx, postID); err != nil {
		return nil, translate(err)
	}
	return s.repo.ListByPost(ctx, postID)
}

// Create notifies the post author unless they commented on their own post.
func (s *commentService) Create(ctx context.Context, authorID, postID uuid.UUID, req model.CommentRequest) (*model.CommentView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post, err := s.repo.FindPost(ctx, postID)
	if err != nil {
		return nil, translate(err)
	}

	now := s.now()
	c := &model.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  authorID,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if post.AuthorID != authorID {
		s.notifyComment(ctx, post, c)
	}

	return s.get(ctx, c.ID)
}

func (s *commentService) notifyComment(ctx context.Context, post *model.PostRef, c *model.Comment) {
	name, err := s.repo.AuthorName(ctx, c.AuthorID)
	if err != nil {
		name = "Someone"
	}

	link := "/post/" + post.ID.String()
	_, err = s.notifier.Notify(ctx, notificationModel.NotifyInput{
		UserID: post.AuthorID,
		Type:   notificationModel.TypeComment,
		Title:  "New comment",
		Body:   fmt.Sprintf("%s commented on your post", name),
		Link:   &link,
		Data: map[string]any{
			"post_id":    post.ID.String(),
			"comment_id": c.ID.String(),
		},
		ActorID:   &c.AuthorID,
		PostID:    &post.ID,
		CommentID: &c.ID,
	})
	if err != nil {
		logger.Error("Failed to notify comment", err)
	}
}

func (s *commentService) Update(ctx context.Context, userID, id uuid.UUID, req model.CommentRequest) (*model.CommentView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	c := existing.Comment
	c.Body = req.Body
	c.UpdatedAt = s.now()
	if err := s.repo.UpdateBody(ctx, &c); err != nil {
		return nil, translate(err)
	}
	return s.get(ctx, id)
}

func (s *commentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return translate(s.repo.SoftDelete(ctx, id))
}

func (s *commentService) owned(ctx context.Context, userID, id uuid.UUID) (*model.CommentView, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != userID {
		return nil, model.NewNotAuthorError()
	}
	return c, nil
}

func (s *commentService) get(ctx context.Context, id uuid.UUID) (*model.CommentView, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrCommentNotFound):
		return model.NewCommentNotFoundError()
	case errors.Is(err, model.ErrPostNotFound):
		return model.NewPostNotFoundError()
	}
	return err
}
