package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	notificationModel "moments-backend/internal/domains/notification/model"
	notificationService "moments-backend/internal/domains/notification/service"
	"moments-backend/internal/domains/post/model"
	"moments-backend/internal/domains/post/repository"
	"moments-backend/internal/infrastructure/queue"
	"moments-backend/internal/infrastructure/storage"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

type postService struct {
	repo        repository.PostRepository
	attachments repository.AttachmentRepository
	storage     storage.ObjectStorage
	images      *storage.ImageProcessor
	enqueuer    queue.Enqueuer
	notifier    notificationService.Notifier
	bucket      string
	pageSize    int
	now         func() time.Time
}

func NewPostService(
	repo repository.PostRepository,
	attachments repository.AttachmentRepository,
	objectStorage storage.ObjectStorage,
	images *storage.ImageProcessor,
	enqueuer queue.Enqueuer,
	notifier notificationService.Notifier,
	bucket string,
	pageSize int,
) ServiceInterface {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &postService{
		repo:        repo,
		attachments: attachments,
		storage:     objectStorage,
		images:      images,
		enqueuer:    enqueuer,
		notifier:    notifier,
		bucket:      bucket,
		pageSize:    pageSize,
		now:         time.Now,
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, req model.PostRequest) (*model.PostView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	p := &model.Post{ID: uuid.New(), AuthorID: authorID, CreatedAt: now, UpdatedAt: now}
	req.Apply(p)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, authorID, p.ID)
}

func (s *postService) Get(ctx context.Context, viewerID, id uuid.UUID) (*model.PostView, error) {
	v, err := s.repo.FindView(ctx, id, viewerID)
	if err != nil {
		return nil, translate(err)
	}
	return v, nil
}

func (s *postService) Update(ctx context.Context, userID, id uuid.UUID, req model.PostRequest) (*model.PostView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.ownedPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, userID, id)
}

// Delete hides the post and purges its stored files. The attachment rows
// stay with the soft-deleted post.
func (s *postService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedPost(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return translate(err)
	}

	prefix := attachmentPrefix(userID, id)
	if err := s.storage.DeleteByPrefix(ctx, s.bucket, prefix); err != nil {
		logger.Warn("[POST] Failed to purge attachment objects", map[string]interface{}{
			"post_id": id.String(),
			"prefix":  prefix,
			"error":   err.Error(),
		})
	}
	return nil
}

func (s *postService) Feed(ctx context.Context, viewerID uuid.UUID, page int) ([]model.PostView, error) {
	_, limit, offset := utils.NormalizePage(page, s.pageSize, s.pageSize, s.pageSize)
	return s.repo.Feed(ctx, viewerID, limit, offset)
}

func (s *postService) ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, page int) ([]model.PostView, error) {
	_, limit, offset := utils.NormalizePage(page, s.pageSize, s.pageSize, s.pageSize)
	return s.repo.ListByAuthor(ctx, authorID, viewerID, limit, offset)
}

// React toggles the caller's reaction; only a newly added one notifies the author.
func (s *postService) React(ctx context.Context, userID, postID uuid.UUID, req model.ReactRequest) (*model.ReactionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, translate(err)
	}

	result, err := s.repo.ToggleReaction(ctx, postID, userID, req.ReactionType)
	if err != nil {
		return nil, err
	}

	if result.Action == model.ReactionAdded && p.AuthorID != userID {
		s.notifyReaction(ctx, p, userID, req.ReactionType)
	}
	return result, nil
}

func (s *postService) notifyReaction(ctx context.Context, p *model.Post, actorID uuid.UUID, reactionType string) {
	name, err := s.repo.AuthorName(ctx, actorID)
	if err != nil {
		name = "Someone"
	}

	link := "/post/" + p.ID.String()
	_, err = s.notifier.Notify(ctx, notificationModel.NotifyInput{
		UserID: p.AuthorID,
		Type:   notificationModel.TypeReaction,
		Title:  "New reaction",
		Body:   fmt.Sprintf("%s reacted to your post", name),
		Link:   &link,
		Data: map[string]any{
			"post_id":       p.ID.String(),
			"reaction_type": reactionType,
		},
		ActorID: &actorID,
		PostID:  &p.ID,
	})
	if err != nil {
		logger.Error("Failed to notify post reaction", err)
	}
}

func (s *postService) Save(ctx context.Context, userID, postID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, postID); err != nil {
		return translate(err)
	}
	return s.repo.Save(ctx, userID, postID)
}

func (s *postService) Unsave(ctx context.Context, userID, postID uuid.UUID) error {
	return s.repo.Unsave(ctx, userID, postID)
}

func (s *postService) ListSaved(ctx context.Context, userID uuid.UUID, page int) ([]model.PostView, error) {
	_, limit, offset := utils.NormalizePage(page, s.pageSize, s.pageSize, s.pageSize)
	return s.repo.ListSaved(ctx, userID, limit, offset)
}

func (s *postService) ownedPost(ctx context.Context, userID, id uuid.UUID) (*model.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if p.AuthorID != userID {
		return nil, model.NewNotAuthorError()
	}
	return p, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrPostNotFound):
		return model.NewPostNotFoundError()
	case errors.Is(err, model.ErrAttachmentNotFound):
		return model.NewAttachmentNotFoundError()
	}
	return err
}

// objectName: <unixms>-<rand>.<ext>
// attachmentPrefix is the object directory holding a post's uploads and
// their thumbnails.
func attachmentPrefix(uploaderID, postID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/", uploaderID, postID)
}

func objectName(now time.Time, ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%d-%s.%s", now.UnixMilli(), suffix, ext)
}
