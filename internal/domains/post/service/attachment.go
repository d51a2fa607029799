package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"moments-backend/internal/domains/post/model"
	"moments-backend/internal/infrastructure/storage"
	"moments-backend/internal/shared"
	"moments-backend/pkg/logger"
)

// UploadAttachment stores the file at <uid>/<postId>/<unixms>-<rand>.<ext>
// and queues a thumbnail for images.
func (s *postService) UploadAttachment(ctx context.Context, userID, postID uuid.UUID, in model.UploadInput) (*model.Attachment, error) {
	if _, err := s.ownedPost(ctx, userID, postID); err != nil {
		return nil, err
	}

	if len(in.Data) > model.MaxAttachmentBytes {
		return nil, model.NewAttachmentTooLargeError()
	}
	ext, ok := model.AttachmentExtension(in.ContentType)
	if !ok {
		return nil, model.NewUnsupportedAttachmentError(in.ContentType)
	}
	isImage := storage.IsImageContentType(in.ContentType)
	if isImage {
		if err := s.images.ValidateImage(in.Data); err != nil {
			return nil, model.NewInvalidImageAttachmentError(err)
		}
	}

	count, err := s.attachments.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxAttachmentsPerPost {
		return nil, model.NewTooManyAttachmentsError()
	}

	now := s.now()
	objectPath := attachmentPrefix(userID, postID) + objectName(now, ext)

	url, err := s.storage.Upload(ctx, s.bucket, objectPath, in.Data, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}

	a := &model.Attachment{
		ID:          uuid.New(),
		PostID:      postID,
		UploaderID:  userID,
		Bucket:      s.bucket,
		ObjectPath:  objectPath,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		SizeBytes:   int64(len(in.Data)),
		URL:         url,
		CreatedAt:   now,
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		if delErr := s.storage.Delete(ctx, s.bucket, objectPath); delErr != nil {
			logger.Error("Failed to remove orphaned attachment object", delErr)
		}
		return nil, err
	}

	if isImage {
		err := s.enqueuer.EnqueueAttachmentThumbnail(ctx, shared.AttachmentThumbnailPayload{
			AttachmentID: a.ID.String(),
			Bucket:       a.Bucket,
			ObjectPath:   a.ObjectPath,
		})
		if err != nil {
			logger.Warn("Failed to enqueue attachment thumbnail", map[string]interface{}{
				"attachment_id": a.ID.String(),
				"error":         err.Error(),
			})
		}
	}

	return a, nil
}

func (s *postService) ListAttachments(ctx context.Context, postID uuid.UUID) ([]model.Attachment, error) {
	if _, err := s.repo.FindByID(ctx, postID); err != nil {
		return nil, translate(err)
	}

	list, err := s.attachments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.withURLs(&list[i])
	}
	return list, nil
}

// DeleteAttachment is allowed to the uploader only and removes the stored
// object and its thumbnail.
func (s *postService) DeleteAttachment(ctx context.Context, userID, postID, attachmentID uuid.UUID) error {
	a, err := s.attachments.FindByID(ctx, attachmentID)
	if err != nil {
		return translate(err)
	}
	if a.PostID != postID {
		return model.NewAttachmentNotFoundError()
	}
	if a.UploaderID != userID {
		return model.NewNotAuthorError()
	}

	if err := s.storage.Delete(ctx, a.Bucket, a.ObjectPath); err != nil {
		return fmt.Errorf("delete attachment object: %w", err)
	}
	if err := s.attachments.Delete(ctx, a.ID); err != nil {
		return translate(err)
	}

	if a.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, a.Bucket, *a.ThumbnailPath); err != nil {
			logger.Warn("Failed to delete attachment thumbnail", map[string]interface{}{
				"attachment_id": a.ID.String(),
				"error":         err.Error(),
			})
		}
	}
	return nil
}

func (s *postService) GenerateThumbnail(ctx context.Context, payload shared.AttachmentThumbnailPayload) error {
	id, err := uuid.Parse(payload.AttachmentID)
	if err != nil {
		return fmt.Errorf("invalid attachment id %q: %w", payload.AttachmentID, err)
	}

	data, err := s.storage.Download(ctx, payload.Bucket, payload.ObjectPath)
	if err != nil {
		return err
	}

	thumb, err := s.images.Thumbnail(data, storage.ThumbnailSize)
	if err != nil {
		return err
	}

	key := storage.ThumbnailKey(payload.ObjectPath)
	if _, err := s.storage.Upload(ctx, payload.Bucket, key, thumb, "image/jpeg"); err != nil {
		return err
	}
	return s.attachments.SetThumbnail(ctx, id, key)
}

func (s *postService) withURLs(a *model.Attachment) {
	a.URL = s.storage.URL(a.Bucket, a.ObjectPath)
	if a.ThumbnailPath != nil {
		u := s.storage.URL(a.Bucket, *a.ThumbnailPath)
		a.ThumbnailURL = &u
	}
}
