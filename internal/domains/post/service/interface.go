package service

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/post/model"
	"moments-backend/internal/shared"
)

type ServiceInterface interface {
	Create(ctx context.Context, authorID uuid.UUID, req model.PostRequest) (*model.PostView, error)
	Get(ctx context.Context, viewerID, id uuid.UUID) (*model.PostView, error)
	Update(ctx context.Context, userID, id uuid.UUID, req model.PostRequest) (*model.PostView, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	Feed(ctx context.Context, viewerID uuid.UUID, page int) ([]model.PostView, error)
	ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, page int) ([]model.PostView, error)

	React(ctx context.Context, userID, postID uuid.UUID, req model.ReactRequest) (*model.ReactionResult, error)

	Save(ctx context.Context, userID, postID uuid.UUID) error
	Unsave(ctx context.Context, userID, postID uuid.UUID) error
	ListSaved(ctx context.Context, userID uuid.UUID, page int) ([]model.PostView, error)

	UploadAttachment(ctx context.Context, userID, postID uuid.UUID, in model.UploadInput) (*model.Attachment, error)
	ListAttachments(ctx context.Context, postID uuid.UUID) ([]model.Attachment, error)
	DeleteAttachment(ctx context.Context, userID, postID, attachmentID uuid.UUID) error

	// GenerateThumbnail is run by the worker for image attachments.
	GenerateThumbnail(ctx context.Context, payload shared.AttachmentThumbnailPayload) error
}
