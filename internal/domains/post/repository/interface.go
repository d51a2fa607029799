package repository

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/post/model"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	// FindByID skips soft-deleted posts.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindView(ctx context.Context, id, viewerID uuid.UUID) (*model.PostView, error)
	Update(ctx context.Context, p *model.Post) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Feed lists posts by viewerID and everyone viewerID follows, newest first.
	Feed(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]model.PostView, error)
	ListByAuthor(ctx context.Context, authorID, viewerID uuid.UUID, limit, offset int) ([]model.PostView, error)
	ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PostView, error)

	// ToggleReaction removes the reaction when it matches the current one,
	// replaces it when it differs, and adds it otherwise.
	ToggleReaction(ctx context.Context, postID, userID uuid.UUID, reactionType string) (*model.ReactionResult, error)

	Save(ctx context.Context, userID, postID uuid.UUID) error
	Unsave(ctx context.Context, userID, postID uuid.UUID) error

	AuthorName(ctx context.Context, userID uuid.UUID) (string, error)
}

type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) error
	CountByPost(ctx context.Context, postID uuid.UUID) (int, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Attachment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetThumbnail(ctx context.Context, id uuid.UUID, path string) error
}
