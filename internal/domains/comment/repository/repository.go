package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moments-backend/internal/domains/comment/model"
)

type CommentRepository interface {
	FindPost(ctx context.Context, postID uuid.UUID) (*model.PostRef, error)
	// ListByPost returns live comments oldest first.
	ListByPost(ctx context.Context, postID uuid.UUID) ([]model.CommentView, error)
	Create(ctx context.Context, c *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CommentView, error)
	UpdateBody(ctx context.Context, c *model.Comment) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AuthorName(ctx context.Context, userID uuid.UUID) (string, error)
}

const viewSelect = `
	SELECT c.id, c.post_id, c.author_id, c.body, c.is_deleted, c.created_at, c.updated_at,
	       a.display_name, a.username, a.avatar_url, a.is_verified, a.trust_level
	FROM comments c
	JOIN profiles a ON a.id = c.author_id`

type postgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresCommentRepository{pool: pool}
}

func (r *postgresCommentRepository) FindPost(ctx context.Context, postID uuid.UUID) (*model.PostRef, error) {
	ref := &model.PostRef{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, author_id FROM posts WHERE id = $1 AND NOT is_deleted`, postID,
	).Scan(&ref.ID, &ref.AuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return ref, nil
}

func (r *postgresCommentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.CommentView, error) {
	rows, err := r.pool.Query(ctx, viewSelect+`
		WHERE c.post_id = $1 AND NOT c.is_deleted
		ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	out, err := pgx.CollectRows(rows, scanView)
	if err != nil {
		return nil, fmt.Errorf("failed to scan comments: %w", err)
	}
	return out, nil
}

func (r *postgresCommentRepository) Create(ctx context.Context, c *model.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, post_id, author_id, body, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)`,
		c.ID, c.PostID, c.AuthorID, c.Body, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *postgresCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CommentView, error) {
	rows, err := r.pool.Query(ctx, viewSelect+` WHERE c.id = $1 AND NOT c.is_deleted`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	v, err := pgx.CollectExactlyOneRow(rows, scanView)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &v, nil
}

func (r *postgresCommentRepository) UpdateBody(ctx context.Context, c *model.Comment) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET body = $2, updated_at = $3 WHERE id = $1 AND NOT is_deleted`,
		c.ID, c.Body, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *postgresCommentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *postgresCommentRepository) AuthorName(ctx context.Context, userID uuid.UUID) (string, error) {
	var name string
	if err := r.pool.QueryRow(ctx,
		`SELECT display_name FROM profiles WHERE id = $1`, userID).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to get display name: %w", err)
	}
	return name, nil
}

func scanView(row pgx.CollectableRow) (model.CommentView, error) {
	var v model.CommentView
	err := row.Scan(
		&v.ID, &v.PostID, &v.AuthorID, &v.Body, &v.IsDeleted, &v.CreatedAt, &v.UpdatedAt,
		&v.Author.DisplayName, &v.Author.Username, &v.Author.AvatarURL,
		&v.Author.IsVerified, &v.Author.TrustLevel,
	)
	v.Author.ID = v.AuthorID.String()
	return v, err
}
