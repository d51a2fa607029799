package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moments-backend/internal/domains/post/model"
)

const attachmentColumns = `
	id, post_id, uploader_id, bucket, object_path, file_name,
	content_type, size_bytes, thumbnail_path, created_at`

type postgresAttachmentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &postgresAttachmentRepository{pool: pool}
}

func (r *postgresAttachmentRepository) Create(ctx context.Context, a *model.Attachment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO post_attachments (`+attachmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.PostID, a.UploaderID, a.Bucket, a.ObjectPath, a.FileName,
		a.ContentType, a.SizeBytes, a.ThumbnailPath, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

func (r *postgresAttachmentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM post_attachments WHERE post_id = $1`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count attachments: %w", err)
	}
	return n, nil
}

func (r *postgresAttachmentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Attachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+attachmentColumns+` FROM post_attachments
		WHERE post_id = $1 ORDER BY created_at`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	out, err := pgx.CollectRows(rows, scanAttachment)
	if err != nil {
		return nil, fmt.Errorf("failed to scan attachments: %w", err)
	}
	return out, nil
}

func (r *postgresAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attachmentColumns+` FROM post_attachments WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanAttachment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return &a, nil
}

func (r *postgresAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM post_attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAttachmentNotFound
	}
	return nil
}

func (r *postgresAttachmentRepository) SetThumbnail(ctx context.Context, id uuid.UUID, path string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE post_attachments SET thumbnail_path = $2 WHERE id = $1`, id, path)
	if err != nil {
		return fmt.Errorf("failed to set thumbnail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAttachmentNotFound
	}
	return nil
}

func scanAttachment(row pgx.CollectableRow) (model.Attachment, error) {
	var a model.Attachment
	err := row.Scan(
		&a.ID, &a.PostID, &a.UploaderID, &a.Bucket, &a.ObjectPath, &a.FileName,
		&a.ContentType, &a.SizeBytes, &a.ThumbnailPath, &a.CreatedAt,
	)
	return a, err
}
