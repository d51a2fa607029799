package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/domains/notification/model"
	"moments-backend/internal/shared"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)

	// MarkRead reports false when the notification does not belong to userID.
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}

// Insert writes n with q, so callers can include it in their own transaction.
func Insert(ctx context.Context, q shared.Querier, n *model.Notification) error {
	_, err := q.Exec(ctx, `
		INSERT INTO notifications (
			id, user_id, type, title, body, link, data,
			actor_id, post_id, comment_id, read, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, $11)`,
		n.ID, n.UserID, n.Type, n.Title, n.Body, n.Link, []byte(n.Data),
		n.ActorID, n.PostID, n.CommentID, n.CreatedAt,
	)
	return err
}
