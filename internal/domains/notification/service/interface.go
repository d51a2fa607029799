package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/domains/notification/model"
)

// Notifier is the slice of the service other domains depend on.
type Notifier interface {
	Notify(ctx context.Context, in model.NotifyInput) (*model.Notification, error)
}

type NotificationService interface {
	Notifier

	// Published pushes already-stored notifications to realtime, e.g.
	// after a transaction that inserted them has committed.
	Published(ctx context.Context, notifications []model.Notification)

	List(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	CleanupOldRead(ctx context.Context, olderThan time.Duration) (int64, error)
}
