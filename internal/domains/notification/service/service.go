package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/domains/notification/model"
	"moments-backend/internal/domains/notification/repository"
	"moments-backend/internal/infrastructure/realtime"
	"moments-backend/pkg/logger"
)

type notificationService struct {
	repo      repository.NotificationRepository
	publisher realtime.Publisher
	now       func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, publisher realtime.Publisher) NotificationService {
	return &notificationService{repo: repo, publisher: publisher, now: time.Now}
}

// Notify stores a notification and pushes notification.created to the
// recipient. A failed push is logged; the stored row is the source of truth.
func (s *notificationService) Notify(ctx context.Context, in model.NotifyInput) (*model.Notification, error) {
	if in.UserID == uuid.Nil {
		return nil, model.NewInvalidInputError("recipient is required")
	}
	if strings.TrimSpace(in.Type) == "" || strings.TrimSpace(in.Title) == "" {
		return nil, model.NewInvalidInputError("type and title are required")
	}

	n, err := in.ToNotification(s.now())
	if err != nil {
		return nil, fmt.Errorf("build notification: %w", err)
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.publish(ctx, *n)
	return n, nil
}

func (s *notificationService) Published(ctx context.Context, notifications []model.Notification) {
	for _, n := range notifications {
		s.publish(ctx, n)
	}
}

func (s *notificationService) publish(ctx context.Context, n model.Notification) {
	if s.publisher == nil {
		return
	}
	evt := realtime.Event{Type: realtime.EventNotificationCreated, Payload: n}
	if err := s.publisher.Publish(ctx, n.UserID, evt); err != nil {
		logger.Warn("[NOTIFICATION] Realtime publish failed", map[string]interface{}{
			"notification_id": n.ID.String(),
			"error":           err.Error(),
		})
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	return s.repo.ListByUser(ctx, userID, model.ListLimit)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return model.NewNotificationNotFoundError()
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) CleanupOldRead(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.repo.DeleteReadBefore(ctx, s.now().Add(-olderThan))
}
