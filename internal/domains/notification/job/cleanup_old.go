package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"moments-backend/internal/domains/notification/service"
	"moments-backend/internal/shared"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

// ================================================
// CLEANUP OLD READ NOTIFICATIONS JOB HANDLER
// ================================================

type CleanupOldNotificationsHandler struct {
	notificationService service.NotificationService
	retentionDays       int
}

func NewCleanupOldNotificationsHandler(
	notificationService service.NotificationService,
	retentionDays int,
) *CleanupOldNotificationsHandler {
	return &CleanupOldNotificationsHandler{
		notificationService: notificationService,
		retentionDays:       retentionDays,
	}
}

func (h *CleanupOldNotificationsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.CleanupNotificationPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		logger.Error("Bad cleanup_old payload, using configured retention", err)
	}

	days := payload.RetentionDays
	if days <= 0 {
		days = h.retentionDays
	}
	olderThan := time.Duration(days) * 24 * time.Hour

	logger.Info("Starting CleanupOldNotifications job", map[string]interface{}{"days": days})

	deleted, err := h.notificationService.CleanupOldRead(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("cleanup old read notifications: %w", err)
	}

	logger.Info("Completed CleanupOldNotifications job", map[string]interface{}{
		"days":          days,
		"deleted_count": deleted,
	})
	return nil
}
