package main

import (
	"github.com/hibiken/asynq"

	expiryJob "moments-backend/internal/domains/expiry/job"
	notificationJob "moments-backend/internal/domains/notification/job"
	postJob "moments-backend/internal/domains/post/job"
	"moments-backend/internal/shared"
	"moments-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Scheduled
	expireMoments        *expiryJob.ExpireMomentsHandler
	cleanupNotifications *notificationJob.CleanupOldNotificationsHandler

	// Enqueued by the api
	attachmentThumbnail *postJob.AttachmentThumbnailHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		expireMoments: expiryJob.NewExpireMomentsHandler(c.ExpiryService),
		cleanupNotifications: notificationJob.NewCleanupOldNotificationsHandler(
			c.NotificationService,
			c.Config.Worker.NotificationRetention,
		),
		attachmentThumbnail: postJob.NewAttachmentThumbnailHandler(c.PostService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeExpireMoments, h.expireMoments.ProcessTask)
	mux.HandleFunc(shared.TypeCleanupNotification, h.cleanupNotifications.ProcessTask)
	mux.HandleFunc(shared.TypeAttachmentThumbnail, h.attachmentThumbnail.ProcessTask)
}
