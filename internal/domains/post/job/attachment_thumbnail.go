package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"moments-backend/internal/domains/post/model"
	"moments-backend/internal/domains/post/service"
	"moments-backend/internal/shared"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

// ================================================
// ATTACHMENT THUMBNAIL JOB HANDLER
// ================================================

type AttachmentThumbnailHandler struct {
	postService service.ServiceInterface
}

func NewAttachmentThumbnailHandler(postService service.ServiceInterface) *AttachmentThumbnailHandler {
	return &AttachmentThumbnailHandler{postService: postService}
}

func (h *AttachmentThumbnailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.AttachmentThumbnailPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.AttachmentID == "" || payload.ObjectPath == "" {
		return fmt.Errorf("incomplete thumbnail payload: %w", asynq.SkipRetry)
	}

	err := h.postService.GenerateThumbnail(ctx, payload)
	if errors.Is(err, model.ErrAttachmentNotFound) {
		// deleted before the worker got to it
		logger.Warn("Attachment gone, skipping thumbnail", map[string]interface{}{
			"attachment_id": payload.AttachmentID,
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("generate thumbnail for %s: %w", payload.AttachmentID, err)
	}

	logger.Info("Generated attachment thumbnail", map[string]interface{}{
		"attachment_id": payload.AttachmentID,
	})
	return nil
}
