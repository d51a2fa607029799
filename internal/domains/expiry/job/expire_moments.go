package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"moments-backend/internal/domains/expiry/service"
	"moments-backend/pkg/logger"
)

// ================================================
// EXPIRE MOMENTS JOB HANDLER
// ================================================

type ExpireMomentsHandler struct {
	expiry *service.Service
}

func NewExpireMomentsHandler(expiry *service.Service) *ExpireMomentsHandler {
	return &ExpireMomentsHandler{expiry: expiry}
}

func (h *ExpireMomentsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	result, err := h.expiry.SweepNow(ctx)
	if err != nil {
		return fmt.Errorf("expire moments: %w", err)
	}

	if result.Count > 0 {
		logger.Info("Completed ExpireMoments job", map[string]interface{}{
			"count":      result.Count,
			"moment_ids": result.MomentIDs,
		})
	} else {
		logger.Debug("ExpireMoments job: " + result.Message)
	}
	return nil
}
