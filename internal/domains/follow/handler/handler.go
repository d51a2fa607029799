package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moments-backend/internal/domains/follow/model"
	"moments-backend/internal/domains/follow/service"
	"moments-backend/internal/shared/middleware"
	"moments-backend/internal/shared/response"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

type FollowHandler struct {
	service service.ServiceInterface
}

func NewFollowHandler(s service.ServiceInterface) *FollowHandler {
	return &FollowHandler{service: s}
}

// Follow POST /api/v1/profiles/:id/follow
func (h *FollowHandler) Follow(c *gin.Context) {
	h.mutate(c, h.service.Follow, "Followed")
}

// Unfollow DELETE /api/v1/profiles/:id/follow
func (h *FollowHandler) Unfollow(c *gin.Context) {
	h.mutate(c, h.service.Unfollow, "Unfollowed")
}

func (h *FollowHandler) mutate(c *gin.Context, op func(ctx context.Context, a, b uuid.UUID) error, msg string) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	targetID, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid profile ID")
		return
	}

	if err := op(c.Request.Context(), userID, targetID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": msg})
}

// Status GET /api/v1/profiles/:id/following-status
func (h *FollowHandler) Status(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	targetID, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid profile ID")
		return
	}

	st, err := h.service.Status(c.Request.Context(), userID, targetID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// Followers GET /api/v1/profiles/:id/followers?page=
func (h *FollowHandler) Followers(c *gin.Context) {
	h.list(c, h.service.Followers)
}

// Following GET /api/v1/profiles/:id/following?page=
func (h *FollowHandler) Following(c *gin.Context) {
	h.list(c, h.service.Following)
}

func (h *FollowHandler) list(c *gin.Context, op func(ctx context.Context, id uuid.UUID, page int) ([]model.FollowEntry, error)) {
	targetID, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid profile ID")
		return
	}
	page := utils.QueryInt(c, "page", 1)

	entries, err := op(c.Request.Context(), targetID, page)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, entries, &response.Meta{Page: page, Limit: service.PageSize})
}

func handleError(c *gin.Context, err error) {
	var fErr *model.FollowError
	if errors.As(err, &fErr) {
		status := http.StatusBadRequest
		if fErr.Code == model.ErrCodeProfileNotFound {
			status = http.StatusNotFound
		}
		response.ErrorResponse(c, status, fErr.Code, fErr.Message)
		return
	}

	logger.Error("follow request failed", err)
	response.InternalServerError(c, "Internal server error")
}
