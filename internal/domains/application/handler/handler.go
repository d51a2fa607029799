package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moments-backend/internal/domains/application/model"
	"moments-backend/internal/domains/application/service"
	"moments-backend/internal/shared/middleware"
	"moments-backend/internal/shared/response"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

type ApplicationHandler struct {
	service service.ServiceInterface
}

func NewApplicationHandler(s service.ServiceInterface) *ApplicationHandler {
	return &ApplicationHandler{service: s}
}

// Apply POST /api/v1/moments/:id/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	momentID, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid moment ID")
		return
	}

	var req model.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.service.Apply(c.Request.Context(), userID, momentID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

// ListForMoment GET /api/v1/moments/:id/applications
func (h *ApplicationHandler) ListForMoment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	momentID, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid moment ID")
		return
	}

	apps, err := h.service.ListForMoment(c.Request.Context(), userID, momentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, apps)
}

// ListMine GET /api/v1/applications/mine
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	apps, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, apps)
}

// Accept POST /api/v1/applications/:id/accept
func (h *ApplicationHandler) Accept(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	res, err := h.service.Accept(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Reject POST /api/v1/applications/:id/reject
func (h *ApplicationHandler) Reject(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	if err := h.service.Reject(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Application rejected"})
}

// Withdraw POST /api/v1/applications/:id/withdraw
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	if err := h.service.Withdraw(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Application withdrawn"})
}

func (h *ApplicationHandler) ids(c *gin.Context) (userID, id uuid.UUID, ok bool) {
	userID, ok = middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok = utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid application ID")
	}
	return
}

func handleError(c *gin.Context, err error) {
	if response.TryValidation(c, err) {
		return
	}

	var appErr *model.ApplicationError
	if errors.As(err, &appErr) {
		status := http.StatusBadRequest
		switch appErr.Code {
		case model.ErrCodeApplicationNotFound, model.ErrCodeMomentNotFound:
			status = http.StatusNotFound
		case model.ErrCodeNotAllowed, model.ErrCodeBlocked, model.ErrCodeVerificationNeeded, model.ErrCodeOwnMoment:
			status = http.StatusForbidden
		case model.ErrCodeAlreadyApplied, model.ErrCodeNotPending, model.ErrCodeMomentNotOpen:
			status = http.StatusConflict
		case model.ErrCodeRateLimited:
			status = http.StatusTooManyRequests
		}
		response.ErrorResponse(c, status, appErr.Code, appErr.Message)
		return
	}

	logger.Error("application request failed", err)
	response.InternalServerError(c, "Internal server error")
}
