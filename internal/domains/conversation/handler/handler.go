package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moments-backend/internal/domains/conversation/model"
	"moments-backend/internal/domains/conversation/service"
	"moments-backend/internal/shared/middleware"
	"moments-backend/internal/shared/response"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

type ConversationHandler struct {
	service service.ServiceInterface
}

func NewConversationHandler(s service.ServiceInterface) *ConversationHandler {
	return &ConversationHandler{service: s}
}

// List GET /api/v1/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	convs, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, convs)
}

// Get GET /api/v1/conversations/:id
func (h *ConversationHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid conversation ID")
		return
	}

	conv, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, conv)
}

// Messages GET /api/v1/conversations/:id/messages?before=&limit=
func (h *ConversationHandler) Messages(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid conversation ID")
		return
	}

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidCursor, "before must be an RFC3339 timestamp")
			return
		}
		before = &t
	}

	msgs, err := h.service.Messages(c.Request.Context(), userID, id, before, utils.QueryInt(c, "limit", 0))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, msgs)
}

// Send POST /api/v1/conversations/:id/messages
func (h *ConversationHandler) Send(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid conversation ID")
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.service.Send(c.Request.Context(), userID, id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

// Close POST /api/v1/conversations/:id/close
func (h *ConversationHandler) Close(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid conversation ID")
		return
	}

	if err := h.service.Close(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Conversation closed"})
}

func handleError(c *gin.Context, err error) {
	if response.TryValidation(c, err) {
		return
	}

	var cErr *model.ConversationError
	if errors.As(err, &cErr) {
		status := http.StatusBadRequest
		switch cErr.Code {
		case model.ErrCodeNotFound:
			status = http.StatusNotFound
		case model.ErrCodeNotAllowed, model.ErrCodeBlocked:
			status = http.StatusForbidden
		case model.ErrCodeClosed:
			status = http.StatusConflict
		}
		response.ErrorResponse(c, status, cErr.Code, cErr.Message)
		return
	}

	logger.Error("conversation request failed", err)
	response.InternalServerError(c, "Internal server error")
}
