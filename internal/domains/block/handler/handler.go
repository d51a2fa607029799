package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"moments-backend/internal/domains/block/model"
	"moments-backend/internal/domains/block/service"
	"moments-backend/internal/shared/middleware"
	"moments-backend/internal/shared/response"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

type BlockHandler struct {
	service service.ServiceInterface
}

func NewBlockHandler(s service.ServiceInterface) *BlockHandler {
	return &BlockHandler{service: s}
}

// Create POST /api/v1/blocks
func (h *BlockHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	b, err := h.service.Block(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

// Delete DELETE /api/v1/blocks/:userId
func (h *BlockHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	blockedID, ok := utils.ParseUUIDParam(c, "userId")
	if !ok {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.service.Unblock(c.Request.Context(), userID, blockedID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "User unblocked"})
}

// List GET /api/v1/blocks
func (h *BlockHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	blocks, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, blocks)
}

func handleError(c *gin.Context, err error) {
	var blockErr *model.BlockError
	if errors.As(err, &blockErr) {
		switch blockErr.Code {
		case model.ErrCodeSelfBlock:
			response.ErrorResponse(c, http.StatusBadRequest, blockErr.Code, blockErr.Message)
		case model.ErrCodeUserNotFound, model.ErrCodeNotBlocked:
			response.ErrorResponse(c, http.StatusNotFound, blockErr.Code, blockErr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, blockErr.Code, blockErr.Message)
		}
		return
	}

	logger.Error("block request failed", err)
	response.InternalServerError(c, "Internal server error")
}
