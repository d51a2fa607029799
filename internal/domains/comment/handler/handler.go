package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moments-backend/internal/domains/comment/model"
	"moments-backend/internal/domains/comment/service"
	"moments-backend/internal/shared/middleware"
	"moments-backend/internal/shared/response"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

type CommentHandler struct {
	service service.ServiceInterface
}

func NewCommentHandler(s service.ServiceInterface) *CommentHandler {
	return &CommentHandler{service: s}
}

// List GET /api/v1/posts/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid post ID")
		return
	}

	comments, err := h.service.List(c.Request.Context(), postID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, comments)
}

// Create POST /api/v1/posts/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, postID, ok := ids(c)
	if !ok {
		return
	}

	var req model.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.service.Create(c.Request.Context(), userID, postID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, comment)
}

// Update PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	userID, id, ok := ids(c)
	if !ok {
		return
	}

	var req model.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, comment)
}

// Delete DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, id, ok := ids(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Comment deleted"})
}

func ids(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func handleError(c *gin.Context, err error) {
	if response.TryValidation(c, err) {
		return
	}

	var cErr *model.CommentError
	if errors.As(err, &cErr) {
		status := http.StatusBadRequest
		switch cErr.Code {
		case model.ErrCodeCommentNotFound, model.ErrCodePostNotFound:
			status = http.StatusNotFound
		case model.ErrCodeNotAuthor:
			status = http.StatusForbidden
		}
		response.ErrorResponse(c, status, cErr.Code, cErr.Message)
		return
	}

	logger.Error("comment request failed", err)
	response.InternalServerError(c, "Internal server error")
}
