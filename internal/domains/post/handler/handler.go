package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moments-backend/internal/domains/post/model"
	"moments-backend/internal/domains/post/service"
	"moments-backend/internal/shared/middleware"
	"moments-backend/internal/shared/response"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

type PostHandler struct {
	service service.ServiceInterface
}

func NewPostHandler(s service.ServiceInterface) *PostHandler {
	return &PostHandler{service: s}
}

// Create POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, post)
}

// Get GET /api/v1/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	userID, postID, ok := ids(c)
	if !ok {
		return
	}

	post, err := h.service.Get(c.Request.Context(), userID, postID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// Update PUT /api/v1/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	userID, postID, ok := ids(c)
	if !ok {
		return
	}

	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.Update(c.Request.Context(), userID, postID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// Delete DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	userID, postID, ok := ids(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, postID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Post deleted"})
}

// Feed GET /api/v1/posts/feed?page=
func (h *PostHandler) Feed(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	page := utils.QueryInt(c, "page", 1)
	posts, err := h.service.Feed(c.Request.Context(), userID, page)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{Page: page})
}

// ListByAuthor GET /api/v1/profiles/:id/posts?page=
func (h *PostHandler) ListByAuthor(c *gin.Context) {
	userID, authorID, ok := ids(c)
	if !ok {
		return
	}

	page := utils.QueryInt(c, "page", 1)
	posts, err := h.service.ListByAuthor(c.Request.Context(), userID, authorID, page)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{Page: page})
}

// React PUT /api/v1/posts/:id/reaction
func (h *PostHandler) React(c *gin.Context) {
	userID, postID, ok := ids(c)
	if !ok {
		return
	}

	var req model.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.React(c.Request.Context(), userID, postID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Save POST /api/v1/posts/:id/save
func (h *PostHandler) Save(c *gin.Context) {
	userID, postID, ok := ids(c)
	if !ok {
		return
	}

	if err := h.service.Save(c.Request.Context(), userID, postID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

// Unsave DELETE /api/v1/posts/:id/save
func (h *PostHandler) Unsave(c *gin.Context) {
	userID, postID, ok := ids(c)
	if !ok {
		return
	}

	if err := h.service.Unsave(c.Request.Context(), userID, postID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": false})
}

// ListSaved GET /api/v1/posts/saved?page=
func (h *PostHandler) ListSaved(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	page := utils.QueryInt(c, "page", 1)
	posts, err := h.service.ListSaved(c.Request.Context(), userID, page)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{Page: page})
}

// UploadAttachment POST /api/v1/posts/:id/attachments (multipart field "file")
func (h *PostHandler) UploadAttachment(c *gin.Context) {
	userID, postID, ok := ids(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > model.MaxAttachmentBytes {
		handleError(c, model.NewAttachmentTooLargeError())
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "cannot read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, model.MaxAttachmentBytes+1))
	if err != nil {
		response.BadRequest(c, "cannot read file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	a, err := h.service.UploadAttachment(c.Request.Context(), userID, postID, model.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

// ListAttachments GET /api/v1/posts/:id/attachments
func (h *PostHandler) ListAttachments(c *gin.Context) {
	postID, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid post ID")
		return
	}

	list, err := h.service.ListAttachments(c.Request.Context(), postID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// DeleteAttachment DELETE /api/v1/posts/:id/attachments/:attachmentId
func (h *PostHandler) DeleteAttachment(c *gin.Context) {
	userID, postID, ok := ids(c)
	if !ok {
		return
	}
	attachmentID, ok := utils.ParseUUIDParam(c, "attachmentId")
	if !ok {
		response.BadRequest(c, "Invalid attachment ID")
		return
	}

	if err := h.service.DeleteAttachment(c.Request.Context(), userID, postID, attachmentID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Attachment deleted"})
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

	var pErr *model.PostError
	if errors.As(err, &pErr) {
		status := http.StatusBadRequest
		switch pErr.Code {
		case model.ErrCodePostNotFound, model.ErrCodeAttachmentNotFound:
			status = http.StatusNotFound
		case model.ErrCodeNotAuthor:
			status = http.StatusForbidden
		case model.ErrCodeTooManyAttachments:
			status = http.StatusConflict
		case model.ErrCodeAttachmentTooLarge:
			status = http.StatusRequestEntityTooLarge
		case model.ErrCodeUnsupportedAttachment:
			status = http.StatusUnsupportedMediaType
		}
		response.ErrorResponse(c, status, pErr.Code, pErr.Message)
		return
	}

	logger.Error("post request failed", err)
	response.InternalServerError(c, "Internal server error")
}
