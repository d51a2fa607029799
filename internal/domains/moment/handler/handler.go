package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"moments-backend/internal/domains/moment/model"
	"moments-backend/internal/domains/moment/service"
	"moments-backend/internal/shared/middleware"
	"moments-backend/internal/shared/response"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

type MomentHandler struct {
	service service.ServiceInterface
}

func NewMomentHandler(s service.ServiceInterface) *MomentHandler {
	return &MomentHandler{service: s}
}

// Create POST /api/v1/moments
func (h *MomentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateMomentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	m, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

// Get GET /api/v1/moments/:id?lat=&lng=
func (h *MomentHandler) Get(c *gin.Context) {
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid moment ID")
		return
	}

	m, err := h.service.Get(c.Request.Context(), id, utils.QueryFloatPtr(c, "lat"), utils.QueryFloatPtr(c, "lng"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// Feed GET /api/v1/moments/feed?mode=&lat=&lng=&limit=&offset=
func (h *MomentHandler) Feed(c *gin.Context) {
	q := service.FeedQuery{
		Mode:   c.DefaultQuery("mode", model.FeedAll),
		Lat:    utils.QueryFloatPtr(c, "lat"),
		Lng:    utils.QueryFloatPtr(c, "lng"),
		Limit:  utils.QueryInt(c, "limit", 0),
		Offset: utils.QueryInt(c, "offset", 0),
	}
	if viewer, ok := middleware.GetUserID(c); ok {
		q.ViewerID = &viewer
	}

	moments, err := h.service.Feed(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, moments, &response.Meta{Limit: q.Limit, Offset: q.Offset})
}

// Mine GET /api/v1/moments/mine
func (h *MomentHandler) Mine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	moments, err := h.service.Mine(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, moments)
}

// Cancel POST /api/v1/moments/:id/cancel
func (h *MomentHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid moment ID")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Moment cancelled"})
}

// Categories GET /api/v1/moments/categories
func (h *MomentHandler) Categories(c *gin.Context) {
	response.Success(c, http.StatusOK, model.Categories)
}

func handleError(c *gin.Context, err error) {
	if response.TryValidation(c, err) {
		return
	}

	var mErr *model.MomentError
	if errors.As(err, &mErr) {
		switch mErr.Code {
		case model.ErrCodeMomentNotFound:
			response.ErrorResponse(c, http.StatusNotFound, mErr.Code, mErr.Message)
		case model.ErrCodeNotCreator:
			response.ErrorResponse(c, http.StatusForbidden, mErr.Code, mErr.Message)
		case model.ErrCodeNotActive:
			response.ErrorResponse(c, http.StatusConflict, mErr.Code, mErr.Message)
		case model.ErrCodeRateLimited:
			response.ErrorResponse(c, http.StatusTooManyRequests, mErr.Code, mErr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, mErr.Code, mErr.Message)
		}
		return
	}

	logger.Error("moment request failed", err)
	response.InternalServerError(c, "Internal server error")
}
