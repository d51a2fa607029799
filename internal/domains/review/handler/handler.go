package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"moments-backend/internal/domains/review/model"
	"moments-backend/internal/domains/review/service"
	"moments-backend/internal/shared/middleware"
	"moments-backend/internal/shared/response"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReview godoc
// POST /api/v1/moments/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
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

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, momentID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, review)
}

// ListProfileReviews godoc
// GET /api/v1/profiles/:id/reviews?page=&limit=
func (h *ReviewHandler) ListProfileReviews(c *gin.Context) {
	profileID, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid profile ID")
		return
	}
	page := utils.QueryInt(c, "page", 1)
	limit := utils.QueryInt(c, "limit", model.DefaultPageSize)

	result, total, err := h.reviewService.ListForProfile(c.Request.Context(), profileID, page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, result, &response.Meta{Page: page, Limit: limit, Total: total})
}

func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	if response.TryValidation(c, err) {
		return
	}

	var reviewErr *model.ReviewError
	if errors.As(err, &reviewErr) {
		switch reviewErr.Code {
		case model.ErrCodeMomentNotFound:
			response.ErrorResponse(c, http.StatusNotFound, reviewErr.Code, reviewErr.Message)
		case model.ErrCodeAlreadyReviewed:
			response.ErrorResponse(c, http.StatusConflict, reviewErr.Code, reviewErr.Message)
		case model.ErrCodeNotEligible:
			response.ErrorResponse(c, http.StatusForbidden, reviewErr.Code, reviewErr.Message)
		default:
			response.ErrorResponse(c, http.StatusBadRequest, reviewErr.Code, reviewErr.Message)
		}
		return
	}

	logger.Error("review request failed", err)
	response.InternalServerError(c, "Internal server error")
}
