package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moments-backend/internal/domains/expiry/service"
	"moments-backend/internal/shared/response"
	"moments-backend/pkg/logger"
)

type ExpiryHandler struct {
	expiry *service.Service
}

func NewExpiryHandler(expiry *service.Service) *ExpiryHandler {
	return &ExpiryHandler{expiry: expiry}
}

// Run POST /api/v1/admin/expiry/run
func (h *ExpiryHandler) Run(c *gin.Context) {
	result, err := h.expiry.SweepNow(c.Request.Context())
	if err != nil {
		logger.Error("manual expiry sweep failed", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "EXP001", err.Error())
		return
	}
	response.Success(c, http.StatusOK, result)
}
