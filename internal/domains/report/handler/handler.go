package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moments-backend/internal/domains/report/model"
	"moments-backend/internal/domains/report/service"
	"moments-backend/internal/shared/middleware"
	"moments-backend/internal/shared/response"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service service.ServiceInterface
}

func NewReportHandler(s service.ServiceInterface) *ReportHandler {
	return &ReportHandler{service: s}
}

// Create POST /api/v1/reports
func (h *ReportHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rep, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rep)
}

// ListMine GET /api/v1/reports/mine
func (h *ReportHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	reports, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reports)
}

// AdminList GET /api/v1/admin/reports?status=&page=&limit=
func (h *ReportHandler) AdminList(c *gin.Context) {
	filter := model.ListFilter{
		Status: c.Query("status"),
		Page:   utils.QueryInt(c, "page", 1),
		Limit:  utils.QueryInt(c, "limit", 20),
	}

	reports, total, err := h.service.AdminList(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, reports, &response.Meta{Page: filter.Page, Limit: filter.Limit, Total: total})
}

// UpdateStatus PUT /api/v1/admin/reports/:id/status
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	id, ok := utils.ParseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid report ID")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rep, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rep)
}

// Export GET /api/v1/admin/reports/export?status=
func (h *ReportHandler) Export(c *gin.Context) {
	f, n, err := h.service.ExportToExcel(c.Request.Context(), c.Query("status"))
	if err != nil {
		handleError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("reports-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("X-Total-Count", fmt.Sprint(n))
	c.Status(http.StatusOK)
	c.Writer.Header().Set("Content-Type", xlsxContentType)

	if _, err := f.WriteTo(c.Writer); err != nil {
		logger.Error("report export write failed", err)
	}
}

func handleError(c *gin.Context, err error) {
	if response.TryValidation(c, err) {
		return
	}

	var rErr *model.ReportError
	if errors.As(err, &rErr) {
		status := http.StatusBadRequest
		if rErr.Code == model.ErrCodeReportNotFound {
			status = http.StatusNotFound
		}
		response.ErrorResponse(c, status, rErr.Code, rErr.Message)
		return
	}

	logger.Error("report request failed", err)
	response.InternalServerError(c, "Internal server error")
}
