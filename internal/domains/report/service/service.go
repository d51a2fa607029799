package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"moments-backend/internal/domains/report/model"
	"moments-backend/internal/domains/report/repository"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	exportBatchSize = 500
)

type ServiceInterface interface {
	Create(ctx context.Context, reporterID uuid.UUID, req model.CreateReportRequest) (*model.Report, error)
	ListMine(ctx context.Context, reporterID uuid.UUID) ([]model.Report, error)
	AdminList(ctx context.Context, filter model.ListFilter) ([]model.AdminReport, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (*model.Report, error)

	// ExportToExcel builds an xlsx of every report matching status ("" for all).
	ExportToExcel(ctx context.Context, status string) (*excelize.File, int, error)
	// WriteExport streams the same workbook to w.
	WriteExport(ctx context.Context, w io.Writer, status string) (int, error)
}

type reportService struct {
	repo repository.ReportRepository
	now  func() time.Time
}

func NewReportService(repo repository.ReportRepository) ServiceInterface {
	return &reportService{repo: repo, now: time.Now}
}

func (s *reportService) Create(ctx context.Context, reporterID uuid.UUID, req model.CreateReportRequest) (*model.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	targetID := uuid.MustParse(req.TargetID)
	if req.TargetType == model.TargetUser && targetID == reporterID {
		return nil, model.NewSelfReportError()
	}

	var details *string
	if req.Details != nil {
		if d := strings.TrimSpace(*req.Details); d != "" {
			details = &d
		}
	}

	now := s.now()
	rep := &model.Report{
		ID:         uuid.New(),
		ReporterID: reporterID,
		TargetType: req.TargetType,
		TargetID:   targetID,
		Reason:     req.Reason,
		Details:    details,
		Status:     model.StatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	logger.Info("report filed", map[string]interface{}{
		"report_id":   rep.ID.String(),
		"target_type": rep.TargetType,
		"reason":      rep.Reason,
	})
	return rep, nil
}

func (s *reportService) ListMine(ctx context.Context, reporterID uuid.UUID) ([]model.Report, error) {
	return s.repo.ListByReporter(ctx, reporterID)
}

func (s *reportService) AdminList(ctx context.Context, filter model.ListFilter) ([]model.AdminReport, int, error) {
	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		return nil, 0, model.NewInvalidStatusError(filter.Status)
	}
	_, limit, offset := utils.NormalizePage(filter.Page, filter.Limit, defaultPageSize, maxPageSize)
	return s.repo.List(ctx, filter.Status, limit, offset)
}

func (s *reportService) UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (*model.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rep, err := s.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, model.ErrReportNotFound) {
			return nil, model.NewReportNotFoundError()
		}
		return nil, err
	}
	return rep, nil
}

func (s *reportService) ExportToExcel(ctx context.Context, status string) (*excelize.File, int, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, 0, model.NewInvalidStatusError(status)
	}

	// 1. Collect every matching report, page by page
	var reports []model.AdminReport
	for offset := 0; ; offset += exportBatchSize {
		batch, _, err := s.repo.List(ctx, status, exportBatchSize, offset)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list reports: %w", err)
		}
		reports = append(reports, batch...)
		if len(batch) < exportBatchSize {
			break
		}
	}

	// 2. Build the workbook
	f, err := buildReportsExcelFile(reports)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, len(reports), nil
}

func (s *reportService) WriteExport(ctx context.Context, w io.Writer, status string) (int, error) {
	f, n, err := s.ExportToExcel(ctx, status)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("failed to write excel file: %w", err)
	}
	return n, nil
}

const reportSheet = "Reports"

var reportHeaders = []string{
	"ID",
	"Reporter",
	"Target Type",
	"Target ID",
	"Reason",
	"Details",
	"Status",
	"Created At",
}

func buildReportsExcelFile(reports []model.AdminReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}

	// Row 1: Header
	for colIdx, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(reportSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(reportHeaders), 1)
		f.SetCellStyle(reportSheet, "A1", last, headerStyle)
	}

	// Data rows start at row 2
	for i, r := range reports {
		row := i + 2
		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, row)
			return name
		}

		f.SetCellValue(reportSheet, cell(1), r.ID.String())
		f.SetCellValue(reportSheet, cell(2), r.ReporterName)
		f.SetCellValue(reportSheet, cell(3), r.TargetType)
		f.SetCellValue(reportSheet, cell(4), r.TargetID.String())
		f.SetCellValue(reportSheet, cell(5), r.Reason)
		if r.Details != nil {
			f.SetCellValue(reportSheet, cell(6), *r.Details)
		} else {
			f.SetCellValue(reportSheet, cell(6), "")
		}
		f.SetCellValue(reportSheet, cell(7), r.Status)
		f.SetCellValue(reportSheet, cell(8), r.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}

	return f, nil
}
