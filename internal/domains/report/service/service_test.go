package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"moments-backend/internal/domains/report/model"
)

type fakeRepo struct {
	reports []model.AdminReport
	lastLim int
	lastOff int
}

func (r *fakeRepo) Create(_ context.Context, rep *model.Report) error {
	r.reports = append(r.reports, model.AdminReport{Report: *rep, ReporterName: "Reporter"})
	return nil
}

func (r *fakeRepo) ListByReporter(_ context.Context, reporterID uuid.UUID) ([]model.Report, error) {
	out := []model.Report{}
	for _, rep := range r.reports {
		if rep.ReporterID == reporterID {
			out = append(out, rep.Report)
		}
	}
	return out, nil
}

func (r *fakeRepo) List(_ context.Context, status string, limit, offset int) ([]model.AdminReport, int, error) {
	r.lastLim, r.lastOff = limit, offset
	var matched []model.AdminReport
	for _, rep := range r.reports {
		if status == "" || rep.Status == status {
			matched = append(matched, rep)
		}
	}
	total := len(matched)
	if offset >= total {
		return []model.AdminReport{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) (*model.Report, error) {
	for i := range r.reports {
		if r.reports[i].ID == id {
			r.reports[i].Status = status
			rep := r.reports[i].Report
			return &rep, nil
		}
	}
	return nil, model.ErrReportNotFound
}

func newService(repo *fakeRepo) *reportService {
	s := NewReportService(repo).(*reportService)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return s
}

func TestCreate(t *testing.T) {
	reporter := uuid.New()
	details := "  keeps posting fake rewards  "

	s := newService(&fakeRepo{})
	rep, err := s.Create(context.Background(), reporter, model.CreateReportRequest{
		TargetType: model.TargetMoment,
		TargetID:   uuid.NewString(),
		Reason:     model.ReasonScam,
		Details:    &details,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, rep.Status)
	require.NotNil(t, rep.Details)
	assert.Equal(t, "keeps posting fake rewards", *rep.Details)

	mine, err := s.ListMine(context.Background(), reporter)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestCreate_Rejections(t *testing.T) {
	reporter := uuid.New()
	s := newService(&fakeRepo{})

	_, err := s.Create(context.Background(), reporter, model.CreateReportRequest{
		TargetType: model.TargetUser,
		TargetID:   reporter.String(),
		Reason:     model.ReasonSpam,
	})
	var rErr *model.ReportError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, model.ErrCodeSelfReport, rErr.Code)

	_, err = s.Create(context.Background(), reporter, model.CreateReportRequest{
		TargetType: "planet",
		TargetID:   "not-a-uuid",
		Reason:     model.ReasonSpam,
	})
	require.Error(t, err)
	assert.NotErrorAs(t, err, &rErr)
}

func TestAdminList(t *testing.T) {
	repo := &fakeRepo{}
	s := newService(repo)

	_, _, err := s.AdminList(context.Background(), model.ListFilter{Status: "closed"})
	var rErr *model.ReportError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, model.ErrCodeInvalidStatus, rErr.Code)

	_, _, err = s.AdminList(context.Background(), model.ListFilter{Page: 3, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, repo.lastLim)
	assert.Equal(t, 2*maxPageSize, repo.lastOff)
}

func TestUpdateStatus(t *testing.T) {
	repo := &fakeRepo{}
	s := newService(repo)

	rep, err := s.Create(context.Background(), uuid.New(), model.CreateReportRequest{
		TargetType: model.TargetMessage,
		TargetID:   uuid.NewString(),
		Reason:     model.ReasonHarassment,
	})
	require.NoError(t, err)

	updated, err := s.UpdateStatus(context.Background(), rep.ID, model.UpdateStatusRequest{Status: model.StatusResolved})
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, updated.Status)

	_, err = s.UpdateStatus(context.Background(), uuid.New(), model.UpdateStatusRequest{Status: model.StatusResolved})
	var rErr *model.ReportError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, model.ErrCodeReportNotFound, rErr.Code)
}

func TestExportToExcel(t *testing.T) {
	repo := &fakeRepo{}
	s := newService(repo)

	for i := 0; i < exportBatchSize+3; i++ {
		status := model.StatusOpen
		if i%2 == 1 {
			status = model.StatusResolved
		}
		repo.reports = append(repo.reports, model.AdminReport{
			Report: model.Report{
				ID:         uuid.New(),
				ReporterID: uuid.New(),
				TargetType: model.TargetMoment,
				TargetID:   uuid.New(),
				Reason:     model.ReasonSpam,
				Status:     status,
				CreatedAt:  time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
			},
			ReporterName: "Ana",
		})
	}

	f, n, err := s.ExportToExcel(context.Background(), "")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, exportBatchSize+3, n)

	header, err := f.GetCellValue(reportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)
	created, err := f.GetCellValue(reportSheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01 12:00:00", created)

	var buf bytes.Buffer
	n, err = s.WriteExport(context.Background(), &buf, model.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, (exportBatchSize+3)/2, n)

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()
	rows, err := reopened.GetRows(reportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, n+1)
	assert.Equal(t, "Ana", rows[1][1])
}
