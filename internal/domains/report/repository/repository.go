package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moments-backend/internal/domains/report/model"
	"moments-backend/internal/shared/utils"
)

type ReportRepository interface {
	Create(ctx context.Context, r *model.Report) error
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]model.Report, error)
	// List pages the moderation queue; status "" means all.
	List(ctx context.Context, status string, limit, offset int) ([]model.AdminReport, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Report, error)
}

type postgresReportRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &postgresReportRepository{pool: pool}
}

const reportColumns = `r.id, r.reporter_id, r.target_type, r.target_id, r.reason, r.details, r.status, r.created_at, r.updated_at`

func (r *postgresReportRepository) Create(ctx context.Context, rep *model.Report) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO reports (id, reporter_id, target_type, target_id, reason, details, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rep.ID, rep.ReporterID, rep.TargetType, rep.TargetID, rep.Reason, rep.Details,
		rep.Status, rep.CreatedAt, rep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *postgresReportRepository) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]model.Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reportColumns+` FROM reports r
		WHERE r.reporter_id = $1
		ORDER BY r.created_at DESC`, reporterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	reports, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Report])
	if err != nil {
		return nil, fmt.Errorf("failed to scan reports: %w", err)
	}
	return reports, nil
}

func (r *postgresReportRepository) List(ctx context.Context, status string, limit, offset int) ([]model.AdminReport, int, error) {
	qb := &utils.QueryBuilder{}
	if status != "" {
		qb.Add("r.status = ?", status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports r `+qb.Where(), qb.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, p.display_name
		FROM reports r JOIN profiles p ON p.id = r.reporter_id
		%s
		ORDER BY r.created_at DESC
		LIMIT %s OFFSET %s`, reportColumns, qb.Where(), qb.Arg(limit), qb.Arg(offset))

	rows, err := r.pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	out := make([]model.AdminReport, 0)
	for rows.Next() {
		var a model.AdminReport
		if err := rows.Scan(&a.ID, &a.ReporterID, &a.TargetType, &a.TargetID, &a.Reason, &a.Details,
			&a.Status, &a.CreatedAt, &a.UpdatedAt, &a.ReporterName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan report: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *postgresReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Report, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE reports r SET status = $2, updated_at = NOW()
		WHERE r.id = $1
		RETURNING `+reportColumns, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	rep, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[model.Report])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	return &rep, nil
}
