package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"moments-backend/internal/domains/application/model"
	conversationRepo "moments-backend/internal/domains/conversation/repository"
	momentModel "moments-backend/internal/domains/moment/model"
	momentRepo "moments-backend/internal/domains/moment/repository"
	"moments-backend/pkg/database"
)

const viewSelect = `
	SELECT a.id, a.moment_id, a.applicant_id, a.message, a.status, a.created_at, a.updated_at,
	       p.id, p.display_name, p.username, p.avatar_url, p.is_verified, p.trust_level, p.rating_avg,
	       m.title, m.status
	FROM applications a
	JOIN profiles p ON p.id = a.applicant_id
	JOIN moments m ON m.id = a.moment_id`

type postgresApplicationRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &postgresApplicationRepository{pool: pool, now: time.Now}
}

func (r *postgresApplicationRepository) FindMoment(ctx context.Context, momentID uuid.UUID) (*model.MomentInfo, error) {
	m := &model.MomentInfo{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, creator_id, title, status, expires_at, quiet_mode, requires_verified
		FROM moments WHERE id = $1`, momentID,
	).Scan(&m.ID, &m.CreatorID, &m.Title, &m.Status, &m.ExpiresAt, &m.QuietMode, &m.RequiresVerified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMomentNotFound
		}
		return nil, fmt.Errorf("failed to get moment: %w", err)
	}
	return m, nil
}

func (r *postgresApplicationRepository) FindApplicant(ctx context.Context, userID uuid.UUID) (*model.Applicant, error) {
	a := &model.Applicant{}
	err := r.pool.QueryRow(ctx,
		`SELECT display_name, trust_level, is_verified FROM profiles WHERE id = $1`, userID,
	).Scan(&a.DisplayName, &a.TrustLevel, &a.IsVerified)
	if err != nil {
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}
	return a, nil
}

func (r *postgresApplicationRepository) HasApplied(ctx context.Context, momentID, applicantID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM applications WHERE moment_id = $1 AND applicant_id = $2)`,
		momentID, applicantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return exists, nil
}

func (r *postgresApplicationRepository) Create(ctx context.Context, a *model.Application) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO applications (id, moment_id, applicant_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.MomentID, a.ApplicantID, a.Message, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrAlreadyApplied
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *postgresApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	a := &model.Application{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, moment_id, applicant_id, message, status, created_at, updated_at
		FROM applications WHERE id = $1`, id,
	).Scan(&a.ID, &a.MomentID, &a.ApplicantID, &a.Message, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

func (r *postgresApplicationRepository) ListByMoment(ctx context.Context, momentID uuid.UUID) ([]model.ApplicationView, error) {
	return r.queryViews(ctx, viewSelect+` WHERE a.moment_id = $1 ORDER BY a.created_at ASC`, momentID)
}

func (r *postgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]model.ApplicationView, error) {
	return r.queryViews(ctx, viewSelect+` WHERE a.applicant_id = $1 ORDER BY a.created_at DESC`, applicantID)
}

func (r *postgresApplicationRepository) queryViews(ctx context.Context, query string, arg uuid.UUID) ([]model.ApplicationView, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	out := make([]model.ApplicationView, 0)
	for rows.Next() {
		var (
			v         model.ApplicationView
			applicant uuid.UUID
		)
		if err := rows.Scan(
			&v.ID, &v.MomentID, &v.ApplicantID, &v.Message, &v.Status, &v.CreatedAt, &v.UpdatedAt,
			&applicant, &v.Applicant.DisplayName, &v.Applicant.Username, &v.Applicant.AvatarURL,
			&v.Applicant.IsVerified, &v.Applicant.TrustLevel, &v.RatingAvg,
			&v.MomentTitle, &v.MomentStatus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		v.Applicant.ID = applicant.String()
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *postgresApplicationRepository) Accept(ctx context.Context, id, creatorID uuid.UUID) (*model.AcceptResult, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.AcceptResult, error) {
		// 1. LOCK APPLICATION AND MOMENT
		a := &model.Application{}
		err := tx.QueryRow(ctx, `
			SELECT id, moment_id, applicant_id, message, status, created_at, updated_at
			FROM applications WHERE id = $1 FOR UPDATE`, id,
		).Scan(&a.ID, &a.MomentID, &a.ApplicantID, &a.Message, &a.Status, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrApplicationNotFound
			}
			return nil, fmt.Errorf("failed to lock application: %w", err)
		}

		m, err := momentRepo.LockForUpdate(ctx, tx, a.MomentID)
		if err != nil {
			if errors.Is(err, momentModel.ErrMomentNotFound) {
				return nil, model.ErrMomentNotFound
			}
			return nil, err
		}

		// 2. CHECK STATE
		if m.CreatorID != creatorID {
			return nil, model.ErrNotAllowed
		}
		if a.Status != model.StatusPending {
			return nil, model.ErrNotPending
		}
		now := r.now()
		if !m.IsOpen(now) {
			return nil, model.ErrMomentNotOpen
		}

		// 3. APPLY
		if _, err := tx.Exec(ctx, `
			UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`,
			a.ID, model.StatusAccepted, now); err != nil {
			return nil, fmt.Errorf("failed to accept application: %w", err)
		}
		a.Status = model.StatusAccepted
		a.UpdatedAt = now

		if err := momentRepo.SetStatus(ctx, tx, m.ID, momentModel.StatusMatched); err != nil {
			return nil, err
		}

		rows, err := tx.Query(ctx, `
			UPDATE applications SET status = $3, updated_at = $4
			WHERE moment_id = $1 AND id <> $2 AND status = 'pending'
			RETURNING applicant_id`, m.ID, a.ID, model.StatusRejected, now)
		if err != nil {
			return nil, fmt.Errorf("failed to reject other applications: %w", err)
		}
		rejected, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
		if err != nil {
			return nil, fmt.Errorf("failed to reject other applications: %w", err)
		}

		convID, err := conversationRepo.OpenForMoment(ctx, tx, m.ID, m.CreatorID, a.ApplicantID)
		if err != nil {
			return nil, err
		}

		return &model.AcceptResult{
			Application:    *a,
			ConversationID: convID,
			MomentTitle:    m.Title,
			Rejected:       rejected,
		}, nil
	})
}

func (r *postgresApplicationRepository) Transition(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE applications SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`, id, status)
	if err != nil {
		return false, fmt.Errorf("failed to update application: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
