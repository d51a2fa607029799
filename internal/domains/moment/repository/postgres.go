package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"moments-backend/internal/domains/moment/model"
	"moments-backend/internal/shared"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/database"
)

const momentColumns = `
	m.id, m.creator_id, m.type, m.title, m.description, m.category,
	m.reward_type, m.reward_amount, m.currency, m.approx_area, m.lat, m.lng,
	m.radius_m, m.tags, m.quiet_mode, m.requires_verified, m.status,
	m.expires_at, m.created_at, m.updated_at`

const viewColumns = momentColumns + `,
	p.display_name, p.username, p.avatar_url, p.is_verified, p.trust_level`

type postgresMomentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresMomentRepository(pool *pgxpool.Pool) MomentRepository {
	return &postgresMomentRepository{pool: pool}
}

func (r *postgresMomentRepository) Create(ctx context.Context, m *model.Moment) error {
	query := `
		INSERT INTO moments (
			id, creator_id, type, title, description, category,
			reward_type, reward_amount, currency, approx_area, lat, lng,
			radius_m, tags, quiet_mode, requires_verified, status,
			expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := r.pool.Exec(ctx, query,
		m.ID, m.CreatorID, m.Type, m.Title, m.Description, m.Category,
		m.RewardType, m.RewardAmount, m.Currency, m.ApproxArea, m.Lat, m.Lng,
		m.RadiusM, pq.Array(m.Tags), m.QuietMode, m.RequiresVerified, m.Status,
		m.ExpiresAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create moment: %w", err)
	}
	return nil
}

func (r *postgresMomentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MomentView, error) {
	query := `SELECT ` + viewColumns + `
		FROM moments m JOIN profiles p ON p.id = m.creator_id
		WHERE m.id = $1`

	v, err := scanView(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMomentNotFound
		}
		return nil, fmt.Errorf("failed to get moment: %w", err)
	}
	return v, nil
}

func (r *postgresMomentRepository) Feed(ctx context.Context, p model.FeedParams) ([]model.MomentView, error) {
	qb := &utils.QueryBuilder{}
	qb.Add("m.status = ?", model.StatusActive)
	qb.Add("m.expires_at > ?", p.Now)

	orderBy := "m.created_at DESC"
	switch p.Mode {
	case model.FeedEndingSoon:
		qb.Add("m.expires_at <= ?", p.Now.Add(time.Duration(p.EndingSoonMinutes)*time.Minute))
		orderBy = "m.expires_at ASC"
	case model.FeedFree:
		qb.Add("(m.type = ? OR m.reward_type = ?)", model.TypeFree, model.RewardFree)
	case model.FeedSwaps:
		qb.Add("(m.type = ? OR m.reward_type = ?)", model.TypeSwap, model.RewardSwap)
	case model.FeedVerified:
		qb.Add("p.is_verified = TRUE")
	}

	if p.ViewerID != nil {
		viewer := qb.Arg(*p.ViewerID)
		qb.Add("m.creator_id <> " + viewer)
		qb.Add(`NOT EXISTS (
			SELECT 1 FROM blocks b
			WHERE (b.blocker_id = ` + viewer + ` AND b.blocked_id = m.creator_id)
			   OR (b.blocker_id = m.creator_id AND b.blocked_id = ` + viewer + `))`)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM moments m JOIN profiles p ON p.id = m.creator_id
		%s
		ORDER BY %s
		LIMIT %s OFFSET %s`,
		viewColumns, qb.Where(), orderBy, qb.Arg(p.Limit), qb.Arg(p.Offset))

	return r.queryViews(ctx, query, qb.Args()...)
}

func (r *postgresMomentRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.MomentView, error) {
	query := `SELECT ` + viewColumns + `
		FROM moments m JOIN profiles p ON p.id = m.creator_id
		WHERE m.creator_id = $1
		ORDER BY m.created_at DESC`
	return r.queryViews(ctx, query, creatorID)
}

func (r *postgresMomentRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (bool, error) {
		tag, err := tx.Exec(ctx, `
			UPDATE moments SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = $3`, id, model.StatusCancelled, model.StatusActive)
		if err != nil {
			return false, fmt.Errorf("failed to cancel moment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return false, nil
		}

		if _, err := CancelPendingApplications(ctx, tx, []uuid.UUID{id}); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (r *postgresMomentRepository) CreatorStanding(ctx context.Context, userID uuid.UUID) (*model.Standing, error) {
	s := &model.Standing{}
	err := r.pool.QueryRow(ctx,
		`SELECT trust_level, is_verified FROM profiles WHERE id = $1`, userID,
	).Scan(&s.TrustLevel, &s.IsVerified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", userID, err)
		}
		return nil, fmt.Errorf("failed to load standing: %w", err)
	}
	return s, nil
}

func (r *postgresMomentRepository) queryViews(ctx context.Context, query string, args ...any) ([]model.MomentView, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query moments: %w", err)
	}
	defer rows.Close()

	out := make([]model.MomentView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan moment: %w", err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func scanView(row pgx.Row) (*model.MomentView, error) {
	v := &model.MomentView{}
	m := &v.Moment
	err := row.Scan(
		&m.ID, &m.CreatorID, &m.Type, &m.Title, &m.Description, &m.Category,
		&m.RewardType, &m.RewardAmount, &m.Currency, &m.ApproxArea, &m.Lat, &m.Lng,
		&m.RadiusM, pq.Array(&m.Tags), &m.QuietMode, &m.RequiresVerified, &m.Status,
		&m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt,
		&v.Creator.DisplayName, &v.Creator.Username, &v.Creator.AvatarURL,
		&v.Creator.IsVerified, &v.Creator.TrustLevel,
	)
	if err != nil {
		return nil, err
	}
	v.Creator.ID = m.CreatorID.String()
	return v, nil
}

// LockForUpdate loads a moment row with FOR UPDATE inside tx.
func LockForUpdate(ctx context.Context, q shared.Querier, id uuid.UUID) (*model.Moment, error) {
	m := &model.Moment{}
	err := q.QueryRow(ctx, `SELECT `+momentColumns+` FROM moments m WHERE m.id = $1 FOR UPDATE`, id).Scan(
		&m.ID, &m.CreatorID, &m.Type, &m.Title, &m.Description, &m.Category,
		&m.RewardType, &m.RewardAmount, &m.Currency, &m.ApproxArea, &m.Lat, &m.Lng,
		&m.RadiusM, pq.Array(&m.Tags), &m.QuietMode, &m.RequiresVerified, &m.Status,
		&m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMomentNotFound
		}
		return nil, fmt.Errorf("failed to lock moment: %w", err)
	}
	return m, nil
}

func SetStatus(ctx context.Context, q shared.Querier, id uuid.UUID, status string) error {
	if _, err := q.Exec(ctx,
		`UPDATE moments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("failed to update moment status: %w", err)
	}
	return nil
}

// CancelPendingApplications cancels every pending application of the given moments.
func CancelPendingApplications(ctx context.Context, q shared.Querier, momentIDs []uuid.UUID) (int64, error) {
	if len(momentIDs) == 0 {
		return 0, nil
	}
	tag, err := q.Exec(ctx, `
		UPDATE applications SET status = 'cancelled', updated_at = NOW()
		WHERE moment_id = ANY($1) AND status = 'pending'`, momentIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel pending applications: %w", err)
	}
	return tag.RowsAffected(), nil
}
