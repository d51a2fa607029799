package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"moments-backend/internal/domains/review/model"
	"moments-backend/pkg/database"
)

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

// =====================================================
// ELIGIBILITY
// =====================================================

func (r *postgresReviewRepository) Participants(ctx context.Context, momentID uuid.UUID) (*model.Participants, error) {
	query := `
		SELECT m.status, m.title, m.creator_id,
		       (SELECT a.applicant_id FROM applications a
		        WHERE a.moment_id = m.id AND a.status = 'accepted'
		        LIMIT 1)
		FROM moments m
		WHERE m.id = $1
	`
	p := &model.Participants{}
	err := r.pool.QueryRow(ctx, query, momentID).Scan(&p.MomentStatus, &p.MomentTitle, &p.CreatorID, &p.AcceptedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrMomentNotFound
		}
		return nil, fmt.Errorf("failed to load moment participants: %w", err)
	}
	return p, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO reviews (id, moment_id, from_id, to_id, rating, note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			review.ID, review.MomentID, review.FromID, review.ToID,
			review.Rating, review.Note, review.CreatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return model.ErrAlreadyReviewed
			}
			return fmt.Errorf("failed to create review: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE profiles SET
				rating_avg   = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE to_id = $1), 0),
				rating_count = (SELECT COUNT(*) FROM reviews WHERE to_id = $1),
				updated_at   = NOW()
			WHERE id = $1`, review.ToID)
		if err != nil {
			return fmt.Errorf("failed to update rating: %w", err)
		}
		return nil
	})
}

// =====================================================
// LIST & STATISTICS
// =====================================================

func (r *postgresReviewRepository) ListByTarget(ctx context.Context, toID uuid.UUID, limit, offset int) ([]model.ReviewView, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE to_id = $1`, toID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := `
		SELECT rv.id, rv.moment_id, rv.from_id, rv.to_id, rv.rating, rv.note, rv.created_at,
		       p.display_name, p.username, p.avatar_url, p.is_verified, p.trust_level,
		       m.title
		FROM reviews rv
		JOIN profiles p ON p.id = rv.from_id
		JOIN moments m ON m.id = rv.moment_id
		WHERE rv.to_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, toID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.ReviewView, 0)
	for rows.Next() {
		var v model.ReviewView
		if err := rows.Scan(
			&v.ID, &v.MomentID, &v.FromID, &v.ToID, &v.Rating, &v.Note, &v.CreatedAt,
			&v.From.DisplayName, &v.From.Username, &v.From.AvatarURL, &v.From.IsVerified, &v.From.TrustLevel,
			&v.MomentTitle,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		v.From.ID = v.FromID.String()
		reviews = append(reviews, v)
	}
	return reviews, total, rows.Err()
}

func (r *postgresReviewRepository) Summary(ctx context.Context, toID uuid.UUID) (*model.RatingSummary, error) {
	s := &model.RatingSummary{Breakdown: map[int]int{}}
	err := r.pool.QueryRow(ctx,
		`SELECT rating_avg, rating_count FROM profiles WHERE id = $1`, toID,
	).Scan(&s.Average, &s.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE to_id = $1 GROUP BY rating`, toID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating breakdown: %w", err)
	}
	defer rows.Close()

	for i := model.MinRating; i <= model.MaxRating; i++ {
		s.Breakdown[i] = 0
	}
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating breakdown: %w", err)
		}
		s.Breakdown[rating] = count
	}
	return s, rows.Err()
}
