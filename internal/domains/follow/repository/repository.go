package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moments-backend/internal/domains/follow/model"
)

type FollowRepository interface {
	// Follow reports whether a new edge was created.
	Follow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	Status(ctx context.Context, viewerID, otherID uuid.UUID) (*model.FollowingStatus, error)
	Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.FollowEntry, error)
	Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.FollowEntry, error)
	ProfileName(ctx context.Context, id uuid.UUID) (string, error)
}

type postgresFollowRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFollowRepository(pool *pgxpool.Pool) FollowRepository {
	return &postgresFollowRepository{pool: pool}
}

func (r *postgresFollowRepository) Follow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to follow: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresFollowRepository) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

func (r *postgresFollowRepository) Status(ctx context.Context, viewerID, otherID uuid.UUID) (*model.FollowingStatus, error) {
	st := &model.FollowingStatus{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2),
			EXISTS(SELECT 1 FROM follows WHERE follower_id = $2 AND following_id = $1)`,
		viewerID, otherID).Scan(&st.IsFollowing, &st.IsFollowedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to get follow status: %w", err)
	}
	return st, nil
}

func (r *postgresFollowRepository) Followers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.FollowEntry, error) {
	return r.list(ctx, `
		SELECT p.id, p.display_name, p.username, p.avatar_url, p.is_verified, p.trust_level,
		       p.headline, f.created_at
		FROM follows f
		JOIN profiles p ON p.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
}

func (r *postgresFollowRepository) Following(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.FollowEntry, error) {
	return r.list(ctx, `
		SELECT p.id, p.display_name, p.username, p.avatar_url, p.is_verified, p.trust_level,
		       p.headline, f.created_at
		FROM follows f
		JOIN profiles p ON p.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
}

func (r *postgresFollowRepository) list(ctx context.Context, query string, args ...any) ([]model.FollowEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	defer rows.Close()

	out := make([]model.FollowEntry, 0)
	for rows.Next() {
		var (
			e  model.FollowEntry
			id uuid.UUID
		)
		if err := rows.Scan(&id, &e.User.DisplayName, &e.User.Username, &e.User.AvatarURL,
			&e.User.IsVerified, &e.User.TrustLevel, &e.Headline, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		e.User.ID = id.String()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *postgresFollowRepository) ProfileName(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT display_name FROM profiles WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	return name, nil
}
