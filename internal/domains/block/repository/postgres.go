package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"moments-backend/internal/domains/block/model"
	"moments-backend/internal/shared"
)

type postgresBlockRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBlockRepository(pool *pgxpool.Pool) BlockRepository {
	return &postgresBlockRepository{pool: pool}
}

func (r *postgresBlockRepository) Create(ctx context.Context, b *model.Block) error {
	query := `
		INSERT INTO blocks (blocker_id, blocked_id, reason)
		VALUES ($1, $2, $3)
		ON CONFLICT (blocker_id, blocked_id) DO UPDATE SET reason = COALESCE(EXCLUDED.reason, blocks.reason)
		RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query, b.BlockerID, b.BlockedID, b.Reason).Scan(&b.CreatedAt); err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}
	return nil
}

func (r *postgresBlockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`, blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("failed to delete block: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresBlockRepository) ListByBlocker(ctx context.Context, blockerID uuid.UUID) ([]model.BlockedUser, error) {
	query := `
		SELECT p.id, p.display_name, p.username, p.avatar_url, p.is_verified, p.trust_level,
		       b.reason, b.created_at
		FROM blocks b
		JOIN profiles p ON p.id = b.blocked_id
		WHERE b.blocker_id = $1
		ORDER BY b.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, blockerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	out := make([]model.BlockedUser, 0)
	for rows.Next() {
		var (
			bu model.BlockedUser
			id uuid.UUID
		)
		if err := rows.Scan(&id, &bu.User.DisplayName, &bu.User.Username, &bu.User.AvatarURL,
			&bu.User.IsVerified, &bu.User.TrustLevel, &bu.Reason, &bu.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		bu.User.ID = id.String()
		out = append(out, bu)
	}
	return out, rows.Err()
}

func (r *postgresBlockRepository) IsBlockedEither(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return IsBlockedEither(ctx, r.pool, a, b)
}

func (r *postgresBlockRepository) ProfileExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return exists, nil
}

// IsBlockedEither is shared with repositories that check blocks inside
// their own transactions.
func IsBlockedEither(ctx context.Context, q shared.Querier, a, b uuid.UUID) (bool, error) {
	var blocked bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2) OR (blocker_id = $2 AND blocked_id = $1)
		)`, a, b).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return blocked, nil
}
