package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moments-backend/internal/domains/post/model"
	"moments-backend/pkg/database"
)

const postColumns = `
	p.id, p.author_id, p.content, p.link_url, p.link_title,
	p.link_description, p.link_image_url, p.is_deleted, p.created_at, p.updated_at`

// viewSelect expects the viewer id as $1.
const viewSelect = `SELECT ` + postColumns + `,
	a.display_name, a.username, a.avatar_url, a.is_verified, a.trust_level,
	rc.likes, rc.celebrates, rc.supports, rc.loves, rc.insightfuls,
	cc.n,
	mine.reaction_type,
	EXISTS (SELECT 1 FROM saved_posts s WHERE s.post_id = p.id AND s.user_id = $1)
	FROM posts p
	JOIN profiles a ON a.id = p.author_id
	LEFT JOIN LATERAL (
		SELECT
			COUNT(*) FILTER (WHERE r.reaction_type = 'like')       AS likes,
			COUNT(*) FILTER (WHERE r.reaction_type = 'celebrate')  AS celebrates,
			COUNT(*) FILTER (WHERE r.reaction_type = 'support')    AS supports,
			COUNT(*) FILTER (WHERE r.reaction_type = 'love')       AS loves,
			COUNT(*) FILTER (WHERE r.reaction_type = 'insightful') AS insightfuls
		FROM post_reactions r WHERE r.post_id = p.id
	) rc ON TRUE
	LEFT JOIN LATERAL (
		SELECT COUNT(*) AS n FROM comments c WHERE c.post_id = p.id AND NOT c.is_deleted
	) cc ON TRUE
	LEFT JOIN post_reactions mine ON mine.post_id = p.id AND mine.user_id = $1`

type postgresPostRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postgresPostRepository{pool: pool}
}

func (r *postgresPostRepository) Create(ctx context.Context, p *model.Post) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO posts (
			id, author_id, content, link_url, link_title,
			link_description, link_image_url, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)`,
		p.ID, p.AuthorID, p.Content, p.LinkURL, p.LinkTitle,
		p.LinkDescription, p.LinkImageURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postgresPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	p := &model.Post{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.id = $1 AND NOT p.is_deleted`, id,
	).Scan(
		&p.ID, &p.AuthorID, &p.Content, &p.LinkURL, &p.LinkTitle,
		&p.LinkDescription, &p.LinkImageURL, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

func (r *postgresPostRepository) FindView(ctx context.Context, id, viewerID uuid.UUID) (*model.PostView, error) {
	v, err := scanView(r.pool.QueryRow(ctx,
		viewSelect+` WHERE p.id = $2 AND NOT p.is_deleted`, viewerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return v, nil
}

func (r *postgresPostRepository) Update(ctx context.Context, p *model.Post) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts SET
			content = $2, link_url = $3, link_title = $4,
			link_description = $5, link_image_url = $6, updated_at = $7
		WHERE id = $1 AND NOT is_deleted`,
		p.ID, p.Content, p.LinkURL, p.LinkTitle, p.LinkDescription, p.LinkImageURL, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postgresPostRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postgresPostRepository) Feed(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]model.PostView, error) {
	query := viewSelect + `
		WHERE NOT p.is_deleted
		  AND (p.author_id = $1
		       OR p.author_id IN (SELECT f.following_id FROM follows f WHERE f.follower_id = $1))
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`
	return r.queryViews(ctx, query, viewerID, limit, offset)
}

func (r *postgresPostRepository) ListByAuthor(ctx context.Context, authorID, viewerID uuid.UUID, limit, offset int) ([]model.PostView, error) {
	query := viewSelect + `
		WHERE NOT p.is_deleted AND p.author_id = $2
		ORDER BY p.created_at DESC
		LIMIT $3 OFFSET $4`
	return r.queryViews(ctx, query, viewerID, authorID, limit, offset)
}

func (r *postgresPostRepository) ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PostView, error) {
	query := viewSelect + `
		JOIN saved_posts sv ON sv.post_id = p.id AND sv.user_id = $1
		WHERE NOT p.is_deleted
		ORDER BY sv.created_at DESC
		LIMIT $2 OFFSET $3`
	return r.queryViews(ctx, query, userID, limit, offset)
}

func (r *postgresPostRepository) ToggleReaction(ctx context.Context, postID, userID uuid.UUID, reactionType string) (*model.ReactionResult, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.ReactionResult, error) {
		result := &model.ReactionResult{PostID: postID}

		var current string
		err := tx.QueryRow(ctx, `
			SELECT reaction_type FROM post_reactions
			WHERE post_id = $1 AND user_id = $2 FOR UPDATE`, postID, userID,
		).Scan(&current)

		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if _, err := tx.Exec(ctx, `
				INSERT INTO post_reactions (post_id, user_id, reaction_type)
				VALUES ($1, $2, $3)
				ON CONFLICT (post_id, user_id) DO UPDATE SET reaction_type = EXCLUDED.reaction_type`,
				postID, userID, reactionType); err != nil {
				return nil, fmt.Errorf("failed to add reaction: %w", err)
			}
			result.Action = model.ReactionAdded
			result.UserReaction = &reactionType

		case err != nil:
			return nil, fmt.Errorf("failed to read reaction: %w", err)

		case current == reactionType:
			if _, err := tx.Exec(ctx,
				`DELETE FROM post_reactions WHERE post_id = $1 AND user_id = $2`, postID, userID); err != nil {
				return nil, fmt.Errorf("failed to remove reaction: %w", err)
			}
			result.Action = model.ReactionRemoved

		default:
			if _, err := tx.Exec(ctx,
				`UPDATE post_reactions SET reaction_type = $3 WHERE post_id = $1 AND user_id = $2`,
				postID, userID, reactionType); err != nil {
				return nil, fmt.Errorf("failed to update reaction: %w", err)
			}
			result.Action = model.ReactionUpdated
			result.UserReaction = &reactionType
		}

		return result, nil
	})
}

func (r *postgresPostRepository) Save(ctx context.Context, userID, postID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO saved_posts (user_id, post_id) VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING`, userID, postID)
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

func (r *postgresPostRepository) Unsave(ctx context.Context, userID, postID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM saved_posts WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return fmt.Errorf("failed to unsave post: %w", err)
	}
	return nil
}

func (r *postgresPostRepository) AuthorName(ctx context.Context, userID uuid.UUID) (string, error) {
	var name string
	if err := r.pool.QueryRow(ctx,
		`SELECT display_name FROM profiles WHERE id = $1`, userID).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to get display name: %w", err)
	}
	return name, nil
}

func (r *postgresPostRepository) queryViews(ctx context.Context, query string, args ...any) ([]model.PostView, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.PostView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func scanView(row pgx.Row) (*model.PostView, error) {
	v := &model.PostView{}
	p := &v.Post
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.Content, &p.LinkURL, &p.LinkTitle,
		&p.LinkDescription, &p.LinkImageURL, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
		&v.Author.DisplayName, &v.Author.Username, &v.Author.AvatarURL,
		&v.Author.IsVerified, &v.Author.TrustLevel,
		&v.Reactions.Like, &v.Reactions.Celebrate, &v.Reactions.Support,
		&v.Reactions.Love, &v.Reactions.Insightful,
		&v.CommentCount,
		&v.UserReaction,
		&v.IsSaved,
	)
	if err != nil {
		return nil, err
	}
	v.Author.ID = p.AuthorID.String()
	v.TotalReactions = v.Reactions.Total()
	return v, nil
}
