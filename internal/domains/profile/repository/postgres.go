package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"moments-backend/internal/domains/profile/model"
)

const profileColumns = `
	id, email, password_hash, display_name, username, avatar_url, headline, about,
	home_area, lat, lng, skills, interests, trust_level, rating_avg, rating_count,
	is_verified, role, created_at, updated_at`

type postgresProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &postgresProfileRepository{pool: pool}
}

func (r *postgresProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	query := `
		INSERT INTO profiles (
			id, email, password_hash, display_name, username, home_area,
			skills, interests, role, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Email, p.PasswordHash, p.DisplayName, p.Username, p.HomeArea,
		pq.Array(p.Skills), pq.Array(p.Interests), p.Role, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return translateUniqueViolation(err, "failed to create profile")
	}
	return nil
}

func (r *postgresProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

func (r *postgresProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return r.findOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, email)
}

func (r *postgresProfileRepository) findOne(ctx context.Context, query string, arg any) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.DisplayName, &p.Username, &p.AvatarURL,
		&p.Headline, &p.About, &p.HomeArea, &p.Lat, &p.Lng,
		pq.Array(&p.Skills), pq.Array(&p.Interests),
		&p.TrustLevel, &p.RatingAvg, &p.RatingCount,
		&p.IsVerified, &p.Role, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *postgresProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `
		UPDATE profiles SET
			display_name = $2, username = $3, headline = $4, about = $5,
			home_area = $6, lat = $7, lng = $8, skills = $9, interests = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.DisplayName, p.Username, p.Headline, p.About,
		p.HomeArea, p.Lat, p.Lng, pq.Array(p.Skills), pq.Array(p.Interests),
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProfileNotFound
		}
		return translateUniqueViolation(err, "failed to update profile")
	}
	return nil
}

func (r *postgresProfileRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error {
	return r.execOne(ctx, `UPDATE profiles SET avatar_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
}

func (r *postgresProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	return r.execOne(ctx, `UPDATE profiles SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
}

func (r *postgresProfileRepository) UpdateVerification(ctx context.Context, id uuid.UUID, verified bool, trustLevel *int) error {
	return r.execOne(ctx, `
		UPDATE profiles
		SET is_verified = $2, trust_level = COALESCE($3, trust_level), updated_at = NOW()
		WHERE id = $1`, id, verified, trustLevel)
}

func (r *postgresProfileRepository) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

func (r *postgresProfileRepository) GetPublic(ctx context.Context, id uuid.UUID) (*model.PublicProfile, error) {
	query := `
		SELECT p.id, p.display_name, p.username, p.avatar_url, p.headline, p.about,
		       p.home_area, p.skills, p.interests, p.trust_level, p.rating_avg, p.rating_count,
		       p.is_verified, p.created_at,
		       (SELECT COUNT(*) FROM follows f WHERE f.following_id = p.id),
		       (SELECT COUNT(*) FROM follows f WHERE f.follower_id = p.id),
		       (SELECT COUNT(*) FROM posts po WHERE po.author_id = p.id AND po.is_deleted = FALSE)
		FROM profiles p
		WHERE p.id = $1
	`
	pp := &model.PublicProfile{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&pp.ID, &pp.DisplayName, &pp.Username, &pp.AvatarURL, &pp.Headline, &pp.About,
		&pp.HomeArea, pq.Array(&pp.Skills), pq.Array(&pp.Interests),
		&pp.TrustLevel, &pp.RatingAvg, &pp.RatingCount, &pp.IsVerified, &pp.CreatedAt,
		&pp.FollowerCount, &pp.FollowingCount, &pp.PostCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get public profile: %w", err)
	}
	pp.TrustLevelLabel = model.TrustLevelLabel(pp.TrustLevel)
	return pp, nil
}

func translateUniqueViolation(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return model.ErrUsernameTaken
		}
		return model.ErrEmailTaken
	}
	return fmt.Errorf("%s: %w", msg, err)
}
