package repository

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/profile/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	UpdateVerification(ctx context.Context, id uuid.UUID, verified bool, trustLevel *int) error

	// GetPublic includes follower, following and post counts.
	GetPublic(ctx context.Context, id uuid.UUID) (*model.PublicProfile, error)
}
