package service

import (
	"context"

	"github.com/google/uuid"

	"moments-backend/internal/domains/profile/model"
)

type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error)

	GetMe(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte) (*model.Profile, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*model.PublicProfile, error)

	SetRole(ctx context.Context, id uuid.UUID, req model.UpdateRoleRequest) (*model.Profile, error)
	SetVerification(ctx context.Context, id uuid.UUID, req model.UpdateVerificationRequest) (*model.Profile, error)
}
