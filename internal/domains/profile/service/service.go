package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"moments-backend/internal/domains/profile/model"
	"moments-backend/internal/domains/profile/repository"
	"moments-backend/internal/infrastructure/storage"
	"moments-backend/internal/shared/utils"
	"moments-backend/pkg/cache"
	"moments-backend/pkg/jwt"
	"moments-backend/pkg/logger"
)

const (
	bcryptCost     = 12
	publicCacheTTL = 5 * time.Minute
	maxHandleLen   = 24
)

func publicCacheKey(id uuid.UUID) string {
	return "profile:public:" + id.String()
}

type profileService struct {
	repo         repository.ProfileRepository
	cache        cache.Cache
	jwt          *jwt.Manager
	storage      storage.ObjectStorage
	images       *storage.ImageProcessor
	avatarBucket string
}

func NewProfileService(
	repo repository.ProfileRepository,
	cache cache.Cache,
	jwtManager *jwt.Manager,
	objectStorage storage.ObjectStorage,
	images *storage.ImageProcessor,
	avatarBucket string,
) ServiceInterface {
	return &profileService{
		repo:         repo,
		cache:        cache,
		jwt:          jwtManager,
		storage:      objectStorage,
		images:       images,
		avatarBucket: avatarBucket,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *profileService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. HASH PASSWORD
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. CREATE PROFILE
	now := time.Now()
	p := &model.Profile{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(req.DisplayName),
		HomeArea:     strings.TrimSpace(req.HomeArea),
		Skills:       []string{},
		Interests:    []string{},
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.Username = suggestUsername(p.DisplayName, p.ID)

	err = s.repo.Create(ctx, p)
	if errors.Is(err, model.ErrUsernameTaken) {
		// The suggestion is only a convenience; retry without it.
		p.Username = nil
		err = s.repo.Create(ctx, p)
	}
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	// 4. ISSUE TOKENS
	return s.issueTokens(p)
}

func (s *profileService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	return s.issueTokens(p)
}

func (s *profileService) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.NewInvalidTokenError()
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.NewInvalidTokenError()
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, model.NewInvalidTokenError()
		}
		return nil, err
	}

	return s.issueTokens(p)
}

func (s *profileService) issueTokens(p *model.Profile) (*model.AuthResponse, error) {
	access, err := s.jwt.GenerateAccessToken(p.ID.String(), p.Email, p.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(p.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &model.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(s.jwt.AccessExpiry()),
		Profile:      p,
	}, nil
}

// ========================================
// PROFILE
// ========================================

func (s *profileService) GetMe(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	p, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, model.NewProfileNotFoundError()
		}
		return nil, err
	}
	return p, nil
}

func (s *profileService) UpdateMe(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(p)
	if err := s.repo.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, model.ErrUsernameTaken):
			return nil, model.NewUsernameTakenError()
		case errors.Is(err, model.ErrProfileNotFound):
			return nil, model.NewProfileNotFoundError()
		}
		return nil, err
	}

	s.invalidate(ctx, userID)
	return p, nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte) (*model.Profile, error) {
	if err := s.images.ValidateImage(data); err != nil {
		return nil, model.NewInvalidImageError(err)
	}

	resized, err := s.images.Avatar(data)
	if err != nil {
		return nil, model.NewInvalidImageError(err)
	}

	key := fmt.Sprintf("%s/avatar-%d.jpg", userID, time.Now().UnixMilli())
	url, err := s.storage.Upload(ctx, s.avatarBucket, key, resized, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.repo.UpdateAvatar(ctx, userID, url); err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, model.NewProfileNotFoundError()
		}
		return nil, err
	}

	s.invalidate(ctx, userID)
	return s.GetMe(ctx, userID)
}

// GetPublic is served from cache for publicCacheTTL.
func (s *profileService) GetPublic(ctx context.Context, id uuid.UUID) (*model.PublicProfile, error) {
	key := publicCacheKey(id)

	var cached model.PublicProfile
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	pp, err := s.repo.GetPublic(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, model.NewProfileNotFoundError()
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, key, pp, publicCacheTTL); err != nil {
		logger.Warn("[PROFILE] Cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return pp, nil
}

// ========================================
// ADMIN
// ========================================

func (s *profileService) SetRole(ctx context.Context, id uuid.UUID, req model.UpdateRoleRequest) (*model.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRole(ctx, id, req.Role); err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, model.NewProfileNotFoundError()
		}
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.GetMe(ctx, id)
}

func (s *profileService) SetVerification(ctx context.Context, id uuid.UUID, req model.UpdateVerificationRequest) (*model.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateVerification(ctx, id, req.IsVerified, req.TrustLevel); err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, model.NewProfileNotFoundError()
		}
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.GetMe(ctx, id)
}

func (s *profileService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, publicCacheKey(id)); err != nil {
		logger.Warn("[PROFILE] Cache invalidation failed", map[string]interface{}{"id": id.String(), "error": err.Error()})
	}
}

// suggestUsername derives a handle from the display name with a short
// id suffix. nil when nothing usable remains.
func suggestUsername(displayName string, id uuid.UUID) *string {
	handle := utils.GenerateHandle(displayName, maxHandleLen)
	if len(handle) < 2 {
		return nil
	}
	u := handle + "_" + strings.ReplaceAll(id.String(), "-", "")[:4]
	return &u
}
