package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	HomeArea    string `json:"home_area" binding:"required"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be 8-128 characters"),
			validation.Match(regexp.MustCompile(`[A-Za-z]`)).Error("password must contain a letter"),
			validation.Match(regexp.MustCompile(`[0-9]`)).Error("password must contain a number"),
		),
		validation.Field(&r.DisplayName, validation.Required, validation.RuneLength(2, 50)),
		validation.Field(&r.HomeArea, validation.Required, validation.RuneLength(2, 100)),
	)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Profile      *Profile  `json:"profile"`
}

// ========================================
// PROFILE DTOs
// ========================================

// UpdateProfileRequest is a partial update: nil fields are left alone.
type UpdateProfileRequest struct {
	DisplayName *string   `json:"display_name"`
	Username    *string   `json:"username"`
	Headline    *string   `json:"headline"`
	About       *string   `json:"about"`
	HomeArea    *string   `json:"home_area"`
	Lat         *float64  `json:"lat"`
	Lng         *float64  `json:"lng"`
	Skills      *[]string `json:"skills"`
	Interests   *[]string `json:"interests"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.NilOrNotEmpty, validation.RuneLength(2, 50)),
		validation.Field(&r.Username, validation.NilOrNotEmpty,
			validation.Length(3, 30),
			validation.Match(usernamePattern).Error("username may only contain a-z, 0-9 and _"),
		),
		validation.Field(&r.Headline, validation.RuneLength(0, 120)),
		validation.Field(&r.About, validation.RuneLength(0, 1000)),
		validation.Field(&r.HomeArea, validation.NilOrNotEmpty, validation.RuneLength(2, 100)),
		validation.Field(&r.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&r.Lng, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&r.Skills, validation.Length(0, 20)),
		validation.Field(&r.Interests, validation.Length(0, 20)),
	)
}

// ApplyTo copies the set fields onto p.
func (r UpdateProfileRequest) ApplyTo(p *Profile) {
	if r.DisplayName != nil {
		p.DisplayName = *r.DisplayName
	}
	if r.Username != nil {
		p.Username = r.Username
	}
	if r.Headline != nil {
		p.Headline = r.Headline
	}
	if r.About != nil {
		p.About = r.About
	}
	if r.HomeArea != nil {
		p.HomeArea = *r.HomeArea
	}
	if r.Lat != nil {
		p.Lat = r.Lat
	}
	if r.Lng != nil {
		p.Lng = r.Lng
	}
	if r.Skills != nil {
		p.Skills = *r.Skills
	}
	if r.Interests != nil {
		p.Interests = *r.Interests
	}
}

// ========================================
// ADMIN DTOs
// ========================================

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (r UpdateRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required, validation.In(RoleUser, RoleAdmin)),
	)
}

type UpdateVerificationRequest struct {
	IsVerified bool `json:"is_verified"`
	TrustLevel *int `json:"trust_level"`
}

func (r UpdateVerificationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TrustLevel, validation.Min(0), validation.Max(10)),
	)
}
