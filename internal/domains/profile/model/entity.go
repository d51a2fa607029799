package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/shared"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is a registered user. PasswordHash never leaves the service layer.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Username     *string   `json:"username,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Headline     *string   `json:"headline,omitempty"`
	About        *string   `json:"about,omitempty"`
	HomeArea     string    `json:"home_area"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	Skills       []string  `json:"skills"`
	Interests    []string  `json:"interests"`
	TrustLevel   int       `json:"trust_level"`
	RatingAvg    float64   `json:"rating_avg"`
	RatingCount  int       `json:"rating_count"`
	IsVerified   bool      `json:"is_verified"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicProfile is GET /profiles/:id: no email, plus social counts.
type PublicProfile struct {
	ID              uuid.UUID `json:"id"`
	DisplayName     string    `json:"display_name"`
	Username        *string   `json:"username,omitempty"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	Headline        *string   `json:"headline,omitempty"`
	About           *string   `json:"about,omitempty"`
	HomeArea        string    `json:"home_area"`
	Skills          []string  `json:"skills"`
	Interests       []string  `json:"interests"`
	TrustLevel      int       `json:"trust_level"`
	TrustLevelLabel string    `json:"trust_level_label"`
	RatingAvg       float64   `json:"rating_avg"`
	RatingCount     int       `json:"rating_count"`
	IsVerified      bool      `json:"is_verified"`
	FollowerCount   int       `json:"follower_count"`
	FollowingCount  int       `json:"following_count"`
	PostCount       int       `json:"post_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// TrustLevelLabel renders a trust level for display.
func TrustLevelLabel(level int) string {
	return fmt.Sprintf("Level %d", level)
}

func (p *Profile) Summary() shared.UserSummary {
	return shared.UserSummary{
		ID:          p.ID.String(),
		DisplayName: p.DisplayName,
		Username:    p.Username,
		AvatarURL:   p.AvatarURL,
		IsVerified:  p.IsVerified,
		TrustLevel:  p.TrustLevel,
	}
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
