package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moments-backend/internal/shared"
)

const (
	TypeNeed  = "need"
	TypeOffer = "offer"
	TypeFree  = "free"
	TypeSwap  = "swap"
)

const (
	StatusActive    = "active"
	StatusMatched   = "matched"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

const (
	RewardCash = "cash"
	RewardSwap = "swap"
	RewardFree = "free"
	RewardNone = "none"
)

const (
	DefaultRadiusM  = 1500
	DefaultCurrency = "GBP"
)

// Categories is the fixed list a moment must be filed under.
var Categories = []string{
	"Moving & Transport",
	"Home & Garden",
	"Skills & Learning",
	"Food & Cooking",
	"Tech & Digital",
	"Arts & Crafts",
	"Sports & Fitness",
	"Childcare",
	"Pet Care",
	"Events & Social",
	"Other",
}

type Moment struct {
	ID               uuid.UUID        `json:"id"`
	CreatorID        uuid.UUID        `json:"creator_id"`
	Type             string           `json:"type"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	RewardType       string           `json:"reward_type"`
	RewardAmount     *decimal.Decimal `json:"reward_amount,omitempty"`
	Currency         string           `json:"currency"`
	ApproxArea       string           `json:"approx_area"`
	Lat              *float64         `json:"lat,omitempty"`
	Lng              *float64         `json:"lng,omitempty"`
	RadiusM          int              `json:"radius_m"`
	Tags             []string         `json:"tags"`
	QuietMode        bool             `json:"quiet_mode"`
	RequiresVerified bool             `json:"requires_verified"`
	Status           string           `json:"status"`
	ExpiresAt        time.Time        `json:"expires_at"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// IsOpen reports whether the moment still accepts applications at now.
func (m *Moment) IsOpen(now time.Time) bool {
	return m.Status == StatusActive && m.ExpiresAt.After(now)
}

// MomentView is a moment as shown to a viewer.
type MomentView struct {
	Moment
	Creator          shared.UserSummary `json:"creator"`
	RewardLabel      string             `json:"reward_label"`
	MinutesRemaining int                `json:"minutes_remaining"`
	TimeRemaining    string             `json:"time_remaining"`
	DistanceBand     string             `json:"distance_band,omitempty"`
}

// Decorate fills the computed fields relative to now and the viewer position.
func (v *MomentView) Decorate(now time.Time, viewerLat, viewerLng *float64) {
	v.RewardLabel = RewardLabel(v.RewardType, v.RewardAmount, v.Currency)
	v.MinutesRemaining = MinutesRemaining(v.ExpiresAt, now)
	v.TimeRemaining = FormatTimeRemaining(v.MinutesRemaining)
	if viewerLat != nil && viewerLng != nil && v.Lat != nil && v.Lng != nil {
		v.DistanceBand = DistanceBand(*viewerLat, *viewerLng, *v.Lat, *v.Lng)
	} else {
		v.DistanceBand = BandUnknown
	}
}

// Standing is the part of the creator's profile that gates actions.
type Standing struct {
	TrustLevel int
	IsVerified bool
}
