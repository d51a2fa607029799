package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateMomentRequest struct {
	Type             string           `json:"type" binding:"required"`
	Title            string           `json:"title" binding:"required"`
	Description      string           `json:"description" binding:"required"`
	Category         string           `json:"category" binding:"required"`
	RewardType       string           `json:"reward_type" binding:"required"`
	RewardAmount     *decimal.Decimal `json:"reward_amount"`
	Currency         string           `json:"currency"`
	ApproxArea       string           `json:"approx_area" binding:"required"`
	Lat              *float64         `json:"lat"`
	Lng              *float64         `json:"lng"`
	RadiusM          *int             `json:"radius_m"`
	ExpiresInHours   int              `json:"expires_in_hours" binding:"required"`
	Tags             []string         `json:"tags"`
	QuietMode        *bool            `json:"quiet_mode"`
	RequiresVerified *bool            `json:"requires_verified"`
}

func (r CreateMomentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(TypeNeed, TypeOffer, TypeFree, TypeSwap)),
		validation.Field(&r.Title, validation.Required, validation.RuneLength(3, 100)),
		validation.Field(&r.Description, validation.Required, validation.RuneLength(10, 1000)),
		validation.Field(&r.Category, validation.Required, validation.In(categoryValues()...).Error("unknown category")),
		validation.Field(&r.RewardType, validation.Required, validation.In(RewardCash, RewardSwap, RewardFree, RewardNone)),
		validation.Field(&r.RewardAmount, validation.By(r.checkRewardAmount)),
		validation.Field(&r.Currency, validation.When(r.Currency != "", validation.Length(3, 3))),
		validation.Field(&r.ApproxArea, validation.Required, validation.RuneLength(2, 100)),
		validation.Field(&r.Lat, validation.When(r.Lat != nil, validation.Min(-90.0), validation.Max(90.0))),
		validation.Field(&r.Lng, validation.When(r.Lng != nil, validation.Min(-180.0), validation.Max(180.0))),
		validation.Field(&r.RadiusM, validation.When(r.RadiusM != nil, validation.Min(100), validation.Max(10000))),
		validation.Field(&r.ExpiresInHours, validation.Required, validation.Min(2), validation.Max(12)),
		validation.Field(&r.Tags,
			validation.Length(0, 5).Error("at most 5 tags"),
			validation.Each(validation.Required, validation.RuneLength(1, 20)),
		),
	)
}

// Reward amount is required and positive for cash, and ignored otherwise.
func (r CreateMomentRequest) checkRewardAmount(_ interface{}) error {
	if r.RewardType != RewardCash {
		return nil
	}
	if r.RewardAmount == nil || !r.RewardAmount.IsPositive() {
		return errors.New("reward_amount must be greater than 0 for cash rewards")
	}
	return nil
}

// ToMoment applies defaults and builds the row for creatorID.
func (r CreateMomentRequest) ToMoment(creatorID uuid.UUID, now time.Time) *Moment {
	m := &Moment{
		ID:               uuid.New(),
		CreatorID:        creatorID,
		Type:             r.Type,
		Title:            r.Title,
		Description:      r.Description,
		Category:         r.Category,
		RewardType:       r.RewardType,
		Currency:         r.Currency,
		ApproxArea:       r.ApproxArea,
		Lat:              r.Lat,
		Lng:              r.Lng,
		RadiusM:          DefaultRadiusM,
		Tags:             r.Tags,
		QuietMode:        true,
		RequiresVerified: false,
		Status:           StatusActive,
		ExpiresAt:        now.Add(time.Duration(r.ExpiresInHours) * time.Hour),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if r.RewardType == RewardCash {
		m.RewardAmount = r.RewardAmount
	}
	if m.Currency == "" {
		m.Currency = DefaultCurrency
	}
	if r.RadiusM != nil {
		m.RadiusM = *r.RadiusM
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if r.QuietMode != nil {
		m.QuietMode = *r.QuietMode
	}
	if r.RequiresVerified != nil {
		m.RequiresVerified = *r.RequiresVerified
	}
	return m
}

func categoryValues() []interface{} {
	out := make([]interface{}, len(Categories))
	for i, c := range Categories {
		out[i] = c
	}
	return out
}

const (
	FeedAll        = "all"
	FeedEndingSoon = "ending-soon"
	FeedFree       = "free"
	FeedSwaps      = "swaps"
	FeedVerified   = "verified"
)

// FeedParams selects one page of the public moment feed.
type FeedParams struct {
	Mode     string
	Lat      *float64
	Lng      *float64
	Limit    int
	Offset   int
	ViewerID *uuid.UUID

	Now               time.Time
	EndingSoonMinutes int
}

func ValidFeedMode(mode string) bool {
	switch mode {
	case FeedAll, FeedEndingSoon, FeedFree, FeedSwaps, FeedVerified:
		return true
	}
	return false
}
