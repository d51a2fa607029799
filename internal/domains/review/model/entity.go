package model

import (
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/shared"
)

// Review is one party's rating of the other after a matched moment.
type Review struct {
	ID       uuid.UUID `json:"id"`
	MomentID uuid.UUID `json:"moment_id"`
	FromID   uuid.UUID `json:"from_id"`
	ToID     uuid.UUID `json:"to_id"`

	Rating int     `json:"rating"` // 1-5
	Note   *string `json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ReviewView adds the reviewer and the moment title for profile pages.
type ReviewView struct {
	Review
	From        shared.UserSummary `json:"from"`
	MomentTitle string             `json:"moment_title"`
}

// RatingSummary is the target's aggregate rating.
type RatingSummary struct {
	Average   float64     `json:"rating_avg"`
	Count     int         `json:"rating_count"`
	Breakdown map[int]int `json:"breakdown"`
}

// Participants is what a review needs to know about the moment.
type Participants struct {
	MomentStatus string
	MomentTitle  string
	CreatorID    uuid.UUID
	AcceptedID   *uuid.UUID
}

// Counterpart returns who userID may review for this moment.
func (p *Participants) Counterpart(userID uuid.UUID) (uuid.UUID, bool) {
	if p.AcceptedID == nil {
		return uuid.Nil, false
	}
	switch userID {
	case p.CreatorID:
		return *p.AcceptedID, true
	case *p.AcceptedID:
		return p.CreatorID, true
	}
	return uuid.Nil, false
}
