package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TargetMoment  = "moment"
	TargetUser    = "user"
	TargetMessage = "message"
)

const (
	ReasonSpam          = "spam"
	ReasonHarassment    = "harassment"
	ReasonInappropriate = "inappropriate"
	ReasonScam          = "scam"
	ReasonFake          = "fake"
	ReasonOther         = "other"
)

const (
	StatusOpen      = "open"
	StatusReviewing = "reviewing"
	StatusResolved  = "resolved"
	StatusRejected  = "rejected"
)

type Report struct {
	ID         uuid.UUID `json:"id"`
	ReporterID uuid.UUID `json:"reporter_id"`
	TargetType string    `json:"target_type"`
	TargetID   uuid.UUID `json:"target_id"`
	Reason     string    `json:"reason"`
	Details    *string   `json:"details,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AdminReport is a report row in the moderation queue.
type AdminReport struct {
	Report
	ReporterName string `json:"reporter_name"`
}
