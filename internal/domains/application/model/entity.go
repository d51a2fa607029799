package model

import (
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/shared"
)

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	QuietModeMaxMessage = 240
	MaxMessage          = 1000
)

type Application struct {
	ID          uuid.UUID `json:"id"`
	MomentID    uuid.UUID `json:"moment_id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApplicationView is shown to the moment creator and to the applicant.
type ApplicationView struct {
	Application
	Applicant    shared.UserSummary `json:"applicant"`
	RatingAvg    float64            `json:"rating_avg"`
	MomentTitle  string             `json:"moment_title"`
	MomentStatus string             `json:"moment_status"`
}

// MomentInfo is the part of a moment that gates applications.
type MomentInfo struct {
	ID               uuid.UUID
	CreatorID        uuid.UUID
	Title            string
	Status           string
	ExpiresAt        time.Time
	QuietMode        bool
	RequiresVerified bool
}

// Applicant is the part of the applicant's profile that gates applying.
type Applicant struct {
	DisplayName string
	TrustLevel  int
	IsVerified  bool
}

// AcceptResult is what a successful accept produced.
type AcceptResult struct {
	Application    Application `json:"application"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	MomentTitle    string      `json:"-"`
	Rejected       []uuid.UUID `json:"-"`
}
