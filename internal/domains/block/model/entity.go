package model

import (
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/shared"
)

type Block struct {
	BlockerID uuid.UUID `json:"blocker_id"`
	BlockedID uuid.UUID `json:"blocked_id"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BlockedUser is a row of GET /blocks.
type BlockedUser struct {
	User      shared.UserSummary `json:"user"`
	Reason    *string            `json:"reason,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}
