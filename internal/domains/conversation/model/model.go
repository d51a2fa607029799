package model

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"moments-backend/internal/shared"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"

	DefaultMessageLimit = 50
	MaxMessageLimit     = 200
)

type Conversation struct {
	ID            uuid.UUID  `json:"id"`
	MomentID      uuid.UUID  `json:"moment_id"`
	CreatorID     uuid.UUID  `json:"creator_id"`
	OtherID       uuid.UUID  `json:"other_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// HasParticipant reports whether userID is one of the two parties.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.CreatorID == userID || c.OtherID == userID
}

// Counterpart returns the party that is not userID.
func (c *Conversation) Counterpart(userID uuid.UUID) uuid.UUID {
	if c.CreatorID == userID {
		return c.OtherID
	}
	return c.CreatorID
}

type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationSummary is one inbox row.
type ConversationSummary struct {
	Conversation
	OtherUser   shared.UserSummary `json:"other_user"`
	MomentTitle string             `json:"moment_title"`
	LastMessage *Message           `json:"last_message,omitempty"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (r SendMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required, validation.RuneLength(1, 2000)),
	)
}

const (
	ErrCodeNotFound      = "CNV001"
	ErrCodeNotAllowed    = "CNV002"
	ErrCodeClosed        = "CNV003"
	ErrCodeBlocked       = "CNV004"
	ErrCodeInvalidCursor = "CNV005"
)

var (
	ErrNotFound = errors.New("conversation not found")
)

type ConversationError struct {
	Code    string
	Message string
	Err     error
}

func (e *ConversationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConversationError) Unwrap() error { return e.Err }

func NewNotFoundError() *ConversationError {
	return &ConversationError{Code: ErrCodeNotFound, Message: "Conversation not found", Err: ErrNotFound}
}

func NewNotAllowedError() *ConversationError {
	return &ConversationError{Code: ErrCodeNotAllowed, Message: "You are not part of this conversation"}
}

func NewClosedError() *ConversationError {
	return &ConversationError{Code: ErrCodeClosed, Message: "This conversation is closed"}
}

func NewBlockedError() *ConversationError {
	return &ConversationError{Code: ErrCodeBlocked, Message: "You cannot message this user"}
}
