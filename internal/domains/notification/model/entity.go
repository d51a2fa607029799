package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	TypeMomentExpired       = "moment_expired"
	TypeApplicationReceived = "application_received"
	TypeApplicationAccepted = "application_accepted"
	TypeApplicationRejected = "application_rejected"
	TypeReaction            = "reaction"
	TypeComment             = "comment"
	TypeFollow              = "follow"
	TypeSystem              = "system"
)

const ListLimit = 50

type Notification struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Link      *string         `json:"link,omitempty"`
	Data      json.RawMessage `json:"data"`
	ActorID   *uuid.UUID      `json:"actor_id,omitempty"`
	PostID    *uuid.UUID      `json:"post_id,omitempty"`
	CommentID *uuid.UUID      `json:"comment_id,omitempty"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}

// NotifyInput is what other domains hand to Notify.
type NotifyInput struct {
	UserID    uuid.UUID
	Type      string
	Title     string
	Body      string
	Link      *string
	Data      map[string]any
	ActorID   *uuid.UUID
	PostID    *uuid.UUID
	CommentID *uuid.UUID
}

// ToNotification builds the row to insert.
func (in NotifyInput) ToNotification(now time.Time) (*Notification, error) {
	data := in.Data
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Notification{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Type:      in.Type,
		Title:     in.Title,
		Body:      in.Body,
		Link:      in.Link,
		Data:      raw,
		ActorID:   in.ActorID,
		PostID:    in.PostID,
		CommentID: in.CommentID,
		CreatedAt: now,
	}, nil
}

type UnreadCount struct {
	Count int `json:"count"`
}
