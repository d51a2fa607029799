package realtime

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

const (
	EventMessageCreated      = "message.created"
	EventNotificationCreated = "notification.created"

	channelPrefix = "rt:user:"
)

// Event is the envelope written to sockets and to Redis.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Publisher delivers an event to every socket a user has open,
// on any API instance.
type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, evt Event) error
}

// UserChannel is the pub/sub channel for one user.
func UserChannel(userID uuid.UUID) string {
	return channelPrefix + userID.String()
}

func userFromChannel(channel string) (uuid.UUID, bool) {
	if !strings.HasPrefix(channel, channelPrefix) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(channel, channelPrefix))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func encode(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}
