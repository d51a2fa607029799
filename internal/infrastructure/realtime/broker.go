package realtime

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"moments-backend/pkg/logger"
)

// RedisBroker fans events out across processes with Redis pub/sub.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, userID uuid.UUID, evt Event) error {
	data, err := encode(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, UserChannel(userID), data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	return nil
}

// Run forwards every rt:user:* message to hub until ctx is cancelled.
func (b *RedisBroker) Run(ctx context.Context, hub *Hub) error {
	sub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("psubscribe: %w", err)
	}
	logger.Info("[REALTIME] Subscribed", map[string]interface{}{"pattern": channelPrefix + "*"})

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			userID, ok := userFromChannel(msg.Channel)
			if !ok {
				continue
			}
			hub.Deliver(userID, []byte(msg.Payload))
		}
	}
}
