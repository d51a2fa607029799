package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"moments-backend/internal/shared"
)

// Enqueuer is what API-side services use to hand work to the worker.
type Enqueuer interface {
	EnqueueAttachmentThumbnail(ctx context.Context, payload shared.AttachmentThumbnailPayload) error
}

type Client struct {
	client *asynq.Client
}

func NewClient(redisOpt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpt)}
}

func (c *Client) EnqueueAttachmentThumbnail(ctx context.Context, payload shared.AttachmentThumbnailPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal thumbnail payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeAttachmentThumbnail, data)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeAttachmentThumbnail, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
