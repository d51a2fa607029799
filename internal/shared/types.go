package shared

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queue names, highest priority first.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// Task types handled by cmd/worker.
const (
	TypeExpireMoments       = "moment:expire"
	TypeCleanupNotification = "notification:cleanup_old"
	TypeAttachmentThumbnail = "post:attachment_thumbnail"
)

// AttachmentThumbnailPayload identifies an uploaded image to thumbnail.
type AttachmentThumbnailPayload struct {
	AttachmentID string `json:"attachment_id"`
	Bucket       string `json:"bucket"`
	ObjectPath   string `json:"object_path"`
}

// CleanupNotificationPayload overrides the configured retention when set.
type CleanupNotificationPayload struct {
	RetentionDays int `json:"retention_days,omitempty"`
}

// UserSummary is the compact profile embedded in other domains' views
// without importing the profile package.
type UserSummary struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Username    *string `json:"username,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	IsVerified  bool    `json:"is_verified"`
	TrustLevel  int     `json:"trust_level"`
}

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
