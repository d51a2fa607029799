package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moments-backend/internal/domains/conversation/model"
	"moments-backend/internal/shared"
	"moments-backend/pkg/database"
)

type ConversationRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.ConversationSummary, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Conversation, error)
	// ListMessages returns up to limit messages older than before, oldest first.
	ListMessages(ctx context.Context, conversationID uuid.UUID, before *time.Time, limit int) ([]model.Message, error)
	CreateMessage(ctx context.Context, m *model.Message) error
	Close(ctx context.Context, id uuid.UUID) error
}

type postgresConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresConversationRepository(pool *pgxpool.Pool) ConversationRepository {
	return &postgresConversationRepository{pool: pool}
}

func (r *postgresConversationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.ConversationSummary, error) {
	query := `
		SELECT c.id, c.moment_id, c.creator_id, c.other_id, c.status, c.created_at, c.last_message_at,
		       p.id, p.display_name, p.username, p.avatar_url, p.is_verified, p.trust_level,
		       m.title,
		       lm.id, lm.sender_id, lm.body, lm.created_at
		FROM conversations c
		JOIN moments m ON m.id = c.moment_id
		JOIN profiles p ON p.id = CASE WHEN c.creator_id = $1 THEN c.other_id ELSE c.creator_id END
		LEFT JOIN LATERAL (
			SELECT id, sender_id, body, created_at FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC LIMIT 1
		) lm ON TRUE
		WHERE c.creator_id = $1 OR c.other_id = $1
		ORDER BY COALESCE(c.last_message_at, c.created_at) DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	out := make([]model.ConversationSummary, 0)
	for rows.Next() {
		var (
			s               model.ConversationSummary
			otherID         uuid.UUID
			msgID, senderID *uuid.UUID
			msgBody         *string
			msgAt           *time.Time
		)
		if err := rows.Scan(
			&s.ID, &s.MomentID, &s.CreatorID, &s.OtherID, &s.Status, &s.CreatedAt, &s.LastMessageAt,
			&otherID, &s.OtherUser.DisplayName, &s.OtherUser.Username, &s.OtherUser.AvatarURL,
			&s.OtherUser.IsVerified, &s.OtherUser.TrustLevel,
			&s.MomentTitle,
			&msgID, &senderID, &msgBody, &msgAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		s.OtherUser.ID = otherID.String()
		if msgID != nil {
			s.LastMessage = &model.Message{
				ID: *msgID, ConversationID: s.ID, SenderID: *senderID, Body: *msgBody, CreatedAt: *msgAt,
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *postgresConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Conversation, error) {
	c := &model.Conversation{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, moment_id, creator_id, other_id, status, created_at, last_message_at
		FROM conversations WHERE id = $1`, id,
	).Scan(&c.ID, &c.MomentID, &c.CreatorID, &c.OtherID, &c.Status, &c.CreatedAt, &c.LastMessageAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return c, nil
}

func (r *postgresConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, before *time.Time, limit int) ([]model.Message, error) {
	// newest page first, then flipped to ascending
	query := `
		SELECT id, conversation_id, sender_id, body, created_at FROM (
			SELECT id, conversation_id, sender_id, body, created_at
			FROM messages
			WHERE conversation_id = $1 AND ($2::timestamptz IS NULL OR created_at < $2)
			ORDER BY created_at DESC
			LIMIT $3
		) page
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, conversationID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	msgs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Message])
	if err != nil {
		return nil, fmt.Errorf("failed to scan messages: %w", err)
	}
	return msgs, nil
}

func (r *postgresConversationRepository) CreateMessage(ctx context.Context, m *model.Message) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO messages (id, conversation_id, sender_id, body, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			m.ID, m.ConversationID, m.SenderID, m.Body, m.CreatedAt); err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE conversations SET last_message_at = $2 WHERE id = $1`, m.ConversationID, m.CreatedAt); err != nil {
			return fmt.Errorf("failed to touch conversation: %w", err)
		}
		return nil
	})
}

func (r *postgresConversationRepository) Close(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE conversations SET status = $2 WHERE id = $1`, id, model.StatusClosed); err != nil {
		return fmt.Errorf("failed to close conversation: %w", err)
	}
	return nil
}

// OpenForMoment opens (or reopens) the conversation between a moment's
// creator and the accepted applicant inside the caller's transaction.
func OpenForMoment(ctx context.Context, q shared.Querier, momentID, creatorID, otherID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx, `
		INSERT INTO conversations (moment_id, creator_id, other_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (moment_id, other_id) DO UPDATE SET status = EXCLUDED.status
		RETURNING id`, momentID, creatorID, otherID, model.StatusOpen,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to open conversation: %w", err)
	}
	return id, nil
}
