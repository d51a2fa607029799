package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"moments-backend/internal/domains/conversation/model"
	"moments-backend/internal/domains/conversation/repository"
	"moments-backend/internal/infrastructure/realtime"
	"moments-backend/pkg/logger"
)

type ServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.ConversationSummary, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Conversation, error)
	Messages(ctx context.Context, userID, id uuid.UUID, before *time.Time, limit int) ([]model.Message, error)
	Send(ctx context.Context, userID, id uuid.UUID, req model.SendMessageRequest) (*model.Message, error)
	Close(ctx context.Context, userID, id uuid.UUID) error
}

type BlockChecker interface {
	IsBlockedEither(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type conversationService struct {
	repo      repository.ConversationRepository
	blocks    BlockChecker
	publisher realtime.Publisher
	now       func() time.Time
}

func NewConversationService(repo repository.ConversationRepository, blocks BlockChecker, publisher realtime.Publisher) ServiceInterface {
	return &conversationService{repo: repo, blocks: blocks, publisher: publisher, now: time.Now}
}

func (s *conversationService) List(ctx context.Context, userID uuid.UUID) ([]model.ConversationSummary, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *conversationService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Conversation, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewNotFoundError()
		}
		return nil, err
	}
	if !c.HasParticipant(userID) {
		return nil, model.NewNotAllowedError()
	}
	return c, nil
}

func (s *conversationService) Messages(ctx context.Context, userID, id uuid.UUID, before *time.Time, limit int) ([]model.Message, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = model.DefaultMessageLimit
	}
	if limit > model.MaxMessageLimit {
		limit = model.MaxMessageLimit
	}
	return s.repo.ListMessages(ctx, id, before, limit)
}

// Send stores the message and pushes message.created to both parties.
func (s *conversationService) Send(ctx context.Context, userID, id uuid.UUID, req model.SendMessageRequest) (*model.Message, error) {
	req.Body = strings.TrimSpace(req.Body)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != model.StatusOpen {
		return nil, model.NewClosedError()
	}

	other := c.Counterpart(userID)
	blocked, err := s.blocks.IsBlockedEither(ctx, userID, other)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, model.NewBlockedError()
	}

	msg := &model.Message{
		ID:             uuid.New(),
		ConversationID: c.ID,
		SenderID:       userID,
		Body:           req.Body,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	evt := realtime.Event{Type: realtime.EventMessageCreated, Payload: msg}
	for _, uid := range []uuid.UUID{other, userID} {
		if err := s.publisher.Publish(ctx, uid, evt); err != nil {
			logger.Warn("message push failed", map[string]interface{}{
				"conversation_id": c.ID.String(),
				"user_id":         uid.String(),
				"error":           err.Error(),
			})
		}
	}
	return msg, nil
}

func (s *conversationService) Close(ctx context.Context, userID, id uuid.UUID) error {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if c.Status == model.StatusClosed {
		return nil
	}
	return s.repo.Close(ctx, id)
}
