package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moments-backend/internal/domains/conversation/model"
	"moments-backend/internal/infrastructure/realtime"
)

type fakeRepo struct {
	convs    map[uuid.UUID]*model.Conversation
	messages []model.Message
}

func (r *fakeRepo) ListForUser(context.Context, uuid.UUID) ([]model.ConversationSummary, error) {
	return nil, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Conversation, error) {
	c, ok := r.convs[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) ListMessages(_ context.Context, id uuid.UUID, _ *time.Time, limit int) ([]model.Message, error) {
	if limit < len(r.messages) {
		return r.messages[:limit], nil
	}
	return r.messages, nil
}

func (r *fakeRepo) CreateMessage(_ context.Context, m *model.Message) error {
	r.messages = append(r.messages, *m)
	return nil
}

func (r *fakeRepo) Close(_ context.Context, id uuid.UUID) error {
	r.convs[id].Status = model.StatusClosed
	return nil
}

type fakeBlocks struct{ blocked bool }

func (b fakeBlocks) IsBlockedEither(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return b.blocked, nil
}

type recordingPublisher struct {
	to   []uuid.UUID
	fail bool
}

func (p *recordingPublisher) Publish(_ context.Context, userID uuid.UUID, evt realtime.Event) error {
	p.to = append(p.to, userID)
	if p.fail {
		return errors.New("redis down")
	}
	return nil
}

func setup(t *testing.T) (*conversationService, *fakeRepo, *recordingPublisher, *model.Conversation) {
	t.Helper()
	conv := &model.Conversation{
		ID: uuid.New(), MomentID: uuid.New(), CreatorID: uuid.New(), OtherID: uuid.New(),
		Status: model.StatusOpen, CreatedAt: time.Now(),
	}
	repo := &fakeRepo{convs: map[uuid.UUID]*model.Conversation{conv.ID: conv}}
	pub := &recordingPublisher{}
	svc := NewConversationService(repo, fakeBlocks{}, pub).(*conversationService)
	return svc, repo, pub, conv
}

func TestSend_PublishesToBothParties(t *testing.T) {
	svc, repo, pub, conv := setup(t)

	msg, err := svc.Send(context.Background(), conv.OtherID, conv.ID, model.SendMessageRequest{Body: " hello "})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Body)
	assert.Len(t, repo.messages, 1)
	assert.Equal(t, []uuid.UUID{conv.CreatorID, conv.OtherID}, pub.to)
}

func TestSend_PushFailureIsNotFatal(t *testing.T) {
	svc, repo, pub, conv := setup(t)
	pub.fail = true

	_, err := svc.Send(context.Background(), conv.CreatorID, conv.ID, model.SendMessageRequest{Body: "hi"})
	require.NoError(t, err)
	assert.Len(t, repo.messages, 1)
}

func TestSend_Guards(t *testing.T) {
	ctx := context.Background()

	t.Run("outsider", func(t *testing.T) {
		svc, _, _, conv := setup(t)
		_, err := svc.Send(ctx, uuid.New(), conv.ID, model.SendMessageRequest{Body: "hi"})
		assertCode(t, err, model.ErrCodeNotAllowed)
	})

	t.Run("closed", func(t *testing.T) {
		svc, _, _, conv := setup(t)
		require.NoError(t, svc.Close(ctx, conv.CreatorID, conv.ID))
		_, err := svc.Send(ctx, conv.CreatorID, conv.ID, model.SendMessageRequest{Body: "hi"})
		assertCode(t, err, model.ErrCodeClosed)
	})

	t.Run("blocked", func(t *testing.T) {
		svc, repo, pub, conv := setup(t)
		svc.blocks = fakeBlocks{blocked: true}
		_, err := svc.Send(ctx, conv.CreatorID, conv.ID, model.SendMessageRequest{Body: "hi"})
		assertCode(t, err, model.ErrCodeBlocked)
		assert.Empty(t, repo.messages)
		assert.Empty(t, pub.to)
	})

	t.Run("too long", func(t *testing.T) {
		svc, _, _, conv := setup(t)
		_, err := svc.Send(ctx, conv.CreatorID, conv.ID, model.SendMessageRequest{Body: strings.Repeat("x", 2001)})
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		svc, _, _, _ := setup(t)
		_, err := svc.Send(ctx, uuid.New(), uuid.New(), model.SendMessageRequest{Body: "hi"})
		assertCode(t, err, model.ErrCodeNotFound)
	})
}

func TestMessages_ClampsLimit(t *testing.T) {
	svc, repo, _, conv := setup(t)
	for i := 0; i < 3; i++ {
		repo.messages = append(repo.messages, model.Message{ID: uuid.New()})
	}

	msgs, err := svc.Messages(context.Background(), conv.CreatorID, conv.ID, nil, 2)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	msgs, err = svc.Messages(context.Background(), conv.CreatorID, conv.ID, nil, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var cErr *model.ConversationError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, code, cErr.Code)
}
