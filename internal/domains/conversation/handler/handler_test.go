package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moments-backend/internal/domains/conversation/model"
	"moments-backend/internal/shared/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	sendErr error
	sent    model.SendMessageRequest
	before  *time.Time
}

func (s *stubService) List(context.Context, uuid.UUID) ([]model.ConversationSummary, error) {
	return []model.ConversationSummary{}, nil
}

func (s *stubService) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Conversation, error) {
	return &model.Conversation{ID: id}, nil
}

func (s *stubService) Messages(_ context.Context, _ uuid.UUID, _ uuid.UUID, before *time.Time, _ int) ([]model.Message, error) {
	s.before = before
	return []model.Message{}, nil
}

func (s *stubService) Send(_ context.Context, userID, id uuid.UUID, req model.SendMessageRequest) (*model.Message, error) {
	s.sent = req
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &model.Message{ID: uuid.New(), ConversationID: id, SenderID: userID, Body: req.Body}, nil
}

func (s *stubService) Close(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func newRouter(svc *stubService, userID uuid.UUID) *gin.Engine {
	h := NewConversationHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})
	r.GET("/conversations/:id/messages", h.Messages)
	r.POST("/conversations/:id/messages", h.Send)
	return r
}

func TestSend(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		sendErr    error
		wantStatus int
		wantCode   string
	}{
		{"created", "/conversations/" + uuid.NewString() + "/messages", `{"body":"hi"}`, nil, http.StatusCreated, ""},
		{"bad id", "/conversations/nope/messages", `{"body":"hi"}`, nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"closed", "/conversations/" + uuid.NewString() + "/messages", `{"body":"hi"}`, model.NewClosedError(), http.StatusConflict, model.ErrCodeClosed},
		{"outsider", "/conversations/" + uuid.NewString() + "/messages", `{"body":"hi"}`, model.NewNotAllowedError(), http.StatusForbidden, model.ErrCodeNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{sendErr: tt.sendErr}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			newRouter(svc, uuid.New()).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				var body struct {
					Error struct{ Code string } `json:"error"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Error.Code)
			}
		})
	}
}

func TestMessages_ParsesCursor(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc, uuid.New())
	path := "/conversations/" + uuid.NewString() + "/messages"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path+"?before=2026-03-01T12:00:00Z", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.before)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), svc.before.UTC())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path+"?before=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
