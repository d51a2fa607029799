package realtime

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
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"moments-backend/pkg/jwt"
)

func newTestServer(t *testing.T, hub *Hub, manager *jwt.Manager) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ws", NewHandler(hub, manager, nil).Serve)
	return httptest.NewServer(r)
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func waitConnected(t *testing.T, hub *Hub, userID uuid.UUID, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Connected(userID) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHubDeliversToUserSockets(t *testing.T) {
	defer goleak.VerifyNone(t)

	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	hub := NewHub()
	srv := newTestServer(t, hub, manager)
	defer srv.Close()

	alice, bob := uuid.New(), uuid.New()
	aliceToken, err := manager.GenerateAccessToken(alice.String(), "alice@example.com", "user")
	require.NoError(t, err)

	conn := dial(t, srv, aliceToken)
	waitConnected(t, hub, alice, 1)

	require.NoError(t, hub.Publish(context.Background(), bob, Event{Type: EventMessageCreated, Payload: "not for alice"}))
	require.NoError(t, hub.Publish(context.Background(), alice, Event{
		Type:    EventNotificationCreated,
		Payload: map[string]string{"title": "Moment Expired"},
	}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, EventNotificationCreated, got.Type)
	assert.Equal(t, "Moment Expired", got.Payload["title"])

	require.NoError(t, conn.Close())
	waitConnected(t, hub, alice, 0)
	hub.Close()
}

func TestHandlerRejectsBadToken(t *testing.T) {
	defer goleak.VerifyNone(t)

	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	hub := NewHub()
	srv := newTestServer(t, hub, manager)
	defer srv.Close()

	defer http.DefaultClient.CloseIdleConnections()

	refresh, err := manager.GenerateRefreshToken(uuid.NewString())
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", refresh} {
		resp, err := http.Get(srv.URL + "/ws?token=" + token)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, token)
	}
}

func TestHubCloseDisconnects(t *testing.T) {
	defer goleak.VerifyNone(t)

	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	hub := NewHub()
	srv := newTestServer(t, hub, manager)
	defer srv.Close()

	user := uuid.New()
	token, err := manager.GenerateAccessToken(user.String(), "u@example.com", "user")
	require.NoError(t, err)

	conn := dial(t, srv, token)
	defer conn.Close()
	waitConnected(t, hub, user, 1)

	hub.Close()
	waitConnected(t, hub, user, 0)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestUserChannelRoundTrip(t *testing.T) {
	id := uuid.New()
	got, ok := userFromChannel(UserChannel(id))
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = userFromChannel("rt:other:" + id.String())
	assert.False(t, ok)
}
