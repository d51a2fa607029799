package job

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moments-backend/internal/domains/notification/service"
	"moments-backend/internal/shared"
)

type stubService struct {
	service.NotificationService
	olderThan time.Duration
}

func (s *stubService) CleanupOldRead(_ context.Context, olderThan time.Duration) (int64, error) {
	s.olderThan = olderThan
	return 4, nil
}

func TestCleanupUsesPayloadRetention(t *testing.T) {
	svc := &stubService{}
	h := NewCleanupOldNotificationsHandler(svc, 30)

	payload, err := json.Marshal(shared.CleanupNotificationPayload{RetentionDays: 7})
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeCleanupNotification, payload)))
	assert.Equal(t, 7*24*time.Hour, svc.olderThan)
}

func TestCleanupFallsBackToConfiguredRetention(t *testing.T) {
	svc := &stubService{}
	h := NewCleanupOldNotificationsHandler(svc, 30)

	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeCleanupNotification, nil)))
	assert.Equal(t, 30*24*time.Hour, svc.olderThan)

	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeCleanupNotification, []byte("{bad"))))
	assert.Equal(t, 30*24*time.Hour, svc.olderThan)
}
