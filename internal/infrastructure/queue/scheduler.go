package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"

	"moments-backend/internal/config"
	"moments-backend/internal/shared"
	"moments-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.WorkerConfig
	entries   []string
}

func NewScheduler(redisOpt asynq.RedisClientOpt, cfg config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler, cfg: cfg}
}

// RegisterJobs registers every periodic task of the worker.
func (s *Scheduler) RegisterJobs() error {
	if err := s.registerExpiryJob(); err != nil {
		return err
	}
	return s.registerNotificationCleanupJob()
}

// ================================================
// Moment expiry sweep (WORKER_EXPIRY_CRON, default every minute)
// ================================================
// A missed run is covered by the next one, so no retries.
func (s *Scheduler) registerExpiryJob() error {
	task := asynq.NewTask(shared.TypeExpireMoments, nil)

	id, err := s.scheduler.Register(
		s.cfg.ExpiryCron,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(0),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ExpireMoments job", err)
		return fmt.Errorf("register %s: %w", shared.TypeExpireMoments, err)
	}

	s.entries = append(s.entries, id)
	logger.Info("Registered ExpireMoments", map[string]interface{}{"cron": s.cfg.ExpiryCron})
	return nil
}

// ================================================
// Cleanup old read notifications (daily at 3 AM)
// ================================================
func (s *Scheduler) registerNotificationCleanupJob() error {
	payload, err := json.Marshal(shared.CleanupNotificationPayload{
		RetentionDays: s.cfg.NotificationRetention,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeCleanupNotification, payload)

	id, err := s.scheduler.Register(
		s.cfg.NotificationCleanupCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register CleanupOldNotifications job", err)
		return fmt.Errorf("register %s: %w", shared.TypeCleanupNotification, err)
	}

	s.entries = append(s.entries, id)
	logger.Info("Registered CleanupOldNotifications", map[string]interface{}{
		"cron":           s.cfg.NotificationCleanupCron,
		"retention_days": s.cfg.NotificationRetention,
	})
	return nil
}

// Entries returns the scheduler entry IDs registered so far.
func (s *Scheduler) Entries() []string {
	return s.entries
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

// NextRuns lists the next n activation times of a standard cron spec.
func NextRuns(spec string, from time.Time, n int) ([]time.Time, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	runs := make([]time.Time, 0, n)
	t := from
	for i := 0; i < n; i++ {
		t = schedule.Next(t)
		runs = append(runs, t)
	}
	return runs, nil
}
