package main

import (
	"context"

	"github.com/hibiken/asynq"

	"moments-backend/internal/shared"
	"moments-backend/pkg/container"
	"moments-backend/pkg/logger"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) (*asynqServer, error) {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	concurrency := c.Config.Worker.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	srv := asynq.NewServer(
		c.RedisOpt(),
		asynq.Config{
			Queues: map[string]int{
				shared.QueueHigh:    20,
				shared.QueueDefault: 10,
				shared.QueueLow:     5,
			},
			Concurrency: concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("[Asynq] Task failed: "+task.Type(), err)
			}),
		},
	)

	// Start is non-blocking, unlike Run.
	logger.Info("[Worker] Starting...", map[string]interface{}{"concurrency": concurrency})
	if err := srv.Start(mux); err != nil {
		return nil, err
	}

	return &asynqServer{Server: srv}, nil
}

// Shutdown waits for in-flight tasks up to asynq's ShutdownTimeout.
func (s *asynqServer) Shutdown() {
	logger.Info("[Worker] Shutting down...", map[string]interface{}{})
	s.Server.Shutdown()
	logger.Info("[Worker] Gracefully stopped", map[string]interface{}{})
}
