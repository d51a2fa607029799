package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moments-backend/internal/infrastructure/queue"
	"moments-backend/pkg/container"
	"moments-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize container
	c, err := container.NewContainer(ctx)
	if err != nil {
		logger.Error("[Container] Failed to initialize", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	// Initialize handlers
	handlers := initializeHandlers(c)

	// Setup Asynq server
	srv, err := setupAsynqServer(c, handlers)
	if err != nil {
		logger.Error("[Worker] Failed to start", err)
		os.Exit(1)
	}

	// Setup scheduler
	scheduler := queue.NewScheduler(c.RedisOpt(), c.Config.Worker)
	if err := scheduler.RegisterJobs(); err != nil {
		logger.Error("[Scheduler] Failed to register jobs", err)
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		logger.Error("[Scheduler] Failed to start", err)
		os.Exit(1)
	}

	if err := startServices(ctx, c, scheduler); err != nil {
		logger.Error("[Startup] Health check failed", err)
		scheduler.Shutdown()
		srv.Shutdown()
		os.Exit(1)
	}

	<-ctx.Done()

	logger.Info("[Shutdown] Gracefully stopping...", map[string]interface{}{})
	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("[Shutdown] Stopped", map[string]interface{}{})
}
