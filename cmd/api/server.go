package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moments-backend/internal/shared/middleware"
	"moments-backend/pkg/container"
	"moments-backend/pkg/logger"
)

func Serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ========================================
	// 1. BUILD DI CONTAINER
	// ========================================
	appContainer, err := container.NewContainer(ctx)
	if err != nil {
		logger.Error("Failed to initialize container", err)
		os.Exit(1)
	}
	defer appContainer.Cleanup()

	// ========================================
	// 2. REALTIME FAN-OUT
	// ========================================
	// Events published by any process (api or worker) reach local sockets.
	go func() {
		if err := appContainer.Broker.Run(ctx, appContainer.Hub); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Realtime broker stopped", err)
		}
	}()

	// ========================================
	// 3. SETUP ROUTER
	// ========================================
	limits := appContainer.Config.Limits
	ipLimiter := middleware.NewRateLimiter(limits.IPRequestsPerSecond, limits.IPBurst)
	ipLimiter.StartCleanup(5*time.Minute, ctx.Done())

	router := SetupRouter(appContainer, ipLimiter)

	// ========================================
	// 4. CONFIGURE HTTP SERVER
	// ========================================
	port := appContainer.Config.App.Port
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", port),
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port":   port,
			"env":    appContainer.Config.App.Environment,
			"health": fmt.Sprintf("http://localhost:%s/api/v1/health", port),
		})

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", err)
			stop()
		}
	}()

	// ========================================
	// 5. GRACEFUL SHUTDOWN
	// ========================================
	<-ctx.Done()
	logger.Info("Shutting down server...", map[string]interface{}{})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server exited gracefully", map[string]interface{}{})
}
