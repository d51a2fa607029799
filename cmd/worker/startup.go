package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"moments-backend/internal/infrastructure/metrics"
	"moments-backend/internal/infrastructure/queue"
	"moments-backend/pkg/container"
	"moments-backend/pkg/logger"
)

// HealthChecker backs /health and /ready on the worker's probe port.
type HealthChecker struct {
	c         *container.Container
	scheduler *queue.Scheduler
}

func startServices(ctx context.Context, c *container.Container, scheduler *queue.Scheduler) error {
	checker := &HealthChecker{c: c, scheduler: scheduler}

	if err := checker.checkAll(ctx); err != nil {
		return err
	}

	logger.Info("[Scheduler] Registered", map[string]interface{}{"entries": scheduler.Entries()})

	srv := &http.Server{
		Addr:              ":" + c.Config.Worker.HealthPort,
		Handler:           checker.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("[Health] Starting health check server", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("[Health] Failed to start", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return nil
}

func (h *HealthChecker) checkAll(ctx context.Context) error {
	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"Redis Connection", h.checkRedis},
		{"Database Connection", h.checkDatabase},
	}

	for _, check := range checks {
		if err := check.fn(ctx); err != nil {
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		logger.Debug("[Health] " + check.name + ": OK")
	}
	return nil
}

func (h *HealthChecker) checkRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.c.Cache.Ping(ctx)
}

func (h *HealthChecker) checkDatabase(ctx context.Context) error {
	return h.c.DB.Ping(ctx)
}

func (h *HealthChecker) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "UP", "service": "moments-worker"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := h.checkAll(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "NOT_READY", "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "READY", "schedules": h.scheduler.Entries()})
	})
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
