package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/taskflow/internal/cache"
	"github.com/mtlprog/taskflow/internal/config"
	"github.com/mtlprog/taskflow/internal/handler"
	"github.com/mtlprog/taskflow/internal/metrics"
	"github.com/mtlprog/taskflow/internal/service"
)

const memoryCacheCleanupInterval = time.Minute

func runServe(c *cli.Context) error {
	ctx := c.Context

	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.close()

	if err := st.initSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialise schema: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	taskCache, closeCache := buildCache(ctx, cfg.Cache, m)
	defer closeCache()

	tasks := service.NewTaskService(st.tasks, taskCache, service.WithMetrics(m))
	activity := service.NewActivityLogger(st.activity)

	h := handler.New(tasks, activity, handler.Options{
		UploadDir:      cfg.Upload.Dir,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Store:          st.pinger,
		Gatherer:       reg,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server",
			"server_addr", "http://localhost:"+cfg.Port,
			"store", cfg.Store.Driver,
			"cache", cfg.Cache.Driver,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runInitSchema(c *cli.Context) error {
	ctx := c.Context

	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.close()

	if err := st.initSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialise schema: %w", err)
	}

	slog.Info("schema ready", "store", cfg.Store.Driver)
	return nil
}

// buildCache returns the cache the service reads through. Redis is wrapped
// in a circuit breaker; both drivers are instrumented.
func buildCache(ctx context.Context, cfg config.CacheConfig, m *metrics.Metrics) (cache.Cache, func()) {
	switch cfg.Driver {
	case config.CacheDriverMemory:
		mem := cache.NewMemory()
		cleanupCtx, cancel := context.WithCancel(ctx)
		mem.StartCleanup(cleanupCtx, memoryCacheCleanupInterval)
		return cache.NewInstrumented(mem, m), cancel

	default:
		rc := cache.NewRedis(ctx, cfg.Redis)
		breaker := cache.NewBreaker(rc, cache.DefaultBreakerConfig())
		return cache.NewInstrumented(breaker, m), func() {
			if err := rc.Close(); err != nil {
				slog.Warn("failed to close redis client", "error", err)
			}
		}
	}
}
