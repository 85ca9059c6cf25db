// Command worker consumes livery events from the outbox and keeps the Redis
// read model in step with the catalog tables.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/liverylab/catalog/pkg/app"
	"github.com/liverylab/catalog/pkg/cache"
	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/pkg/database"
	"github.com/liverylab/catalog/pkg/events"
	"github.com/liverylab/catalog/pkg/httpx"
	"github.com/liverylab/catalog/pkg/logger"
	"github.com/liverylab/catalog/pkg/telemetry"
	liveryEvents "github.com/liverylab/catalog/services/livery/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	if cfg.StoreBackend == config.StoreMemory {
		log.Error("worker requires STORE_BACKEND=postgres", "backend", cfg.StoreBackend)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DefinitionDatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()

	eventBus, err := events.NewEventBus(pool.DB(), cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	// Close waits for in-flight handlers, so it must run before the pool closes.
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck

	a := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if err := registerSubscribers(ctx, a); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	srv := httpx.NewServer(httpx.ServerConfig{Addr: cfg.WorkerAddr}, opsRouter(a, metricsHandler))
	go func() {
		log.Info("worker ops listener started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("worker ops listener failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("ops listener shutdown", "error", err)
	}
	log.Info("worker stopped")
}

// opsRouter serves /health and /metrics for the worker.
func opsRouter(a *app.Application, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", httpx.HealthHandler(httpx.HealthChecks{
		Backend:  a.Config.StoreBackend,
		Database: a.Db,
		Redis:    a.Redis,
		EventBus: a.EventBus,
	}))
	r.Handle("/metrics", metrics)
	return r
}

// registerSubscribers wires all domain event handlers.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	readModel := cache.NewLiveryCache(a.Redis)
	topics, err := a.EventBus.SubscribeAll(ctx, map[string]events.Handler{
		liveryEvents.TopicLiveryCreated: handleLiveryCreated(readModel, a.Logger),
		liveryEvents.TopicLiveryDeleted: handleLiveryDeleted(readModel, a.Logger),
	})
	if err != nil {
		return err
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}
