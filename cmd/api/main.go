package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/liverylab/catalog/docs/swagger"
	"github.com/liverylab/catalog/pkg/app"
	"github.com/liverylab/catalog/pkg/auth"
	"github.com/liverylab/catalog/pkg/cache"
	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/pkg/database"
	"github.com/liverylab/catalog/pkg/events"
	"github.com/liverylab/catalog/pkg/httpx"
	"github.com/liverylab/catalog/pkg/logger"
	"github.com/liverylab/catalog/pkg/telemetry"
	liveryApi "github.com/liverylab/catalog/services/livery/application/api"
)

// @title					Livery Catalog API
// @version				1.0
// @description			Keyset-paginated catalog of user-submitted liveries.
// @termsOfService			http://swagger.io/terms/
// @contact.name			API Support
// @contact.email			support@liverylab.dev
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
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

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional; log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	appConfig := &app.Application{
		Config: cfg,
		Logger: log,
	}
	checks := httpx.HealthChecks{Backend: cfg.StoreBackend}
	sessionOpts := auth.SessionOptions{
		AuthKey:       []byte(cfg.SessionAuthKey),
		EncryptionKey: []byte(cfg.SessionEncryptionKey),
		Secure:        cfg.Environment == config.EnvProduction,
		TTL:           cfg.SessionTTL,
	}

	if cfg.StoreBackend == config.StoreMemory {
		appConfig.SessionStore = auth.NewCookieStore(sessionOpts)
		log.Warn("running with in-memory store; data is lost on restart", "backend", cfg.StoreBackend)
	} else {
		pool, err := database.NewPool(ctx, cfg.DefinitionDatabaseURL, log)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
		}
		defer pool.Close()
		log.Info("database pool connected")

		eventBus, err := events.NewEventBusWithForwarder(pool.DB(), cfg, log)
		if err != nil {
			log.Error("failed to setup event bus", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer eventBus.Close() //nolint:errcheck

		if err := eventBus.StartForwarder(ctx); err != nil {
			log.Error("failed to start event forwarder", "error", err)
			os.Exit(1) //nolint:gocritic
		}

		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic // intentional: startup failure
		}
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected")

		appConfig.Db = pool
		appConfig.EventBus = eventBus
		appConfig.Redis = redisClient
		appConfig.SessionStore = auth.NewSessionStore(redisClient.Client(), sessionOpts)
		checks = httpx.HealthChecks{Backend: cfg.StoreBackend, Database: pool, Redis: redisClient, EventBus: eventBus}
	}
	log.Info("session store initialized", "backend", cfg.StoreBackend)

	srvCfg := httpx.ServerConfig{
		Addr:               cfg.HTTPAddr,
		ServiceName:        cfg.ServiceName,
		IsDevelopment:      cfg.Environment == config.EnvDevelopment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:          cfg.HTTPRateLimit,
		RateWindow:         cfg.HTTPRateWindow,
		BodyLimit:          cfg.HTTPBodyLimit,
		HandlerTimeout:     cfg.HTTPHandlerTimeout,
	}
	r := httpx.NewRouter(
		srvCfg,
		logger.Middleware(log),
		logger.Recovery(log),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, appConfig)
	})

	srv := httpx.NewServer(srvCfg, r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
func registerRoutes(r chi.Router, a *app.Application) {
	liveryApi.LiveryRoutes(r, a)
}
