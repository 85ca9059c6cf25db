package app

import (
	"github.com/gorilla/sessions"

	"github.com/liverylab/catalog/pkg/cache"
	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/pkg/database"
	"github.com/liverylab/catalog/pkg/events"
	"github.com/liverylab/catalog/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service route registration calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "listing liveries", "strategy", "batch_scan")
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// With STORE_BACKEND=memory, Db, EventBus and Redis are nil.
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	SessionStore sessions.Store // nil in worker process
}
