package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/liverylab/catalog/pkg/config"
)

// SetupSentry initializes the Sentry SDK. No-ops if DSN is empty.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		TracesSampleRate: cfg.OtelSampleRatio,
		BeforeSend:       dropClientErrors,
	}); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("service", cfg.ServiceName)
	})
	return nil
}

// tagStatus carries the HTTP status of a captured request error.
const tagStatus = "http.status"

// dropClientErrors discards events explicitly tagged with a 4xx status.
func dropClientErrors(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if s, ok := event.Tags[tagStatus]; ok && len(s) == 3 && s[0] == '4' {
		return nil
	}
	return event
}

// CaptureError reports err on the request's hub (or a clone of the current
// hub) with the given tags. It is a no-op when Sentry is not initialized.
func CaptureError(ctx context.Context, err error, tags map[string]string) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}

// StatusTags returns the tags CaptureError expects for an HTTP failure.
func StatusTags(status int, route string) map[string]string {
	return map[string]string{tagStatus: fmt.Sprint(status), "http.route": route}
}

// SentryFlush flushes buffered events before process exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware returns a net/http middleware that captures panics.
// Repanic: true so the outer Recovery middleware still writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	h := sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
	return h.Handle
}
