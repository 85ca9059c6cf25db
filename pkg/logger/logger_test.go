package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/liverylab/catalog/pkg/config"
)

func newTestLogger(buf *bytes.Buffer) Logger {
	return NewWithWriter(&config.Config{LogLevel: "debug"}, buf)
}

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp
}

func parseLastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("failed to parse log line %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestInfoContext_WithSpan(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := newTestLogger(&buf)

	ctx, span := otel.Tracer("test").Start(context.Background(), "plan")
	defer span.End()

	log.InfoContext(ctx, "catalog page served")

	entry := parseLastLine(t, &buf)
	if _, ok := entry["trace_id"]; !ok {
		t.Error("expected trace_id")
	}
	if _, ok := entry["span_id"]; !ok {
		t.Error("expected span_id")
	}
}

func TestInfoContext_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	log.InfoContext(context.Background(), "no span")

	entry := parseLastLine(t, &buf)
	if _, ok := entry["trace_id"]; ok {
		t.Error("trace_id should not be present without an active span")
	}
}

func TestWarnContext_StaleCursorFields(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf).With("strategy", "batch_scan")

	log.WarnContext(context.Background(), "stale cursor", "cursor", "l042", "error", errors.New("not in scope"))

	entry := parseLastLine(t, &buf)
	if entry["strategy"] != "batch_scan" || entry["cursor"] != "l042" {
		t.Errorf("bound and call attributes missing: %v", entry)
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
}

func TestNewWithWriter_ServiceAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{
		LogLevel:       "info",
		ServiceName:    "livery-catalog",
		ServiceVersion: "1.2.3",
		Environment:    config.EnvTesting,
	}, &buf)

	log.Info("started")

	entry := parseLastLine(t, &buf)
	if entry["service"] != "livery-catalog" || entry["version"] != "1.2.3" || entry["env"] != "testing" {
		t.Errorf("service attributes missing: %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMiddleware_LogsRequest(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := newTestLogger(&buf)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware(log))
	r.Get("/api/liveries", func(w http.ResponseWriter, req *http.Request) {
		_, span := otel.Tracer("test").Start(req.Context(), "handler-span")
		defer span.End()
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/liveries?category=gt3&pageSize=2", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := parseLastLine(t, &buf)
	if _, ok := entry["request_id"]; !ok {
		t.Error("expected request_id in request log")
	}
	if entry["query"] != "category=gt3&pageSize=2" {
		t.Errorf("query = %v", entry["query"])
	}
	if entry["bytes"] != float64(len(`{"items":[]}`)) {
		t.Errorf("bytes = %v", entry["bytes"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
}

func TestRequestLevel(t *testing.T) {
	tests := []struct {
		path   string
		status int
		want   slog.Level
	}{
		{"/api/liveries", http.StatusOK, slog.LevelInfo},
		{"/api/liveries", http.StatusGone, slog.LevelWarn},
		{"/api/liveries", http.StatusInternalServerError, slog.LevelError},
		{"/health", http.StatusOK, slog.LevelDebug},
		{"/health", http.StatusServiceUnavailable, slog.LevelError},
	}
	for _, tt := range tests {
		if got := requestLevel(tt.path, tt.status); got != tt.want {
			t.Errorf("requestLevel(%s, %d) = %v, want %v", tt.path, tt.status, got, tt.want)
		}
	}
}

func TestRecovery_WritesJSONError(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf)

	h := Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil livery")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/liveries/x", http.NoBody))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	entry := parseLastLine(t, &buf)
	if entry["msg"] != "panic recovered" || entry["path"] != "/api/liveries/x" {
		t.Errorf("unexpected log entry: %v", entry)
	}
}

func TestNestedSpans(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	var buf bytes.Buffer
	log := newTestLogger(&buf)
	tracer := otel.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "plan")
	log.InfoContext(ctx, "parent log")
	parentEntry := parseLastLine(t, &buf)
	buf.Reset()

	ctx, child := tracer.Start(ctx, "batch_get")
	log.InfoContext(ctx, "child log")
	childEntry := parseLastLine(t, &buf)

	child.End()
	parent.End()

	if parentEntry["trace_id"] != childEntry["trace_id"] {
		t.Errorf("expected same trace_id: %v vs %v", parentEntry["trace_id"], childEntry["trace_id"])
	}
	if parentEntry["span_id"] == childEntry["span_id"] {
		t.Error("expected different span_ids for parent and child")
	}
}
