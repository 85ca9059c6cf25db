package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/liverylab/catalog/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:     "test-service",
		ServiceVersion:  "test",
		Environment:     "testing",
		OtelSampleRatio: 1,
	}
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	return rr.Body.String()
}

func TestSetup_NoOtelEndpoint(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	require.NoError(t, err)
	require.NotNil(t, handler)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetup_RepeatableWithIsolatedRegistries(t *testing.T) {
	for range 2 {
		shutdown, handler, err := Setup(context.Background(), baseConfig())
		require.NoError(t, err)
		require.Contains(t, scrape(t, handler), "go_goroutines")
		require.NoError(t, shutdown(context.Background()))
	}
}

func TestSetup_DurationHistogramUsesLatencyBuckets(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	require.NoError(t, err)
	defer shutdown(context.Background()) //nolint:errcheck

	hist, err := otel.Meter("telemetry-test").Float64Histogram("catalog.query.duration", metric.WithUnit("s"))
	require.NoError(t, err)
	hist.Record(context.Background(), 0.003)

	body := scrape(t, handler)
	require.Contains(t, body, "catalog_query_duration_seconds_bucket")
	require.Contains(t, body, `le="0.0025"`)
}

func TestEndpointOptions(t *testing.T) {
	require.Len(t, traceEndpointOptions("http://collector:4318"), 1)
	require.Len(t, traceEndpointOptions("collector:4318"), 2)
	require.Len(t, metricEndpointOptions("https://collector:4318"), 1)
	require.Len(t, metricEndpointOptions("collector:4318"), 2)
}

func TestDropClientErrors(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		drop bool
	}{
		{"untagged", nil, false},
		{"server error", StatusTags(http.StatusInternalServerError, "/liveries"), false},
		{"stale cursor", StatusTags(http.StatusGone, "/liveries"), true},
		{"bad filter", StatusTags(http.StatusBadRequest, "/liveries"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dropClientErrors(&sentry.Event{Tags: tt.tags}, nil)
			require.Equal(t, tt.drop, got == nil)
		})
	}
}

func TestCaptureError_WithoutClient(t *testing.T) {
	// No sentry.Init: capture must be a silent no-op.
	CaptureError(context.Background(), errors.New("boom"), StatusTags(500, "/liveries"))
}

func TestSetupSentry_EmptyDSN(t *testing.T) {
	require.NoError(t, SetupSentry(baseConfig()))
}

func TestStatusTags(t *testing.T) {
	tags := StatusTags(http.StatusServiceUnavailable, "/liveries/{id}")
	require.Equal(t, "503", tags[tagStatus])
	require.True(t, strings.HasPrefix(tags["http.route"], "/liveries"))
}
