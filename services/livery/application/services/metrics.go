package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/liverylab/catalog/services/livery"

// Plan strategies, recorded as the "strategy" attribute.
const (
	StrategyDirect    = "direct"
	StrategyBatchScan = "batch_scan"
)

var tracer trace.Tracer = otel.Tracer(instrumentationName)

// queryMetrics holds the query engine instruments. Instruments come from the
// global MeterProvider, which is a no-op until telemetry.Setup installs one.
type queryMetrics struct {
	plans        metric.Int64Counter
	iterations   metric.Int64Histogram
	staleCursors metric.Int64Counter
}

func newQueryMetrics() *queryMetrics {
	meter := otel.Meter(instrumentationName)
	m := &queryMetrics{}
	var err error

	m.plans, err = meter.Int64Counter("catalog.plan.count",
		metric.WithDescription("Catalog page requests by execution strategy."))
	if err != nil {
		otel.Handle(err)
	}
	m.iterations, err = meter.Int64Histogram("catalog.batch_scan.iterations",
		metric.WithDescription("Scan iterations needed to build one batch-scan page."),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 8, 13, 21, 50))
	if err != nil {
		otel.Handle(err)
	}
	m.staleCursors, err = meter.Int64Counter("catalog.batch_scan.stale_cursor",
		metric.WithDescription("Batch-scan cursors not found in the requested scope."))
	if err != nil {
		otel.Handle(err)
	}
	return m
}

func (m *queryMetrics) recordPlan(ctx context.Context, strategy string) {
	if m == nil || m.plans == nil {
		return
	}
	m.plans.Add(ctx, 1, metric.WithAttributes(attribute.String("strategy", strategy)))
}

func (m *queryMetrics) recordIterations(ctx context.Context, n int) {
	if m == nil || m.iterations == nil {
		return
	}
	m.iterations.Record(ctx, int64(n))
}

func (m *queryMetrics) recordStaleCursor(ctx context.Context) {
	if m == nil || m.staleCursors == nil {
		return
	}
	m.staleCursors.Add(ctx, 1)
}
