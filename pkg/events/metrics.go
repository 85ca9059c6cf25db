package events

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/liverylab/catalog/pkg/events"

type busMetrics struct {
	publishedTotal metric.Int64Counter
	handledTotal   metric.Int64Counter
	handleDuration metric.Float64Histogram
}

func newBusMetrics() (*busMetrics, error) {
	meter := otel.Meter(instrumentationName)

	published, err := meter.Int64Counter("events.published",
		metric.WithDescription("Messages published, by topic"))
	if err != nil {
		return nil, err
	}
	handled, err := meter.Int64Counter("events.handled",
		metric.WithDescription("Messages consumed, by topic and outcome"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("events.handle.duration",
		metric.WithDescription("Handler time including retries"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &busMetrics{publishedTotal: published, handledTotal: handled, handleDuration: duration}, nil
}

func (m *busMetrics) published(ctx context.Context, topic string, n int) {
	if m == nil {
		return
	}
	m.publishedTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String("topic", topic)))
}

func (m *busMetrics) handled(ctx context.Context, topic string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ack"
	if !ok {
		outcome = "nack"
	}
	attrs := metric.WithAttributes(attribute.String("topic", topic), attribute.String("outcome", outcome))
	m.handledTotal.Add(ctx, 1, attrs)
	m.handleDuration.Record(ctx, d.Seconds(), attrs)
}
