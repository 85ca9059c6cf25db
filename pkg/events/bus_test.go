package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

func TestStartForwarder_NonForwarderMode(t *testing.T) {
	bus := &EventBus{useForwarder: false}
	if err := bus.StartForwarder(context.Background()); !errors.Is(err, errNotForwarder) {
		t.Fatalf("expected errNotForwarder, got %v", err)
	}
}

func TestNewJSONMessage(t *testing.T) {
	id := uuid.New()
	msg, err := NewJSONMessage(id, 2, map[string]string{"livery_id": "l1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := msg.Metadata.Get(MetadataEventID); got != id.String() {
		t.Errorf("event_id = %q, want %q", got, id)
	}
	if got := EventVersion(msg); got != 2 {
		t.Errorf("EventVersion = %d, want 2", got)
	}

	var payload map[string]string
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload["livery_id"] != "l1" {
		t.Errorf("payload = %v", payload)
	}
}

func TestNewJSONMessage_Unmarshalable(t *testing.T) {
	if _, err := NewJSONMessage(uuid.New(), 1, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestEventVersion_Missing(t *testing.T) {
	if got := EventVersion(message.NewMessage("id", nil)); got != 0 {
		t.Errorf("EventVersion = %d, want 0", got)
	}
}

// The trace injected by the publishing request must be restored on the
// consuming side.
func TestTracePropagation_InjectExtract(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "create-livery")
	defer span.End()
	wantTraceID := span.SpanContext().TraceID()

	msg := message.NewMessage("id", nil)
	injectTrace(ctx, []*message.Message{msg})

	got := trace.SpanFromContext(extractTrace(context.Background(), msg))
	if !got.SpanContext().IsValid() {
		t.Fatal("extracted span context is not valid")
	}
	if got.SpanContext().TraceID() != wantTraceID {
		t.Errorf("trace ID mismatch: want %s, got %s", wantTraceID, got.SpanContext().TraceID())
	}
}

func TestBusMetrics_NilSafe(t *testing.T) {
	var m *busMetrics
	m.published(context.Background(), "livery.created", 1)
	m.handled(context.Background(), "livery.created", false, 0)
}
