// Package events is the catalog's outbox-backed event bus, built on Watermill's
// PostgreSQL transport.
//
// Writers publish inside the same database/sql transaction as the row they
// change (PublishTx), so an event exists if and only if the write committed.
// In forwarder mode those messages land in an internal queue and a daemon
// started with StartForwarder moves them to their real topic.
//
// Subscribers share one consumer group per service name: each message is
// handled by exactly one worker instance. Handlers must be idempotent; a
// failing handler is retried with exponential backoff and then Nacked.
//
// Trace context travels in message metadata, so a worker span continues the
// trace of the API request that published the event.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/pkg/logger"
)

const (
	shutdownTimeout = 30 * time.Second
	errBufferSize   = 100
	forwarderTopic  = "_forwarder_queue" // internal outbox topic for the Forwarder daemon
)

// Handler processes one message. A nil return acknowledges it.
type Handler func(ctx context.Context, msg *message.Message) error

// EventBus publishes and consumes catalog events over PostgreSQL.
type EventBus struct {
	publisher     message.Publisher // direct SQL publisher or forwarder-decorated
	subscriber    *watermillsql.Subscriber
	fwd           *forwarder.Forwarder // non-nil once StartForwarder succeeded
	db            *sql.DB
	log           logger.Logger
	metrics       *busMetrics
	retry         RetryPolicy
	consumerGroup string
	wg            sync.WaitGroup
	useForwarder  bool
}

// NewEventBus returns a bus that publishes straight to target topics. It
// runs on db, which stays owned by the caller and is not closed by Close.
func NewEventBus(db *sql.DB, cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(db, cfg, log, false)
}

// NewEventBusWithForwarder returns a bus whose publishers write to the
// forwarder queue. Call StartForwarder to begin delivery.
func NewEventBusWithForwarder(db *sql.DB, cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(db, cfg, log, true)
}

func newEventBus(db *sql.DB, cfg *config.Config, log logger.Logger, useForwarder bool) (*EventBus, error) {
	wlog := newWatermillLogger(log)

	pub, err := watermillsql.NewPublisher(db, publisherConfig(true), wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	group := cfg.ServiceName + "-consumer"
	sub, err := watermillsql.NewSubscriber(db, subscriberConfig(group), wlog)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	metrics, err := newBusMetrics()
	if err != nil {
		_ = sub.Close()
		_ = pub.Close()
		return nil, fmt.Errorf("events: metrics: %w", err)
	}

	return &EventBus{
		publisher:     wrapForwarder(pub, useForwarder),
		subscriber:    sub,
		db:            db,
		log:           log,
		metrics:       metrics,
		retry:         RetryPolicyFromConfig(cfg),
		consumerGroup: group,
		useForwarder:  useForwarder,
	}, nil
}

func publisherConfig(autoInit bool) watermillsql.PublisherConfig {
	return watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: autoInit,
	}
}

func subscriberConfig(group string) watermillsql.SubscriberConfig {
	return watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}
}

func wrapForwarder(pub message.Publisher, useForwarder bool) message.Publisher {
	if !useForwarder {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// PublishTx publishes msgs to topic inside tx. The messages become visible
// to consumers only if tx commits. Schema tables must already exist, which
// holds once the bus has been constructed.
func (q *EventBus) PublishTx(ctx context.Context, tx *sql.Tx, topic string, msgs ...*message.Message) error {
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), newWatermillLogger(q.log))
	if err != nil {
		return fmt.Errorf("events: new tx publisher: %w", err)
	}
	injectTrace(ctx, msgs)
	if err := wrapForwarder(pub, q.useForwarder).Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	q.metrics.published(ctx, topic, len(msgs))
	return nil
}

// Publish sends msgs to topic outside any transaction.
func (q *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	injectTrace(ctx, msgs)
	if err := q.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	q.metrics.published(ctx, topic, len(msgs))
	return nil
}

// Subscribe consumes topic in the background until ctx is cancelled or the
// bus is closed. Messages whose handler still fails after the retry policy
// is exhausted are Nacked and their error sent on the returned channel,
// which callers must drain. Close waits for in-flight handlers.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBufferSize)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)
			start := time.Now()
			err := q.retry.Run(msgCtx, msg, handler, q.log.With("topic", topic))
			q.metrics.handled(msgCtx, topic, err == nil, time.Since(start))
			if err == nil {
				msg.Ack()
				continue
			}

			msg.Nack()
			select {
			case errCh <- fmt.Errorf("%s: %w", topic, err):
			default:
				q.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
					"error", err, "topic", topic)
			}
		}
	}()

	return errCh, nil
}

// SubscribeAll subscribes every handler to its topic and logs handler
// failures until ctx is cancelled. It returns the subscribed topics.
func (q *EventBus) SubscribeAll(ctx context.Context, handlers map[string]Handler) ([]string, error) {
	topics := make([]string, 0, len(handlers))
	for topic, handler := range handlers {
		errCh, err := q.Subscribe(ctx, topic, handler)
		if err != nil {
			return topics, err
		}
		go func() {
			for err := range errCh {
				q.log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
		topics = append(topics, topic)
	}
	return topics, nil
}

// Ping checks the bus's database connection.
func (q *EventBus) Ping(ctx context.Context) error {
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, stops the forwarder, waits up to 30s for in-flight
// handlers and closes the publisher. The database handle is left open.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}

	if q.fwd != nil {
		if err := q.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers to complete")
	}

	if err := q.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}
