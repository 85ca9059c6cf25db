package events

import (
	"context"
	"errors"
	"fmt"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
)

var (
	errNotForwarder     = errors.New("events: StartForwarder called on non-forwarder EventBus")
	errForwarderStarted = errors.New("events: forwarder already started")
)

// StartForwarder runs the daemon that drains the forwarder queue into the
// target topics. It returns once the daemon is running. Call it once, from
// the process that owns the write path.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	if !q.useForwarder {
		return errNotForwarder
	}
	if q.fwd != nil {
		return errForwarderStarted
	}

	wlog := newWatermillLogger(q.log)

	fwdSub, err := watermillsql.NewSubscriber(q.db, subscriberConfig("forwarder-consumer"), wlog)
	if err != nil {
		return fmt.Errorf("events: new forwarder subscriber: %w", err)
	}

	targetPub, err := watermillsql.NewPublisher(q.db, publisherConfig(true), wlog)
	if err != nil {
		_ = fwdSub.Close()
		return fmt.Errorf("events: new forwarder target publisher: %w", err)
	}

	fwd, err := forwarder.NewForwarder(fwdSub, targetPub, wlog, forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		_ = targetPub.Close()
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.fwd = fwd

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.log.InfoContext(ctx, "events: forwarder started")
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		q.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: context cancelled waiting for forwarder: %w", ctx.Err())
	}
}
