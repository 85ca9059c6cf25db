package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/pkg/logger"
)

// RetryPolicy bounds how often a failing handler is re-run for one message.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy makes three attempts, waiting 1s then 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
}

// RetryPolicyFromConfig reads EVENTS_MAX_ATTEMPTS and EVENTS_RETRY_BASE_DELAY,
// falling back to the defaults for non-positive values.
func RetryPolicyFromConfig(cfg *config.Config) RetryPolicy {
	p := DefaultRetryPolicy()
	if cfg.EventsMaxAttempts > 0 {
		p.MaxAttempts = cfg.EventsMaxAttempts
	}
	if cfg.EventsRetryBaseDelay > 0 {
		p.BaseDelay = cfg.EventsRetryBaseDelay
	}
	return p
}

// Run calls handler until it succeeds or MaxAttempts is reached, doubling
// the delay between attempts. It stops early when ctx is done.
func (p RetryPolicy) Run(ctx context.Context, msg *message.Message, handler Handler, log logger.Logger) error {
	delay := p.BaseDelay
	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == p.MaxAttempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"message_uuid", msg.UUID,
			"attempt", attempt,
			"max_attempts", p.MaxAttempts,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", p.MaxAttempts, err)
}
