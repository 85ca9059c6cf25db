package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/liverylab/catalog/pkg/cache"
	"github.com/liverylab/catalog/pkg/logger"
	liveryEvents "github.com/liverylab/catalog/services/livery/domain/events"
)

// readModel is the slice of cache.LiveryCache the event handlers write to.
type readModel interface {
	Set(ctx context.Context, l *cache.CachedLivery) error
	Delete(ctx context.Context, id string) error
}

// handleLiveryCreated warms the Redis read model so the first point reads
// after creation are served from cache. Handlers must be idempotent:
// EventBus retries up to 3 times on failure.
func handleLiveryCreated(rm readModel, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt liveryEvents.LiveryCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", liveryEvents.TopicLiveryCreated, err)
		}

		if err := rm.Set(ctx, &cache.CachedLivery{
			ID:              evt.LiveryID,
			OwnerID:         evt.OwnerID,
			Name:            evt.Name,
			Category:        evt.Category,
			SearchTokens:    evt.SearchTokens,
			PopularityScore: evt.PopularityScore,
			Downloads:       evt.Downloads,
			Visible:         evt.Visible,
			CreatedAt:       evt.OccurredAt,
		}); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			log.WarnContext(ctx, "cache warm failed for livery.created",
				"livery_id", evt.LiveryID, "error", err)
			return nil
		}

		log.InfoContext(ctx, "cache warmed", "livery_id", evt.LiveryID, "owner_id", evt.OwnerID)
		return nil
	}
}

// handleLiveryDeleted evicts the read-model entry. A failed eviction is
// returned so the bus retries; a stale entry would keep serving a deleted livery.
func handleLiveryDeleted(rm readModel, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt liveryEvents.LiveryDeletedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", liveryEvents.TopicLiveryDeleted, err)
		}
		if err := rm.Delete(ctx, evt.LiveryID); err != nil {
			return fmt.Errorf("evict livery %s: %w", evt.LiveryID, err)
		}
		log.InfoContext(ctx, "cache evicted", "livery_id", evt.LiveryID)
		return nil
	}
}
