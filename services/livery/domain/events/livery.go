package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// TopicLiveryCreated is the Watermill topic published when a Livery is created.
	TopicLiveryCreated = "livery.created"
	// TopicLiveryDeleted is the Watermill topic published when a Livery is soft-deleted.
	TopicLiveryDeleted = "livery.deleted"
)

// LiveryCreatedEvent is published after a new Livery is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicLiveryCreated).
type LiveryCreatedEvent struct {
	EventID         uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version         int       `json:"version"`  // Schema version; increment on breaking changes
	LiveryID        string    `json:"livery_id"`
	OwnerID         string    `json:"owner_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	SearchTokens    []string  `json:"search_tokens"`
	PopularityScore int       `json:"popularity_score"`
	Downloads       int64     `json:"downloads"`
	Visible         bool      `json:"visible"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// LiveryDeletedEvent is published after a Livery is soft-deleted.
type LiveryDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	LiveryID   string    `json:"livery_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
