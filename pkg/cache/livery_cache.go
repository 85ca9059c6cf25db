package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// LiveryCacheTTL is the time-to-live for cached liveries.
	LiveryCacheTTL = 24 * time.Hour

	liveryCacheKeyPrefix = "livery"
	tokenSeparator       = " "
)

// CachedLivery is the denormalized read model stored in Redis.
// Fields are stored as a Redis hash.
type CachedLivery struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	SearchTokens    []string  `json:"search_tokens"`
	PopularityScore int       `json:"popularity_score"`
	Downloads       int64     `json:"downloads"`
	Visible         bool      `json:"visible"`
	Deleted         bool      `json:"deleted"`
	CreatedAt       time.Time `json:"created_at"`
}

// LiveryCache provides structured read/write operations for livery cache entries.
// Key format: "livery:{liveryID}"
type LiveryCache struct {
	client *RedisClient
}

// NewLiveryCache creates a new LiveryCache backed by the given RedisClient.
func NewLiveryCache(r *RedisClient) *LiveryCache {
	return &LiveryCache{client: r}
}

// Get retrieves a cached livery by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *LiveryCache) Get(ctx context.Context, id string) (*CachedLivery, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}
	return fromHash(vals)
}

// GetMany reads several liveries in one pipeline round trip. The result is
// aligned with ids; misses and undecodable entries are nil slots.
func (c *LiveryCache) GetMany(ctx context.Context, ids []string) ([]*CachedLivery, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	pipe := c.client.Client().Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, c.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cache get many: %w", err)
	}

	out := make([]*CachedLivery, len(ids))
	for i, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil || len(vals) == 0 {
			continue
		}
		if cl, err := fromHash(vals); err == nil {
			out[i] = cl
		}
	}
	return out, nil
}

// Set writes a cached livery as a Redis hash with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *LiveryCache) Set(ctx context.Context, l *CachedLivery) error {
	key := c.key(l.ID)
	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key, toHash(l)...)
	pipe.Expire(ctx, key, LiveryCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached livery.
func (c *LiveryCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Client().Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "livery:{liveryID}"
func (c *LiveryCache) key(id string) string {
	return fmt.Sprintf("%s:%s", liveryCacheKeyPrefix, id)
}

func toHash(l *CachedLivery) []any {
	return []any{
		"id", l.ID,
		"owner_id", l.OwnerID,
		"name", l.Name,
		"category", l.Category,
		"search_tokens", strings.Join(l.SearchTokens, tokenSeparator),
		"popularity_score", strconv.Itoa(l.PopularityScore),
		"downloads", strconv.FormatInt(l.Downloads, 10),
		"visible", strconv.FormatBool(l.Visible),
		"deleted", strconv.FormatBool(l.Deleted),
		"created_at", l.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromHash(vals map[string]string) (*CachedLivery, error) {
	if vals["id"] == "" {
		return nil, errors.New("cache parse: missing id")
	}
	score, err := strconv.Atoi(vals["popularity_score"])
	if err != nil {
		return nil, fmt.Errorf("cache parse popularity_score: %w", err)
	}
	downloads, err := strconv.ParseInt(vals["downloads"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse downloads: %w", err)
	}
	visible, err := strconv.ParseBool(vals["visible"])
	if err != nil {
		return nil, fmt.Errorf("cache parse visible: %w", err)
	}
	deleted, err := strconv.ParseBool(vals["deleted"])
	if err != nil {
		return nil, fmt.Errorf("cache parse deleted: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}

	return &CachedLivery{
		ID:              vals["id"],
		OwnerID:         vals["owner_id"],
		Name:            vals["name"],
		Category:        vals["category"],
		SearchTokens:    strings.Fields(vals["search_tokens"]),
		PopularityScore: score,
		Downloads:       downloads,
		Visible:         visible,
		Deleted:         deleted,
		CreatedAt:       createdAt,
	}, nil
}
