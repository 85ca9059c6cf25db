package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/liverylab/catalog/pkg/config"
)

const instrumentationName = "github.com/liverylab/catalog/pkg/cache"

// RedisClient wraps redis.Client with the pool settings and instrumentation
// shared by the read model, the session store and health checks.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient parses cfg.RedisURL, applies pool settings, installs the
// metrics hook and verifies connectivity via Ping.
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	applyPoolSettings(opts, cfg)

	rdb := redis.NewClient(opts)
	hook, err := newMetricsHook()
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis metrics: %w", err)
	}
	rdb.AddHook(hook)

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisClient{client: rdb}, nil
}

// applyPoolSettings sizes the pool from cfg. Page requests fan out BatchGet
// chunks concurrently, so the pool must cover the fan-out width.
func applyPoolSettings(opts *redis.Options, cfg *config.Config) {
	opts.PoolSize = max(cfg.RedisPoolSize, cfg.CatalogBatchFanout, 1)
	opts.MinIdleConns = min(max(cfg.RedisMinIdleConns, 0), opts.PoolSize)
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	// Cache reads sit on the page request path; fail fast and fall back to the store.
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second
	opts.PoolTimeout = 2 * time.Second
}

// Ping checks the Redis connection health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close shuts down the Redis connection pool.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client returns the underlying redis.Client for direct use.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

// metricsHook records cache.redis.commands and cache.redis.duration per
// command name. An empty HGETALL reply counts as a miss.
type metricsHook struct {
	commands metric.Int64Counter
	duration metric.Float64Histogram
}

func newMetricsHook() (*metricsHook, error) {
	meter := otel.Meter(instrumentationName)
	commands, err := meter.Int64Counter("cache.redis.commands",
		metric.WithDescription("Redis commands, by command and outcome"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("cache.redis.duration",
		metric.WithDescription("Redis round-trip time, by command"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &metricsHook{commands: commands, duration: duration}, nil
}

func (h *metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.record(ctx, cmd.Name(), commandOutcome(cmd, err), time.Since(start))
		return err
	}
}

func (h *metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		elapsed := time.Since(start)
		for _, cmd := range cmds {
			h.record(ctx, cmd.Name(), commandOutcome(cmd, cmd.Err()), elapsed)
		}
		return err
	}
}

func (h *metricsHook) record(ctx context.Context, name, outcome string, d time.Duration) {
	h.commands.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", name),
		attribute.String("outcome", outcome),
	))
	h.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("command", name)))
}

// commandOutcome classifies a finished command as ok, miss or error.
func commandOutcome(cmd redis.Cmder, err error) string {
	switch {
	case errors.Is(err, redis.Nil):
		return "miss"
	case err != nil:
		return "error"
	}
	if m, ok := cmd.(*redis.MapStringStringCmd); ok && len(m.Val()) == 0 {
		return "miss"
	}
	return "ok"
}
