package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Pool, cache.RedisClient, events.EventBus).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Overall health states. Degraded still answers 200: the Redis read model is
// optional and catalog reads fall back to the store without it.
const (
	HealthOK          = "ok"
	HealthDegraded    = "degraded"
	HealthUnavailable = "unavailable"
)

// Per-dependency states.
const (
	checkOK          = "ok"
	checkUnreachable = "unreachable"
	checkDisabled    = "disabled"
)

// HealthChecks holds the dependencies probed by the health endpoint.
// A nil checker is reported as "disabled" and does not affect the status.
type HealthChecks struct {
	// Backend names the LiveryStore implementation ("postgres" or "memory").
	Backend  string
	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
	// Timeout bounds all probes together; defaults to 2s.
	Timeout time.Duration
}

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
}

// HealthResponse is the body written by HealthHandler.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Backend string                 `json:"backend,omitempty"`
	Checks  map[string]CheckResult `json:"checks"`
}

// HealthHandler probes every configured dependency concurrently. A failed
// database or event bus answers 503; a failed Redis only degrades.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	timeout := checks.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	probes := []struct {
		name     string
		checker  HealthChecker
		critical bool
	}{
		{"database", checks.Database, true},
		{"redis", checks.Redis, false},
		{"eventBus", checks.EventBus, true},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := HealthResponse{
			Status:  HealthOK,
			Backend: checks.Backend,
			Checks:  make(map[string]CheckResult, len(probes)),
		}
		var mu sync.Mutex
		var g errgroup.Group
		for _, p := range probes {
			g.Go(func() error {
				res := probe(ctx, p.checker)
				mu.Lock()
				defer mu.Unlock()
				resp.Checks[p.name] = res
				if res.Status != checkUnreachable {
					return nil
				}
				if p.critical {
					resp.Status = HealthUnavailable
				} else if resp.Status == HealthOK {
					resp.Status = HealthDegraded
				}
				return nil
			})
		}
		_ = g.Wait()

		status := http.StatusOK
		if resp.Status == HealthUnavailable {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Cache-Control", "no-store")
		JSON(w, status, resp)
	}
}

func probe(ctx context.Context, c HealthChecker) CheckResult {
	if c == nil {
		return CheckResult{Status: checkDisabled}
	}
	start := time.Now()
	err := c.Ping(ctx)
	res := CheckResult{Status: checkOK, LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		res.Status = checkUnreachable
	}
	return res
}
