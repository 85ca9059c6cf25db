package client

import (
	"context"
	"errors"
	"sync"

	"github.com/liverylab/catalog/pkg/logger"
	"github.com/liverylab/catalog/services/livery/domain/models"
)

// PageFetcher loads one catalog page.
type PageFetcher interface {
	FetchPage(ctx context.Context, f models.FilterSpec) (*models.Page, error)
}

// Outcome describes what a sentinel trigger did.
type Outcome int

const (
	// OutcomeIgnored means no request was issued: one is already in flight,
	// the context has no entry, or the entry is exhausted.
	OutcomeIgnored Outcome = iota
	// OutcomeMerged means a page was fetched and merged.
	OutcomeMerged
	// OutcomeStale means a page was fetched but the entry had moved on.
	OutcomeStale
	// OutcomeFailed means the fetch failed; nothing was merged.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMerged:
		return "merged"
	case OutcomeStale:
		return "stale"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var errNoPage = errors.New("fetcher returned no page")

type scrollState int

const (
	stateIdle scrollState = iota
	stateRequesting
)

// ScrollController issues next-page requests for one browsing context when
// its sentinel becomes visible. At most one request is in flight at a time.
type ScrollController struct {
	mu      sync.Mutex
	state   scrollState
	bc      BrowsingContext
	slice   *Slice
	fetcher PageFetcher
	log     logger.Logger
}

// NewScrollController returns an idle controller for bc.
func NewScrollController(bc BrowsingContext, slice *Slice, fetcher PageFetcher, log logger.Logger) *ScrollController {
	return &ScrollController{
		bc:      bc,
		slice:   slice,
		fetcher: fetcher,
		log:     log.With("context", bc.String()),
	}
}

// SetFilters applies f to the controller's context and reports whether the
// accumulated items were invalidated.
func (c *ScrollController) SetFilters(f models.FilterSpec) bool {
	return c.slice.Ensure(c.bc, f)
}

// Requesting reports whether a page request is in flight.
func (c *ScrollController) Requesting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateRequesting
}

// OnSentinelVisible requests the next page unless a request is already in
// flight or the context is exhausted. A failed fetch leaves the controller
// idle so the next trigger retries naturally.
func (c *ScrollController) OnSentinelVisible(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.state == stateRequesting {
		c.mu.Unlock()
		return OutcomeIgnored, nil
	}
	entry, ok := c.slice.Entry(c.bc)
	if !ok || entry.Exhausted {
		c.mu.Unlock()
		return OutcomeIgnored, nil
	}
	c.state = stateRequesting
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = stateIdle
		c.mu.Unlock()
	}()

	req := entry.NextRequest()
	page, err := c.fetcher.FetchPage(ctx, req)
	if err != nil {
		c.log.WarnContext(ctx, "page request failed", "cursor", req.Cursor, "error", err)
		return OutcomeFailed, err
	}
	if page == nil {
		c.log.WarnContext(ctx, "page request returned no page", "cursor", req.Cursor)
		return OutcomeFailed, errNoPage
	}

	if !c.slice.MergePage(c.bc, req, page) {
		c.log.DebugContext(ctx, "discarded stale page", "cursor", req.Cursor, "items", len(page.Items))
		return OutcomeStale, nil
	}
	return OutcomeMerged, nil
}

// Unmount tears down the context's entry. A response still in flight will
// be discarded as stale.
func (c *ScrollController) Unmount() {
	c.slice.Reset(c.bc)
}
