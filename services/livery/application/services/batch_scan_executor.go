package services

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/liverylab/catalog/pkg/logger"
	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
)

// BatchScanExecutor serves FilterSpecs scoped to an explicit id list. The
// store cannot combine id membership with the other predicates in one
// indexed query, so ids are fetched in batches and filtered in memory.
type BatchScanExecutor struct {
	store   repositories.LiveryStore
	opts    QueryOptions
	log     logger.Logger
	metrics *queryMetrics
}

// NewBatchScanExecutor returns a BatchScanExecutor reading from store.
func NewBatchScanExecutor(store repositories.LiveryStore, opts QueryOptions, log logger.Logger) *BatchScanExecutor {
	return &BatchScanExecutor{store: store, opts: opts, log: log}
}

// scanWindow is the unread tail of the scope: ids from offset onward.
type scanWindow struct {
	offset    int
	remaining int
}

func (w scanWindow) next(n int) (int, int) {
	n = min(n, w.remaining)
	return w.offset, w.offset + n
}

func (w scanWindow) advance(n int) scanWindow {
	return scanWindow{offset: w.offset + n, remaining: w.remaining - n}
}

// Execute returns the page of f.Scope that follows f.Cursor.
func (e *BatchScanExecutor) Execute(ctx context.Context, f models.FilterSpec) (*models.Page, error) {
	page, _, err := e.scan(ctx, f)
	return page, err
}

// scan runs the batch loop and reports how many batches it fetched.
//
// The returned cursor is the last scope id the page accounts for: the last
// included id plus any rejected ids directly after it in the same batch.
// Resuming there neither repeats nor skips a candidate. The cursor is nil when
// no scope ids remain after it.
func (e *BatchScanExecutor) scan(ctx context.Context, f models.FilterSpec) (*models.Page, int, error) {
	w, err := e.window(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*models.Livery, 0, f.PageSize)
	consumed := w.offset - 1
	iterations := 0

scan:
	for w.remaining > 0 {
		from, to := w.next(f.PageSize)
		batch := f.Scope[from:to]
		iterations++

		fetched, err := e.fetch(ctx, batch)
		if err != nil {
			return nil, iterations, err
		}

		for i, l := range fetched {
			if f.Matches(l) {
				if len(items) == f.PageSize {
					break scan
				}
				items = append(items, l)
			}
			consumed = from + i
		}

		if len(batch) < f.PageSize {
			break
		}
		w = w.advance(len(batch))
		if len(items) == f.PageSize {
			break
		}
	}

	page := &models.Page{Items: items}
	if consumed >= 0 && consumed < len(f.Scope)-1 {
		page.NextCursor = models.CursorPtr(f.Scope[consumed])
	}
	return page, iterations, nil
}

// window resolves the cursor to the first unread scope position.
func (e *BatchScanExecutor) window(ctx context.Context, f models.FilterSpec) (scanWindow, error) {
	if f.Cursor == "" {
		return scanWindow{remaining: len(f.Scope)}, nil
	}
	idx := slices.Index(f.Scope, f.Cursor)
	if idx >= 0 {
		return scanWindow{offset: idx + 1, remaining: len(f.Scope) - idx - 1}, nil
	}

	e.metrics.recordStaleCursor(ctx)
	if e.opts.StrictCursor {
		return scanWindow{}, fmt.Errorf("%w: %s", liverydomain.ErrStaleCursor, f.Cursor)
	}
	e.log.WarnContext(ctx, "cursor not in scope, restarting scan",
		"cursor", f.Cursor,
		"scope_size", len(f.Scope),
	)
	return scanWindow{remaining: len(f.Scope)}, nil
}

// fetch loads ids in chunks fanned out concurrently, joined in id order.
// Missing ids come back as nil slots.
func (e *BatchScanExecutor) fetch(ctx context.Context, ids []models.LiveryID) ([]*models.Livery, error) {
	chunk := max(e.opts.BatchGetChunk, 1)
	out := make([]*models.Livery, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.opts.BatchFanout, 1))
	for start := 0; start < len(ids); start += chunk {
		end := min(start+chunk, len(ids))
		g.Go(func() error {
			got, err := e.store.BatchGet(gctx, ids[start:end])
			if err != nil {
				return fmt.Errorf("batch get liveries: %w", err)
			}
			copy(out[start:end], got)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
