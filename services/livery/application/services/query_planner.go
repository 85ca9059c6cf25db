package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/liverylab/catalog/pkg/logger"
	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
)

// Planner dispatches a FilterSpec to the executor able to serve it: an
// explicit scope goes to the batch scan, everything else to a direct query.
type Planner struct {
	direct  *DirectExecutor
	batch   *BatchScanExecutor
	metrics *queryMetrics
}

// NewPlanner wires both executors over store.
func NewPlanner(store repositories.LiveryStore, opts QueryOptions, log logger.Logger) *Planner {
	m := newQueryMetrics()
	batch := NewBatchScanExecutor(store, opts, log)
	batch.metrics = m
	return &Planner{
		direct:  NewDirectExecutor(store),
		batch:   batch,
		metrics: m,
	}
}

// Plan executes f and returns one page.
func (p *Planner) Plan(ctx context.Context, f models.FilterSpec) (*models.Page, error) {
	if f.PageSize <= 0 {
		return nil, fmt.Errorf("%w: page size %d", liverydomain.ErrInvalidFilter, f.PageSize)
	}
	if !f.Sort.Valid() || !f.Direction.Valid() {
		return nil, fmt.Errorf("%w: ordering %q %q", liverydomain.ErrInvalidFilter, f.Sort, f.Direction)
	}

	strategy := StrategyDirect
	if f.HasScope() {
		strategy = StrategyBatchScan
	}

	ctx, span := tracer.Start(ctx, "catalog.Plan", trace.WithAttributes(
		attribute.String("catalog.strategy", strategy),
		attribute.String("catalog.sort", string(f.Sort)),
		attribute.String("catalog.direction", string(f.Direction)),
		attribute.Int("catalog.page_size", f.PageSize),
		attribute.Int("catalog.scope_size", len(f.Scope)),
		attribute.Bool("catalog.has_cursor", f.Cursor != ""),
	))
	defer span.End()

	p.metrics.recordPlan(ctx, strategy)

	var (
		page *models.Page
		err  error
	)
	if strategy == StrategyBatchScan {
		var iterations int
		page, iterations, err = p.batch.scan(ctx, f)
		span.SetAttributes(attribute.Int("catalog.iterations", iterations))
		p.metrics.recordIterations(ctx, iterations)
	} else {
		page, err = p.direct.Execute(ctx, f)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("catalog.items", len(page.Items)),
		attribute.Bool("catalog.exhausted", page.Exhausted()),
	)
	return page, nil
}
