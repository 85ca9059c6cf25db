package services

import (
	"context"
	"fmt"

	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
)

// DirectExecutor serves unscoped FilterSpecs with indexed range queries.
type DirectExecutor struct {
	store repositories.LiveryStore
}

// NewDirectExecutor returns a DirectExecutor reading from store.
func NewDirectExecutor(store repositories.LiveryStore) *DirectExecutor {
	return &DirectExecutor{store: store}
}

// Execute returns the page of f that starts strictly after f.Cursor.
//
// When every predicate maps onto a store clause the store page is returned
// verbatim. A predicate the store cannot combine with the requested ordering
// is applied in memory, and further store pages are read until the page fills
// or the store runs out.
func (e *DirectExecutor) Execute(ctx context.Context, f models.FilterSpec) (*models.Page, error) {
	q, residual := BuildStoreQuery(f)

	if residual == nil {
		rows, err := e.store.Query(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("query liveries: %w", err)
		}
		page := &models.Page{Items: rows}
		if len(rows) == q.Limit {
			page.NextCursor = models.CursorPtr(rows[len(rows)-1].ID)
		}
		return page, nil
	}

	items := make([]*models.Livery, 0, f.PageSize)
	for {
		rows, err := e.store.Query(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("query liveries: %w", err)
		}
		for _, l := range rows {
			if !residual(l) {
				continue
			}
			items = append(items, l)
			if len(items) == f.PageSize {
				return &models.Page{Items: items, NextCursor: models.CursorPtr(l.ID)}, nil
			}
		}
		if len(rows) < q.Limit {
			return &models.Page{Items: items}, nil
		}
		q.StartAfter = rows[len(rows)-1].ID
	}
}

// BuildStoreQuery translates f into a range query plus an optional in-memory
// predicate for the filters the store cannot apply alongside the ordering.
//
// Visibility and soft-delete clauses are always present. A minimum score is a
// store inequality only when the query orders by popularity, since the store
// requires the inequality field to lead the ordering.
func BuildStoreQuery(f models.FilterSpec) (repositories.StoreQuery, func(*models.Livery) bool) {
	q := repositories.StoreQuery{
		Clauses: []repositories.Clause{
			{Field: repositories.FieldVisible, Op: repositories.OpEq, Value: true},
			{Field: repositories.FieldDeleted, Op: repositories.OpEq, Value: false},
		},
		OrderBy: repositories.OrderBy{
			Field:     repositories.SortField(f.Sort),
			Direction: f.Direction,
		},
		StartAfter: f.Cursor,
		Limit:      f.PageSize,
	}

	if f.Search != "" {
		q.Clauses = append(q.Clauses, repositories.Clause{
			Field: repositories.FieldSearchTokens, Op: repositories.OpArrayContains, Value: f.Search,
		})
	}
	if f.Category != "" {
		q.Clauses = append(q.Clauses, repositories.Clause{
			Field: repositories.FieldCategory, Op: repositories.OpEq, Value: f.Category,
		})
	}

	if f.MinScore <= 0 {
		return q, nil
	}
	if f.Sort == models.SortPopularity {
		q.Clauses = append(q.Clauses, repositories.Clause{
			Field: repositories.FieldPopularityScore, Op: repositories.OpGte, Value: f.MinScore,
		})
		return q, nil
	}

	minScore := f.MinScore
	return q, func(l *models.Livery) bool { return l.PopularityScore >= minScore }
}
