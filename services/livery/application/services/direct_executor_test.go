package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
)

func TestDirect_CreatedAtDescPages(t *testing.T) {
	store := newMemory(
		livery("i1", 5, "gt3", 1), livery("i2", 4, "gt3", 1), livery("i3", 3, "gt3", 1),
		livery("i4", 2, "gt3", 1), livery("i5", 1, "gt3", 1),
	)
	e := NewDirectExecutor(store)
	f := models.FilterSpec{Sort: models.SortCreatedAt, Direction: models.Desc, PageSize: 2}

	want := []wantPage{
		{[]models.LiveryID{"i1", "i2"}, "i2"},
		{[]models.LiveryID{"i3", "i4"}, "i4"},
		{[]models.LiveryID{"i5"}, "<nil>"},
	}
	for i, w := range want {
		page, err := e.Execute(context.Background(), f)
		if err != nil {
			t.Fatalf("page %d: %v", i, err)
		}
		got := wantPage{ids(page.Items), cursorString(page)}
		if !reflect.DeepEqual(got, w) {
			t.Fatalf("page %d = %v, want %v", i, got, w)
		}
		if page.NextCursor != nil {
			f = f.WithCursor(*page.NextCursor)
		}
	}
}

func TestDirect_ResidualScoreFillsPage(t *testing.T) {
	store := &countingStore{LiveryStore: newMemory(
		livery("a", 6, "gt3", 5), livery("b", 5, "gt3", 0), livery("c", 4, "gt3", 0),
		livery("d", 3, "gt3", 4), livery("e", 2, "gt3", 0), livery("f", 1, "gt3", 4),
	)}
	e := NewDirectExecutor(store)
	f := models.FilterSpec{Sort: models.SortCreatedAt, Direction: models.Desc, MinScore: 4, PageSize: 2}

	page, err := e.Execute(context.Background(), f)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := ids(page.Items); !reflect.DeepEqual(got, []models.LiveryID{"a", "d"}) {
		t.Errorf("items = %v, want [a d]", got)
	}
	if cursorString(page) != "d" {
		t.Errorf("cursor = %s, want d", cursorString(page))
	}
	if n := store.queries.Load(); n != 2 {
		t.Errorf("store queries = %d, want 2", n)
	}

	page, err = e.Execute(context.Background(), f.WithCursor("d"))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := ids(page.Items); !reflect.DeepEqual(got, []models.LiveryID{"f"}) {
		t.Errorf("items = %v, want [f]", got)
	}
	if page.NextCursor != nil {
		t.Errorf("cursor = %s, want nil", *page.NextCursor)
	}
}

func TestDirect_StoreFailure(t *testing.T) {
	_, err := NewDirectExecutor(failingStore{}).Execute(context.Background(),
		models.FilterSpec{Sort: models.SortCreatedAt, Direction: models.Desc, PageSize: 2})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("err = %v, want store error", err)
	}
}

func TestBuildStoreQuery(t *testing.T) {
	base := []repositories.Clause{
		{Field: repositories.FieldVisible, Op: repositories.OpEq, Value: true},
		{Field: repositories.FieldDeleted, Op: repositories.OpEq, Value: false},
	}
	tests := []struct {
		name         string
		f            models.FilterSpec
		wantClauses  []repositories.Clause
		wantOrder    repositories.Field
		wantResidual bool
	}{
		{
			name:        "no filters",
			f:           models.FilterSpec{Sort: models.SortCreatedAt, Direction: models.Desc, PageSize: 3},
			wantClauses: base,
			wantOrder:   repositories.FieldCreatedAt,
		},
		{
			name: "search and category",
			f:    models.FilterSpec{Search: "gulf", Category: "gt3", Sort: models.SortCreatedAt, Direction: models.Asc, PageSize: 3},
			wantClauses: append(append([]repositories.Clause{}, base...),
				repositories.Clause{Field: repositories.FieldSearchTokens, Op: repositories.OpArrayContains, Value: "gulf"},
				repositories.Clause{Field: repositories.FieldCategory, Op: repositories.OpEq, Value: "gt3"},
			),
			wantOrder: repositories.FieldCreatedAt,
		},
		{
			name: "score indexed under popularity sort",
			f:    models.FilterSpec{MinScore: 3, Sort: models.SortPopularity, Direction: models.Desc, PageSize: 3},
			wantClauses: append(append([]repositories.Clause{}, base...),
				repositories.Clause{Field: repositories.FieldPopularityScore, Op: repositories.OpGte, Value: 3},
			),
			wantOrder: repositories.FieldPopularityScore,
		},
		{
			name:         "score residual under createdAt sort",
			f:            models.FilterSpec{MinScore: 3, Sort: models.SortCreatedAt, Direction: models.Desc, PageSize: 3},
			wantClauses:  base,
			wantOrder:    repositories.FieldCreatedAt,
			wantResidual: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, residual := BuildStoreQuery(tt.f)
			if !reflect.DeepEqual(q.Clauses, tt.wantClauses) {
				t.Errorf("clauses = %v, want %v", q.Clauses, tt.wantClauses)
			}
			if q.OrderBy.Field != tt.wantOrder || q.OrderBy.Direction != tt.f.Direction {
				t.Errorf("order = %v, want %s %s", q.OrderBy, tt.wantOrder, tt.f.Direction)
			}
			if q.Limit != tt.f.PageSize {
				t.Errorf("limit = %d, want %d", q.Limit, tt.f.PageSize)
			}
			if (residual != nil) != tt.wantResidual {
				t.Errorf("residual present = %v, want %v", residual != nil, tt.wantResidual)
			}
		})
	}
}
