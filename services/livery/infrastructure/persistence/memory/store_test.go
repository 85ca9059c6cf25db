package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seed() []*models.Livery {
	return []*models.Livery{
		{ID: "a", CreatedAt: t0, PopularityScore: 1, Category: "gt3", SearchTokens: []string{"gulf"}, Visible: true},
		{ID: "b", CreatedAt: t0.Add(1 * time.Hour), PopularityScore: 4, Category: "gt3", Visible: true},
		{ID: "c", CreatedAt: t0.Add(2 * time.Hour), PopularityScore: 4, Category: "lmp", SearchTokens: []string{"gulf"}, Visible: true},
		{ID: "d", CreatedAt: t0.Add(3 * time.Hour), PopularityScore: 2, Category: "gt3", Visible: false},
		{ID: "e", CreatedAt: t0.Add(4 * time.Hour), PopularityScore: 5, Category: "gt3", Visible: true, Deleted: true},
	}
}

func ids(ls []*models.Livery) []models.LiveryID {
	out := make([]models.LiveryID, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

var listable = []repositories.Clause{
	{Field: repositories.FieldVisible, Op: repositories.OpEq, Value: true},
	{Field: repositories.FieldDeleted, Op: repositories.OpEq, Value: false},
}

func TestStore_Get(t *testing.T) {
	s := NewStore(seed()...)
	l, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, models.LiveryID("a"), l.ID)

	_, err = s.Get(context.Background(), "zzz")
	require.True(t, errors.Is(err, liverydomain.ErrLiveryNotFound))
}

func TestStore_BatchGet_AlignsSlots(t *testing.T) {
	s := NewStore(seed()...)
	got, err := s.BatchGet(context.Background(), []models.LiveryID{"c", "missing", "a"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, models.LiveryID("c"), got[0].ID)
	require.Nil(t, got[1])
	require.Equal(t, models.LiveryID("a"), got[2].ID)
}

func TestStore_Query_OrderAndKeyset(t *testing.T) {
	s := NewStore(seed()...)
	ctx := context.Background()

	q := repositories.StoreQuery{
		Clauses: listable,
		OrderBy: repositories.OrderBy{Field: repositories.FieldPopularityScore, Direction: models.Desc},
		Limit:   10,
	}
	got, err := s.Query(ctx, q)
	require.NoError(t, err)
	require.Equal(t, []models.LiveryID{"c", "b", "a"}, ids(got))

	q.StartAfter = "c"
	got, err = s.Query(ctx, q)
	require.NoError(t, err)
	require.Equal(t, []models.LiveryID{"b", "a"}, ids(got))

	q.StartAfter = "unknown"
	got, err = s.Query(ctx, q)
	require.NoError(t, err)
	require.Equal(t, []models.LiveryID{"c", "b", "a"}, ids(got), "unknown anchor restarts")
}

func TestStore_Query_AnchorOutsideResultSet(t *testing.T) {
	s := NewStore(seed()...)
	// "d" is hidden but still positions the query by its created_at.
	got, err := s.Query(context.Background(), repositories.StoreQuery{
		Clauses:    listable,
		OrderBy:    repositories.OrderBy{Field: repositories.FieldCreatedAt, Direction: models.Desc},
		StartAfter: "d",
		Limit:      10,
	})
	require.NoError(t, err)
	require.Equal(t, []models.LiveryID{"c", "b", "a"}, ids(got))
}

func TestStore_Query_Clauses(t *testing.T) {
	s := NewStore(seed()...)
	got, err := s.Query(context.Background(), repositories.StoreQuery{
		Clauses: append(append([]repositories.Clause{}, listable...),
			repositories.Clause{Field: repositories.FieldSearchTokens, Op: repositories.OpArrayContains, Value: "gulf"},
			repositories.Clause{Field: repositories.FieldPopularityScore, Op: repositories.OpGte, Value: 2},
		),
		OrderBy: repositories.OrderBy{Field: repositories.FieldCreatedAt, Direction: models.Asc},
		Limit:   10,
	})
	require.NoError(t, err)
	require.Equal(t, []models.LiveryID{"c"}, ids(got))
}

func TestStore_Query_RejectsBadInput(t *testing.T) {
	s := NewStore(seed()...)
	_, err := s.Query(context.Background(), repositories.StoreQuery{Limit: 0})
	require.Error(t, err)

	_, err = s.Query(context.Background(), repositories.StoreQuery{
		Clauses: []repositories.Clause{{Field: repositories.FieldPopularityScore, Op: repositories.OpGte, Value: "3"}},
		Limit:   1,
	})
	require.Error(t, err)
}

func TestStore_SaveAndSoftDelete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	l := &models.Livery{ID: "n", Visible: true}

	require.NoError(t, s.Save(ctx, l))
	require.ErrorIs(t, s.Save(ctx, l), liverydomain.ErrLiveryAlreadyExists)

	require.NoError(t, s.SoftDelete(ctx, "n"))
	require.ErrorIs(t, s.SoftDelete(ctx, "n"), liverydomain.ErrLiveryNotFound)

	got, err := s.Get(ctx, "n")
	require.NoError(t, err)
	require.True(t, got.Deleted)
}

func TestStore_Collections(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, "owner", "a"))
	require.NoError(t, s.Add(ctx, "owner", "b"))
	require.NoError(t, s.Add(ctx, "owner", "a"))

	scope, err := s.ScopeForOwner(ctx, "owner")
	require.NoError(t, err)
	require.Equal(t, []models.LiveryID{"b", "a"}, scope)

	empty, err := s.ScopeForOwner(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore(seed()...)
	l, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	l.Category = "mutated"

	again, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, "gt3", again.Category)
}
