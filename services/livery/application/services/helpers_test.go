package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/pkg/logger"
	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
	"github.com/liverylab/catalog/services/livery/infrastructure/persistence/memory"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// livery builds a listable livery created i hours after baseTime.
func livery(id string, i int, category string, score int, tokens ...string) *models.Livery {
	return &models.Livery{
		ID:              models.LiveryID(id),
		Name:            models.LiveryName("Livery " + id),
		CreatedAt:       baseTime.Add(time.Duration(i) * time.Hour),
		PopularityScore: score,
		Category:        category,
		SearchTokens:    tokens,
		OwnerID:         "owner-1",
		Visible:         true,
	}
}

// catalog returns n liveries with varied categories, scores and tokens.
// Every third livery shares its score with a neighbour to exercise id tie-breaks.
func catalog(n int) []*models.Livery {
	cats := []string{"gt3", "rally", "formula"}
	toks := []string{"gulf", "martini", "rothmans"}
	out := make([]*models.Livery, n)
	for i := range n {
		l := livery(fmt.Sprintf("l%03d", i), i, cats[i%3], (i/2)%6, toks[i%3], "paint")
		l.Visible = i%11 != 5
		l.Deleted = i%13 == 7
		out[i] = l
	}
	return out
}

// countingStore records calls made against a LiveryStore.
type countingStore struct {
	repositories.LiveryStore
	batchGets atomic.Int64
	queries   atomic.Int64
}

func (s *countingStore) BatchGet(ctx context.Context, ids []models.LiveryID) ([]*models.Livery, error) {
	s.batchGets.Add(1)
	return s.LiveryStore.BatchGet(ctx, ids)
}

func (s *countingStore) Query(ctx context.Context, q repositories.StoreQuery) ([]*models.Livery, error) {
	s.queries.Add(1)
	return s.LiveryStore.Query(ctx, q)
}

var errStoreDown = errors.New("store unavailable")

type failingStore struct{}

func (failingStore) Get(context.Context, models.LiveryID) (*models.Livery, error) {
	return nil, errStoreDown
}

func (failingStore) BatchGet(context.Context, []models.LiveryID) ([]*models.Livery, error) {
	return nil, errStoreDown
}

func (failingStore) Query(context.Context, repositories.StoreQuery) ([]*models.Livery, error) {
	return nil, errStoreDown
}

func ids(items []*models.Livery) []models.LiveryID {
	out := make([]models.LiveryID, len(items))
	for i, l := range items {
		out[i] = l.ID
	}
	return out
}

func cursorString(p *models.Page) string {
	if p.NextCursor == nil {
		return "<nil>"
	}
	return string(*p.NextCursor)
}

func newMemory(seed ...*models.Livery) *memory.Store {
	return memory.NewStore(seed...)
}

func mustPlan(t *testing.T, p *Planner, f models.FilterSpec) *models.Page {
	t.Helper()
	page, err := p.Plan(context.Background(), f)
	if err != nil {
		t.Fatalf("Plan(%+v): %v", f, err)
	}
	return page
}
