// Package memory is an in-process implementation of the livery store and
// repositories. It honours the same ordering, keyset and not-found contracts as
// the Postgres implementation and backs tests and STORE_BACKEND=memory.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
	domainsvcs "github.com/liverylab/catalog/services/livery/domain/services"
)

// Store implements repositories.LiveryStore, LiveryRepository and
// CollectionRepository in memory. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	liveries    map[models.LiveryID]*models.Livery
	collections map[string][]models.LiveryID
}

var (
	_ repositories.LiveryStore          = (*Store)(nil)
	_ repositories.LiveryRepository     = (*Store)(nil)
	_ repositories.CollectionRepository = (*Store)(nil)
)

// NewStore returns a Store seeded with the given liveries.
func NewStore(seed ...*models.Livery) *Store {
	s := &Store{
		liveries:    make(map[models.LiveryID]*models.Livery, len(seed)),
		collections: make(map[string][]models.LiveryID),
	}
	for _, l := range seed {
		s.liveries[l.ID] = clone(l)
	}
	return s
}

// Get returns the livery with the given id or ErrLiveryNotFound.
func (s *Store) Get(_ context.Context, id models.LiveryID) (*models.Livery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.liveries[id]
	if !ok {
		return nil, liverydomain.ErrLiveryNotFound
	}
	return clone(l), nil
}

// BatchGet returns one slot per id; missing ids yield nil.
func (s *Store) BatchGet(_ context.Context, ids []models.LiveryID) ([]*models.Livery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Livery, len(ids))
	for i, id := range ids {
		if l, ok := s.liveries[id]; ok {
			out[i] = clone(l)
		}
	}
	return out, nil
}

// Query evaluates q over all liveries.
func (s *Store) Query(_ context.Context, q repositories.StoreQuery) ([]*models.Livery, error) {
	if q.Limit <= 0 {
		return nil, fmt.Errorf("memory query: limit must be positive, got %d", q.Limit)
	}
	key := models.SortCreatedAt
	if q.OrderBy.Field == repositories.FieldPopularityScore {
		key = models.SortPopularity
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Livery, 0, len(s.liveries))
	for _, l := range s.liveries {
		ok, err := matchClauses(l, q.Clauses)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, l)
		}
	}
	slices.SortFunc(matched, func(a, b *models.Livery) int {
		return domainsvcs.Compare(a, b, key, q.OrderBy.Direction)
	})

	start := 0
	if anchor, ok := s.liveries[q.StartAfter]; ok && q.StartAfter != "" {
		start, _ = slices.BinarySearchFunc(matched, anchor, func(e, target *models.Livery) int {
			return domainsvcs.Compare(e, target, key, q.OrderBy.Direction)
		})
		if start < len(matched) && matched[start].ID == anchor.ID {
			start++
		}
	}

	end := min(start+q.Limit, len(matched))
	out := make([]*models.Livery, 0, end-start)
	for _, l := range matched[start:end] {
		out = append(out, clone(l))
	}
	return out, nil
}

// Save stores a new livery.
func (s *Store) Save(_ context.Context, l *models.Livery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.liveries[l.ID]; exists {
		return liverydomain.ErrLiveryAlreadyExists
	}
	s.liveries[l.ID] = clone(l)
	return nil
}

// SoftDelete marks a live livery deleted.
func (s *Store) SoftDelete(_ context.Context, id models.LiveryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.liveries[id]
	if !ok || l.Deleted {
		return liverydomain.ErrLiveryNotFound
	}
	l.Deleted = true
	return nil
}

// ScopeForOwner returns ownerID's collection, most recently added first.
func (s *Store) ScopeForOwner(_ context.Context, ownerID string) ([]models.LiveryID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.collections[ownerID]
	out := make([]models.LiveryID, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out, nil
}

// Add appends id to ownerID's collection unless already present.
func (s *Store) Add(_ context.Context, ownerID string, id models.LiveryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.collections[ownerID], id) {
		return nil
	}
	s.collections[ownerID] = append(s.collections[ownerID], id)
	return nil
}

func matchClauses(l *models.Livery, clauses []repositories.Clause) (bool, error) {
	for _, c := range clauses {
		ok, err := matchClause(l, c)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchClause(l *models.Livery, c repositories.Clause) (bool, error) {
	switch c.Field {
	case repositories.FieldVisible:
		return c.Op == repositories.OpEq && l.Visible == c.Value, nil
	case repositories.FieldDeleted:
		return c.Op == repositories.OpEq && l.Deleted == c.Value, nil
	case repositories.FieldCategory:
		return c.Op == repositories.OpEq && l.Category == c.Value, nil
	case repositories.FieldSearchTokens:
		token, _ := c.Value.(string)
		return c.Op == repositories.OpArrayContains && l.HasToken(token), nil
	case repositories.FieldPopularityScore:
		v, ok := c.Value.(int)
		if !ok {
			return false, fmt.Errorf("memory query: popularity clause needs int, got %T", c.Value)
		}
		switch c.Op {
		case repositories.OpGte:
			return l.PopularityScore >= v, nil
		case repositories.OpEq:
			return l.PopularityScore == v, nil
		}
	}
	return false, fmt.Errorf("memory query: unsupported clause %s %s", c.Field, c.Op)
}

func clone(l *models.Livery) *models.Livery {
	c := *l
	c.SearchTokens = slices.Clone(l.SearchTokens)
	return &c
}
