// Package cached decorates a LiveryStore with the Redis read model.
package cached

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	pkgcache "github.com/liverylab/catalog/pkg/cache"
	"github.com/liverylab/catalog/pkg/logger"
	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
)

const (
	// fillConcurrency bounds concurrent cache writes after a miss.
	fillConcurrency = 8
	// tombstoneTTL is how long an evicted id refuses back-fills from reads
	// that started before the eviction.
	tombstoneTTL = 30 * time.Second
)

// ReadModel is the subset of pkg/cache.LiveryCache the decorator needs.
type ReadModel interface {
	GetMany(ctx context.Context, ids []string) ([]*pkgcache.CachedLivery, error)
	Set(ctx context.Context, l *pkgcache.CachedLivery) error
	Delete(ctx context.Context, id string) error
}

// Store serves point reads from the read model and falls through to next on
// a miss, back-filling the listable rows it found. Range queries always go to
// next. Cache failures degrade to next and are only logged.
//
// Tombstones only cover evictions made through this Store. Deletes applied
// elsewhere reach the read model through the worker's evict consumer.
type Store struct {
	next  repositories.LiveryStore
	cache ReadModel
	log   logger.Logger

	mu      sync.Mutex
	evicted map[models.LiveryID]time.Time
}

var _ repositories.LiveryStore = (*Store)(nil)

// NewStore wraps next with cache.
func NewStore(next repositories.LiveryStore, cache ReadModel, log logger.Logger) *Store {
	return &Store{next: next, cache: cache, log: log, evicted: map[models.LiveryID]time.Time{}}
}

// Get returns a single livery, reading through the cache.
func (s *Store) Get(ctx context.Context, id models.LiveryID) (*models.Livery, error) {
	got, err := s.BatchGet(ctx, []models.LiveryID{id})
	if err != nil {
		return nil, err
	}
	if got[0] == nil {
		return nil, liverydomain.ErrLiveryNotFound
	}
	return got[0], nil
}

// BatchGet returns one slot per id, serving hits from the cache.
func (s *Store) BatchGet(ctx context.Context, ids []models.LiveryID) ([]*models.Livery, error) {
	out := make([]*models.Livery, len(ids))

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	hits, err := s.cache.GetMany(ctx, keys)
	if err != nil {
		s.log.WarnContext(ctx, "livery cache read failed", "error", err, "count", len(ids))
		hits = nil
	}

	var (
		missIdx []int
		missIDs []models.LiveryID
	)
	for i, id := range ids {
		if i < len(hits) && hits[i] != nil {
			out[i] = FromCached(hits[i])
			continue
		}
		missIdx = append(missIdx, i)
		missIDs = append(missIDs, id)
	}
	if len(missIDs) == 0 {
		return out, nil
	}

	readAt := time.Now()
	fetched, err := s.next.BatchGet(ctx, missIDs)
	if err != nil {
		return nil, fmt.Errorf("cached batch get: %w", err)
	}
	for j, l := range fetched {
		if j < len(missIdx) {
			out[missIdx[j]] = l
		}
	}
	s.fill(ctx, readAt, fetched)
	return out, nil
}

// Query delegates to the underlying store.
func (s *Store) Query(ctx context.Context, q repositories.StoreQuery) ([]*models.Livery, error) {
	return s.next.Query(ctx, q)
}

// Evict drops id from the read model. Reads already in flight will not put
// it back.
func (s *Store) Evict(ctx context.Context, id models.LiveryID) {
	now := time.Now()
	s.mu.Lock()
	for k, at := range s.evicted {
		if now.Sub(at) > tombstoneTTL {
			delete(s.evicted, k)
		}
	}
	s.evicted[id] = now
	s.mu.Unlock()

	if err := s.cache.Delete(ctx, id.String()); err != nil {
		s.log.WarnContext(ctx, "livery cache evict failed", "error", err, "livery_id", id)
	}
}

// evictedSince reports whether id was evicted at or after t.
func (s *Store) evictedSince(id models.LiveryID, t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.evicted[id]
	return ok && !at.Before(t)
}

// fill writes back rows read at readAt. Unlistable rows are never cached.
func (s *Store) fill(ctx context.Context, readAt time.Time, liveries []*models.Livery) {
	var g errgroup.Group
	g.SetLimit(fillConcurrency)
	for _, l := range liveries {
		if !l.Listable() || s.evictedSince(l.ID, readAt) {
			continue
		}
		g.Go(func() error {
			if err := s.cache.Set(context.WithoutCancel(ctx), ToCached(l)); err != nil {
				return fmt.Errorf("fill %s: %w", l.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		s.log.WarnContext(ctx, "livery cache fill failed", "error", err)
	}
}

// ToCached converts a domain livery into the Redis read model.
func ToCached(l *models.Livery) *pkgcache.CachedLivery {
	return &pkgcache.CachedLivery{
		ID:              l.ID.String(),
		OwnerID:         l.OwnerID,
		Name:            l.Name.String(),
		Category:        l.Category,
		SearchTokens:    l.SearchTokens,
		PopularityScore: l.PopularityScore,
		Downloads:       l.Downloads,
		Visible:         l.Visible,
		Deleted:         l.Deleted,
		CreatedAt:       l.CreatedAt,
	}
}

// FromCached converts the Redis read model back into a domain livery.
func FromCached(c *pkgcache.CachedLivery) *models.Livery {
	return &models.Livery{
		ID:              models.LiveryID(c.ID),
		OwnerID:         c.OwnerID,
		Name:            models.LiveryName(c.Name),
		Category:        c.Category,
		SearchTokens:    c.SearchTokens,
		PopularityScore: c.PopularityScore,
		Downloads:       c.Downloads,
		Visible:         c.Visible,
		Deleted:         c.Deleted,
		CreatedAt:       c.CreatedAt,
	}
}
