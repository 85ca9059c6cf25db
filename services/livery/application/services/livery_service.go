package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/liverylab/catalog/pkg/logger"
	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
	domainsvcs "github.com/liverylab/catalog/services/livery/domain/services"
)

// CreateLiveryInput carries the caller-supplied fields of a new livery.
type CreateLiveryInput struct {
	Name     string
	Category string
	Tags     []string
}

// evictor is implemented by stores that keep a read model of point reads.
type evictor interface {
	Evict(ctx context.Context, id models.LiveryID)
}

// LiveryService orchestrates catalog browsing and livery lifecycle.
// Event publishing is handled by the repository layer (outbox pattern).
type LiveryService struct {
	normalizer  *Normalizer
	planner     *Planner
	store       repositories.LiveryStore
	repo        repositories.LiveryRepository
	collections repositories.CollectionRepository
	log         logger.Logger
}

// NewLiveryService returns a LiveryService wired with the given collaborators.
func NewLiveryService(
	store repositories.LiveryStore,
	repo repositories.LiveryRepository,
	collections repositories.CollectionRepository,
	opts QueryOptions,
	log logger.Logger,
) *LiveryService {
	return &LiveryService{
		normalizer:  NewNormalizer(opts),
		planner:     NewPlanner(store, opts, log),
		store:       store,
		repo:        repo,
		collections: collections,
		log:         log,
	}
}

// List normalizes params and returns one catalog page.
func (s *LiveryService) List(ctx context.Context, params url.Values) (*models.Page, error) {
	f, err := s.normalizer.Normalize(params)
	if err != nil {
		return nil, err
	}
	return s.planner.Plan(ctx, f)
}

// ListMine returns one page of ownerID's collection. The collection replaces
// any client-supplied id list as the scope; other filters apply in memory.
func (s *LiveryService) ListMine(ctx context.Context, ownerID string, params url.Values) (*models.Page, error) {
	params = cloneWithout(params, ParamIDs)
	f, err := s.normalizer.Normalize(params)
	if err != nil {
		return nil, err
	}

	scope, err := s.collections.ScopeForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve collection: %w", err)
	}
	// An empty scope must not fall through to the unscoped catalog.
	if len(scope) == 0 {
		return &models.Page{Items: []*models.Livery{}}, nil
	}
	// MaxScopeIDs bounds client-supplied lists only. The batch scan reads one
	// page-size window per iteration, so a large collection costs nothing
	// extra and must stay fully reachable through the cursor.
	f.Scope = scope
	return s.planner.Plan(ctx, f)
}

// Get returns a listable livery. Deleted and hidden liveries are not found.
func (s *LiveryService) Get(ctx context.Context, id models.LiveryID) (*models.Livery, error) {
	l, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get livery: %w", err)
	}
	if !l.Listable() {
		return nil, liverydomain.ErrLiveryNotFound
	}
	return l, nil
}

// Create validates and persists a livery, then adds it to the owner's
// collection. The repository publishes LiveryCreatedEvent.
func (s *LiveryService) Create(ctx context.Context, ownerID string, in CreateLiveryInput) (*models.Livery, error) {
	name, err := models.NewLiveryName(in.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", liverydomain.ErrInvalidLivery, err)
	}

	tokens := domainsvcs.Tokenize(append([]string{in.Name, in.Category}, in.Tags...)...)
	l := models.NewLivery(ownerID, name, in.Category, tokens)

	if err := domainsvcs.ValidateLiveryForCreation(l); err != nil {
		return nil, fmt.Errorf("%w: %w", liverydomain.ErrInvalidLivery, err)
	}

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("save livery: %w", err)
	}
	if err := s.collections.Add(ctx, ownerID, l.ID); err != nil {
		return nil, fmt.Errorf("add to collection: %w", err)
	}

	s.log.InfoContext(ctx, "livery created", "livery_id", l.ID, "owner_id", ownerID)
	return l, nil
}

// Collect adds a listable livery to ownerID's collection.
func (s *LiveryService) Collect(ctx context.Context, ownerID string, id models.LiveryID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.collections.Add(ctx, ownerID, id); err != nil {
		return fmt.Errorf("add to collection: %w", err)
	}
	return nil
}

// Delete soft-deletes a livery owned by ownerID. Liveries owned by someone
// else are reported as not found.
func (s *LiveryService) Delete(ctx context.Context, ownerID string, id models.LiveryID) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if l.OwnerID != ownerID {
		return liverydomain.ErrLiveryNotFound
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("delete livery: %w", err)
	}
	if ev, ok := s.store.(evictor); ok {
		ev.Evict(ctx, id)
	}
	return nil
}

func cloneWithout(params url.Values, key string) url.Values {
	out := make(url.Values, len(params))
	for k, v := range params {
		if k != key {
			out[k] = v
		}
	}
	return out
}
