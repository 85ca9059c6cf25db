package repositories

import (
	"context"

	"github.com/liverylab/catalog/services/livery/domain/models"
)

// LiveryStore is the read-side document store consumed by the query engine.
// The domain layer owns this interface; infrastructure implements it.
//
// Implementations must distinguish "not found" (ErrLiveryNotFound from Get,
// a nil slot from BatchGet) from connectivity or internal failures, which are
// returned as errors and abort the calling page request.
type LiveryStore interface {
	// Get returns a single livery, listable or not.
	Get(ctx context.Context, id models.LiveryID) (*models.Livery, error)

	// BatchGet returns one slot per requested id, in request order. Missing
	// ids yield nil slots.
	BatchGet(ctx context.Context, ids []models.LiveryID) ([]*models.Livery, error)

	// Query runs an ordered, filtered range query. See StoreQuery.
	Query(ctx context.Context, q StoreQuery) ([]*models.Livery, error)
}

// LiveryRepository is the write-side persistence interface for the Livery aggregate.
type LiveryRepository interface {
	// Save persists a new Livery and publishes LiveryCreatedEvent.
	Save(ctx context.Context, livery *models.Livery) error

	// SoftDelete marks a livery deleted and publishes LiveryDeletedEvent.
	// Returns ErrLiveryNotFound if no live livery matches.
	SoftDelete(ctx context.Context, id models.LiveryID) error
}

// CollectionRepository resolves the ids a browsing context is scoped to.
type CollectionRepository interface {
	// ScopeForOwner returns the ordered livery ids in ownerID's collection,
	// most recently added first.
	ScopeForOwner(ctx context.Context, ownerID string) ([]models.LiveryID, error)

	// Add appends a livery to ownerID's collection. Adding twice is a no-op.
	Add(ctx context.Context, ownerID string, id models.LiveryID) error
}
