package postgres

import (
	"context"
	"fmt"

	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
)

// CollectionRepository implements repositories.CollectionRepository against PostgreSQL.
type CollectionRepository struct {
	pool PgxPool
}

var _ repositories.CollectionRepository = (*CollectionRepository)(nil)

// NewCollectionRepository returns a CollectionRepository backed by pool.
func NewCollectionRepository(pool PgxPool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

// ScopeForOwner returns ownerID's collection, most recently added first.
func (r *CollectionRepository) ScopeForOwner(ctx context.Context, ownerID string) ([]models.LiveryID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT livery_id FROM collection_items WHERE owner_id = $1 ORDER BY added_at DESC, livery_id DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	defer rows.Close()

	var out []models.LiveryID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, models.LiveryID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	return out, nil
}

// Add inserts id into ownerID's collection. Re-adding is a no-op.
func (r *CollectionRepository) Add(ctx context.Context, ownerID string, id models.LiveryID) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO collection_items (owner_id, livery_id, added_at) VALUES ($1, $2, now()) ON CONFLICT DO NOTHING`,
		ownerID, string(id)); err != nil {
		return fmt.Errorf("insert collection item: %w", err)
	}
	return nil
}
