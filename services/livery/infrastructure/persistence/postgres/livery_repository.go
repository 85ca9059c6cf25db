package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/liverylab/catalog/pkg/database"
	"github.com/liverylab/catalog/pkg/events"
	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	domainevents "github.com/liverylab/catalog/services/livery/domain/events"
	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
)

const eventVersion = 1

// LiveryRepository implements repositories.LiveryRepository against PostgreSQL.
type LiveryRepository struct {
	db  *database.Database
	bus *events.EventBus
}

var _ repositories.LiveryRepository = (*LiveryRepository)(nil)

// NewLiveryRepository returns a LiveryRepository backed by the given connection pool
// and event bus. The bus publishes lifecycle events inside the write transaction.
func NewLiveryRepository(database *database.Database, bus *events.EventBus) *LiveryRepository {
	return &LiveryRepository{db: database, bus: bus}
}

// Save persists a new Livery and publishes a LiveryCreatedEvent within the same transaction.
// Returns ErrLiveryAlreadyExists on unique constraint violations.
func (r *LiveryRepository) Save(ctx context.Context, l *models.Livery) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO liveries (id, name, owner_id, category, search_tokens, popularity_score, downloads, visible, deleted, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			string(l.ID), l.Name.String(), l.OwnerID, l.Category, l.SearchTokens,
			l.PopularityScore, l.Downloads, l.Visible, l.Deleted, l.CreatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return liverydomain.ErrLiveryAlreadyExists
			}
			return fmt.Errorf("insert livery: %w", err)
		}

		if r.bus != nil {
			msg, err := createdMessage(l)
			if err != nil {
				return err
			}
			if err := r.bus.PublishTx(ctx, tx, domainevents.TopicLiveryCreated, msg); err != nil {
				return fmt.Errorf("publish livery created: %w", err)
			}
		}
		return nil
	})
}

// SoftDelete marks a live livery deleted and publishes a LiveryDeletedEvent.
// Returns ErrLiveryNotFound if no live livery matches.
func (r *LiveryRepository) SoftDelete(ctx context.Context, id models.LiveryID) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE liveries SET deleted = true WHERE id = $1 AND deleted = false`, string(id))
		if err != nil {
			return fmt.Errorf("soft delete livery: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("soft delete livery: %w", err)
		}
		if n == 0 {
			return liverydomain.ErrLiveryNotFound
		}

		if r.bus != nil {
			msg, err := deletedMessage(id, time.Now().UTC())
			if err != nil {
				return err
			}
			if err := r.bus.PublishTx(ctx, tx, domainevents.TopicLiveryDeleted, msg); err != nil {
				return fmt.Errorf("publish livery deleted: %w", err)
			}
		}
		return nil
	})
}

func createdMessage(l *models.Livery) (*message.Message, error) {
	event := domainevents.LiveryCreatedEvent{
		EventID:         uuid.New(),
		Version:         eventVersion,
		LiveryID:        l.ID.String(),
		OwnerID:         l.OwnerID,
		Name:            l.Name.String(),
		Category:        l.Category,
		SearchTokens:    l.SearchTokens,
		PopularityScore: l.PopularityScore,
		Downloads:       l.Downloads,
		Visible:         l.Visible,
		OccurredAt:      l.CreatedAt,
	}
	return events.NewJSONMessage(event.EventID, eventVersion, event)
}

func deletedMessage(id models.LiveryID, at time.Time) (*message.Message, error) {
	event := domainevents.LiveryDeletedEvent{
		EventID:    uuid.New(),
		Version:    eventVersion,
		LiveryID:   id.String(),
		OccurredAt: at,
	}
	return events.NewJSONMessage(event.EventID, eventVersion, event)
}
