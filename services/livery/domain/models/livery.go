package models

import (
	"time"

	"github.com/google/uuid"
)

// LiveryID is the opaque identifier of a catalog livery.
type LiveryID string

// String returns the underlying string value.
func (id LiveryID) String() string {
	return string(id)
}

const (
	// MinPopularityScore and MaxPopularityScore bound Livery.PopularityScore.
	MinPopularityScore = 0
	MaxPopularityScore = 5
)

// Livery is the core aggregate for this bounded context: a user-submitted item
// listed in the catalog. The query engine treats it as immutable.
type Livery struct {
	ID              LiveryID
	Name            LiveryName
	CreatedAt       time.Time
	PopularityScore int // 0..5
	Downloads       int64
	Category        string
	SearchTokens    []string // lowercase, de-duplicated
	OwnerID         string
	Visible         bool
	Deleted         bool
}

// NewLivery constructs a visible Livery with a generated ID and current timestamp.
func NewLivery(ownerID string, name LiveryName, category string, tokens []string) *Livery {
	return &Livery{
		ID:           LiveryID(uuid.NewString()),
		Name:         name,
		CreatedAt:    time.Now().UTC(),
		Category:     category,
		SearchTokens: tokens,
		OwnerID:      ownerID,
		Visible:      true,
	}
}

// Listable reports whether the livery may appear in any catalog page.
func (l *Livery) Listable() bool {
	return l != nil && l.Visible && !l.Deleted
}

// HasToken reports whether token is one of the livery's search tokens.
func (l *Livery) HasToken(token string) bool {
	for _, t := range l.SearchTokens {
		if t == token {
			return true
		}
	}
	return false
}
