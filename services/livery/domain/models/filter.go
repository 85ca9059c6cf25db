package models

import "slices"

// SortKey selects the primary ordering of a catalog enumeration.
type SortKey string

const (
	SortCreatedAt  SortKey = "createdAt"
	SortPopularity SortKey = "popularity"
)

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	return k == SortCreatedAt || k == SortPopularity
}

// Direction is the ordering direction of the sort key and the id tie-break.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// FilterSpec is the typed predicate set of one catalog request.
//
// A zero MinScore, an empty Search or Category, and a nil Scope mean "no
// constraint". A non-nil Scope selects the batch-scan strategy and defines the
// candidate set in its own order; an empty non-nil Scope matches nothing.
type FilterSpec struct {
	Search    string
	Category  string
	MinScore  int
	Scope     []LiveryID
	Sort      SortKey
	Direction Direction
	Cursor    LiveryID
	PageSize  int
}

// HasScope reports whether an explicit id-list scope is present, even one
// with no ids left in it.
func (f FilterSpec) HasScope() bool {
	return f.Scope != nil
}

// SameFilters reports whether f and other describe the same enumeration.
// Cursor is paging state and is ignored.
func (f FilterSpec) SameFilters(other FilterSpec) bool {
	return f.Search == other.Search &&
		f.Category == other.Category &&
		f.MinScore == other.MinScore &&
		f.Sort == other.Sort &&
		f.Direction == other.Direction &&
		f.PageSize == other.PageSize &&
		f.HasScope() == other.HasScope() &&
		slices.Equal(f.Scope, other.Scope)
}

// WithCursor returns a copy of f positioned after cursor.
func (f FilterSpec) WithCursor(cursor LiveryID) FilterSpec {
	f.Cursor = cursor
	return f
}

// Matches applies every non-scope predicate of f to l in memory. Unlistable
// liveries never match.
func (f FilterSpec) Matches(l *Livery) bool {
	if !l.Listable() {
		return false
	}
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.MinScore > 0 && l.PopularityScore < f.MinScore {
		return false
	}
	if f.Search != "" && !l.HasToken(f.Search) {
		return false
	}
	return true
}
