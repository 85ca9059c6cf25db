package repositories

import "github.com/liverylab/catalog/services/livery/domain/models"

// Field names a livery attribute the store can filter or order on.
type Field string

const (
	FieldCreatedAt       Field = "created_at"
	FieldPopularityScore Field = "popularity_score"
	FieldCategory        Field = "category"
	FieldSearchTokens    Field = "search_tokens"
	FieldVisible         Field = "visible"
	FieldDeleted         Field = "deleted"
)

// Op is a store-level comparison operator.
type Op string

const (
	OpEq            Op = "=="
	OpGte           Op = ">="
	OpArrayContains Op = "array-contains"
)

// Clause is one store-level filter condition.
type Clause struct {
	Field Field
	Op    Op
	Value any
}

// OrderBy is the primary ordering of a range query. The store always breaks
// ties by id in the same direction.
type OrderBy struct {
	Field     Field
	Direction models.Direction
}

// StoreQuery describes one ordered range query against the LiveryStore.
//
// StartAfter, when non-empty, positions the query strictly after that livery
// in (OrderBy, id) order. A StartAfter id unknown to the store is ignored and
// the query starts from the beginning.
type StoreQuery struct {
	Clauses    []Clause
	OrderBy    OrderBy
	StartAfter models.LiveryID
	Limit      int
}

// SortField maps a FilterSpec sort key onto the store field it orders by.
func SortField(k models.SortKey) Field {
	if k == models.SortPopularity {
		return FieldPopularityScore
	}
	return FieldCreatedAt
}
