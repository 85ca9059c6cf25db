package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	"github.com/liverylab/catalog/services/livery/domain/models"
	"github.com/liverylab/catalog/services/livery/domain/repositories"
)

const liveryColumns = "l.id, l.name, l.owner_id, l.category, l.search_tokens, " +
	"l.popularity_score, l.downloads, l.visible, l.deleted, l.created_at"

// columns maps store fields onto liveries table columns.
var columns = map[repositories.Field]string{
	repositories.FieldCreatedAt:       "created_at",
	repositories.FieldPopularityScore: "popularity_score",
	repositories.FieldCategory:        "category",
	repositories.FieldSearchTokens:    "search_tokens",
	repositories.FieldVisible:         "visible",
	repositories.FieldDeleted:         "deleted",
}

// LiveryStore implements repositories.LiveryStore with keyset range queries.
type LiveryStore struct {
	pool PgxPool
}

var _ repositories.LiveryStore = (*LiveryStore)(nil)

// NewLiveryStore returns a LiveryStore reading through pool.
func NewLiveryStore(pool PgxPool) *LiveryStore {
	return &LiveryStore{pool: pool}
}

// Get returns a livery by id, deleted or not. Returns ErrLiveryNotFound if absent.
func (s *LiveryStore) Get(ctx context.Context, id models.LiveryID) (*models.Livery, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+liveryColumns+" FROM liveries l WHERE l.id = $1", string(id))
	l, err := scanLivery(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, liverydomain.ErrLiveryNotFound
		}
		return nil, fmt.Errorf("query livery: %w", err)
	}
	return l, nil
}

// BatchGet loads ids in one round trip and aligns the rows with ids.
func (s *LiveryStore) BatchGet(ctx context.Context, ids []models.LiveryID) ([]*models.Livery, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = string(id)
	}

	rows, err := s.pool.Query(ctx, "SELECT "+liveryColumns+" FROM liveries l WHERE l.id = ANY($1)", keys)
	if err != nil {
		return nil, fmt.Errorf("batch query liveries: %w", err)
	}
	found, err := collectLiveries(rows)
	if err != nil {
		return nil, fmt.Errorf("batch query liveries: %w", err)
	}

	byID := make(map[models.LiveryID]*models.Livery, len(found))
	for _, l := range found {
		byID[l.ID] = l
	}
	out := make([]*models.Livery, len(ids))
	for i, id := range ids {
		out[i] = byID[id]
	}
	return out, nil
}

// Query runs q as a single keyset-paginated statement.
func (s *LiveryStore) Query(ctx context.Context, q repositories.StoreQuery) ([]*models.Livery, error) {
	sql, args, err := buildQuery(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("range query liveries: %w", err)
	}
	out, err := collectLiveries(rows)
	if err != nil {
		return nil, fmt.Errorf("range query liveries: %w", err)
	}
	return out, nil
}

// buildQuery renders q as SQL. Column names come from a fixed whitelist;
// every value is a bind parameter.
//
// StartAfter is resolved inside the statement: when the anchor row exists,
// rows must compare strictly after (sort column, id) of the anchor; when it
// does not, the condition is vacuous and the query starts from the top.
func buildQuery(q repositories.StoreQuery) (string, []any, error) {
	if q.Limit <= 0 {
		return "", nil, fmt.Errorf("range query: limit must be positive, got %d", q.Limit)
	}
	orderCol, ok := columns[q.OrderBy.Field]
	if !ok || (q.OrderBy.Field != repositories.FieldCreatedAt && q.OrderBy.Field != repositories.FieldPopularityScore) {
		return "", nil, fmt.Errorf("range query: cannot order by %q", q.OrderBy.Field)
	}
	dir, cmp := "DESC", "<"
	if q.OrderBy.Direction == models.Asc {
		dir, cmp = "ASC", ">"
	}

	var (
		where []string
		args  []any
	)
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	for _, c := range q.Clauses {
		col, ok := columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("range query: unknown field %q", c.Field)
		}
		switch c.Op {
		case repositories.OpEq:
			where = append(where, fmt.Sprintf("l.%s = %s", col, bind(c.Value)))
		case repositories.OpGte:
			where = append(where, fmt.Sprintf("l.%s >= %s", col, bind(c.Value)))
		case repositories.OpArrayContains:
			where = append(where, fmt.Sprintf("l.%s @> ARRAY[%s::text]", col, bind(c.Value)))
		default:
			return "", nil, fmt.Errorf("range query: unsupported operator %q", c.Op)
		}
	}

	if q.StartAfter != "" {
		p := bind(string(q.StartAfter))
		where = append(where, fmt.Sprintf(
			"(NOT EXISTS (SELECT 1 FROM liveries a WHERE a.id = %[1]s) OR "+
				"(l.%[2]s, l.id) %[3]s (SELECT a.%[2]s, a.id FROM liveries a WHERE a.id = %[1]s))",
			p, orderCol, cmp))
	}

	var b strings.Builder
	b.WriteString("SELECT " + liveryColumns + " FROM liveries l")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY l.%s %s, l.id %s LIMIT %s", orderCol, dir, dir, bind(q.Limit))
	return b.String(), args, nil
}

func scanLivery(row pgx.Row) (*models.Livery, error) {
	var (
		l         models.Livery
		id, name  string
		createdAt time.Time
	)
	if err := row.Scan(&id, &name, &l.OwnerID, &l.Category, &l.SearchTokens,
		&l.PopularityScore, &l.Downloads, &l.Visible, &l.Deleted, &createdAt); err != nil {
		return nil, err
	}
	l.ID = models.LiveryID(id)
	l.Name = models.LiveryName(name)
	l.CreatedAt = createdAt.UTC()
	return &l, nil
}

func collectLiveries(rows pgx.Rows) ([]*models.Livery, error) {
	defer rows.Close()
	var out []*models.Livery
	for rows.Next() {
		l, err := scanLivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
