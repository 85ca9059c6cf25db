package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	pkgvalidator "github.com/liverylab/catalog/pkg/validator"
	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	"github.com/liverylab/catalog/services/livery/domain/models"
	domainsvcs "github.com/liverylab/catalog/services/livery/domain/services"
)

// Query parameter names accepted by the catalog endpoints.
const (
	ParamIDs       = "ids"
	ParamSearch    = "search"
	ParamCategory  = "category"
	ParamScoreMin  = "scoreMin"
	ParamSort      = "sort"
	ParamDirection = "direction"
	ParamCursor    = "cursor"
	ParamPageSize  = "pageSize"
)

// ScopeDelimiter separates ids in the ids parameter.
const ScopeDelimiter = ","

// Validator tags applied to raw parameter values. A value failing its tag is
// dropped as if it had not been sent.
const (
	tagID       = pkgvalidator.TagOpaqueID
	tagCategory = "printascii,max=64"
	tagNumber   = "number"
)

// Normalizer turns raw request parameters into a FilterSpec.
type Normalizer struct {
	opts QueryOptions
}

// NewNormalizer returns a Normalizer applying opts' page-size and scope limits.
func NewNormalizer(opts QueryOptions) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize parses params. Unknown, empty and malformed parameters are
// dropped rather than defaulted to a match-nothing value. The only failure is
// an explicit scope larger than MaxScopeIDs.
func (n *Normalizer) Normalize(params url.Values) (models.FilterSpec, error) {
	f := models.FilterSpec{
		Sort:      models.SortCreatedAt,
		Direction: models.Desc,
		PageSize:  n.opts.DefaultPageSize,
	}

	if v := value(params, ParamSearch); v != "" {
		// The store combines a single array-membership clause per query.
		if tokens := domainsvcs.Tokenize(v); len(tokens) > 0 {
			f.Search = tokens[0]
		}
	}

	if v := value(params, ParamCategory); v != "" && pkgvalidator.Var(v, tagCategory) == nil {
		f.Category = strings.ToLower(v)
	}

	if v := value(params, ParamScoreMin); v != "" && pkgvalidator.Var(v, tagNumber) == nil {
		// 0 matches everything and is treated as absent.
		if score, err := strconv.Atoi(v); err == nil && score > models.MinPopularityScore && score <= models.MaxPopularityScore {
			f.MinScore = score
		}
	}

	if v := value(params, ParamSort); v != "" {
		if k := parseSortKey(v); k.Valid() {
			f.Sort = k
		}
	}

	if v := value(params, ParamDirection); v != "" {
		if d := models.Direction(strings.ToLower(v)); d.Valid() {
			f.Direction = d
		}
	}

	if v := value(params, ParamCursor); v != "" && pkgvalidator.Var(v, tagID) == nil {
		f.Cursor = models.LiveryID(v)
	}

	if v := value(params, ParamPageSize); v != "" && pkgvalidator.Var(v, tagNumber) == nil {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			f.PageSize = min(size, n.opts.MaxPageSize)
		}
	}

	if v := value(params, ParamIDs); v != "" {
		scope := ParseScope(v)
		if len(scope) > n.opts.MaxScopeIDs {
			return models.FilterSpec{}, fmt.Errorf("%w: %d ids exceeds limit of %d",
				liverydomain.ErrInvalidFilter, len(scope), n.opts.MaxScopeIDs)
		}
		// A sent id list stays a scope even when nothing in it survives, so
		// the request can never widen to the whole catalog.
		f.Scope = scope
	}

	return f, nil
}

// ParseScope splits a delimited id list, dropping blank and malformed ids and
// de-duplicating while preserving first-occurrence order. The result is never
// nil.
func ParseScope(raw string) []models.LiveryID {
	parts := strings.Split(raw, ScopeDelimiter)
	seen := make(map[string]struct{}, len(parts))
	out := make([]models.LiveryID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || pkgvalidator.Var(p, tagID) != nil {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, models.LiveryID(p))
	}
	return out
}

// EncodeParams is the inverse of Normalize, used by clients building requests.
// Absent predicates are omitted.
func EncodeParams(f models.FilterSpec) url.Values {
	v := url.Values{}
	if len(f.Scope) > 0 {
		ids := make([]string, len(f.Scope))
		for i, id := range f.Scope {
			ids[i] = string(id)
		}
		v.Set(ParamIDs, strings.Join(ids, ScopeDelimiter))
	}
	if f.Search != "" {
		v.Set(ParamSearch, f.Search)
	}
	if f.Category != "" {
		v.Set(ParamCategory, f.Category)
	}
	if f.MinScore > 0 {
		v.Set(ParamScoreMin, strconv.Itoa(f.MinScore))
	}
	if f.Sort != "" {
		v.Set(ParamSort, string(f.Sort))
	}
	if f.Direction != "" {
		v.Set(ParamDirection, string(f.Direction))
	}
	if f.Cursor != "" {
		v.Set(ParamCursor, string(f.Cursor))
	}
	if f.PageSize > 0 {
		v.Set(ParamPageSize, strconv.Itoa(f.PageSize))
	}
	return v
}

func parseSortKey(v string) models.SortKey {
	switch v {
	case "popularityScore", "popular":
		return models.SortPopularity
	}
	return models.SortKey(v)
}

func value(params url.Values, key string) string {
	return strings.TrimSpace(params.Get(key))
}
