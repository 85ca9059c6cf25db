package services

import (
	"strings"

	"github.com/liverylab/catalog/services/livery/domain/models"
)

// Compare orders a and b by (sort key, id) in direction dir. The id breaks
// ties in the same direction as the sort key, so the ordering is total and
// matches the keyset condition used by the stores.
func Compare(a, b *models.Livery, key models.SortKey, dir models.Direction) int {
	c := compareKey(a, b, key)
	if c == 0 {
		c = strings.Compare(string(a.ID), string(b.ID))
	}
	if dir == models.Desc {
		return -c
	}
	return c
}

func compareKey(a, b *models.Livery, key models.SortKey) int {
	if key == models.SortPopularity {
		switch {
		case a.PopularityScore < b.PopularityScore:
			return -1
		case a.PopularityScore > b.PopularityScore:
			return 1
		}
		return 0
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}
