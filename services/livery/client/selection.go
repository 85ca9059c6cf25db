package client

import (
	"slices"

	"github.com/liverylab/catalog/services/livery/domain/models"
)

// ToggleSelection removes id from selected when present and appends it
// otherwise. selected is not modified.
func ToggleSelection(selected []models.LiveryID, id models.LiveryID) []models.LiveryID {
	if i := slices.Index(selected, id); i >= 0 {
		return slices.Delete(slices.Clone(selected), i, i+1)
	}
	return append(slices.Clone(selected), id)
}
