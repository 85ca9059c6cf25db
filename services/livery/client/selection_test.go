package client

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liverylab/catalog/services/livery/domain/models"
)

func TestToggleSelection(t *testing.T) {
	tests := []struct {
		name     string
		selected []models.LiveryID
		id       models.LiveryID
		want     []models.LiveryID
	}{
		{"add to empty", nil, "a", []models.LiveryID{"a"}},
		{"append", []models.LiveryID{"a"}, "b", []models.LiveryID{"a", "b"}},
		{"remove", []models.LiveryID{"a", "b", "c"}, "b", []models.LiveryID{"a", "c"}},
		{"remove last", []models.LiveryID{"a"}, "a", []models.LiveryID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]models.LiveryID(nil), tt.selected...)
			got := ToggleSelection(tt.selected, tt.id)
			require.Equal(t, tt.want, got)
			require.Equal(t, in, tt.selected, "input must not change")
		})
	}
}
