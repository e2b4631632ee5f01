package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSignals(t *testing.T) {
	raw := map[string]any{
		"grid": map[string]any{
			"pageIndex":     "2",
			"pageSize":      float64(20),
			"search":        "ada",
			"sortColumn":    "email",
			"sortDirection": "desc",
			"filters":       map[string]any{"isArchived": "true"},
		},
		"staged": map[string]any{
			"search":  "draft",
			"filters": map[string]any{"role": "admin"},
		},
		"filtersOpen": "true",
	}

	sig, err := DecodeSignals(raw)
	require.NoError(t, err)

	assert.Equal(t, 2, sig.Grid.PageIndex)
	assert.Equal(t, 20, sig.Grid.PageSize)
	assert.Equal(t, Desc, sig.Grid.SortDirection)
	assert.Equal(t, "draft", sig.Staged.Search)
	assert.True(t, sig.FiltersOpen)

	s := FromSignals(userFilters, sig)
	assert.Equal(t, true, s.Committed().Filters["isArchived"])
	assert.Equal(t, "admin", s.Staged().Filters["role"])
	assert.True(t, s.OverlayOpen())
}

func TestDecodeSignals_Empty(t *testing.T) {
	sig, err := DecodeSignals(nil)
	require.NoError(t, err)

	s := FromSignals(userFilters, sig)
	c := s.Committed()
	assert.Equal(t, 10, c.PageSize, "missing page size falls back to the default")
	assert.Equal(t, map[string]any{"isArchived": false, "role": ""}, c.Filters)
}

func TestDecodeSignals_Invalid(t *testing.T) {
	_, err := DecodeSignals(map[string]any{"grid": "not an object"})
	assert.Error(t, err)
}

func TestFilterConfig_Normalize(t *testing.T) {
	checkbox := FilterConfig{Key: "a", Type: FilterCheckbox}
	text := FilterConfig{Key: "b", Type: FilterText}

	tests := []struct {
		name   string
		filter FilterConfig
		in     any
		want   any
	}{
		{"checkbox nil", checkbox, nil, false},
		{"checkbox bool", checkbox, true, true},
		{"checkbox on", checkbox, "on", true},
		{"checkbox false string", checkbox, "false", false},
		{"checkbox garbage", checkbox, "maybe", false},
		{"checkbox number", checkbox, float64(1), true},
		{"text nil", text, nil, ""},
		{"text string", text, "x", "x"},
		{"text number", text, float64(3), "3"},
		{"text false", text, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Normalize(tt.in))
		})
	}
}
