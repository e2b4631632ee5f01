package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterType selects the input used for a filter in the overlay.
type FilterType string

// Filter types.
const (
	FilterText     FilterType = "text"
	FilterCheckbox FilterType = "checkbox"
	FilterSelect   FilterType = "select"
)

// SelectOption is one choice of a select filter.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FilterConfig describes one extra filter of a grid.
type FilterConfig struct {
	Key     string         `json:"key"`
	Label   string         `json:"label"`
	Type    FilterType     `json:"type"`
	Options []SelectOption `json:"options,omitempty"`
}

// EmptyValue is the cleared value of the filter: false for checkboxes and
// the empty string otherwise.
func (f FilterConfig) EmptyValue() any {
	if f.Type == FilterCheckbox {
		return false
	}
	return ""
}

// Normalize coerces v into the filter's value type. Missing values become
// the empty value.
func (f FilterConfig) Normalize(v any) any {
	if v == nil {
		return f.EmptyValue()
	}
	if f.Type == FilterCheckbox {
		switch val := v.(type) {
		case bool:
			return val
		case string:
			switch strings.ToLower(strings.TrimSpace(val)) {
			case "on", "yes":
				return true
			}
			b, err := strconv.ParseBool(strings.TrimSpace(val))
			return err == nil && b
		case float64:
			return val != 0
		case int:
			return val != 0
		default:
			return false
		}
	}
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(val)
	}
}

// isActive reports whether a committed filter value narrows the result.
func isActive(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	default:
		return true
	}
}
