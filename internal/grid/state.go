package grid

import (
	"fmt"
	"maps"

	"github.com/go-viper/mapstructure/v2"
)

// Direction is a sort direction. The empty direction means unsorted.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
	None Direction = ""
)

// State is the committed query of a grid: the values that drive the request.
type State struct {
	PageIndex     int            `json:"pageIndex"`
	PageSize      int            `json:"pageSize"`
	Search        string         `json:"search"`
	SortColumn    string         `json:"sortColumn"`
	SortDirection Direction      `json:"sortDirection"`
	Filters       map[string]any `json:"filters"`
}

// Staged is the working copy edited in the filter overlay.
type Staged struct {
	Search  string         `json:"search"`
	Filters map[string]any `json:"filters"`
}

// Signals is the client-side shape of a grid exchanged with the browser.
type Signals struct {
	Grid        State  `json:"grid"`
	Staged      Staged `json:"staged"`
	FiltersOpen bool   `json:"filtersOpen"`
}

// DefaultState returns the first page of an unsorted, unfiltered grid.
func DefaultState(pageSize int) State {
	return State{PageSize: pageSize, Filters: map[string]any{}}
}

// DecodeSignals decodes raw browser signals. Values are converted weakly, so
// "20" decodes into a page size and "true" into a boolean.
func DecodeSignals(raw map[string]any) (Signals, error) {
	var sig Signals
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &sig,
	})
	if err != nil {
		return Signals{}, fmt.Errorf("failed to create signal decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Signals{}, fmt.Errorf("failed to decode grid signals: %w", err)
	}
	return sig, nil
}

func (s State) clone() State {
	s.Filters = maps.Clone(s.Filters)
	if s.Filters == nil {
		s.Filters = map[string]any{}
	}
	return s
}

func (s Staged) clone() Staged {
	s.Filters = maps.Clone(s.Filters)
	if s.Filters == nil {
		s.Filters = map[string]any{}
	}
	return s
}
