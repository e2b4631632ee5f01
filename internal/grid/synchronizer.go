// Package grid keeps the query state of a paginated, sortable and filterable grid.
//
// A grid has two layers of filter state. Committed state drives the request
// sent to the data source. Staged state is edited in the filter overlay and
// only reaches committed state through ApplyStagedFilters.
package grid

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// ReseedPolicy decides when staged state is refreshed from committed state.
type ReseedPolicy int

const (
	// ReseedAlways refreshes staged values whenever the committed values
	// they mirror change, even while the overlay is open.
	ReseedAlways ReseedPolicy = iota
	// ReseedOnOpen refreshes staged values only when the overlay opens.
	ReseedOnOpen
)

// DefaultPageSizes are the page sizes offered by the grid footer.
var DefaultPageSizes = []int{5, 10, 20, 50, 100}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithReseedPolicy sets when staged state is refreshed.
func WithReseedPolicy(p ReseedPolicy) Option {
	return func(s *Synchronizer) { s.reseed = p }
}

// WithPageSizes sets the page sizes offered to the user.
func WithPageSizes(sizes ...int) Option {
	return func(s *Synchronizer) {
		if len(sizes) > 0 {
			s.pageSizes = slices.Clone(sizes)
		}
	}
}

// Synchronizer owns the query state of one grid instance. It is not safe
// for concurrent use.
type Synchronizer struct {
	filters   []FilterConfig
	pageSizes []int
	reseed    ReseedPolicy

	committed State
	staged    Staged
	open      bool

	req *Request
}

// New returns a synchronizer with the given committed state. Staged state
// starts as a copy of it.
func New(filters []FilterConfig, initial State, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		filters:   slices.Clone(filters),
		pageSizes: slices.Clone(DefaultPageSizes),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.committed = s.normalizeState(initial)
	s.staged = s.stagedFrom(s.committed)
	return s
}

// FromSignals restores a synchronizer from browser signals, including the
// staged overlay and whether it is open.
func FromSignals(filters []FilterConfig, sig Signals, opts ...Option) *Synchronizer {
	s := New(filters, sig.Grid, opts...)
	s.open = sig.FiltersOpen
	s.staged = Staged{Search: sig.Staged.Search, Filters: s.normalizeFilters(sig.Staged.Filters)}
	return s
}

// Filters returns the configured filters.
func (s *Synchronizer) Filters() []FilterConfig { return slices.Clone(s.filters) }

// PageSizes returns the page sizes offered to the user.
func (s *Synchronizer) PageSizes() []int { return slices.Clone(s.pageSizes) }

// Committed returns a copy of the committed state.
func (s *Synchronizer) Committed() State { return s.committed.clone() }

// Staged returns a copy of the staged overlay state.
func (s *Synchronizer) Staged() Staged { return s.staged.clone() }

// OverlayOpen reports whether the filter overlay is open.
func (s *Synchronizer) OverlayOpen() bool { return s.open }

// Signals exports the full state for the browser.
func (s *Synchronizer) Signals() Signals {
	return Signals{Grid: s.Committed(), Staged: s.Staged(), FiltersOpen: s.open}
}

// SetSearch commits a new search text and returns to the first page.
func (s *Synchronizer) SetSearch(text string) {
	next := s.committed.clone()
	next.Search = text
	next.PageIndex = 0
	s.commit(next)
}

// SetSort commits a sort and returns to the first page. Direction None
// clears both the column and the direction.
func (s *Synchronizer) SetSort(column string, dir Direction) {
	next := s.committed.clone()
	if dir != Asc && dir != Desc || column == "" {
		next.SortColumn, next.SortDirection = "", None
	} else {
		next.SortColumn, next.SortDirection = column, dir
	}
	next.PageIndex = 0
	s.commit(next)
}

// ToggleSort cycles a column through asc, desc and unsorted.
func (s *Synchronizer) ToggleSort(column string) {
	if s.committed.SortColumn != column {
		s.SetSort(column, Asc)
		return
	}
	switch s.committed.SortDirection {
	case Asc:
		s.SetSort(column, Desc)
	case Desc:
		s.SetSort(column, None)
	default:
		s.SetSort(column, Asc)
	}
}

// AllowsPageSize reports whether size is one of the offered page sizes.
func (s *Synchronizer) AllowsPageSize(size int) bool {
	return slices.Contains(s.pageSizes, size)
}

// SetPageSize commits a page size and returns to the first page. Sizes
// that are not offered are ignored.
func (s *Synchronizer) SetPageSize(size int) bool {
	if !s.AllowsPageSize(size) {
		return false
	}
	next := s.committed.clone()
	next.PageSize = size
	next.PageIndex = 0
	s.commit(next)
	return true
}

// SetPage commits a page index. Negative indexes clamp to 0 and the
// index never grows past the point where its offset overflows.
func (s *Synchronizer) SetPage(index int) {
	next := s.committed.clone()
	next.PageIndex = clampPageIndex(index, next.PageSize)
	s.commit(next)
}

// GoToPage commits a page index clamped to the last page of total records.
// A negative total means the total is unknown and only SetPage clamping
// applies.
func (s *Synchronizer) GoToPage(index, total int) {
	if total >= 0 {
		last := max(s.Pagination(total).PageCount-1, 0)
		index = min(index, last)
	}
	s.SetPage(index)
}

// NextPage moves forward one page unless the current page already reaches
// total. A negative total means the total is unknown.
func (s *Synchronizer) NextPage(total int) bool {
	if total >= 0 && !s.Pagination(total).HasNext {
		return false
	}
	s.SetPage(s.committed.PageIndex + 1)
	return true
}

// PrevPage moves back one page.
func (s *Synchronizer) PrevPage() bool {
	if s.committed.PageIndex == 0 {
		return false
	}
	s.SetPage(s.committed.PageIndex - 1)
	return true
}

// StageSearch edits the search text in the overlay.
func (s *Synchronizer) StageSearch(text string) {
	s.staged.Search = text
}

// StageFilterEdit edits one filter in the overlay. Unknown keys are ignored.
func (s *Synchronizer) StageFilterEdit(key string, value any) {
	f, ok := s.filter(key)
	if !ok {
		return
	}
	s.staged.Filters[key] = f.Normalize(value)
}

// ApplyStagedFilters copies the staged search and filters into committed
// state at once, returns to the first page and closes the overlay.
func (s *Synchronizer) ApplyStagedFilters() {
	next := s.committed.clone()
	next.Search = s.staged.Search
	for _, f := range s.filters {
		next.Filters[f.Key] = f.Normalize(s.staged.Filters[f.Key])
	}
	next.PageIndex = 0
	s.commit(next)
	s.open = false
}

// ClearStagedFilters resets the overlay to empty values without touching
// committed state.
func (s *Synchronizer) ClearStagedFilters() {
	s.staged = Staged{Filters: make(map[string]any, len(s.filters))}
	for _, f := range s.filters {
		s.staged.Filters[f.Key] = f.EmptyValue()
	}
}

// OpenOverlay opens the filter overlay, seeded from committed state.
func (s *Synchronizer) OpenOverlay() {
	s.staged = s.stagedFrom(s.committed)
	s.open = true
}

// CloseOverlay closes the overlay without applying.
func (s *Synchronizer) CloseOverlay() {
	s.open = false
}

// Request returns the request derived from committed state. The same
// pointer is returned until committed state changes.
func (s *Synchronizer) Request() *Request {
	if s.req != nil {
		return s.req
	}
	c := s.committed
	filters := make(map[string]any, len(s.filters))
	for _, f := range s.filters {
		filters[f.Key] = f.Normalize(c.Filters[f.Key])
	}
	s.req = &Request{
		Start:         c.PageIndex * c.PageSize,
		Length:        c.PageSize,
		Search:        c.Search,
		SortColumn:    c.SortColumn,
		SortDirection: c.SortDirection,
		Filters:       filters,
	}
	return s.req
}

// ActiveFilterCount counts a non-empty search plus every configured filter
// whose committed value is set.
func (s *Synchronizer) ActiveFilterCount() int {
	count := 0
	if s.committed.Search != "" {
		count++
	}
	for _, f := range s.filters {
		if isActive(s.committed.Filters[f.Key]) {
			count++
		}
	}
	return count
}

// Pagination describes the footer of the grid for a known total.
type Pagination struct {
	PageIndex int
	PageSize  int
	From      int
	To        int
	Total     int
	PageCount int
	HasPrev   bool
	HasNext   bool
}

// Summary renders the "Showing X to Y of N entries" line.
func (p Pagination) Summary() string {
	return fmt.Sprintf("Showing %d to %d of %d entries", p.From, p.To, p.Total)
}

// Pagination computes the footer for total matching records.
func (s *Synchronizer) Pagination(total int) Pagination {
	c := s.committed
	p := Pagination{
		PageIndex: c.PageIndex,
		PageSize:  c.PageSize,
		Total:     total,
		HasPrev:   c.PageIndex > 0,
	}
	offset := c.PageIndex * c.PageSize
	if total > 0 {
		p.From = offset + 1
		p.To = min(offset+c.PageSize, total)
	}
	if c.PageSize > 0 {
		p.PageCount = (total + c.PageSize - 1) / c.PageSize
	}
	p.HasNext = offset+c.PageSize < total
	return p
}

func (s *Synchronizer) commit(next State) {
	prev := s.committed
	s.committed = next

	if !requestFieldsEqual(prev, next) {
		s.req = nil
	}
	if s.reseed != ReseedAlways {
		return
	}
	if prev.Search != next.Search {
		s.staged.Search = next.Search
	}
	if !maps.Equal(prev.Filters, next.Filters) {
		s.staged.Filters = s.stagedFrom(next).Filters
	}
}

func requestFieldsEqual(a, b State) bool {
	return a.PageIndex == b.PageIndex &&
		a.PageSize == b.PageSize &&
		a.Search == b.Search &&
		a.SortColumn == b.SortColumn &&
		a.SortDirection == b.SortDirection &&
		maps.Equal(a.Filters, b.Filters)
}

func (s *Synchronizer) stagedFrom(c State) Staged {
	return Staged{Search: c.Search, Filters: s.normalizeFilters(c.Filters)}
}

func (s *Synchronizer) normalizeState(st State) State {
	st = st.clone()
	if st.PageSize <= 0 {
		st.PageSize = s.pageSizes[0]
		if slices.Contains(s.pageSizes, 10) {
			st.PageSize = 10
		}
	}
	st.PageIndex = clampPageIndex(st.PageIndex, st.PageSize)
	if st.SortDirection != Asc && st.SortDirection != Desc || st.SortColumn == "" {
		st.SortColumn, st.SortDirection = "", None
	}
	st.Filters = s.normalizeFilters(st.Filters)
	return st
}

// clampPageIndex keeps index*size within the int32 range a data source
// expects for an offset.
func clampPageIndex(index, size int) int {
	return min(max(index, 0), math.MaxInt32/max(size, 1))
}

// normalizeFilters keeps configured keys only, coerced to their types.
func (s *Synchronizer) normalizeFilters(in map[string]any) map[string]any {
	out := make(map[string]any, len(s.filters))
	for _, f := range s.filters {
		out[f.Key] = f.Normalize(in[f.Key])
	}
	return out
}

func (s *Synchronizer) filter(key string) (FilterConfig, bool) {
	for _, f := range s.filters {
		if f.Key == key {
			return f, true
		}
	}
	return FilterConfig{}, false
}
