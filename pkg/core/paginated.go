package core

// PaginatedResponse is the envelope returned for one page of a grid.
//
// TotalRecords counts every row matching the search and filters,
// TotalDisplayRecords counts the rows in DisplayData, and AllIDs lists the
// ids of every matching row across all pages.
type PaginatedResponse[T any] struct {
	TotalRecords        int     `json:"totalRecords"`
	TotalDisplayRecords int     `json:"totalDisplayRecords"`
	DisplayData         []T     `json:"displayData"`
	AllIDs              []int64 `json:"allIds"`
}

// Empty reports whether the page carries no rows.
func (p PaginatedResponse[T]) Empty() bool {
	return len(p.DisplayData) == 0
}
