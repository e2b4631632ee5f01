package grid

import (
	"encoding/json"
	"maps"

	"github.com/google/go-cmp/cmp"
)

// Request is the paginated query sent to the data source.
type Request struct {
	Start         int
	Length        int
	Search        string
	SortColumn    string
	SortDirection Direction
	Filters       map[string]any
}

// requestFields has the fields of Request without its methods.
type requestFields Request

// MarshalJSON encodes the request with its filters spread into the top-level object.
func (r *Request) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Filters)+5)
	maps.Copy(out, r.Filters)
	out["start"] = r.Start
	out["length"] = r.Length
	out["search"] = r.Search
	out["sortColumn"] = r.SortColumn
	out["sortDirection"] = r.SortDirection
	return json.Marshal(out)
}

// Key returns a canonical string for the request, equal for structurally
// equal requests.
func (r *Request) Key() string {
	b, err := r.MarshalJSON()
	if err != nil {
		// filters only hold strings and booleans
		panic(err)
	}
	return string(b)
}

// Filter returns the value of an extra filter, or nil if it is not set.
func (r *Request) Filter(key string) any {
	return r.Filters[key]
}

// Equal reports whether r and other describe the same query.
func (r *Request) Equal(other *Request) bool {
	if r == nil || other == nil {
		return r == other
	}
	return cmp.Equal(requestFields(*r), requestFields(*other))
}
