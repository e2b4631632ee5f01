package components

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/grid"
)

// Column is a header of the data table.
type Column struct {
	Key      string
	Title    string
	Sortable bool
}

// Row is one rendered table row.
type Row struct {
	ID    string
	Cells []templ.Component
}

// Table is everything the data table needs for one render. Endpoint is the
// base of the grid actions, e.g. "/api/users/grid".
type Table struct {
	ID            string
	Endpoint      string
	Columns       []Column
	Rows          []Row
	State         grid.State
	Pagination    grid.Pagination
	PageSizes     []int
	ActiveFilters int
	Error         string
	EmptyText     string
	// Actions is rendered at the end of the toolbar.
	Actions templ.Component
}

// DataTable renders the toolbar, the sortable table and the pagination footer.
func DataTable(t Table) templ.Component {
	return component(func(w *writer) {
		w.printf(`<div id="%s" class="data-table">`, esc(t.ID))
		w.child(tableToolbar(t))

		w.raw(`<div class="table-wrap"><table><thead><tr>`)
		for _, col := range t.Columns {
			w.child(headerCell(t, col))
		}
		w.raw(`</tr></thead><tbody>`)
		switch {
		case t.Error != "":
			w.printf(`<tr><td class="table-error" colspan="%d">%s</td></tr>`, len(t.Columns), esc(t.Error))
		case len(t.Rows) == 0:
			empty := t.EmptyText
			if empty == "" {
				empty = "No results."
			}
			w.printf(`<tr><td class="table-empty" colspan="%d">%s</td></tr>`, len(t.Columns), esc(empty))
		default:
			for _, row := range t.Rows {
				w.printf(`<tr data-row-id="%s">`, esc(row.ID))
				for _, cell := range row.Cells {
					w.raw("<td>")
					w.child(cell)
					w.raw("</td>")
				}
				w.raw("</tr>")
			}
		}
		w.raw(`</tbody></table></div>`)
		w.child(tableFooter(t))
		w.raw(`</div>`)
	})
}

func tableToolbar(t Table) templ.Component {
	return component(func(w *writer) {
		w.raw(`<div class="table-toolbar">`)
		w.printf(`<input type="search" class="table-search" placeholder="Search..." data-bind="query" data-on:input__debounce.300ms="@post('%s/search')">`,
			esc(t.Endpoint))
		w.printf(`<button type="button" class="btn btn-outline" data-on:click="@post('%s/filters/open')">Filters`, esc(t.Endpoint))
		if t.ActiveFilters > 0 {
			w.printf(` <span class="badge" title="active filters">%d</span>`, t.ActiveFilters)
		}
		w.raw(`</button>`)
		w.child(t.Actions)
		w.raw(`</div>`)
	})
}

func headerCell(t Table, col Column) templ.Component {
	return component(func(w *writer) {
		if !col.Sortable {
			w.printf(`<th scope="col">%s</th>`, esc(col.Title))
			return
		}
		dir := grid.None
		if t.State.SortColumn == col.Key {
			dir = t.State.SortDirection
		}
		ariaSort, indicator := "none", ""
		switch dir {
		case grid.Asc:
			ariaSort, indicator = "ascending", " ▲"
		case grid.Desc:
			ariaSort, indicator = "descending", " ▼"
		}
		w.printf(`<th scope="col" aria-sort="%s"><button type="button" class="sort" data-on:click="@post('%s/sort?column=%s')">%s%s</button></th>`,
			ariaSort, esc(t.Endpoint), esc(col.Key), esc(col.Title), indicator)
	})
}

func tableFooter(t Table) templ.Component {
	return component(func(w *writer) {
		p := t.Pagination
		w.printf(`<div class="table-footer"><p class="table-summary">%s</p>`, esc(p.Summary()))

		w.printf(`<label class="page-size">Rows per page <select data-on:change="@post('%s/page-size?size=' + evt.target.value)">`, esc(t.Endpoint))
		for _, size := range t.PageSizes {
			sel := ""
			if size == t.State.PageSize {
				sel = " selected"
			}
			w.printf(`<option value="%d"%s>%d</option>`, size, sel, size)
		}
		w.raw(`</select></label>`)

		w.raw(`<div class="pager">`)
		w.child(Button("Previous", "btn btn-outline", pageAction(t.Endpoint, "prev"), !p.HasPrev))
		pages := max(p.PageCount, 1)
		w.printf(`<span class="page-of">Page %d of %d</span>`, p.PageIndex+1, pages)
		w.child(Button("Next", "btn btn-outline", pageAction(t.Endpoint, "next"), !p.HasNext))
		w.raw(`</div></div>`)
	})
}

func pageAction(endpoint, dir string) string {
	return fmt.Sprintf("@post('%s/page?dir=%s')", endpoint, dir)
}

// FilterSheet renders the staged filter overlay. It is shown while the
// filtersOpen signal is set and edits only the staged signals until applied.
func FilterSheet(id, endpoint string, filters []grid.FilterConfig) templ.Component {
	return component(func(w *writer) {
		w.printf(`<div id="%s" class="sheet" data-show="$filtersOpen" style="display: none"><div class="sheet-panel">`, esc(id))
		w.raw(`<h2>Filters</h2>`)
		w.child(Input(Field{Name: "staged-search", Label: "Search", Bind: "staged.search", Placeholder: "Search..."}))
		for _, f := range filters {
			field := Field{Name: "filter-" + f.Key, Label: f.Label, Bind: "staged.filters." + f.Key}
			switch f.Type {
			case grid.FilterCheckbox:
				field.Type = "checkbox"
			case grid.FilterSelect:
				field.Type = "select"
				field.Options = append([]grid.SelectOption{{Label: "All", Value: ""}}, f.Options...)
			default:
				field.Type = "text"
			}
			w.child(Input(field))
		}
		w.raw(`<div class="sheet-actions">`)
		w.child(Button("Apply", "btn btn-primary", fmt.Sprintf("@post('%s/filters/apply')", endpoint), false))
		w.child(Button("Clear", "btn btn-outline", fmt.Sprintf("@post('%s/filters/clear')", endpoint), false))
		w.child(CloseButton("Close", fmt.Sprintf("@post('%s/filters/close')", endpoint)))
		w.raw(`</div></div></div>`)
	})
}
