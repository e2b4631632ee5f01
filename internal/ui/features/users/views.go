package users

import (
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/grid"
	"github.com/leapstack-labs/shading/internal/ui/components"
	"github.com/leapstack-labs/shading/pkg/core"
)

// initialSignals seeds the page: the grid, the toolbar search and an
// empty form.
type initialSignals struct {
	grid.Signals
	Query string      `json:"query"`
	Form  FormSignals `json:"form"`
}

func pageView(sig grid.Signals, t components.Table) templ.Component {
	seed := initialSignals{Signals: sig, Query: sig.Grid.Search, Form: newForm()}
	return templ.Join(
		templ.Raw(`<section class="users" data-signals="`+components.Signals(seed)+`">`),
		templ.Raw(`<header class="page-header"><h1>Users</h1><p class="muted">Search, sort and filter the team directory.</p></header>`),
		components.DataTable(t),
		components.FilterSheet(filtersID, Endpoint, Filters),
		components.Sheet(sheetID, "", nil),
		components.Dialog(dialogID, "", nil),
		templ.Raw(`</section>`),
	)
}

func tableView(s *grid.Synchronizer, page core.PaginatedResponse[core.User]) components.Table {
	cols := make([]components.Column, len(Columns))
	for i, c := range Columns {
		cols[i] = components.Column{Key: c.Key, Title: c.Title, Sortable: c.Sortable}
	}
	rows := make([]components.Row, 0, len(page.DisplayData))
	for _, u := range page.DisplayData {
		rows = append(rows, userRow(u))
	}
	return components.Table{
		ID:            tableID,
		Endpoint:      Endpoint,
		Columns:       cols,
		Rows:          rows,
		State:         s.Committed(),
		Pagination:    s.Pagination(page.TotalRecords),
		PageSizes:     s.PageSizes(),
		ActiveFilters: s.ActiveFilterCount(),
		EmptyText:     "No users match the current filters.",
		Actions:       components.Button("Add user", "btn btn-primary", "@get('/api/users/new')", false),
	}
}

func userRow(u core.User) components.Row {
	id := strconv.FormatInt(u.ID, 10)
	name := components.Text(u.FullName)
	if u.IsArchived {
		name = templ.Join(name, templ.Raw(` <span class="tag tag-muted">archived</span>`))
	}
	statusClass := "status status-inactive"
	if u.Status {
		statusClass = "status status-active"
	}
	return components.Row{
		ID: id,
		Cells: []templ.Component{
			components.Text(u.PersonalNumber),
			name,
			components.Text(u.Email),
			components.Text(components.Label(string(u.Role))),
			components.Text(components.Label(u.Department)),
			components.Text(u.Title),
			templ.Raw(`<span class="` + statusClass + `">` + u.StatusLabel() + `</span>`),
			templ.Join(
				components.Button("Edit", "btn btn-ghost", fmt.Sprintf("@get('/api/users/%s/edit')", id), false),
				components.Button("Delete", "btn btn-ghost btn-danger", fmt.Sprintf("@get('/api/users/%s/delete')", id), false),
			),
		},
	}
}

// formSheet is the add or edit sheet. A zero id means a new user.
func formSheet(id int64, errs map[string]string) templ.Component {
	title, action, label := "Add user", "@post('/api/users')", "Create"
	if id > 0 {
		title = "Edit user"
		action = fmt.Sprintf("@put('/api/users/%d')", id)
		label = "Save"
	}
	roles := make([]grid.SelectOption, 0, len(core.Roles()))
	for _, r := range core.Roles() {
		roles = append(roles, grid.SelectOption{Label: components.Label(string(r)), Value: string(r)})
	}
	body := templ.Join(
		components.Alert("user-form-alert", "error", errs[""]),
		components.Input(components.Field{Name: "personalNumber", Label: "Personal number", Bind: "form.personalNumber", Error: errs["personalNumber"]}),
		components.Input(components.Field{Name: "fullName", Label: "Name", Bind: "form.fullName", Error: errs["fullName"]}),
		components.Input(components.Field{Name: "email", Label: "Email", Type: "email", Bind: "form.email", Error: errs["email"]}),
		components.Input(components.Field{Name: "role", Label: "Role", Type: "select", Bind: "form.role", Options: roles, Error: errs["role"]}),
		components.Input(components.Field{Name: "title", Label: "Title", Bind: "form.title", Error: errs["title"]}),
		components.Input(components.Field{Name: "department", Label: "Department", Bind: "form.department", Error: errs["department"]}),
		components.Input(components.Field{Name: "status", Label: "Active", Type: "checkbox", Bind: "form.status"}),
		templ.Raw(`<div class="sheet-actions">`),
		components.SubmitButton(label, "Saving...", action, "savingUser"),
		components.CloseButton("Cancel", "@get('/api/users/close')"),
		templ.Raw(`</div>`),
	)
	return components.Sheet(sheetID, title, body)
}

func deleteDialog(u core.User) templ.Component {
	body := templ.Join(
		templ.Raw(`<p>Delete <strong>`+templ.EscapeString(u.FullName)+`</strong>? This cannot be undone.</p>`),
		templ.Raw(`<div class="dialog-actions">`),
		components.Button("Delete", "btn btn-danger", fmt.Sprintf("@delete('/api/users/%d')", u.ID), false),
		components.CloseButton("Cancel", "@get('/api/users/close')"),
		templ.Raw(`</div>`),
	)
	return components.Dialog(dialogID, "Delete user", body)
}
