package users

import (
	"fmt"
	"strconv"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/shading/internal/grid"
	"github.com/leapstack-labs/shading/internal/state"
	"github.com/leapstack-labs/shading/internal/ui/components"
	"github.com/leapstack-labs/shading/pkg/core"
)

// Endpoint is the base path of the grid actions.
const Endpoint = "/api/users/grid"

// Element ids patched by the users actions.
const (
	tableID   = "users-table"
	filtersID = "users-filters"
	sheetID   = "user-sheet"
	dialogID  = "user-dialog"
)

// Filters are the extra filters of the users grid.
var Filters = []grid.FilterConfig{
	{Key: state.FilterArchived, Label: "Show archived", Type: grid.FilterCheckbox},
	{Key: state.FilterRole, Label: "Role", Type: grid.FilterSelect, Options: roleOptions()},
}

func roleOptions() []grid.SelectOption {
	roles := core.Roles()
	opts := make([]grid.SelectOption, 0, len(roles))
	for _, r := range roles {
		opts = append(opts, grid.SelectOption{Label: components.Label(string(r)), Value: string(r)})
	}
	return opts
}

// Columns of the users table.
var Columns = []columnDef{
	{Key: "personalNumber", Title: "Personal no.", Sortable: true},
	{Key: "fullName", Title: "Name", Sortable: true},
	{Key: "email", Title: "Email", Sortable: true},
	{Key: "role", Title: "Role", Sortable: true},
	{Key: "department", Title: "Department", Sortable: true},
	{Key: "title", Title: "Title", Sortable: true},
	{Key: "status", Title: "Status"},
	{Key: "actions", Title: ""},
}

type columnDef struct {
	Key      string
	Title    string
	Sortable bool
}

func sortable(column string) bool {
	for _, c := range Columns {
		if c.Key == column {
			return c.Sortable
		}
	}
	return false
}

// FormSignals is the add/edit sheet as sent by the browser.
type FormSignals struct {
	ID             int64  `json:"id" mapstructure:"id"`
	PersonalNumber string `json:"personalNumber" mapstructure:"personalNumber"`
	FullName       string `json:"fullName" mapstructure:"fullName"`
	Email          string `json:"email" mapstructure:"email"`
	Status         bool   `json:"status" mapstructure:"status"`
	Role           string `json:"role" mapstructure:"role"`
	Title          string `json:"title" mapstructure:"title"`
	Department     string `json:"department" mapstructure:"department"`
}

// Input converts the form into store input.
func (f FormSignals) Input() core.UserInput {
	return core.UserInput{
		PersonalNumber: f.PersonalNumber,
		FullName:       f.FullName,
		Email:          f.Email,
		Status:         f.Status,
		Role:           core.Role(f.Role),
		Title:          f.Title,
		Department:     f.Department,
	}.Normalize()
}

// formFor fills the form from an existing user.
func formFor(u core.User) FormSignals {
	return FormSignals{
		ID:             u.ID,
		PersonalNumber: u.PersonalNumber,
		FullName:       u.FullName,
		Email:          u.Email,
		Status:         u.Status,
		Role:           string(u.Role),
		Title:          u.Title,
		Department:     u.Department,
	}
}

// newForm is the empty add form.
func newForm() FormSignals {
	return FormSignals{Status: true, Role: string(core.RoleUser)}
}

// pageSignals is everything a users action reads from the browser.
type pageSignals struct {
	Grid  grid.Signals
	Query string
	Form  FormSignals
}

// decodePage splits raw browser signals into the grid, the toolbar search
// and the form.
func decodePage(raw map[string]any) (pageSignals, error) {
	sig, err := grid.DecodeSignals(raw)
	if err != nil {
		return pageSignals{}, err
	}
	out := pageSignals{Grid: sig}
	if q, ok := raw["query"]; ok && q != nil {
		out.Query = fmt.Sprint(q)
	}
	if f, ok := raw["form"]; ok && f != nil {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{WeaklyTypedInput: true, Result: &out.Form})
		if err != nil {
			return pageSignals{}, fmt.Errorf("failed to create form decoder: %w", err)
		}
		if err := dec.Decode(f); err != nil {
			return pageSignals{}, fmt.Errorf("failed to decode user form: %w", err)
		}
	}
	return out, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}
