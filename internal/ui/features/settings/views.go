package settings

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/session"
	"github.com/leapstack-labs/shading/internal/ui/components"
)

const (
	profileAlertID  = "profile-alert"
	profileFieldsID = "profile-fields"
)

func profileView(u *session.User) templ.Component {
	name := ""
	if u != nil {
		name = u.Name
	}
	return templ.Join(
		templ.Raw(`<div class="card" data-signals="`+components.Signals(ProfileSignals{Name: name})+`"><h2>Profile</h2>`),
		components.Alert(profileAlertID, "success", ""),
		profileFields(u, ""),
		components.SubmitButton("Save", "Saving...", "@post('/api/settings/profile')", "saving"),
		templ.Raw(`</div>`),
	)
}

func profileFields(u *session.User, nameErr string) templ.Component {
	email := ""
	if u != nil {
		email = u.Email
	}
	return templ.Join(
		templ.Raw(`<div id="`+profileFieldsID+`">`),
		components.Input(components.Field{Name: "name", Label: "Display name", Bind: "name", Error: nameErr,
			OnEnter: "@post('/api/settings/profile')"}),
		templ.Raw(`<div class="field"><label>Email</label><p class="muted">`+templ.EscapeString(email)+`</p></div>`),
		templ.Raw(`</div>`),
	)
}

func billingView() templ.Component {
	return templ.Raw(`<div class="card"><h2>Billing</h2>` +
		`<p>You are on the <strong>Free</strong> plan.</p>` +
		`<p class="muted">Billing is not available in the demo.</p></div>`)
}
