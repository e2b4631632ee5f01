// Package settings provides the profile and billing settings pages.
package settings

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/shading/internal/session"
	"github.com/leapstack-labs/shading/internal/ui/components"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ProfileSignals is the profile form.
type ProfileSignals struct {
	Name string `json:"name" validate:"required,max=80"`
}

// Validate trims and checks the form, returning a message for the name field.
func (p *ProfileSignals) Validate() string {
	p.Name = strings.TrimSpace(p.Name)
	err := validate.Struct(p)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
		return "Name must be at most 80 characters"
	}
	return "Name is required"
}

// Handlers provides HTTP handlers for the settings feature.
type Handlers struct{}

// NewHandlers creates a new Handlers instance.
func NewHandlers() *Handlers {
	return &Handlers{}
}

// ProfilePage renders the profile form for the signed-in user.
func (h *Handlers) ProfilePage(_ http.ResponseWriter, r *http.Request) (templ.Component, error) {
	return profileView(session.FromContext(r.Context()).User()), nil
}

// BillingPage renders the plan summary.
func (h *Handlers) BillingPage(_ http.ResponseWriter, _ *http.Request) (templ.Component, error) {
	return billingView(), nil
}

// UpdateProfile changes the display name kept in the session and refreshes
// the header badge.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var sig ProfileSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	store := session.FromContext(r.Context())
	user := store.User()
	msg := sig.Validate()
	if msg == "" && user != nil {
		updated := *user
		updated.Name = sig.Name
		store.SetUser(&updated)
		user = &updated
	}

	sse := datastar.NewSSE(w, r)
	if user == nil {
		_ = sse.PatchElementTempl(components.Alert(profileAlertID, "error", "You are not signed in"))
		return
	}
	if err := sse.PatchElementTempl(profileFields(user, msg)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if msg != "" {
		return
	}
	if err := sse.PatchElementTempl(components.Alert(profileAlertID, "success", "Profile updated")); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(components.UserBadge(user)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
