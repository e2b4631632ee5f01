// Package auth provides the sign-in, sign-up, password reset and logout
// pages and actions.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	authsvc "github.com/leapstack-labs/shading/internal/auth"
	"github.com/leapstack-labs/shading/internal/session"
	"github.com/leapstack-labs/shading/internal/ui/components"
)

// Handlers provides HTTP handlers for the auth feature.
type Handlers struct {
	auth   *authsvc.Service
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *authsvc.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{auth: svc, logger: logger}
}

// redirectIfSignedIn sends signed-in visitors away from the auth pages.
func redirectIfSignedIn(w http.ResponseWriter, r *http.Request) bool {
	if !authsvc.Hydrate(session.FromContext(r.Context())).IsAuthenticated() {
		return false
	}
	http.Redirect(w, r, authsvc.SafeRedirect(r.URL.Query().Get("from")), http.StatusFound)
	return true
}

// LoginPage renders the sign-in form.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) (templ.Component, error) {
	if redirectIfSignedIn(w, r) {
		return nil, nil
	}
	// The client id must reach the cookie before the first sign-in attempt,
	// otherwise concurrent attempts from this browser cannot see each other.
	session.FromContext(r.Context()).ClientID()
	return loginView(authsvc.SafeRedirect(r.URL.Query().Get("from"))), nil
}

// RegisterPage renders the sign-up form.
func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) (templ.Component, error) {
	if redirectIfSignedIn(w, r) {
		return nil, nil
	}
	session.FromContext(r.Context()).ClientID()
	return registerView(), nil
}

// ForgotPasswordPage renders the password reset form.
func (h *Handlers) ForgotPasswordPage(_ http.ResponseWriter, _ *http.Request) (templ.Component, error) {
	return forgotView(), nil
}

// Login runs a sign-in attempt and redirects to where the visitor came from.
// The session is written before the response starts.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var sig LoginSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.auth.Login(r.Context(), session.FromContext(r.Context()),
		authsvc.Credentials{Email: sig.Email, Password: sig.Password})
	switch {
	case errors.Is(err, authsvc.ErrSuperseded), errors.Is(err, context.Canceled):
		// A newer attempt from the same browser owns the response.
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil && st.Error == "":
		h.logger.Error("login failed", "error", err)
		st.Error = "Sign in failed, please try again"
	}

	sse := datastar.NewSSE(w, r)
	if err != nil {
		if err := sse.PatchElementTempl(components.Alert(loginAlertID, "error", st.Error)); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}
	if err := sse.Redirect(authsvc.SafeRedirect(sig.From)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Register signs the visitor up and in.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var sig RegisterSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err := h.auth.Register(session.FromContext(r.Context()),
		authsvc.Registration{Name: sig.Name, Email: sig.Email, Password: sig.Password})

	sse := datastar.NewSSE(w, r)
	if err != nil {
		if err := sse.PatchElementTempl(registerFields(formErrors(err))); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}
	if err := sse.Redirect("/"); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ForgotPassword validates the email and shows the neutral confirmation.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var sig ForgotSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	msg, err := h.auth.ForgotPassword(authsvc.ResetRequest{Email: sig.Email})

	sse := datastar.NewSSE(w, r)
	if err != nil {
		if err := sse.PatchElementTempl(forgotFields(formErrors(err)["email"])); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}
	if err := sse.PatchElementTempl(forgotFields("")); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(components.Alert(forgotStatusID, "success", msg)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Logout clears the session and returns to the sign-in page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(session.FromContext(r.Context()))

	sse := datastar.NewSSE(w, r)
	if err := sse.Redirect(authsvc.LoginPath); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// formErrors extracts per-field messages from a service error.
func formErrors(err error) map[string]string {
	var fe authsvc.FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return map[string]string{"": err.Error()}
}
