// Package auth implements the demo bearer-token sign-in flow on top of the
// session store.
//
// Login is cancellable and keyed per client: a newer attempt from the same
// client supersedes the older one, which then returns ErrSuperseded without
// touching the session.
package auth

import (
	"context"
	"errors"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/shading/internal/session"
)

// Errors returned by the service.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSuperseded         = errors.New("login attempt superseded")
)

// RequiredMessage is shown when the login form is incomplete.
const RequiredMessage = "Email and password are required"

// ResetMessage is the neutral forgot-password confirmation.
const ResetMessage = "If this email exists in our system, you'll receive reset instructions shortly."

// Status of the auth flow as seen by the UI.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
)

// State is the auth state of one client.
type State struct {
	Token  string        `json:"token,omitempty"`
	User   *session.User `json:"user,omitempty"`
	Status Status        `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// IsAuthenticated reports whether a token is present.
func (s State) IsAuthenticated() bool { return s.Token != "" }

// Hydrate reads the persisted auth state from store.
func Hydrate(store session.Store) State {
	st := State{Status: StatusIdle}
	if tok, ok := store.Token(); ok && tok != "" {
		st.Token = tok
	}
	st.User = store.User()
	return st
}

type stateKey struct{}

// WithState attaches st to ctx.
func WithState(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

// FromContext returns the State stored by Guard, if any.
func FromContext(ctx context.Context) (State, bool) {
	st, ok := ctx.Value(stateKey{}).(State)
	return st, ok
}

// formValidate is shared by every form in this package.
var formValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Validate checks the login form after trimming the email.
func (c *Credentials) Validate() error {
	c.Email = strings.TrimSpace(c.Email)
	return formValidate.Struct(c)
}

// Registration is the sign-up form.
type Registration struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Validate checks the sign-up form.
func (r *Registration) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	return formValidate.Struct(r)
}

// ResetRequest is the forgot-password form.
type ResetRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// Validate checks the forgot-password form.
func (r *ResetRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return formValidate.Struct(r)
}

// FieldErrors maps form field names to messages.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	return "invalid fields: " + strings.Join(slices.Sorted(maps.Keys(f)), ", ")
}

var fieldMessages = map[string]string{
	"name.required":     "Name is required",
	"email.required":    "Email is required",
	"email.email":       "Enter a valid email address",
	"password.required": "Password is required",
}

// fieldErrors converts validator errors into FieldErrors.
func fieldErrors(err error) FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out[fe.Field()] = msg
	}
	return out
}

// localPart returns the part of an email before '@'.
func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
