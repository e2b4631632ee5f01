package auth

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/ui/components"
)

func loginView(from string) templ.Component {
	submit := "@post('/auth/login')"
	return templ.Join(
		templ.Raw(`<div class="auth-form" data-signals="`+components.Signals(LoginSignals{From: from})+`"><h1>Sign in</h1>`),
		components.Alert(loginAlertID, "error", ""),
		components.Input(components.Field{Name: "email", Label: "Email", Type: "email", Bind: "email", Placeholder: "you@example.com", OnEnter: submit}),
		components.Input(components.Field{Name: "password", Label: "Password", Type: "password", Bind: "password", OnEnter: submit}),
		components.SubmitButton("Sign in", "Signing in...", submit, loginIndicator),
		templ.Raw(`<div class="auth-links"><a href="/auth/forgot-password">Forgot password?</a><a href="/auth/register">Create an account</a></div></div>`),
	)
}

func registerView() templ.Component {
	return templ.Join(
		templ.Raw(`<div class="auth-form" data-signals="`+components.Signals(RegisterSignals{})+`"><h1>Create an account</h1>`),
		registerFields(nil),
		components.SubmitButton("Create account", "Creating...", "@post('/auth/register')", submitIndicator),
		templ.Raw(`<div class="auth-links"><a href="/auth/login">Already have an account? Sign in</a></div></div>`),
	)
}

// registerFields is patched with validation messages.
func registerFields(errs map[string]string) templ.Component {
	return templ.Join(
		templ.Raw(`<div id="`+registerFormID+`">`),
		components.Alert("register-alert", "error", errs[""]),
		components.Input(components.Field{Name: "name", Label: "Name", Bind: "name", Error: errs["name"]}),
		components.Input(components.Field{Name: "email", Label: "Email", Type: "email", Bind: "email", Error: errs["email"]}),
		components.Input(components.Field{Name: "password", Label: "Password", Type: "password", Bind: "password", Error: errs["password"]}),
		templ.Raw(`</div>`),
	)
}

func forgotView() templ.Component {
	return templ.Join(
		templ.Raw(`<div class="auth-form" data-signals="`+components.Signals(ForgotSignals{})+`"><h1>Reset your password</h1>`),
		components.Alert(forgotStatusID, "success", ""),
		forgotFields(""),
		components.SubmitButton("Send reset link", "Sending...", "@post('/auth/forgot-password')", submitIndicator),
		templ.Raw(`<div class="auth-links"><a href="/auth/login">Back to sign in</a></div></div>`),
	)
}

func forgotFields(emailErr string) templ.Component {
	return templ.Join(
		templ.Raw(`<div id="`+forgotFormID+`">`),
		components.Input(components.Field{Name: "email", Label: "Email", Type: "email", Bind: "email", Error: emailErr}),
		templ.Raw(`</div>`),
	)
}
