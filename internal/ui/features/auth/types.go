package auth

// Element ids patched by the auth actions.
const (
	loginAlertID    = "login-alert"
	registerFormID  = "register-fields"
	forgotFormID    = "forgot-fields"
	forgotStatusID  = "forgot-status"
	loginIndicator  = "signingIn"
	submitIndicator = "submitting"
)

// LoginSignals is the login form as sent by the browser.
type LoginSignals struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	From     string `json:"from"`
}

// RegisterSignals is the sign-up form.
type RegisterSignals struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotSignals is the forgot-password form.
type ForgotSignals struct {
	Email string `json:"email"`
}
