package auth

import (
	"net/http"
	"net/url"

	"github.com/leapstack-labs/shading/internal/session"
)

// LoginPath is where Guard sends anonymous visitors.
const LoginPath = "/auth/login"

// Guard redirects unauthenticated requests to loginPath with the original
// location in "from". Authenticated requests carry their State.
func Guard(loginPath string) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = LoginPath
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := Hydrate(session.FromContext(r.Context()))
			if !st.IsAuthenticated() {
				http.Redirect(w, r, LoginURL(loginPath, r.URL.RequestURI()), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithState(r.Context(), st)))
		})
	}
}

// LoginURL builds the login location remembering from.
func LoginURL(loginPath, from string) string {
	if from == "" || from == "/" {
		return loginPath
	}
	return loginPath + "?from=" + url.QueryEscape(from)
}

// SafeRedirect returns from when it is a local absolute path, otherwise "/".
func SafeRedirect(from string) string {
	if from == "" || from[0] != '/' || (len(from) > 1 && (from[1] == '/' || from[1] == '\\')) {
		return "/"
	}
	return from
}
