// Package app declares the route configuration of the dashboard: the
// guarded application tree with its sidebar and the public auth tree.
package app

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/auth"
	"github.com/leapstack-labs/shading/internal/nav"
	"github.com/leapstack-labs/shading/internal/ui/components"
)

// ErrPageUnavailable is returned by pages that were not wired, e.g. when
// the tree is compiled for listing only.
var ErrPageUnavailable = errors.New("page is not available")

// Pages holds the page handlers of every leaf. Nil pages answer with
// ErrPageUnavailable.
type Pages struct {
	Overview       nav.Page
	Analytics      nav.Page
	Posts          nav.Page
	Users          nav.Page
	Counter        nav.Page
	Profile        nav.Page
	Billing        nav.Page
	Login          nav.Page
	Register       nav.Page
	ForgotPassword nav.Page
}

// Options tunes the layouts and guard of the tree.
type Options struct {
	Dev bool

	// Guard wraps every page of the dashboard tree. Nil means auth.Guard
	// redirecting to auth.LoginPath.
	Guard func(http.Handler) http.Handler
}

func unavailable(http.ResponseWriter, *http.Request) (templ.Component, error) {
	return nil, ErrPageUnavailable
}

func orUnavailable(p nav.Page) nav.Page {
	if p == nil {
		return unavailable
	}
	return p
}

func section(title string, order, link int) *nav.NavMeta {
	return &nav.NavMeta{Section: title, SectionOrder: nav.Order(order), LinkOrder: nav.Order(link)}
}

// Dashboard returns the guarded application tree rooted at "/".
func Dashboard(p Pages, opts Options) *nav.Node {
	guard := opts.Guard
	if guard == nil {
		guard = auth.Guard(auth.LoginPath)
	}
	overview := orUnavailable(p.Overview)
	posts := orUnavailable(p.Posts)
	counter := orUnavailable(p.Counter)
	profile := orUnavailable(p.Profile)

	return &nav.Node{
		ID:   "root",
		Path: "/",
		Element: nav.Factory(func(ctx nav.Context) nav.Layout {
			return components.DashboardLayout(ctx.Sections, opts.Dev)
		}),
		Middleware: []func(http.Handler) http.Handler{guard},
		Children: []*nav.Node{
			{ID: "overview", Index: true, Label: "Overview", Icon: "layout-dashboard",
				Nav: section("Dashboard", 1, 1), Element: nav.Leaf{Page: overview}},
			{ID: "overview-alias", Path: "overview", Element: nav.Leaf{Page: overview}},
			{ID: "analytics", Path: "analytics", Label: "Analytics", Icon: "line-chart",
				Nav: section("Dashboard", 1, 2), Element: nav.Leaf{Page: orUnavailable(p.Analytics)}},
			{ID: "data", Path: "data", Element: nav.PassThrough{}, Children: []*nav.Node{
				{ID: "data-index", Index: true, Element: nav.Leaf{Page: posts}},
				{ID: "data-posts", Path: "posts", Label: "Posts feed", Icon: "list-tree",
					Nav: section("Data", 2, 1), Element: nav.Leaf{Page: posts}},
				{ID: "data-users", Path: "users", Label: "Users", Icon: "users",
					Nav: section("Data", 2, 2), Element: nav.Leaf{Page: orUnavailable(p.Users)}},
			}},
			{ID: "state", Path: "state", Element: nav.PassThrough{}, Children: []*nav.Node{
				{ID: "state-index", Index: true, Element: nav.Leaf{Page: counter}},
				{ID: "state-counter", Path: "counter", Label: "Counter", Icon: "activity",
					Nav: section("State demos", 3, 1), Element: nav.Leaf{Page: counter}},
			}},
			{ID: "settings", Path: "settings", Element: nav.Static{Layout: components.SettingsLayout}, Children: []*nav.Node{
				{ID: "settings-index", Index: true, Element: nav.Leaf{Page: profile}},
				{ID: "settings-profile", Path: "profile", Label: "Profile", Icon: "user-cog",
					Nav: section("Settings", 4, 1), Element: nav.Leaf{Page: profile}},
				{ID: "settings-billing", Path: "billing", Label: "Billing", Icon: "wallet",
					Nav: section("Settings", 4, 2), Element: nav.Leaf{Page: orUnavailable(p.Billing)}},
			}},
		},
	}
}

// Auth returns the public sign-in tree under /auth.
func Auth(p Pages, opts Options) *nav.Node {
	return &nav.Node{
		ID:      "auth",
		Path:    "auth",
		Element: nav.Static{Layout: components.AuthLayout(opts.Dev)},
		Children: []*nav.Node{
			{ID: "auth-login", Path: "login", Element: nav.Leaf{Page: orUnavailable(p.Login)}},
			{ID: "auth-register", Path: "register", Element: nav.Leaf{Page: orUnavailable(p.Register)}},
			{ID: "auth-forgot-password", Path: "forgot-password", Element: nav.Leaf{Page: orUnavailable(p.ForgotPassword)}},
		},
	}
}

// Compile builds both trees. The sidebar is derived from the dashboard tree.
func Compile(p Pages, opts Options) (*nav.Tree, error) {
	return nav.Compile(Dashboard(p, opts), Auth(p, opts))
}
