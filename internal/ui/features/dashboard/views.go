package dashboard

import (
	"cmp"
	"maps"
	"slices"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/ui/components"
	"github.com/leapstack-labs/shading/pkg/core"
)

const statCardsID = "overview-stats"

func overviewView(name string, stats core.UserStats) templ.Component {
	greeting := "Welcome back"
	if name != "" {
		greeting += ", " + name
	}
	return components.PageSection(components.Page{
		Class: "overview",
		Title: "Overview",
		Lead:  greeting,
		Init:  "@get('/api/dashboard/updates', {openWhenHidden: true})",
	},
		statCards(stats),
		components.Links(
			components.Link{Label: "Manage users", Href: "/data/users"},
			components.Link{Label: "See analytics", Href: "/analytics"},
		),
	)
}

func statCards(stats core.UserStats) templ.Component {
	return components.CardGrid(statCardsID,
		components.StatCard("Total users", stats.Total, ""),
		components.StatCard("Active", stats.Active, "excluding archived"),
		components.StatCard("Archived", stats.Archived, ""),
		components.StatCard("Admins", stats.ByRole[core.RoleAdmin], ""),
	)
}

// buckets orders counts by size, then label.
func buckets[K ~string](m map[K]int) []components.Bar {
	out := make([]components.Bar, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, components.Bar{Label: components.Label(string(k)), Count: m[k]})
	}
	slices.SortStableFunc(out, func(a, b components.Bar) int { return cmp.Compare(b.Count, a.Count) })
	return out
}

func analyticsView(stats core.UserStats) templ.Component {
	return components.PageSection(components.Page{Class: "analytics", Title: "Analytics"},
		components.BarList("Users by role", buckets(stats.ByRole)),
		components.BarList("Users by department", buckets(stats.ByDepartment)),
	)
}
