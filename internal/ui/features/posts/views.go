package posts

import (
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/shading/internal/ui/components"
	"github.com/leapstack-labs/shading/pkg/core"
)

const listID = "posts-list"

type listData struct {
	Posts     []core.Post
	FromCache bool
	Limit     int
	Err       string
}

func postsView(d listData) templ.Component {
	return components.PageSection(components.Page{
		Class: "posts-page",
		Title: "Posts",
		Lead:  "The latest posts from the feed. Results are cached until refreshed.",
	},
		components.SubmitButton("Refresh", "Refreshing...", "@post('/api/posts/refresh')", "refreshing"),
		postList(d),
	)
}

// postList is patched on refresh.
func postList(d listData) templ.Component {
	switch {
	case d.Err != "":
		return components.Card(listID, "", components.Alert(listID+"-error", "error", "Could not load posts: "+d.Err))
	case len(d.Posts) == 0:
		return components.Card(listID, "", components.Muted("No posts."))
	}

	source := "fresh"
	if d.FromCache {
		source = "cached"
	}
	items := make([]components.Disclosure, 0, len(d.Posts))
	for _, p := range d.Posts {
		items = append(items, components.Disclosure{
			ID:    detailID(p.ID),
			Title: p.Title,
			URL:   "/api/posts/" + strconv.Itoa(p.ID),
		})
	}
	return components.Card(listID, "",
		components.Muted(fmt.Sprintf("Showing %d posts (%s)", len(d.Posts), source)),
		components.DisclosureList("posts", items),
	)
}

func detailID(id int) string { return "post-" + strconv.Itoa(id) }

func postDetail(p core.Post) templ.Component {
	return components.Detail(detailID(p.ID), p.Body, false)
}

func postDetailError(id int, err error) templ.Component {
	return components.Detail(detailID(id), err.Error(), true)
}
