package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shading/internal/cli/output"
	"github.com/leapstack-labs/shading/internal/nav"
	"github.com/leapstack-labs/shading/internal/ui/app"
)

// NewRoutesCommand creates the routes command.
func NewRoutesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Show the dashboard route tree and sidebar",
		Long: `Compile the dashboard route configuration and print the sidebar
sections, their links and every mounted page path.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # Show routes
  shading routes

  # As JSON
  shading routes --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoutes(cmd)
		},
	}

	return cmd
}

func runRoutes(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)

	tree, err := app.Compile(app.Pages{}, app.Options{})
	if err != nil {
		return err
	}
	out := buildRoutesOutput(tree)

	if ok, err := cc.Renderer.Data(out); ok {
		return err
	}

	r := cc.Renderer
	r.Header(1, "Sidebar")
	r.Println("")
	var rows [][]string
	for _, sec := range out.Sections {
		for _, l := range sec.Links {
			rows = append(rows, []string{strconv.Itoa(sec.Order), sec.Title, l.Title, l.To})
		}
	}
	r.Table([]string{"Order", "Section", "Link", "Path"}, rows)

	r.Println("")
	r.Header(1, "Routes")
	r.Println("")
	rows = rows[:0]
	for _, rt := range out.Routes {
		mounted := ""
		if rt.Mounted {
			mounted = "GET"
		}
		rows = append(rows, []string{strings.Repeat("  ", rt.Depth) + rt.ID, rt.Path, rt.Kind, mounted})
	}
	r.Table([]string{"Node", "Path", "Kind", "Mounted"}, rows)

	r.Println("")
	r.Printf("%d sections, %d links, %d routes (%d mounted)\n",
		out.Summary.Sections, out.Summary.Links, out.Summary.Routes, out.Summary.Mounted)
	return nil
}

func buildRoutesOutput(tree *nav.Tree) output.RoutesOutput {
	out := output.RoutesOutput{
		Sections: []output.SectionInfo{},
		Routes:   []output.RouteInfo{},
	}
	for _, sec := range tree.Sections() {
		info := output.SectionInfo{Title: sec.Title, Order: sec.Order, Links: make([]output.LinkInfo, 0, len(sec.Links))}
		for _, l := range sec.Links {
			info.Links = append(info.Links, output.LinkInfo{Title: l.Title, To: l.To, Icon: l.Icon, End: l.End})
		}
		out.Summary.Links += len(sec.Links)
		out.Sections = append(out.Sections, info)
	}
	for _, rt := range tree.Routes() {
		out.Routes = append(out.Routes, output.RouteInfo{
			Path: rt.Path, ID: rt.ID, Kind: rt.Kind, Index: rt.Index, Mounted: rt.Mounted, Depth: rt.Depth,
		})
		if rt.Mounted {
			out.Summary.Mounted++
		}
	}
	out.Summary.Sections = len(out.Sections)
	out.Summary.Routes = len(out.Routes)
	return out
}
