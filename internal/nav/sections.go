package nav

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// defaultOrder sorts entries without an explicit order last.
const defaultOrder = math.MaxInt

// Section is a titled group of sidebar links.
type Section struct {
	Title string `json:"title" yaml:"title"`
	Order int    `json:"order" yaml:"order"`
	Links []Link `json:"links" yaml:"links"`
}

// Link is a single sidebar entry. End is set for the root path, which only
// matches exactly.
type Link struct {
	Title string `json:"title" yaml:"title"`
	To    string `json:"to" yaml:"to"`
	Icon  string `json:"icon" yaml:"icon"`
	End   bool   `json:"end" yaml:"end"`
}

// Active reports whether the link should be highlighted for the current path.
func (l Link) Active(current string) bool {
	if l.End || l.To == "/" {
		return current == l.To
	}
	return current == l.To || strings.HasPrefix(current, strings.TrimSuffix(l.To, "/")+"/")
}

type orderedLink struct {
	Link
	order int
}

type sectionEntry struct {
	title string
	order int
	links []orderedLink
}

// BuildSections derives the sidebar from the children of root. A node
// contributes a link only when it has both navigation metadata and an icon.
func BuildSections(root *Node) []Section {
	if root == nil {
		return nil
	}

	var entries []*sectionEntry
	byTitle := make(map[string]*sectionEntry)

	visit := func(n *Node, base string) error {
		if n.Nav == nil || n.Icon == "" {
			return nil
		}
		current := ResolveFullPath(base, n)

		sectionOrder := defaultOrder
		if n.Nav.SectionOrder != nil {
			sectionOrder = *n.Nav.SectionOrder
		}

		entry, ok := byTitle[n.Nav.Section]
		if !ok {
			entry = &sectionEntry{title: n.Nav.Section, order: sectionOrder}
			byTitle[n.Nav.Section] = entry
			entries = append(entries, entry)
		}
		entry.order = min(entry.order, sectionOrder)

		title := n.Label
		if title == "" {
			title = n.Nav.Section
		}
		linkOrder := sectionOrder
		if n.Nav.LinkOrder != nil {
			linkOrder = *n.Nav.LinkOrder
		}

		entry.links = append(entry.links, orderedLink{
			Link:  Link{Title: title, To: current, Icon: n.Icon, End: current == "/"},
			order: linkOrder,
		})
		return nil
	}

	for _, child := range root.Children {
		_ = child.Walk("/", visit)
	}

	slices.SortStableFunc(entries, func(a, b *sectionEntry) int {
		return cmp.Compare(a.order, b.order)
	})

	sections := make([]Section, 0, len(entries))
	for _, entry := range entries {
		slices.SortStableFunc(entry.links, func(a, b orderedLink) int {
			return cmp.Compare(a.order, b.order)
		})
		links := make([]Link, len(entry.links))
		for i, l := range entry.links {
			links[i] = l.Link
		}
		sections = append(sections, Section{Title: entry.title, Order: entry.order, Links: links})
	}
	return sections
}

// cloneSections returns a deep copy of sections.
func cloneSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = Section{Title: s.Title, Order: s.Order, Links: slices.Clone(s.Links)}
	}
	return out
}
