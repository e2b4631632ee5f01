// Package resources serves the stylesheet and scripts of the dashboard.
package resources

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}
