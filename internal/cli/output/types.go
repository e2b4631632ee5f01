package output

// RouteInfo is one node of the compiled route tree.
type RouteInfo struct {
	Path    string `json:"path" yaml:"path"`
	ID      string `json:"id" yaml:"id"`
	Kind    string `json:"kind" yaml:"kind"`
	Index   bool   `json:"index,omitempty" yaml:"index,omitempty"`
	Mounted bool   `json:"mounted" yaml:"mounted"`
	Depth   int    `json:"depth" yaml:"depth"`
}

// LinkInfo is one sidebar link.
type LinkInfo struct {
	Title string `json:"title" yaml:"title"`
	To    string `json:"to" yaml:"to"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	End   bool   `json:"end" yaml:"end"`
}

// SectionInfo is one sidebar section.
type SectionInfo struct {
	Title string     `json:"title" yaml:"title"`
	Order int        `json:"order" yaml:"order"`
	Links []LinkInfo `json:"links" yaml:"links"`
}

// RoutesSummary counts the routes output.
type RoutesSummary struct {
	Sections int `json:"sections" yaml:"sections"`
	Links    int `json:"links" yaml:"links"`
	Routes   int `json:"routes" yaml:"routes"`
	Mounted  int `json:"mounted" yaml:"mounted"`
}

// RoutesOutput is the structured result of the routes command.
type RoutesOutput struct {
	Sections []SectionInfo `json:"sections" yaml:"sections"`
	Routes   []RouteInfo   `json:"routes" yaml:"routes"`
	Summary  RoutesSummary `json:"summary" yaml:"summary"`
}

// SeedOutput is the structured result of the seed command.
type SeedOutput struct {
	Driver           string `json:"driver" yaml:"driver"`
	MigrationVersion int64  `json:"migrationVersion" yaml:"migrationVersion"`
	Inserted         int    `json:"inserted" yaml:"inserted"`
	Total            int    `json:"total" yaml:"total"`
	Skipped          bool   `json:"skipped" yaml:"skipped"`
}
