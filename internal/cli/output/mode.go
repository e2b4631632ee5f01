// Package output renders command results for terminals, pipes and scripts.
//
// In auto mode a terminal gets styled text and anything else gets markdown,
// which reads well both for people and for agents consuming the output.
package output

import (
	"fmt"
	"strings"
)

// OutputMode selects how results are rendered.
type OutputMode string //nolint:revive

// Mode is shorthand for OutputMode.
type Mode = OutputMode

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Modes returns every selectable mode.
func Modes() []string {
	return []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON), string(ModeYAML)}
}

// ParseMode parses a mode name. The empty string is auto.
func ParseMode(s string) (OutputMode, error) {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML:
		return m, nil
	}
	return "", fmt.Errorf("unknown output mode %q (want one of %s)", s, strings.Join(Modes(), ", "))
}

// Structured reports whether the mode emits machine-readable data.
func (m OutputMode) Structured() bool {
	return m == ModeJSON || m == ModeYAML
}
