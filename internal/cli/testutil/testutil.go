// Package testutil runs CLI commands in tests and checks what they print.
package testutil

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/shading/internal/cli/output"
)

// Result is the captured outcome of one command run.
type Result struct {
	Out    string
	ErrOut string
	Err    error
}

// Run executes cmd with args, capturing stdout and stderr.
func Run(t *testing.T, cmd *cobra.Command, args ...string) Result {
	t.Helper()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if args == nil {
		// nil makes cobra fall back to os.Args
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return Result{Out: out.String(), ErrOut: errOut.String(), Err: err}
}

// Decode parses the output of a structured mode into v.
func (r Result) Decode(t *testing.T, mode output.OutputMode, v any) {
	t.Helper()
	require.NoError(t, r.Err)
	switch mode {
	case output.ModeJSON:
		require.NoError(t, json.Unmarshal([]byte(r.Out), v), "output is not JSON: %s", r.Out)
	case output.ModeYAML:
		require.NoError(t, yaml.Unmarshal([]byte(r.Out), v), "output is not YAML: %s", r.Out)
	default:
		t.Fatalf("mode %q is not structured", mode)
	}
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	assert.False(t, ansiPattern.MatchString(s), "string contains ANSI escape codes: %q", s)
}

// AssertMarkdown checks the output is plain markdown: no escape codes, no
// empty headers and every pipe table row has the header's column count.
func AssertMarkdown(t *testing.T, md string) {
	t.Helper()
	AssertNoANSI(t, md)

	cols := 0
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
		if !strings.HasPrefix(trimmed, "|") {
			cols = 0
			continue
		}
		n := strings.Count(trimmed, "|") - 1
		if cols == 0 {
			cols = n
			continue
		}
		assert.Equal(t, cols, n, "table row %d has %d columns, header has %d", i+1, n, cols)
	}
}
