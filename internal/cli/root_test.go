package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shading/internal/cli/config"
	"github.com/leapstack-labs/shading/internal/cli/output"
	clitest "github.com/leapstack-labs/shading/internal/cli/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	res := clitest.Run(t, NewRootCmd(), args...)
	return res.Out, res.Err
}

// =============================================================================
// Command tree
// =============================================================================

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "routes", "seed", "version", "completion"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "verbose", "output", "log-level", "log-format", "db-driver", "dsn"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "shading "+Version)
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "shading")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

// =============================================================================
// Config loading
// =============================================================================

func TestFlagsReachConfig(t *testing.T) {
	out, err := execute(t, "routes", "--output", "json", "--log-level", "debug")
	require.NoError(t, err)

	cfg := config.GetCurrentConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "debug", cfg.GetLogConfig().Level)

	var routes output.RoutesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	assert.NotEmpty(t, routes.Sections)
}

func TestInvalidConfig(t *testing.T) {
	_, err := execute(t, "routes", "--output", "xml")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		lc      config.LogConfig
		verbose bool
		debug   bool
		json    bool
	}{
		{"defaults", config.LogConfig{Level: "info", Format: "text"}, false, false, false},
		{"debug level", config.LogConfig{Level: "debug", Format: "text"}, false, true, false},
		{"verbose wins", config.LogConfig{Level: "error", Format: "text"}, true, true, false},
		{"json", config.LogConfig{Level: "info", Format: "json"}, false, false, true},
		{"bad level falls back", config.LogConfig{Level: "loud"}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			logger := newLogger(buf, &tt.lc, tt.verbose)
			logger.Debug("dbg")
			logger.Info("hello")

			out := buf.String()
			assert.Contains(t, out, "hello")
			assert.Equal(t, tt.debug, bytes.Contains(buf.Bytes(), []byte("dbg")))
			if tt.json {
				assert.Contains(t, out, `"msg":"hello"`)
			}
		})
	}
}
