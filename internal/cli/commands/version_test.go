package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitest "github.com/leapstack-labs/shading/internal/cli/testutil"
)

func TestVersionCommand(t *testing.T) {
	for _, version := range []string{"0.1.0", "1.2.3", "dev"} {
		t.Run(version, func(t *testing.T) {
			cmd := NewVersionCommand(version)
			assert.Equal(t, "version", cmd.Use)
			assert.NotEmpty(t, cmd.Long)

			res := clitest.Run(t, cmd)
			require.NoError(t, res.Err)
			assert.Contains(t, res.Out, "Shading v"+version+"\n")
			assert.Contains(t, res.Out, "datastar")
			assert.Empty(t, res.ErrOut)
		})
	}
}
