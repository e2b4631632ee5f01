package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shading/internal/cli/config"
	"github.com/leapstack-labs/shading/internal/cli/output"
	"github.com/leapstack-labs/shading/internal/grid"
	"github.com/leapstack-labs/shading/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with the loaded configuration
// and a renderer for the selected output mode.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		mode = output.ModeAuto
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenStore opens and migrates the configured users database. Returns the
// store and a cleanup function that must be called (typically via defer).
func (c *CommandContext) OpenStore() (*state.Store, func(), error) {
	db := c.Cfg.GetDatabaseConfig()

	store, err := state.Open(db.Driver, db.DSN, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = store.Close() }

	if err := store.Migrate(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return store, cleanup, nil
}

// SeedIfEnabled seeds demo users when the configuration asks for it.
func (c *CommandContext) SeedIfEnabled(ctx context.Context, store *state.Store) error {
	if !c.Cfg.GetDatabaseConfig().Seed {
		return nil
	}
	n, err := store.Seed(ctx, state.DefaultSeedCount)
	if err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	if n > 0 {
		c.Logger.Info("seeded demo users", "count", n)
	}
	return nil
}

// Helper functions shared across commands

// getConfig returns the current configuration, or an empty one whose
// accessors yield the defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{OutputFormat: config.DefaultOutput}
}

// reseedPolicy maps the configured policy name.
func reseedPolicy(name string) grid.ReseedPolicy {
	if name == "on_open" {
		return grid.ReseedOnOpen
	}
	return grid.ReseedAlways
}
