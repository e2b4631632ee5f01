package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shading/internal/cli/output"
	"github.com/leapstack-labs/shading/internal/state"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Migrate the database and insert demo users",
		Long: `Run the database migrations and insert deterministic demo users.

Seeding only happens when the users table is empty, so running it twice
is harmless.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # Seed a local SQLite file
  shading seed --dsn ./shading.db

  # Seed 200 users into Postgres
  shading seed --count 200 --db-driver postgres --dsn "$DATABASE_URL"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, count)
		},
	}

	cmd.Flags().IntVar(&count, "count", state.DefaultSeedCount, "Number of demo users to insert")

	return cmd
}

func runSeed(cmd *cobra.Command, count int) error {
	if count <= 0 {
		return fmt.Errorf("--count must be positive, got %d", count)
	}
	cc := NewCommandContext(cmd)

	store, cleanup, err := cc.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	inserted, err := store.Seed(ctx, count)
	if err != nil {
		return err
	}
	total, err := store.CountUsers(ctx)
	if err != nil {
		return err
	}
	version, err := store.MigrationVersion()
	if err != nil {
		return err
	}

	out := output.SeedOutput{
		Driver:           string(store.Dialect()),
		MigrationVersion: version,
		Inserted:         inserted,
		Total:            total,
		Skipped:          inserted == 0,
	}
	if ok, err := cc.Renderer.Data(out); ok {
		return err
	}

	r := cc.Renderer
	r.Header(1, "Seed")
	r.Println("")
	r.Table([]string{"Driver", "Migration", "Inserted", "Total"}, [][]string{{
		out.Driver, strconv.FormatInt(out.MigrationVersion, 10), strconv.Itoa(out.Inserted), strconv.Itoa(out.Total),
	}})
	r.Println("")
	if out.Skipped {
		r.Warning("users table already has data, nothing inserted")
		return nil
	}
	r.Success(fmt.Sprintf("Inserted %d demo users", out.Inserted))
	return nil
}
