package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shading/internal/auth"
	"github.com/leapstack-labs/shading/internal/posts"
	"github.com/leapstack-labs/shading/internal/querycache"
	"github.com/leapstack-labs/shading/internal/ui"
	"github.com/leapstack-labs/shading/internal/ui/features/users"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	Dev       bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Shading dashboard",
		Long: `Start the web server hosting the dashboard.

The dashboard provides:
- Overview and analytics of the demo users
- A searchable, sortable, filterable users grid with add/edit/delete
- A cached posts feed
- A per-session counter and profile settings`,
		Example: `  # Start on the default port
  shading serve

  # Start on a custom port against Postgres
  shading serve --port 3000 --db-driver postgres --dsn "$DATABASE_URL"

  # Reload browsers when static assets change
  shading serve --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload browsers when static assets change")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Enable the dev reload stream")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg
	logger := cc.Logger

	// Flags were merged into the config by the root command
	serverCfg := cfg.GetServerConfig()
	autoOpen := serverCfg.AutoOpen && !opts.NoBrowser

	store, cleanup, err := cc.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := cc.SeedIfEnabled(ctx, store); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cache := querycache.New(querycache.Config{
		TTL:        cfg.GetCacheConfig().TTL,
		Registerer: reg,
		Logger:     logger,
	})

	postsCfg := cfg.GetPostsConfig()
	client, err := posts.New(posts.Config{
		BaseURL: postsCfg.BaseURL,
		Timeout: postsCfg.Timeout,
		Limit:   postsCfg.Limit,
		Logger:  logger,
	}, cache)
	if err != nil {
		return err
	}

	authCfg := cfg.GetAuthConfig()
	gridCfg := cfg.GetGridConfig()

	server := ui.NewServer(ui.Config{
		Store:         store,
		Cache:         cache,
		Auth:          auth.NewService(auth.Config{LoginDelay: authCfg.LoginDelay, Token: authCfg.DemoToken, Logger: logger}),
		Posts:         client,
		Gatherer:      reg,
		Port:          serverCfg.Port,
		SessionSecret: serverCfg.SessionSecret,
		Grid: users.Config{
			PageSize:  gridCfg.PageSize,
			PageSizes: gridCfg.PageSizes,
			Reseed:    reseedPolicy(gridCfg.Reseed),
		},
		Watch:  serverCfg.Watch,
		Dev:    opts.Dev,
		Logger: logger,
	})

	url := fmt.Sprintf("http://localhost:%d", serverCfg.Port)
	if autoOpen {
		go openBrowser(url)
	}

	logger.Debug("serve config", "environment", cfg.Environment, "driver", store.Dialect(), "dev", opts.Dev, "watch", serverCfg.Watch)
	cc.Renderer.Printf("Starting dashboard on %s\n", url)
	cc.Renderer.Println("Press Ctrl+C to stop")

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
