// Package config provides configuration management for the Shading CLI.
//
// Values are layered: defaults, then shading.yaml, then SHADING_ environment
// variables, then explicitly set command-line flags.
package config

import "time"

// Default configuration values.
const (
	DefaultEnv       = "dev"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPort      = 8765
	DefaultDriver    = "sqlite"
	DefaultDSN       = ":memory:"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultPageSize  = 10
	DefaultCacheTTL  = 60 * time.Second
	DefaultPostsURL  = "https://jsonplaceholder.typicode.com/"
	DefaultPostsWait = 10 * time.Second
	DefaultPostsSize = 5
	DefaultDelay     = 650 * time.Millisecond
	DefaultToken     = "demo-bearer-token"
	DefaultReseed    = "always"

	// devSessionSecret is used when no secret is configured.
	devSessionSecret = "shading-dev-secret-change-in-production" //nolint:gosec
)

// DefaultPageSizes are the page sizes offered by the grid.
var DefaultPageSizes = []int{5, 10, 20, 50, 100}

// Config holds all CLI configuration options.
type Config struct {
	Environment  string          `koanf:"environment"`
	Verbose      bool            `koanf:"verbose"`
	OutputFormat string          `koanf:"output" validate:"omitempty,oneof=auto text markdown json yaml"`
	Log          *LogConfig      `koanf:"log"`
	Server       *ServerConfig   `koanf:"server"`
	Database     *DatabaseConfig `koanf:"database"`
	Auth         *AuthConfig     `koanf:"auth"`
	Grid         *GridConfig     `koanf:"grid"`
	Cache        *CacheConfig    `koanf:"cache"`
	Posts        *PostsConfig    `koanf:"posts"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Port          int    `koanf:"port" validate:"omitempty,min=1,max=65535"`
	SessionSecret string `koanf:"session_secret"`
	Watch         bool   `koanf:"watch"`
	AutoOpen      bool   `koanf:"auto_open"`
}

// DatabaseConfig selects the users backend.
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"omitempty,oneof=sqlite sqlite3 postgres postgresql pgx"`
	DSN    string `koanf:"dsn"`
	Seed   bool   `koanf:"seed"`
}

// AuthConfig configures the demo sign-in.
type AuthConfig struct {
	LoginDelay time.Duration `koanf:"login_delay" validate:"gte=0"`
	DemoToken  string        `koanf:"demo_token"`
}

// GridConfig configures the users grid.
type GridConfig struct {
	PageSize  int    `koanf:"page_size" validate:"gte=0"`
	PageSizes []int  `koanf:"page_sizes" validate:"dive,gt=0"`
	Reseed    string `koanf:"reseed" validate:"omitempty,oneof=always on_open"`
}

// CacheConfig configures the query cache.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl" validate:"gte=0"`
}

// PostsConfig configures the posts feed client.
type PostsConfig struct {
	BaseURL string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
	Limit   int           `koanf:"limit" validate:"gte=0"`
}

// GetLogConfig returns the log config with defaults applied for any unset values.
func (c *Config) GetLogConfig() *LogConfig {
	l := LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat}
	if c.Log != nil {
		if c.Log.Level != "" {
			l.Level = c.Log.Level
		}
		if c.Log.Format != "" {
			l.Format = c.Log.Format
		}
	}
	return &l
}

// GetServerConfig returns the server config with defaults applied for any unset values.
func (c *Config) GetServerConfig() *ServerConfig {
	s := ServerConfig{Port: DefaultPort}
	if c.Server != nil {
		s = *c.Server
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.SessionSecret == "" {
		s.SessionSecret = devSessionSecret
	}
	return &s
}

// GetDatabaseConfig returns the database config with defaults applied.
func (c *Config) GetDatabaseConfig() *DatabaseConfig {
	d := DatabaseConfig{Driver: DefaultDriver, DSN: DefaultDSN, Seed: true}
	if c.Database != nil {
		d = *c.Database
	}
	if d.Driver == "" {
		d.Driver = DefaultDriver
	}
	if d.DSN == "" && (d.Driver == "sqlite" || d.Driver == "sqlite3") {
		d.DSN = DefaultDSN
	}
	return &d
}

// GetAuthConfig returns the auth config with defaults applied.
func (c *Config) GetAuthConfig() *AuthConfig {
	a := AuthConfig{LoginDelay: DefaultDelay, DemoToken: DefaultToken}
	if c.Auth != nil {
		a = *c.Auth
	}
	if a.DemoToken == "" {
		a.DemoToken = DefaultToken
	}
	return &a
}

// GetGridConfig returns the grid config with defaults applied.
func (c *Config) GetGridConfig() *GridConfig {
	g := GridConfig{}
	if c.Grid != nil {
		g = *c.Grid
	}
	if g.PageSize == 0 {
		g.PageSize = DefaultPageSize
	}
	if len(g.PageSizes) == 0 {
		g.PageSizes = append([]int(nil), DefaultPageSizes...)
	}
	if g.Reseed == "" {
		g.Reseed = DefaultReseed
	}
	return &g
}

// GetCacheConfig returns the cache config with defaults applied.
func (c *Config) GetCacheConfig() *CacheConfig {
	cc := CacheConfig{TTL: DefaultCacheTTL}
	if c.Cache != nil {
		cc = *c.Cache
	}
	return &cc
}

// GetPostsConfig returns the posts config with defaults applied.
func (c *Config) GetPostsConfig() *PostsConfig {
	p := PostsConfig{}
	if c.Posts != nil {
		p = *c.Posts
	}
	if p.BaseURL == "" {
		p.BaseURL = DefaultPostsURL
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultPostsWait
	}
	if p.Limit == 0 {
		p.Limit = DefaultPostsSize
	}
	return &p
}
