package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "SHADING_"

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// sections are the nested config blocks. SHADING_SERVER_PORT maps to
// server.port, SHADING_VERBOSE to verbose.
var sections = []string{"log", "server", "database", "auth", "grid", "cache", "posts"}

// flagKeys bridges flag names that do not match their config key.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"port":       "server.port",
	"watch":      "server.watch",
	"db-driver":  "database.driver",
	"dsn":        "database.dsn",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > shading.yaml > shading.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"shading.yaml", "shading.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey transforms SHADING_SERVER_SESSION_SECRET into server.session_secret.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range sections {
		if rest, ok := strings.CutPrefix(key, sec+"_"); ok {
			return sec + "." + rest
		}
	}
	return key
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"environment":      DefaultEnv,
		"verbose":          false,
		"output":           DefaultOutput,
		"log.level":        DefaultLogLevel,
		"log.format":       DefaultLogFormat,
		"server.port":      DefaultPort,
		"server.watch":     false,
		"server.auto_open": false,
		"database.driver":  DefaultDriver,
		"database.dsn":     DefaultDSN,
		"database.seed":    true,
		"auth.login_delay": DefaultDelay.String(),
		"auth.demo_token":  DefaultToken,
		"grid.page_size":   DefaultPageSize,
		"grid.page_sizes":  DefaultPageSizes,
		"grid.reseed":      DefaultReseed,
		"cache.ttl":        DefaultCacheTTL.String(),
		"posts.base_url":   DefaultPostsURL,
		"posts.timeout":    DefaultPostsWait.String(),
		"posts.limit":      DefaultPostsSize,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (SHADING_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			// Transform kebab-case to snake_case for config keys
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Secrets may reference the environment
	if cfg.Database != nil {
		cfg.Database.DSN = expandEnvVars(cfg.Database.DSN)
	}
	if cfg.Server != nil {
		cfg.Server.SessionSecret = expandEnvVars(cfg.Server.SessionSecret)
		if cfg.Server.SessionSecret == "" {
			cfg.Server.SessionSecret = os.Getenv(EnvPrefix + "SESSION_SECRET")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR}
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}
