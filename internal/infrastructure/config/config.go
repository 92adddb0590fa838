package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDatabaseFile is the filename used when no database path is
// configured. It is resolved under the current user's home directory.
const DefaultDatabaseFile = "mcpDefaultSqlite.db"

// Config is the root configuration structure for SQLite Explorer.
// All configuration is loaded from YAML and can be overridden by
// environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	// Path is the filesystem path to the primary SQLite database file.
	Path string `yaml:"path"`

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	// Prevents "database is locked" errors under contention.
	BusyTimeout int `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// A missing config file is not an error: the deployment model is
// environment-first, so the file is optional. An unreadable or malformed
// file is still fatal.
//
// Environment variables follow the pattern: SQLITE_EXPLORER_SECTION_KEY
// For example: SQLITE_EXPLORER_DATABASE_PATH, SQLITE_EXPLORER_LOG_LEVEL.
// DB_PATH is honoured as a legacy alias for the database path.
//
// Parameters:
//   - path: Path to the YAML configuration file ("" skips file loading)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be parsed or validation fails
func Load(path string) (*Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file: fall through to env overrides.
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
//
// The default database path lives in the user's home directory, matching
// the behaviour existing clients of this server rely on.
func defaultConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	return &Config{
		Database: DatabaseConfig{
			Path:        filepath.Join(home, DefaultDatabaseFile),
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			// stdout carries the MCP protocol stream, so logs must not
			// go there.
			Output: "stderr",
		},
	}, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables follow the pattern:
// SQLITE_EXPLORER_SECTION_KEY.
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("SQLITE_EXPLORER_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	// Legacy alias kept from the original deployment.
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SQLITE_EXPLORER_BUSY_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.BusyTimeout = n
		}
	}

	// Logging
	if v := os.Getenv("SQLITE_EXPLORER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SQLITE_EXPLORER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SQLITE_EXPLORER_LOG_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.Database.BusyTimeout < 0 {
		errs = append(errs, "database.busy_timeout must not be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not recognised", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q is not recognised", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
