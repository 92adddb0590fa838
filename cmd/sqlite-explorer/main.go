// SQLite Explorer - MCP server for local SQLite databases
//
// This is the main entry point for the SQLite Explorer server. It
// exposes a configured SQLite database file to MCP clients over stdio:
// schema browsing resources, ad hoc query tools, multi-database
// attachment, and table statistics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/sqlite-explorer/internal/explorer"
	"github.com/nerrad567/sqlite-explorer/internal/infrastructure/config"
	"github.com/nerrad567/sqlite-explorer/internal/infrastructure/database"
	"github.com/nerrad567/sqlite-explorer/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting SQLite Explorer",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration (file optional, env overrides always applied)
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"config_path", configPath,
		"database_path", cfg.Database.Path,
	)

	// Validate the primary database. A bad path is a hard configuration
	// error: the server must not start against a database it cannot open.
	mgr, err := database.NewManager(database.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	log.Info("database validated", "path", mgr.Path())

	srv := explorer.New(mgr, log, version)
	log.Info("serving MCP on stdio")

	// ServeStdio returns when the client closes the stream or the
	// context's signal fires inside the transport.
	if err := srv.ServeStdio(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serving stdio: %w", err)
	}

	log.Info("SQLite Explorer stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SQLITE_EXPLORER_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SQLITE_EXPLORER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
