package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Database configuration constants.
const (
	// msPerSecond converts seconds to milliseconds for the busy_timeout pragma.
	msPerSecond = 1000

	// validateTimeout is the timeout for verifying database connectivity
	// at construction.
	validateTimeout = 5 * time.Second
)

// Config contains database configuration options.
// These map to the database section of config.yaml.
type Config struct {
	// Path is the filesystem path to the primary SQLite database file.
	Path string

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int
}

// Manager opens short-lived connections to the primary database file.
//
// Unlike a pooled client, the Manager deliberately opens a fresh
// connection for every operation and closes it before returning. Table
// locks are therefore bounded to a single operation's lifetime, and a
// crashed operation can never leak a held connection.
type Manager struct {
	path        string
	busyTimeout int
}

// NewManager validates the database path and returns a connection manager.
//
// Validation opens a connection and runs a trivial query; any engine-level
// failure here is a hard configuration error and the caller is expected to
// abort startup. Note that, like the engine itself, validation creates the
// database file if it does not exist yet.
//
// Parameters:
//   - cfg: Database configuration
//
// Returns:
//   - *Manager: Validated manager
//   - error: If the database cannot be opened or queried
func NewManager(cfg Config) (*Manager, error) {
	m := &Manager{
		path:        cfg.Path,
		busyTimeout: cfg.BusyTimeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
	defer cancel()

	err := m.WithConn(ctx, func(db *sql.DB) error {
		var one int
		if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database %s: %w", cfg.Path, err)
	}

	return m, nil
}

// Path returns the filesystem path to the primary database file.
func (m *Manager) Path() string {
	return m.path
}

// Dir returns the directory containing the primary database file.
// Attached databases are resolved relative to this directory.
func (m *Manager) Dir() string {
	return filepath.Dir(m.path)
}

// WithConn opens a fresh connection, runs fn, and closes the connection
// on every exit path, including when fn returns an error or panics.
//
// This is the scoped-acquisition helper every operation goes through;
// no connection outlives the call.
//
// Parameters:
//   - ctx: Context for the connectivity check
//   - fn: Work to perform against the open connection
//
// Returns:
//   - error: fn's error, or a connection error
func (m *Manager) WithConn(ctx context.Context, fn func(db *sql.DB) error) error {
	db, err := m.open()
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Connection is discarded either way

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("opening database connection: %w", err)
	}

	return fn(db)
}

// OpenAt opens a fresh connection to an arbitrary SQLite file using the
// manager's settings. The caller owns the returned handle and must close
// it. Used to create empty database files and by tests.
func (m *Manager) OpenAt(path string) (*sql.DB, error) {
	return openFile(path, m.busyTimeout)
}

// open returns an unpooled handle to the primary database.
func (m *Manager) open() (*sql.DB, error) {
	return openFile(m.path, m.busyTimeout)
}

func openFile(path string, busyTimeout int) (*sql.DB, error) {
	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		path,
		busyTimeout*msPerSecond,
	)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One short-lived connection per operation, never pooled.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}
