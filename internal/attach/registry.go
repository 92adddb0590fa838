package attach

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/nerrad567/sqlite-explorer/internal/infrastructure/database"
)

// Sentinel errors for validation failures. Callers branch on these to
// render the user-facing message; none of them reach the engine.
var (
	// ErrInvalidAlias means the alias contains characters other than
	// letters and digits.
	ErrInvalidAlias = errors.New("alias must contain only letters and numbers")

	// ErrDatabaseNotFound means the target file does not exist in the
	// primary database's directory.
	ErrDatabaseNotFound = errors.New("database file not found")

	// ErrDatabaseExists means the target file already exists, so a new
	// database cannot be created there.
	ErrDatabaseExists = errors.New("database file already exists")
)

// Attachment is one registered alias→path binding.
type Attachment struct {
	Alias string
	Path  string
}

// Registry tracks auxiliary database files attached under short aliases.
//
// The mapping lives in process memory for the process lifetime: it is
// never persisted, and there is no detach. Because every operation runs
// on a fresh connection, the registry is replayed (every ATTACH
// re-executed) at the start of each query so aliases keep resolving. A
// file deleted after a successful attach therefore fails the next query,
// not the attach call that registered it.
//
// The registry is guarded by a mutex. The host normally dispatches one
// operation at a time, but the transport does not guarantee it.
type Registry struct {
	mgr *database.Manager

	mu    sync.Mutex
	order []string
	paths map[string]string
}

// NewRegistry creates an empty registry over the given connection manager.
func NewRegistry(mgr *database.Manager) *Registry {
	return &Registry{
		mgr:   mgr,
		paths: make(map[string]string),
	}
}

// Attach registers an existing database file under an alias.
//
// The file is resolved as a bare filename inside the primary database's
// directory. The alias must be alphanumeric: it is interpolated into the
// ATTACH statement as an identifier, so validation here is what prevents
// injection through it. The path itself is always passed as a bound
// literal.
//
// The ATTACH is executed once against a throwaway connection so engine
// errors (corrupt file, not a database) surface now rather than on the
// first query.
//
// Returns the resolved absolute path on success.
func (r *Registry) Attach(ctx context.Context, alias, databaseName string) (string, error) {
	if !isAlphanumeric(alias) {
		return "", ErrInvalidAlias
	}

	path := filepath.Join(r.mgr.Dir(), databaseName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q in %s", ErrDatabaseNotFound, databaseName, r.mgr.Dir())
		}
		return "", fmt.Errorf("checking database file: %w", err)
	}

	err := r.mgr.WithConn(ctx, func(db *sql.DB) error {
		// Alias validated above; path bound as a literal.
		_, execErr := db.ExecContext(ctx, "ATTACH DATABASE ? AS "+alias, path)
		return execErr
	})
	if err != nil {
		return "", fmt.Errorf("attaching database: %w", err)
	}

	r.record(alias, path)
	return path, nil
}

// Create makes a new empty database file and registers it under an alias.
//
// Unlike Attach, the target must not already exist. The file is created
// by opening a connection against it (the engine creates missing files).
// No ATTACH is executed here; replay covers every later query.
//
// Returns the resolved absolute path on success.
func (r *Registry) Create(ctx context.Context, databaseName, alias string) (string, error) {
	if !isAlphanumeric(alias) {
		return "", ErrInvalidAlias
	}

	path := filepath.Join(r.mgr.Dir(), databaseName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %q in %s", ErrDatabaseExists, databaseName, r.mgr.Dir())
	}

	db, err := r.mgr.OpenAt(path)
	if err != nil {
		return "", fmt.Errorf("creating database: %w", err)
	}
	pingErr := db.PingContext(ctx)
	db.Close() //nolint:errcheck // Handle only existed to create the file
	if pingErr != nil {
		return "", fmt.Errorf("creating database: %w", pingErr)
	}

	r.record(alias, path)
	return path, nil
}

// Replay re-executes every registered ATTACH against the given
// connection, in insertion order. Called at the start of each query so
// alias.table references resolve on the fresh connection.
//
// ATTACH creates a missing file rather than failing, so a registered
// file deleted since the attach is silently recreated empty here; the
// staleness surfaces on the query itself, which no longer finds the
// alias's tables.
func (r *Registry) Replay(ctx context.Context, db *sql.DB) error {
	for _, att := range r.Snapshot() {
		if _, err := db.ExecContext(ctx, "ATTACH DATABASE ? AS "+att.Alias, att.Path); err != nil {
			return fmt.Errorf("attaching %s as %s: %w", att.Path, att.Alias, err)
		}
	}
	return nil
}

// Snapshot returns the registered attachments in insertion order.
func (r *Registry) Snapshot() []Attachment {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Attachment, 0, len(r.order))
	for _, alias := range r.order {
		out = append(out, Attachment{Alias: alias, Path: r.paths[alias]})
	}
	return out
}

// List renders the registry as text, one line per attachment, in
// insertion order.
func (r *Registry) List() string {
	var b strings.Builder
	b.WriteString("Attached databases:")
	for _, att := range r.Snapshot() {
		fmt.Fprintf(&b, "\n- %s: %s", att.Alias, att.Path)
	}
	return b.String()
}

// record stores the alias→path binding, preserving insertion order for
// aliases seen for the first time.
func (r *Registry) record(alias, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, seen := r.paths[alias]; !seen {
		r.order = append(r.order, alias)
	}
	r.paths[alias] = path
}

// isAlphanumeric reports whether s is non-empty and contains only
// letters and digits.
func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
