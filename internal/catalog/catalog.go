// Package catalog reads table metadata from the SQLite catalog
// (sqlite_master and the table_info pragma).
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/sqlite-explorer/internal/infrastructure/database"
)

// ErrTableNotFound is returned when a named table does not exist in the
// primary database.
var ErrTableNotFound = errors.New("table not found")

// Column describes one column of a table, in definition order.
type Column struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NotNull bool   `json:"notnull"`
	PK      bool   `json:"pk"`
}

// Reader retrieves catalog metadata through the connection manager.
// Nothing is cached; every call reads the live catalog.
type Reader struct {
	mgr *database.Manager
}

// NewReader creates a catalog reader over the given connection manager.
func NewReader(mgr *database.Manager) *Reader {
	return &Reader{mgr: mgr}
}

// Tables returns every user-defined table name, in catalog order.
// The order is whatever sqlite_master yields, not alphabetical.
func (r *Reader) Tables(ctx context.Context) ([]string, error) {
	var tables []string

	err := r.mgr.WithConn(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table'")
		if err != nil {
			return fmt.Errorf("querying sqlite_master: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return fmt.Errorf("scanning table name: %w", err)
			}
			tables = append(tables, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return tables, nil
}

// Schema returns the original CREATE statement for one table.
//
// Returns ErrTableNotFound (wrapped) when the table does not exist.
func (r *Reader) Schema(ctx context.Context, table string) (string, error) {
	var schema string

	err := r.mgr.WithConn(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx,
			"SELECT sql FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&schema)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("table %s: %w", table, ErrTableNotFound)
		}
		if err != nil {
			return fmt.Errorf("querying schema: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return schema, nil
}

// TableInfo returns per-column metadata for one table, in column
// definition order.
//
// Returns ErrTableNotFound (wrapped) when the table does not exist —
// the table_info pragma reports an unknown table as zero rows rather
// than an error.
func (r *Reader) TableInfo(ctx context.Context, table string) ([]Column, error) {
	var columns []Column

	err := r.mgr.WithConn(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, "SELECT name, type, \"notnull\", pk FROM pragma_table_info(?)", table)
		if err != nil {
			return fmt.Errorf("querying table info: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var col Column
			var notNull, pk int
			if err := rows.Scan(&col.Name, &col.Type, &notNull, &pk); err != nil {
				return fmt.Errorf("scanning column info: %w", err)
			}
			col.NotNull = notNull != 0
			col.PK = pk != 0
			columns = append(columns, col)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, ErrTableNotFound)
	}

	return columns, nil
}

// Describe returns the combined human-readable schema view: the CREATE
// statement followed by a bullet list of columns with NOT NULL and
// PRIMARY KEY annotations.
//
// Any failure is rendered into the returned text rather than propagated;
// callers always get a displayable string.
func (r *Reader) Describe(ctx context.Context, table string) string {
	schema, err := r.Schema(ctx, table)
	if err != nil {
		return fmt.Sprintf("Error retrieving schema: %v", err)
	}
	columns, err := r.TableInfo(ctx, table)
	if err != nil {
		return fmt.Sprintf("Error retrieving schema: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Table: %s\n", table)
	b.WriteString("\nCreate Statement:\n")
	b.WriteString(schema)
	b.WriteString("\n\nColumns:")
	for _, col := range columns {
		fmt.Fprintf(&b, "\n- %s (%s)", col.Name, col.Type)
		if col.NotNull {
			b.WriteString(" NOT NULL")
		}
		if col.PK {
			b.WriteString(" PRIMARY KEY")
		}
	}

	return b.String()
}
