// Package query executes caller-supplied SQL against the primary
// database: read statements return rendered result tables, write
// statements return affected-row counts.
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/sqlite-explorer/internal/attach"
	"github.com/nerrad567/sqlite-explorer/internal/frame"
	"github.com/nerrad567/sqlite-explorer/internal/infrastructure/database"
)

// NoResultsMessage is returned for read queries whose result set is
// empty, instead of rendering a headers-only table.
const NoResultsMessage = "Query executed successfully but returned no results."

// ErrStatementNotAllowed is returned by Update for statements that do
// not contain an UPDATE, INSERT, or DELETE keyword. The statement never
// reaches the engine.
var ErrStatementNotAllowed = errors.New("only UPDATE, INSERT, and DELETE statements are allowed")

// mutationKeywords gates the restricted Update path. Matching is a
// case-insensitive substring check, not a parse: a keyword inside a
// string literal or comment passes. This mirrors the behaviour existing
// clients depend on; see DESIGN.md before tightening it.
var mutationKeywords = []string{"UPDATE", "INSERT", "DELETE"}

// Executor runs SQL on per-operation connections, replaying registered
// attachments first so alias.table references resolve.
type Executor struct {
	mgr *database.Manager
	reg *attach.Registry
}

// NewExecutor creates an executor over the connection manager and
// attachment registry.
func NewExecutor(mgr *database.Manager, reg *attach.Registry) *Executor {
	return &Executor{mgr: mgr, reg: reg}
}

// Query executes an arbitrary SQL statement and returns a text result.
//
// Statements beginning with SELECT (case-insensitive) are materialised
// in full and rendered as a fixed-width table; an empty result set
// yields NoResultsMessage. Anything else is executed directly and
// reported as an affected-row count.
func (e *Executor) Query(ctx context.Context, sqlText string) (string, error) {
	var out string

	err := e.mgr.WithConn(ctx, func(db *sql.DB) error {
		if err := e.reg.Replay(ctx, db); err != nil {
			return err
		}

		if isSelect(sqlText) {
			rows, err := db.QueryContext(ctx, sqlText)
			if err != nil {
				return fmt.Errorf("executing query: %w", err)
			}
			defer rows.Close()

			f, err := frame.Scan(rows)
			if err != nil {
				return err
			}
			if f.RowCount() == 0 {
				out = NoResultsMessage
				return nil
			}
			out = f.Render()
			return nil
		}

		result, err := db.ExecContext(ctx, sqlText)
		if err != nil {
			return fmt.Errorf("executing statement: %w", err)
		}
		out = affectedMessage(result)
		return nil
	})
	if err != nil {
		return "", err
	}

	return out, nil
}

// Update executes a mutation on the named table's database.
//
// The statement must contain UPDATE, INSERT, or DELETE; anything else is
// rejected with ErrStatementNotAllowed before touching the engine. The
// table argument is advisory only — the statement itself names its
// target — and is kept for interface compatibility.
func (e *Executor) Update(ctx context.Context, _ string, sqlText string) (int64, error) {
	if !containsMutationKeyword(sqlText) {
		return 0, ErrStatementNotAllowed
	}

	var affected int64
	err := e.mgr.WithConn(ctx, func(db *sql.DB) error {
		if err := e.reg.Replay(ctx, db); err != nil {
			return err
		}

		result, err := db.ExecContext(ctx, sqlText)
		if err != nil {
			return fmt.Errorf("executing statement: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil {
			affected = n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

// isSelect reports whether the trimmed statement begins with the SELECT
// keyword, case-insensitively.
func isSelect(sqlText string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sqlText)), "SELECT")
}

// containsMutationKeyword reports whether the statement contains any of
// the allowed mutation keywords anywhere in its text.
func containsMutationKeyword(sqlText string) bool {
	upper := strings.ToUpper(sqlText)
	for _, kw := range mutationKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// affectedMessage formats the write-path result text. Drivers that do
// not report a row count get the generic success message.
func affectedMessage(result sql.Result) string {
	n, err := result.RowsAffected()
	if err != nil {
		return "Query executed successfully. No rows affected."
	}
	return fmt.Sprintf("Query executed successfully. Rows affected: %d", n)
}
