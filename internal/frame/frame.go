// Package frame materialises SQL result sets into an in-memory tabular
// structure, and renders or summarises them as text. It is the adapter's
// stand-in for a dataframe library: full materialisation, fixed-width
// rendering, and per-column descriptive statistics.
package frame

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Frame is a fully materialised result set. Cells hold driver-native
// values (int64, float64, string, bool, time.Time) with nil marking NULL.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// Scan drains rows into a Frame. The caller retains ownership of rows
// and must still close them.
func Scan(rows *sql.Rows) (*Frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading result columns: %w", err)
	}

	f := &Frame{Columns: cols}
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		for i, v := range cells {
			// BLOB/TEXT can arrive as []byte; normalise to string so
			// rendering and statistics see one text type.
			if b, ok := v.([]byte); ok {
				cells[i] = string(b)
			}
		}
		f.Rows = append(f.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating result rows: %w", err)
	}

	return f, nil
}

// Load materialises an entire table. The table name is quoted as an
// identifier before interpolation.
func Load(ctx context.Context, db *sql.DB, table string) (*Frame, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+QuoteIdent(table))
	if err != nil {
		return nil, fmt.Errorf("loading table: %w", err)
	}
	defer rows.Close()

	return Scan(rows)
}

// QuoteIdent returns s as a double-quoted SQL identifier with embedded
// quotes doubled.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// RowCount returns the number of rows in the frame.
func (f *Frame) RowCount() int {
	return len(f.Rows)
}

// Render returns the frame as a fixed-width text table: a header row
// followed by one line per row. Numeric columns are right-aligned, text
// left-aligned. NULL renders as the literal NULL.
func (f *Frame) Render() string {
	display := make([][]string, len(f.Rows))
	widths := make([]int, len(f.Columns))
	for i, col := range f.Columns {
		widths[i] = utf8.RuneCountInString(col)
	}
	for r, row := range f.Rows {
		display[r] = make([]string, len(f.Columns))
		for c, v := range row {
			s := renderCell(v)
			display[r][c] = s
			if n := utf8.RuneCountInString(s); n > widths[c] {
				widths[c] = n
			}
		}
	}

	numeric := make([]bool, len(f.Columns))
	for c := range f.Columns {
		numeric[c] = f.columnIsNumeric(c)
	}

	var b strings.Builder
	for c, col := range f.Columns {
		if c > 0 {
			b.WriteString("  ")
		}
		pad(&b, col, widths[c], numeric[c])
	}
	for _, row := range display {
		b.WriteByte('\n')
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			pad(&b, cell, widths[c], numeric[c])
		}
	}

	return b.String()
}

// pad writes s padded to width; right-aligned when rightAlign is set.
// Width is measured in runes so multibyte values stay aligned.
func pad(b *strings.Builder, s string, width int, rightAlign bool) {
	gap := width - utf8.RuneCountInString(s)
	if rightAlign {
		b.WriteString(strings.Repeat(" ", gap))
		b.WriteString(s)
		return
	}
	b.WriteString(s)
	b.WriteString(strings.Repeat(" ", gap))
}

// renderCell formats one cell value for display.
func renderCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return x.Format(time.RFC3339)
	case float64:
		return formatFloat(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// formatFloat formats a float without trailing noise for integral values.
func formatFloat(x float64) string {
	if x == float64(int64(x)) {
		return fmt.Sprintf("%d", int64(x))
	}
	return fmt.Sprintf("%g", x)
}

// columnIsNumeric reports whether every non-NULL cell in column c is an
// integer or float. Columns with no non-NULL values are not numeric.
func (f *Frame) columnIsNumeric(c int) bool {
	seen := false
	for _, row := range f.Rows {
		switch row[c].(type) {
		case nil:
		case int64, float64:
			seen = true
		default:
			return false
		}
	}
	return seen
}

// numericValues returns the non-NULL cells of column c as floats.
func (f *Frame) numericValues(c int) []float64 {
	var out []float64
	for _, row := range f.Rows {
		switch x := row[c].(type) {
		case int64:
			out = append(out, float64(x))
		case float64:
			out = append(out, x)
		}
	}
	return out
}

// nullCount returns the number of NULL cells in column c.
func (f *Frame) nullCount(c int) int {
	n := 0
	for _, row := range f.Rows {
		if row[c] == nil {
			n++
		}
	}
	return n
}
