// Package dataframe provides the tabular dataset abstraction that generated
// scripts run against. A Frame is an immutable-shape, in-memory table with
// named columns; cells are float64 for numeric data and string otherwise.
package dataframe

import (
	"fmt"
	"strings"
)

// Frame is a named table of rows and columns.
type Frame struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]any
}

// New builds a Frame from column names and row-major cells.
// Every row must have exactly one cell per column.
func New(name string, columns []string, rows [][]any) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; ok {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}
	return &Frame{name: name, columns: columns, index: index, rows: rows}, nil
}

// Name returns the frame's name (usually the source file base name).
func (f *Frame) Name() string { return f.name }

// NumRows returns the number of data rows.
func (f *Frame) NumRows() int { return len(f.rows) }

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int { return len(f.columns) }

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Column returns the values of the named column, top to bottom.
func (f *Frame) Column(name string) ([]any, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("no column %q in frame %q", name, f.name)
	}
	out := make([]any, len(f.rows))
	for r, row := range f.rows {
		out[r] = row[i]
	}
	return out, nil
}

// Row returns the cells of row i.
func (f *Frame) Row(i int) []any {
	out := make([]any, len(f.rows[i]))
	copy(out, f.rows[i])
	return out
}

// Records returns the rows as column-name keyed maps.
func (f *Frame) Records() []map[string]any {
	out := make([]map[string]any, len(f.rows))
	for r, row := range f.rows {
		rec := make(map[string]any, len(f.columns))
		for c, col := range f.columns {
			rec[col] = row[c]
		}
		out[r] = rec
	}
	return out
}

// Head returns a new Frame holding at most n leading rows.
// The cells are shared with the receiver, not copied.
func (f *Frame) Head(n int) *Frame {
	if n < 0 {
		n = 0
	}
	if n > len(f.rows) {
		n = len(f.rows)
	}
	return &Frame{name: f.name, columns: f.columns, index: f.index, rows: f.rows[:n]}
}

// String renders the frame as an aligned text table.
func (f *Frame) String() string {
	widths := make([]int, len(f.columns))
	for i, c := range f.columns {
		widths[i] = len(c)
	}
	cells := make([][]string, len(f.rows))
	for r, row := range f.rows {
		cells[r] = make([]string, len(row))
		for c, v := range row {
			s := formatCell(v)
			cells[r][c] = s
			if len(s) > widths[c] {
				widths[c] = len(s)
			}
		}
	}

	var b strings.Builder
	for i, c := range f.columns {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%-*s", widths[i], c)
	}
	b.WriteString("\n")
	for _, row := range cells {
		for i, s := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], s)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCell(v any) string {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
