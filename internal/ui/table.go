package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table renders rows in aligned columns.
type Table struct {
	w    *tabwriter.Writer
	cols int
	rows int
}

// NewTable creates a table with the given column headers.
func NewTable(out io.Writer, headers ...string) *Table {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return &Table{w: tw, cols: len(headers)}
}

// Row appends a row. Missing trailing cells are left empty and extra values
// are dropped so every row has as many cells as there are headers.
func (t *Table) Row(values ...any) {
	cells := make([]string, t.cols)
	for i := 0; i < t.cols && i < len(values); i++ {
		cells[i] = fmt.Sprint(values[i])
	}
	_, _ = fmt.Fprintln(t.w, strings.Join(cells, "\t"))
	t.rows++
}

// Len returns the number of rows written, header excluded.
func (t *Table) Len() int { return t.rows }

// Flush writes the buffered output.
func (t *Table) Flush() error {
	return t.w.Flush()
}
