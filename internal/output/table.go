// Package output renders command results as a table, JSON or CSV.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TableFormatter formats output as a human-readable table.
type TableFormatter struct {
	writer *tabwriter.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
	}
}

// WriteHeader writes table headers followed by a separator row.
func (t *TableFormatter) WriteHeader(headers ...string) error {
	if _, err := fmt.Fprintln(t.writer, strings.Join(headers, "\t")); err != nil {
		return err
	}
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	_, err := fmt.Fprintln(t.writer, strings.Join(sep, "\t"))
	return err
}

// WriteRow writes a table row.
func (t *TableFormatter) WriteRow(values ...string) error {
	_, err := fmt.Fprintln(t.writer, strings.Join(values, "\t"))
	return err
}

// Flush flushes the table output.
func (t *TableFormatter) Flush() error {
	return t.writer.Flush()
}
