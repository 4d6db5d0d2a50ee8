package output

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVFormatter formats output as CSV with a header row.
type CSVFormatter struct {
	writer *csv.Writer
}

// NewCSVFormatter creates a CSV formatter writing to w.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: csv.NewWriter(w)}
}

// WriteHeader writes CSV column headers.
func (c *CSVFormatter) WriteHeader(headers ...string) error {
	return c.writer.Write(headers)
}

// WriteRow writes a CSV data row.
func (c *CSVFormatter) WriteRow(values ...string) error {
	return c.writer.Write(values)
}

// Flush flushes the CSV writer.
func (c *CSVFormatter) Flush() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
