package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/result"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Table is the tabular rendering of a command's data.
type Table struct {
	Headers []string
	Rows    [][]string
}

type rowWriter interface {
	WriteHeader(headers ...string) error
	WriteRow(values ...string) error
	Flush() error
}

// Printer writes command output in one format.
type Printer struct {
	format string
	out    io.Writer
}

// NewPrinter creates a Printer. Unknown formats fall back to table.
func NewPrinter(format string, out io.Writer) *Printer {
	switch format {
	case FormatJSON, FormatCSV:
	default:
		format = FormatTable
	}
	return &Printer{format: format, out: out}
}

// Format returns the active output format.
func (p *Printer) Format() string {
	return p.format
}

// Print renders data. JSON output encodes data itself; table and CSV use table.
func (p *Printer) Print(command string, data interface{}, table Table) error {
	if p.format == FormatJSON {
		return NewJSONFormatter(p.out).WriteSuccess(command, data)
	}

	var w rowWriter
	if p.format == FormatCSV {
		w = NewCSVFormatter(p.out)
	} else {
		w = NewTableFormatter(p.out)
	}
	if err := w.WriteHeader(table.Headers...); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := w.WriteRow(row...); err != nil {
			return err
		}
	}
	return w.Flush()
}

// PrintCommandResult renders the outcome of a mutating command.
func (p *Printer) PrintCommandResult(command string, res result.CommandResult, successMessage string) error {
	switch p.format {
	case FormatJSON:
		j := NewJSONFormatter(p.out)
		if res.Succeeded {
			return j.WriteSuccess(command, res)
		}
		return j.WriteFailure(command, res.Errors)
	case FormatCSV:
		c := NewCSVFormatter(p.out)
		if err := c.WriteHeader("succeeded", "errors"); err != nil {
			return err
		}
		if err := c.WriteRow(fmt.Sprint(res.Succeeded), strings.Join(res.Errors, "; ")); err != nil {
			return err
		}
		return c.Flush()
	default:
		if res.Succeeded {
			_, err := fmt.Fprintf(p.out, "✓ %s\n", successMessage)
			return err
		}
		for _, e := range res.Errors {
			if _, err := fmt.Fprintf(p.out, "✗ %s\n", e); err != nil {
				return err
			}
		}
		return nil
	}
}
