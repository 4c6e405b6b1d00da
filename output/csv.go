// Package output implements the table renderers cmd/qcat writes an
// executed query's result table through: CSV, JSON Lines, and a
// pretty terminal table.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/brinkdata/qengine/table"
)

// Formatter renders a result table to a writer.
type Formatter interface {
	Format(t *table.Table) error
}

// CSVFormatter writes a table as CSV: header row of column labels (or
// ids where no label was set), one row per table row, cells rendered
// through their already-computed Formatted text.
type CSVFormatter struct {
	writer io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

func (c *CSVFormatter) Format(t *table.Table) error {
	w := csv.NewWriter(c.writer)

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = columnHeader(col)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range t.Rows {
		record := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			record[i] = sanitizeCSVCell(cellText(cell))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("output: flush CSV writer: %w", err)
	}
	return nil
}

func columnHeader(col table.ColumnDescription) string {
	if col.Label != "" {
		return col.Label
	}
	return col.ID
}

func cellText(c table.Cell) string {
	if c.Formatted != "" {
		return c.Formatted
	}
	return c.Value.ToString()
}

// sanitizeCSVCell guards against CSV injection in spreadsheet
// applications by prefixing a cell that opens with a formula trigger
// character with a quote, the way a spreadsheet import would escape
// it on the way back out.
func sanitizeCSVCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		return "'" + strings.ReplaceAll(s, "'", "''")
	default:
		return s
	}
}
