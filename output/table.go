package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/brinkdata/qengine/table"
)

// TableFormatter renders a result table as a bordered terminal table,
// the human-facing counterpart to CSVFormatter/JSONFormatter.
type TableFormatter struct {
	writer io.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

func (f *TableFormatter) Format(t *table.Table) error {
	tw := tablewriter.NewWriter(f.writer)

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = columnHeader(col)
	}
	tw.SetHeader(header)

	for _, row := range t.Rows {
		record := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			record[i] = cellText(cell)
		}
		tw.Append(record)
	}

	tw.Render()
	return nil
}
