package output

import (
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// JSONFormatter writes a table as JSON Lines: one JSON object per row,
// keyed by column id, using segmentio/encoding/json for its faster
// encoder rather than the standard library's.
type JSONFormatter struct {
	writer io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

func (j *JSONFormatter) Format(t *table.Table) error {
	enc := json.NewEncoder(j.writer)
	for _, row := range t.Rows {
		obj := make(map[string]interface{}, len(t.Columns))
		for i, col := range t.Columns {
			obj[col.ID] = jsonCellValue(row.Cells[i])
		}
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}

func jsonCellValue(c table.Cell) interface{} {
	if c.Value.IsNull() {
		return nil
	}
	switch c.Value.Type() {
	case value.Boolean:
		return c.Value.Bool()
	case value.Number:
		return c.Value.Num()
	default:
		if c.Formatted != "" {
			return c.Formatted
		}
		return c.Value.ToString()
	}
}
