package engine

import (
	"strings"

	"github.com/brinkdata/qengine/format"
	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/table"
)

// applyFormats is stage 8, the pipeline's last: it compiles every FORMAT
// pattern once per matching column and renders each of that column's
// cells into Cell.Formatted. A pattern that fails to compile for its
// column's type is dropped and recorded as a table warning rather than
// failing the whole query — matching q.Options.NoFormat's sibling
// behavior of degrading gracefully rather than erroring.
//
// If q.Options.NoFormat is set, every cell still gets its default
// (pattern-less) rendering, since table output always carries formatted
// text; only pattern-driven formatting is skipped.
func applyFormats(q *qlang.Query, t *table.Table) *table.Table {
	out := t.Clone()
	formatters := make([]format.Formatter, len(out.Columns))
	for i, col := range out.Columns {
		pattern := patternFor(q, col.ID)
		if pattern == "" || q.Options.NoFormat {
			formatters[i] = nil
			continue
		}
		f, err := format.Compile(pattern, col.Type)
		if err != nil {
			out.AddWarning(table.IllegalFormattingPatterns, err.Error())
			formatters[i] = nil
			continue
		}
		out.Columns[i].Pattern = pattern
		formatters[i] = f
	}
	for r, row := range out.Rows {
		for i, cell := range row.Cells {
			if formatters[i] != nil {
				cell.Formatted = formatters[i].Format(cell.Value)
			} else {
				cell.Formatted = cell.Value.ToString()
			}
			out.Rows[r].Cells[i] = cell
		}
	}
	return out
}

func patternFor(q *qlang.Query, colID string) string {
	if p, ok := q.Formats[colID]; ok {
		return p
	}
	for origID, p := range q.Formats {
		if strings.HasSuffix(colID, " "+origID) {
			return p
		}
	}
	return ""
}
