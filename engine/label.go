package engine

import (
	"strings"

	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/table"
)

// applyLabels is stage 7. A LABEL directive is keyed by the id of the
// column as it appeared in SELECT; under PIVOT that column expands into
// one staged column per pivot vector, each carrying a composite id of
// "<pivot vector> <original id>", so the match falls back to a suffix
// test when an exact id match fails.
func applyLabels(q *qlang.Query, t *table.Table) *table.Table {
	if len(q.Labels) == 0 {
		return t
	}
	out := t.Clone()
	for i, col := range out.Columns {
		if lbl, ok := q.Labels[col.ID]; ok {
			out.Columns[i].Label = lbl
			continue
		}
		for origID, lbl := range q.Labels {
			if strings.HasSuffix(col.ID, " "+origID) {
				out.Columns[i].Label = lbl
				break
			}
		}
	}
	return out
}
