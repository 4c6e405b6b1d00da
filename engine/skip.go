package engine

import (
	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/table"
)

// skipRows is stage 4: drops the first q.Skip rows (OFFSET-before-OPTIONS
// SKIP clause, distinct from the pagination OFFSET applied in stage 5).
func skipRows(q *qlang.Query, in *table.Table) *table.Table {
	if q.Skip <= 0 || q.Skip >= len(in.Rows) {
		if q.Skip >= len(in.Rows) {
			out := in.Clone()
			out.Rows = out.Rows[:0]
			return out
		}
		return in
	}
	out := in.Clone()
	out.Rows = out.Rows[q.Skip:]
	return out
}

// paginate is stage 5: applies OFFSET then LIMIT (Limit == -1 means
// unlimited). OFFSET is applied first regardless of which clause parsed
// first, matching the source's fixed OFFSET-then-LIMIT application
// order.
func paginate(q *qlang.Query, in *table.Table) *table.Table {
	out := in.Clone()
	if q.Offset > 0 {
		if q.Offset >= len(out.Rows) {
			out.Rows = out.Rows[:0]
		} else {
			out.Rows = out.Rows[q.Offset:]
		}
	}
	if q.Limit >= 0 && q.Limit < len(out.Rows) {
		if len(out.Rows) > q.Limit {
			out.AddWarning(table.DataTruncated, "result truncated to LIMIT")
		}
		out.Rows = out.Rows[:q.Limit]
	}
	return out
}
