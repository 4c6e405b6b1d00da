package engine

import (
	"sort"

	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// sortRows is stage 3: a stable multi-key sort over q.Sort, each key
// resolved against the staged table via lookup (which, post group+pivot,
// addresses columns by their generated or synthesized ids rather than
// the original table's column order).
func sortRows(q *qlang.Query, in *table.Table, lookup Lookup, catalog *scalarfunc.Catalog, cmp value.Comparator) (*table.Table, error) {
	if len(q.Sort) == 0 {
		return in, nil
	}
	out := in.Clone()
	var sortErr error
	sort.SliceStable(out.Rows, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		for _, s := range q.Sort {
			a, err := EvaluateColumn(s.Col, out.Rows[i], lookup, catalog)
			if err != nil {
				sortErr = err
				return false
			}
			b, err := EvaluateColumn(s.Col, out.Rows[j], lookup, catalog)
			if err != nil {
				sortErr = err
				return false
			}
			c := cmp(a, b)
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out, sortErr
}
