package engine

import (
	"github.com/brinkdata/qengine/filter"
	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// applyFilter is stage 1: it keeps only the rows of in for which f
// matches, evaluated under cmp. A nil filter keeps every row.
func applyFilter(in *table.Table, f filter.Filter, catalog *scalarfunc.Catalog, cmp value.Comparator) (*table.Table, error) {
	if f == nil {
		return in, nil
	}
	out := in.Clone()
	out.Rows = out.Rows[:0]
	lookup := IdentityLookup{Table: in}
	for _, row := range in.Rows {
		ctx := rowCtx{row: row, lookup: lookup, catalog: catalog}
		ok, err := f.Matches(ctx, cmp)
		if err != nil {
			return nil, err
		}
		if ok {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}
