package engine

import (
	"fmt"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// rowCtx adapts one (Lookup, Row) pair to filter.RowContext, falling
// back to live scalar-function evaluation for columns the lookup cannot
// resolve directly. It is also used outside of WHERE evaluation — by
// every pipeline stage that needs a column's value for the row it is
// currently looking at.
type rowCtx struct {
	row     table.Row
	lookup  Lookup
	catalog *scalarfunc.Catalog
}

func (r rowCtx) ValueOf(c column.Column) (value.Value, error) {
	if idx := r.lookup.IndexOf(c); idx != -1 {
		if idx >= len(r.row.Cells) {
			return value.Value{}, fmt.Errorf("engine: column %q resolved to out-of-range position %d", c.ID(), idx)
		}
		return r.row.Cells[idx].Value, nil
	}
	fn, ok := c.(*column.ScalarFunction)
	if !ok {
		return value.Value{}, fmt.Errorf("engine: column %q is not materialized at this stage", c.ID())
	}
	args := make([]value.Value, len(fn.Args))
	for i, a := range fn.Args {
		v, err := r.ValueOf(a)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}
	impl := fn.Fn
	if impl == nil {
		f, ok := r.catalog.Get(fn.FuncName)
		if !ok {
			return value.Value{}, fmt.Errorf("engine: unknown scalar function %q", fn.FuncName)
		}
		impl = f
	}
	return impl.Evaluate(args)
}

// EvaluateColumn computes c's value for row under lookup, resolving any
// scalar function recursively against catalog.
func EvaluateColumn(c column.Column, row table.Row, lookup Lookup, catalog *scalarfunc.Catalog) (value.Value, error) {
	return rowCtx{row: row, lookup: lookup, catalog: catalog}.ValueOf(c)
}
