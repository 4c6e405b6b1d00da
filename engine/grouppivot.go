package engine

import (
	"sort"
	"strings"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// groupAndPivot is stage 2. When q has no aggregation in SELECT it is a
// no-op. Otherwise it folds every row of in through an AggTree keyed by
// q.Group and q.Pivot, then reshapes the result into a new staging
// table: one row per distinct group vector (sorted ascending), one
// column per group column plus, for every (pivot vector, aggregation)
// pair, a synthesized column holding that aggregation's value for that
// pivot slice.
//
// A bare aggregation query (no GROUP BY, no PIVOT) always produces
// exactly one output row, even over zero input rows — COUNT(x) of an
// empty table is 0, not an absent row.
func groupAndPivot(q *qlang.Query, in *table.Table, catalog *scalarfunc.Catalog) (*table.Table, error) {
	if !q.HasAggregation() {
		return in, nil
	}

	aggs := distinctAggregations(q.Selection)
	tree := NewAggTree(q.Group, q.Pivot, aggs)
	lookup := IdentityLookup{Table: in}
	for _, row := range in.Rows {
		if err := tree.Add(row, lookup, catalog); err != nil {
			return nil, err
		}
	}
	if len(q.Group) == 0 && len(q.Pivot) == 0 && len(tree.Nodes()) == 0 {
		tree.EnsureNode(nil, nil)
	}

	groupVectors := distinctGroupVectors(tree)
	pivotVectors := distinctPivotVectors(tree)

	cols := make([]table.ColumnDescription, 0, len(q.Group)+len(aggs)*max(1, len(pivotVectors)))
	for _, g := range q.Group {
		typ, err := column.ValueType(g, in, catalog)
		if err != nil {
			return nil, err
		}
		cols = append(cols, table.ColumnDescription{ID: g.ID(), Type: typ, Label: column.Label(g)})
	}
	targetTypes := make(map[string]value.Type, len(aggs))
	for _, agg := range aggs {
		typ, err := column.ValueType(agg, in, catalog)
		if err != nil {
			return nil, err
		}
		targetTypes[agg.ID()] = typ
	}
	if len(pivotVectors) == 0 {
		for _, agg := range aggs {
			cols = append(cols, table.ColumnDescription{ID: agg.ID(), Type: targetTypes[agg.ID()], Label: column.Label(agg)})
		}
	} else {
		for _, pv := range pivotVectors {
			for _, agg := range aggs {
				id := pivotColumnID(pv, agg.ID())
				cols = append(cols, table.ColumnDescription{ID: id, Type: targetTypes[agg.ID()], Label: id})
			}
		}
	}

	out, err := table.New(cols, in.Locale)
	if err != nil {
		return nil, err
	}
	for _, gv := range groupVectors {
		values := append([]value.Value{}, gv...)
		if len(pivotVectors) == 0 {
			node, _ := tree.Get(gv, nil)
			for _, agg := range aggs {
				values = append(values, resultOf(node, agg, targetTypes[agg.ID()]))
			}
		} else {
			for _, pv := range pivotVectors {
				node, _ := tree.Get(gv, pv)
				for _, agg := range aggs {
					values = append(values, resultOf(node, agg, targetTypes[agg.ID()]))
				}
			}
		}
		// A staged row that fails the table's type check is dropped
		// rather than failing the query.
		if err := out.AddRow(values); err != nil {
			continue
		}
	}
	return out, nil
}

func resultOf(node *AggNode, agg *column.Aggregation, targetType value.Type) value.Value {
	if node == nil {
		return newAccumulator(agg.Op).result(targetType)
	}
	return node.Result(agg, targetType)
}

func distinctAggregations(selection []column.Column) []*column.Aggregation {
	seen := map[string]bool{}
	var out []*column.Aggregation
	for _, c := range selection {
		for _, agg := range c.AllAggregations() {
			if !seen[agg.ID()] {
				seen[agg.ID()] = true
				out = append(out, agg)
			}
		}
	}
	return out
}

func distinctGroupVectors(tree *AggTree) [][]value.Value {
	seen := map[string][]value.Value{}
	var order []string
	for _, n := range tree.Nodes() {
		k := vectorKey(n.GroupValues, nil)
		if _, ok := seen[k]; !ok {
			seen[k] = n.GroupValues
			order = append(order, k)
		}
	}
	out := make([][]value.Value, len(order))
	for i, k := range order {
		out[i] = seen[k]
	}
	sort.Slice(out, func(i, j int) bool { return compareVectors(out[i], out[j]) < 0 })
	return out
}

func distinctPivotVectors(tree *AggTree) [][]value.Value {
	if len(tree.pivotCols) == 0 {
		return nil
	}
	seen := map[string][]value.Value{}
	var order []string
	for _, n := range tree.Nodes() {
		k := vectorKey(nil, n.PivotValues)
		if _, ok := seen[k]; !ok {
			seen[k] = n.PivotValues
			order = append(order, k)
		}
	}
	out := make([][]value.Value, len(order))
	for i, k := range order {
		out[i] = seen[k]
	}
	sort.Slice(out, func(i, j int) bool { return compareVectors(out[i], out[j]) < 0 })
	return out
}

func compareVectors(a, b []value.Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func pivotColumnID(pivotVals []value.Value, aggID string) string {
	parts := make([]string, len(pivotVals))
	for i, v := range pivotVals {
		if v.IsNull() {
			parts[i] = "null"
		} else {
			parts[i] = v.ToQueryString()
		}
	}
	return strings.Join(parts, ",") + " " + aggID
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
