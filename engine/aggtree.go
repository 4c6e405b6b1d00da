package engine

import (
	"strings"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// accumulator holds the running partial state for one aggregation column
// within one arena node. COUNT/SUM/AVG ignore nulls entirely; MIN/MAX
// track the running extreme seen so far under the default ordering.
type accumulator struct {
	op     column.AggOp
	count  int
	sum    float64
	extrem value.Value
	seen   bool
}

func newAccumulator(op column.AggOp) *accumulator { return &accumulator{op: op} }

func (a *accumulator) add(v value.Value) {
	if v.IsNull() {
		return
	}
	a.count++
	switch a.op {
	case column.Sum, column.Avg:
		a.sum += v.Num()
	case column.Min:
		if !a.seen || v.Compare(a.extrem) < 0 {
			a.extrem = v
		}
	case column.Max:
		if !a.seen || v.Compare(a.extrem) > 0 {
			a.extrem = v
		}
	}
	a.seen = true
}

func (a *accumulator) result(targetType value.Type) value.Value {
	switch a.op {
	case column.Count:
		return value.Num(float64(a.count))
	case column.Sum:
		if a.count == 0 {
			return value.NullOf(value.Number)
		}
		return value.Num(a.sum)
	case column.Avg:
		if a.count == 0 {
			return value.NullOf(value.Number)
		}
		return value.Num(a.sum / float64(a.count))
	case column.Min, column.Max:
		if !a.seen {
			return value.NullOf(targetType)
		}
		return a.extrem
	default:
		return value.NullOf(targetType)
	}
}

// AggNode is one arena slot: a distinct (group values, pivot values)
// combination, holding one accumulator per distinct aggregation column
// appearing in SELECT. The arena is addressed by a synthetic string key
// rather than a pointer tree — spec.md §9's design notes call for this
// representation over a literal nested tree, since group and pivot
// vectors are typically sparse relative to their cartesian product.
type AggNode struct {
	GroupValues []value.Value
	PivotValues []value.Value
	accs        map[string]*accumulator
}

// Result returns the accumulated value of agg within this node.
func (n *AggNode) Result(agg *column.Aggregation, targetType value.Type) value.Value {
	acc, ok := n.accs[agg.ID()]
	if !ok {
		return value.NullOf(targetType)
	}
	return acc.result(targetType)
}

// AggTree accumulates one AggNode per distinct group+pivot key observed
// while scanning the input table, in first-seen order.
type AggTree struct {
	groupCols []column.Column
	pivotCols []column.Column
	aggs      []*column.Aggregation

	index map[string]*AggNode
	order []string
}

// NewAggTree returns an empty tree keyed by groupCols and pivotCols,
// tracking one accumulator per aggregation in aggs (already deduplicated
// by ID).
func NewAggTree(groupCols, pivotCols []column.Column, aggs []*column.Aggregation) *AggTree {
	return &AggTree{
		groupCols: groupCols,
		pivotCols: pivotCols,
		aggs:      aggs,
		index:     make(map[string]*AggNode),
	}
}

// Add folds row into the tree: it evaluates the group and pivot key
// columns, locates or creates the matching node, and feeds every
// aggregation's target value into that node's accumulator.
func (t *AggTree) Add(row table.Row, lookup Lookup, catalog *scalarfunc.Catalog) error {
	groupVals, err := evalAll(t.groupCols, row, lookup, catalog)
	if err != nil {
		return err
	}
	pivotVals, err := evalAll(t.pivotCols, row, lookup, catalog)
	if err != nil {
		return err
	}
	key := vectorKey(groupVals, pivotVals)
	node, ok := t.index[key]
	if !ok {
		node = &AggNode{GroupValues: groupVals, PivotValues: pivotVals, accs: make(map[string]*accumulator, len(t.aggs))}
		for _, agg := range t.aggs {
			node.accs[agg.ID()] = newAccumulator(agg.Op)
		}
		t.index[key] = node
		t.order = append(t.order, key)
	}
	for _, agg := range t.aggs {
		v, err := EvaluateColumn(agg.Target, row, lookup, catalog)
		if err != nil {
			return err
		}
		node.accs[agg.ID()].add(v)
	}
	return nil
}

func evalAll(cols []column.Column, row table.Row, lookup Lookup, catalog *scalarfunc.Catalog) ([]value.Value, error) {
	out := make([]value.Value, len(cols))
	for i, c := range cols {
		v, err := EvaluateColumn(c, row, lookup, catalog)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EnsureNode returns the node for (group, pivot), creating an empty one
// (zero-initialized accumulators, no rows folded in) if none exists yet.
// Used to seed the single output row of a bare aggregation query over an
// empty input table.
func (t *AggTree) EnsureNode(group, pivot []value.Value) *AggNode {
	key := vectorKey(group, pivot)
	if n, ok := t.index[key]; ok {
		return n
	}
	n := &AggNode{GroupValues: group, PivotValues: pivot, accs: make(map[string]*accumulator, len(t.aggs))}
	for _, agg := range t.aggs {
		n.accs[agg.ID()] = newAccumulator(agg.Op)
	}
	t.index[key] = n
	t.order = append(t.order, key)
	return n
}

// Get returns the node for an exact (group, pivot) vector pair, if any
// row fed it.
func (t *AggTree) Get(group, pivot []value.Value) (*AggNode, bool) {
	n, ok := t.index[vectorKey(group, pivot)]
	return n, ok
}

// Nodes returns every node in first-seen order.
func (t *AggTree) Nodes() []*AggNode {
	out := make([]*AggNode, len(t.order))
	for i, k := range t.order {
		out[i] = t.index[k]
	}
	return out
}

func vectorKey(group, pivot []value.Value) string {
	var b strings.Builder
	for _, v := range group {
		b.WriteString(cellKey(v))
		b.WriteByte('\x1f')
	}
	b.WriteString("||")
	for _, v := range pivot {
		b.WriteByte('\x1f')
		b.WriteString(cellKey(v))
	}
	return b.String()
}

func cellKey(v value.Value) string {
	if v.IsNull() {
		return "\x00"
	}
	return v.Type().String() + ":" + v.ToString()
}
