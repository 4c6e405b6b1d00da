// Package splitter implements the query splitter of spec.md §4.7: given
// a query and a backend's declared capability tier, it partitions the
// query into a data-source part (pushed down, possibly nil when nothing
// can be pushed down) and a completion part (always returned, run by the
// engine over whatever the data source produced). Composing the two —
// data source first, then the engine over its output — is required to
// be observably equivalent to running the original query directly.
package splitter

import (
	"fmt"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/qlang"
)

// Capability is one of the five tiers a backend can advertise.
type Capability int

const (
	All Capability = iota
	None
	Select
	SortAndPagination
	SQL
)

func (c Capability) String() string {
	switch c {
	case All:
		return "ALL"
	case None:
		return "NONE"
	case Select:
		return "SELECT"
	case SortAndPagination:
		return "SORT_AND_PAGINATION"
	case SQL:
		return "SQL"
	default:
		return "UNKNOWN"
	}
}

// Split partitions q according to cap. The returned data-source query is
// nil when nothing can be pushed down; the completion query is never
// nil.
func Split(q *qlang.Query, cap Capability) (dataSource, completion *qlang.Query, err error) {
	switch cap {
	case All:
		return q, qlang.New(), nil
	case None:
		return nil, q, nil
	case Select:
		return splitSelect(q)
	case SortAndPagination:
		return splitSortAndPagination(q)
	case SQL:
		return splitSQL(q)
	default:
		return nil, nil, fmt.Errorf("splitter: unsupported capability %v", cap)
	}
}

func splitSelect(q *qlang.Query) (*qlang.Query, *qlang.Query, error) {
	ds := qlang.New()
	seen := map[string]bool{}
	for _, s := range allSimpleColumns(q) {
		if seen[s.ColID] {
			continue
		}
		seen[s.ColID] = true
		ds.Selection = append(ds.Selection, &column.Simple{ColID: s.ColID})
	}
	return ds, q, nil
}

func splitSortAndPagination(q *qlang.Query) (*qlang.Query, *qlang.Query, error) {
	if hasScalarFunctions(q) {
		return Split(q, None)
	}
	if q.Filter != nil || len(q.Group) > 0 || len(q.Pivot) > 0 {
		return nil, q, nil
	}

	ds := qlang.New()
	ds.Sort = q.Sort

	completion := qlang.New()
	completion.Selection = q.Selection
	completion.Options = q.Options
	completion.Labels = q.Labels
	completion.Formats = q.Formats

	if q.Skip > 0 {
		completion.Skip = q.Skip
		completion.Limit = q.Limit
		completion.Offset = q.Offset
	} else {
		ds.Limit = q.Limit
		ds.Offset = q.Offset
	}
	return ds, completion, nil
}

func splitSQL(q *qlang.Query) (*qlang.Query, *qlang.Query, error) {
	if hasScalarFunctions(q) {
		return Split(q, None)
	}
	if len(q.Pivot) > 0 && labelsOrFormatsOnAggregation(q) {
		return Split(q, None)
	}
	if len(q.Pivot) > 0 {
		return splitSQLPivot(q)
	}

	ds := qlang.New()
	ds.Selection = q.Selection
	ds.Filter = q.Filter
	ds.Group = q.Group
	ds.Sort = q.Sort

	completion := qlang.New()
	completion.Options = q.Options
	completion.Labels = q.Labels
	completion.Formats = q.Formats

	if q.Skip > 0 {
		completion.Skip = q.Skip
		completion.Limit = q.Limit
		completion.Offset = q.Offset
	} else {
		ds.Limit = q.Limit
		ds.Offset = q.Offset
	}
	return ds, completion, nil
}

// splitSQLPivot implements the SQL+pivot transform: the data source
// groups by G++P and selects G, every distinct aggregation, then P; the
// completion re-groups by G, re-pivots by P, and collapses each
// now-single-row (G,P) group back to its value via MIN, which is a
// no-op over a singleton group but keeps the completion query's shape
// an ordinary aggregation the engine already knows how to run.
func splitSQLPivot(q *qlang.Query) (*qlang.Query, *qlang.Query, error) {
	aggs := distinctAggregations(q.Selection)

	ds := qlang.New()
	ds.Filter = q.Filter
	ds.Group = append(append([]column.Column{}, q.Group...), q.Pivot...)
	ds.Selection = append([]column.Column{}, q.Group...)
	for _, agg := range aggs {
		ds.Selection = append(ds.Selection, agg)
	}
	ds.Selection = append(ds.Selection, q.Pivot...)

	completion := qlang.New()
	completion.Group = q.Group
	completion.Pivot = q.Pivot
	completion.Sort = q.Sort
	completion.Options = q.Options
	completion.Labels = q.Labels
	completion.Formats = q.Formats
	completion.Skip = q.Skip
	completion.Limit = q.Limit
	completion.Offset = q.Offset
	for _, c := range q.Selection {
		completion.Selection = append(completion.Selection, minify(c))
	}
	return ds, completion, nil
}

// minify rewrites every Aggregation reachable in c into a MIN over a
// Simple column named by that aggregation's id, matching the column the
// data-source query (above) materializes it under.
func minify(c column.Column) column.Column {
	switch t := c.(type) {
	case *column.Aggregation:
		return column.NewAggregation(&column.Simple{ColID: t.ID()}, column.Min)
	case *column.ScalarFunction:
		if t.Fn != nil || len(t.Args) == 0 {
			return t
		}
		args := make([]column.Column, len(t.Args))
		for i, a := range t.Args {
			args[i] = minify(a)
		}
		return column.NewScalarFunction(t.FuncName, args)
	default:
		return c
	}
}

func hasScalarFunctions(q *qlang.Query) bool {
	for _, c := range q.Selection {
		if len(c.AllScalarFunctions()) > 0 {
			return true
		}
	}
	for _, c := range q.Group {
		if len(c.AllScalarFunctions()) > 0 {
			return true
		}
	}
	for _, c := range q.Pivot {
		if len(c.AllScalarFunctions()) > 0 {
			return true
		}
	}
	for _, s := range q.Sort {
		if len(s.Col.AllScalarFunctions()) > 0 {
			return true
		}
	}
	return false
}

func labelsOrFormatsOnAggregation(q *qlang.Query) bool {
	aggIDs := map[string]bool{}
	for _, c := range q.Selection {
		if column.ContainsAggregation(c) {
			aggIDs[c.ID()] = true
		}
	}
	for id := range q.Labels {
		if aggIDs[id] {
			return true
		}
	}
	for id := range q.Formats {
		if aggIDs[id] {
			return true
		}
	}
	return false
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

func allSimpleColumns(q *qlang.Query) []*column.Simple {
	var out []*column.Simple
	for _, c := range q.Selection {
		out = append(out, c.AllSimple()...)
	}
	for _, c := range q.Group {
		out = append(out, c.AllSimple()...)
	}
	for _, c := range q.Pivot {
		out = append(out, c.AllSimple()...)
	}
	for _, s := range q.Sort {
		out = append(out, s.Col.AllSimple()...)
	}
	if q.Filter != nil {
		out = append(out, q.Filter.AllSimpleColumns()...)
	}
	return out
}
