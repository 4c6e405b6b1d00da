package filter

import (
	"fmt"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/qerr"
	"github.com/brinkdata/qengine/value"
)

// RowContext evaluates an abstract column against the row currently
// being filtered. The engine provides an implementation that combines a
// column lookup with the table's row storage and scalar-function
// catalog; filter itself has no notion of a table.
type RowContext interface {
	ValueOf(c column.Column) (value.Value, error)
}

// BoolOp is the combinator used by Compound.
type BoolOp int

const (
	And BoolOp = iota
	Or
)

func (op BoolOp) String() string {
	if op == And {
		return "AND"
	}
	return "OR"
}

// Filter is the common interface implemented by every filter AST node.
type Filter interface {
	// Matches reports whether the current row (as seen through ctx)
	// satisfies this filter, comparing values with cmp.
	Matches(ctx RowContext, cmp value.Comparator) (bool, error)

	// AllColumnIDs returns the set of column ids (as returned by
	// column.Column.ID) referenced anywhere in this filter.
	AllColumnIDs() map[string]bool

	// AllSimpleColumns returns every Simple column reachable from this
	// filter.
	AllSimpleColumns() []*column.Simple

	// AllAggregationColumns returns every Aggregation column reachable
	// from this filter.
	AllAggregationColumns() []*column.Aggregation

	// ToQueryString renders this filter as WHERE-clause text the
	// parser can round-trip.
	ToQueryString() string
}

// ColumnIsNull matches rows where col evaluates to null.
type ColumnIsNull struct {
	Col column.Column
}

func (f *ColumnIsNull) Matches(ctx RowContext, _ value.Comparator) (bool, error) {
	v, err := ctx.ValueOf(f.Col)
	if err != nil {
		return false, err
	}
	return v.IsNull(), nil
}

func (f *ColumnIsNull) AllColumnIDs() map[string]bool {
	return idSet(f.Col.ID())
}

func (f *ColumnIsNull) AllSimpleColumns() []*column.Simple { return f.Col.AllSimple() }

func (f *ColumnIsNull) AllAggregationColumns() []*column.Aggregation { return f.Col.AllAggregations() }

func (f *ColumnIsNull) ToQueryString() string {
	return fmt.Sprintf("`%s` IS NULL", f.Col.ID())
}

// ColumnValue matches rows where op(col_value, value) holds, or
// op(value, col_value) if Reversed.
type ColumnValue struct {
	Col      column.Column
	Val      value.Value
	Op       Operator
	Reversed bool
}

func (f *ColumnValue) Matches(ctx RowContext, cmp value.Comparator) (bool, error) {
	colVal, err := ctx.ValueOf(f.Col)
	if err != nil {
		return false, err
	}
	if f.Reversed {
		return Apply(f.Op, f.Val, colVal, cmp)
	}
	return Apply(f.Op, colVal, f.Val, cmp)
}

func (f *ColumnValue) AllColumnIDs() map[string]bool { return idSet(f.Col.ID()) }

func (f *ColumnValue) AllSimpleColumns() []*column.Simple { return f.Col.AllSimple() }

func (f *ColumnValue) AllAggregationColumns() []*column.Aggregation { return f.Col.AllAggregations() }

func (f *ColumnValue) ToQueryString() string {
	lit := "null"
	if !f.Val.IsNull() {
		lit = f.Val.ToQueryString()
	}
	if f.Reversed {
		return fmt.Sprintf("%s %s `%s`", lit, f.Op, f.Col.ID())
	}
	return fmt.Sprintf("`%s` %s %s", f.Col.ID(), f.Op, lit)
}

// ColumnColumn matches rows where op holds between two columns' values.
type ColumnColumn struct {
	Col1, Col2 column.Column
	Op         Operator
}

func (f *ColumnColumn) Matches(ctx RowContext, cmp value.Comparator) (bool, error) {
	a, err := ctx.ValueOf(f.Col1)
	if err != nil {
		return false, err
	}
	b, err := ctx.ValueOf(f.Col2)
	if err != nil {
		return false, err
	}
	return Apply(f.Op, a, b, cmp)
}

func (f *ColumnColumn) AllColumnIDs() map[string]bool {
	return idSet(f.Col1.ID(), f.Col2.ID())
}

func (f *ColumnColumn) AllSimpleColumns() []*column.Simple {
	return append(f.Col1.AllSimple(), f.Col2.AllSimple()...)
}

func (f *ColumnColumn) AllAggregationColumns() []*column.Aggregation {
	return append(f.Col1.AllAggregations(), f.Col2.AllAggregations()...)
}

func (f *ColumnColumn) ToQueryString() string {
	return fmt.Sprintf("`%s` %s `%s`", f.Col1.ID(), f.Op, f.Col2.ID())
}

// Negation is boolean NOT.
type Negation struct {
	Sub Filter
}

func (f *Negation) Matches(ctx RowContext, cmp value.Comparator) (bool, error) {
	m, err := f.Sub.Matches(ctx, cmp)
	if err != nil {
		return false, err
	}
	return !m, nil
}

func (f *Negation) AllColumnIDs() map[string]bool { return f.Sub.AllColumnIDs() }

func (f *Negation) AllSimpleColumns() []*column.Simple { return f.Sub.AllSimpleColumns() }

func (f *Negation) AllAggregationColumns() []*column.Aggregation { return f.Sub.AllAggregationColumns() }

func (f *Negation) ToQueryString() string { return fmt.Sprintf("NOT (%s)", f.Sub.ToQueryString()) }

// Compound combines one or more sub-filters with AND or OR. An empty
// Subs list is a programming error: the parser and splitter must never
// construct one.
type Compound struct {
	Op   BoolOp
	Subs []Filter
}

func (f *Compound) Matches(ctx RowContext, cmp value.Comparator) (bool, error) {
	if len(f.Subs) == 0 {
		panic(qerr.NewInternal("filter: Compound with no sub-filters"))
	}
	for _, sub := range f.Subs {
		m, err := sub.Matches(ctx, cmp)
		if err != nil {
			return false, err
		}
		if f.Op == And && !m {
			return false, nil
		}
		if f.Op == Or && m {
			return true, nil
		}
	}
	return f.Op == And, nil
}

func (f *Compound) AllColumnIDs() map[string]bool {
	out := map[string]bool{}
	for _, sub := range f.Subs {
		for id := range sub.AllColumnIDs() {
			out[id] = true
		}
	}
	return out
}

func (f *Compound) AllSimpleColumns() []*column.Simple {
	var out []*column.Simple
	for _, sub := range f.Subs {
		out = append(out, sub.AllSimpleColumns()...)
	}
	return out
}

func (f *Compound) AllAggregationColumns() []*column.Aggregation {
	var out []*column.Aggregation
	for _, sub := range f.Subs {
		out = append(out, sub.AllAggregationColumns()...)
	}
	return out
}

func (f *Compound) ToQueryString() string {
	if len(f.Subs) == 0 {
		panic(qerr.NewInternal("filter: Compound with no sub-filters"))
	}
	parts := make([]string, len(f.Subs))
	for i, sub := range f.Subs {
		parts[i] = fmt.Sprintf("(%s)", sub.ToQueryString())
	}
	sep := fmt.Sprintf(" %s ", f.Op)
	out := parts[0]
	for _, p := range parts[1:] {
		out += sep + p
	}
	return out
}

func idSet(ids ...string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
