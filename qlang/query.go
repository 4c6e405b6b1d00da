// Package qlang implements the Query object: the clauses a parsed query
// carries, and the validator enforcing the cross-clause invariants of
// spec.md §4.5 before a query may be executed.
package qlang

import (
	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/filter"
)

// SortItem is one ORDER BY entry.
type SortItem struct {
	Col  column.Column
	Desc bool
}

// Options carries the two boolean query options.
type Options struct {
	NoValues bool
	NoFormat bool
}

// Query holds every clause of a parsed query. A Query is constructed by
// the external parser or by splitter.Split, validated exactly once via
// Validate, then executed; mutating a Query after validation is not
// supported.
type Query struct {
	Selection []column.Column
	Filter    filter.Filter
	Group     []column.Column
	Pivot     []column.Column
	Sort      []SortItem
	Skip      int
	Limit     int // -1 means unlimited
	Offset    int
	Labels    map[string]string // column id -> label
	Formats   map[string]string // column id -> pattern
	Options   Options
}

// New returns an empty Query with Limit defaulted to -1 (unlimited), the
// only field whose zero value would otherwise be observably wrong.
func New() *Query {
	return &Query{Limit: -1, Labels: map[string]string{}, Formats: map[string]string{}}
}

// HasAggregation reports whether any selected column is, or contains, an
// aggregation.
func (q *Query) HasAggregation() bool {
	for _, c := range q.Selection {
		if column.ContainsAggregation(c) {
			return true
		}
	}
	return false
}

// Equal reports structural equality between q and other, per spec.md
// §3's "equality and hashing are structural" contract. Clause order
// within the Query struct is fixed (there is exactly one Selection,
// one Filter, etc.); only the order of items *within* a clause like
// Selection or Sort is significant, matching the round-trip testable
// property.
func (q *Query) Equal(other *Query) bool {
	if other == nil {
		return false
	}
	if !columnsEqual(q.Selection, other.Selection) {
		return false
	}
	if !filtersEqual(q.Filter, other.Filter) {
		return false
	}
	if !columnsEqual(q.Group, other.Group) {
		return false
	}
	if !columnsEqual(q.Pivot, other.Pivot) {
		return false
	}
	if len(q.Sort) != len(other.Sort) {
		return false
	}
	for i, s := range q.Sort {
		if s.Desc != other.Sort[i].Desc || !s.Col.Equal(other.Sort[i].Col) {
			return false
		}
	}
	if q.Skip != other.Skip || q.Limit != other.Limit || q.Offset != other.Offset {
		return false
	}
	if !stringMapEqual(q.Labels, other.Labels) || !stringMapEqual(q.Formats, other.Formats) {
		return false
	}
	return q.Options == other.Options
}

func columnsEqual(a, b []column.Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func filtersEqual(a, b filter.Filter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ToQueryString() == b.ToQueryString()
}

func stringMapEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
