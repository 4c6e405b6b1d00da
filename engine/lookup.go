// Package engine implements the execution pipeline: filter, group+pivot
// (via an aggregation tree), sort, skip, paginate, select, label and
// format, applied in that fixed order to a table under a validated
// query.
package engine

import (
	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/table"
)

// Lookup maps an abstract column to its current positional index within
// a row at some point in the pipeline. IndexOf returns -1 when the
// column is not directly materialized at that position — the caller
// (rowCtx) then falls back to evaluating it (e.g. a scalar function
// over already-materialized columns).
type Lookup interface {
	IndexOf(c column.Column) int
}

// IdentityLookup resolves Simple columns directly against a raw table's
// column order; it never resolves Aggregation or ScalarFunction columns,
// since those have no position before group+pivot or select runs.
type IdentityLookup struct {
	Table *table.Table
}

func (l IdentityLookup) IndexOf(c column.Column) int {
	s, ok := c.(*column.Simple)
	if !ok {
		return -1
	}
	return l.Table.ColumnIndex(s.ColID)
}

// GenericLookup is an explicit id→position dictionary, populated by the
// engine after group+pivot or select reshapes a table, so that the same
// abstract column can be addressed at a later pipeline stage by its
// generated id.
type GenericLookup struct {
	positions map[string]int
}

// NewGenericLookup returns an empty GenericLookup.
func NewGenericLookup() *GenericLookup {
	return &GenericLookup{positions: make(map[string]int)}
}

// Set records that c is materialized at position idx.
func (l *GenericLookup) Set(c column.Column, idx int) { l.positions[c.ID()] = idx }

// SetID records a materialized position under an explicit id string,
// for synthesized pivot columns whose id differs from any single
// abstract column's own ID() (e.g. "x,y sum-v").
func (l *GenericLookup) SetID(id string, idx int) { l.positions[id] = idx }

func (l *GenericLookup) IndexOf(c column.Column) int {
	if idx, ok := l.positions[c.ID()]; ok {
		return idx
	}
	return -1
}

// IndexOfID looks up a position by an explicit id string.
func (l *GenericLookup) IndexOfID(id string) (int, bool) {
	idx, ok := l.positions[id]
	return idx, ok
}

// PivotKey is a comparable representation of a pivot vector (ordered
// tuple of values from the pivot columns of a row), used as a map key
// in PivotedLookupMap.
type PivotKey string

// PivotedLookupMap associates each observed pivot-value vector with its
// own GenericLookup scoped to that pivot column, so the select stage can
// find e.g. sum(sales) within a specific pivot column.
type PivotedLookupMap struct {
	byVector map[PivotKey]*GenericLookup
	order    []PivotKey
	vectors  map[PivotKey][]string // original ToQueryString() parts, for iteration order
}

// NewPivotedLookupMap returns an empty PivotedLookupMap.
func NewPivotedLookupMap() *PivotedLookupMap {
	return &PivotedLookupMap{byVector: map[PivotKey]*GenericLookup{}, vectors: map[PivotKey][]string{}}
}

// Lookup returns the GenericLookup for pivot vector key, creating one if
// absent, and records key's first-seen order.
func (m *PivotedLookupMap) Lookup(key PivotKey, parts []string) *GenericLookup {
	if l, ok := m.byVector[key]; ok {
		return l
	}
	l := NewGenericLookup()
	m.byVector[key] = l
	m.vectors[key] = parts
	m.order = append(m.order, key)
	return l
}

// Keys returns pivot vector keys in first-seen order.
func (m *PivotedLookupMap) Keys() []PivotKey { return m.order }

// Get returns the lookup for key without creating it.
func (m *PivotedLookupMap) Get(key PivotKey) (*GenericLookup, bool) {
	l, ok := m.byVector[key]
	return l, ok
}
