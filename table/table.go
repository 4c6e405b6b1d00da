// Package table implements the data table model: an ordered list of
// typed column descriptions and an ordered list of rows, each cell
// carrying a value plus optional formatted text and custom properties,
// together with table-level warnings and locale.
package table

import (
	"fmt"

	"github.com/brinkdata/qengine/value"
)

// Properties is a string→string custom-property bag, carried by the
// table itself and by every column, row and cell.
type Properties map[string]string

// Clone returns an independent copy of p (nil-safe).
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ColumnDescription is one column's schema: id, type, label, an
// optional formatting pattern, and custom properties.
type ColumnDescription struct {
	ID         string
	Type       value.Type
	Label      string
	Pattern    string
	Properties Properties
}

// Cell is (value, optional formatted text, custom properties). A null
// cell with non-empty formatted text is legal — e.g. a format pattern
// may render null as "N/A".
type Cell struct {
	Value      value.Value
	Formatted  string
	Properties Properties
}

// Row is an ordered list of cells, one per table column.
type Row struct {
	Cells []Cell
}

// WarningReason is a stable enumeration of non-fatal diagnostics a
// pipeline stage can attach to the output table.
type WarningReason string

const (
	DataTruncated             WarningReason = "DATA_TRUNCATED"
	IllegalFormattingPatterns WarningReason = "ILLEGAL_FORMATTING_PATTERNS"
)

// Warning is a non-fatal diagnostic attached to a table.
type Warning struct {
	Reason  WarningReason
	Message string
}

// Table is the core data table: columns, rows, warnings, locale and
// table-level custom properties.
type Table struct {
	Columns    []ColumnDescription
	Rows       []Row
	Warnings   []Warning
	Locale     string
	Properties Properties

	colIndex map[string]int
}

// New constructs an empty table over the given column descriptions.
// Column ids must be unique.
func New(columns []ColumnDescription, locale string) (*Table, error) {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := idx[c.ID]; dup {
			return nil, fmt.Errorf("table: duplicate column id %q", c.ID)
		}
		idx[c.ID] = i
	}
	return &Table{Columns: columns, Locale: locale, colIndex: idx}, nil
}

// ColumnType implements column.Schema: it resolves a column id to its
// declared type.
func (t *Table) ColumnType(id string) (value.Type, bool) {
	i, ok := t.colIndex[id]
	if !ok {
		return 0, false
	}
	return t.Columns[i].Type, true
}

// ColumnIndex returns the position of column id, or -1 if absent.
func (t *Table) ColumnIndex(id string) int {
	if i, ok := t.colIndex[id]; ok {
		return i
	}
	return -1
}

// AddWarning appends a warning to the table.
func (t *Table) AddWarning(reason WarningReason, message string) {
	t.Warnings = append(t.Warnings, Warning{Reason: reason, Message: message})
}

// AddRow appends a row built from values, one per column in order. A
// shorter slice is padded with typed nulls; a longer slice, or a value
// whose type does not match its column (and is not that column's null),
// is a type error and is always returned; AddRow itself never silently
// drops a row (the group+pivot stage is the one caller that skips a row
// on this error; spec.md §9, open question 2).
func (t *Table) AddRow(values []value.Value) error {
	if len(values) > len(t.Columns) {
		return fmt.Errorf("table: row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	cells := make([]Cell, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(values) {
			v := values[i]
			if v.Type() != col.Type {
				return fmt.Errorf("table: column %q expects %s, got %s", col.ID, col.Type, v.Type())
			}
			cells[i] = Cell{Value: v}
		} else {
			cells[i] = Cell{Value: value.NullOf(col.Type)}
		}
	}
	t.Rows = append(t.Rows, Row{Cells: cells})
	return nil
}

// CellAt returns the cell at (row, columnID).
func (t *Table) CellAt(rowIdx int, columnID string) (Cell, error) {
	i, ok := t.colIndex[columnID]
	if !ok {
		return Cell{}, fmt.Errorf("table: unknown column %q", columnID)
	}
	return t.Rows[rowIdx].Cells[i], nil
}

// Clone returns a shallow structural copy of t: column descriptions are
// copied by value (their Properties maps stay shared), rows are copied so later
// stages can mutate cells (e.g. formatting) without affecting the
// input table.
func (t *Table) Clone() *Table {
	cols := make([]ColumnDescription, len(t.Columns))
	copy(cols, t.Columns)
	idx := make(map[string]int, len(t.colIndex))
	for k, v := range t.colIndex {
		idx[k] = v
	}
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		cells := make([]Cell, len(r.Cells))
		copy(cells, r.Cells)
		rows[i] = Row{Cells: cells}
	}
	warnings := make([]Warning, len(t.Warnings))
	copy(warnings, t.Warnings)
	return &Table{
		Columns:    cols,
		Rows:       rows,
		Warnings:   warnings,
		Locale:     t.Locale,
		Properties: t.Properties.Clone(),
		colIndex:   idx,
	}
}
