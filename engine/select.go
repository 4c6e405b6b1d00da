package engine

import (
	"strings"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// IDLookup resolves any abstract column directly against a table whose
// column ids already equal the generated ID() of the columns it holds —
// true of a raw source table (Simple columns) and of a group+pivot
// staging table with no PIVOT clause (group and aggregation columns).
type IDLookup struct {
	Table *table.Table
}

func (l IDLookup) IndexOf(c column.Column) int { return l.Table.ColumnIndex(c.ID()) }

// combinedLookup tries a first, falling back to b.
type combinedLookup struct{ a, b Lookup }

func (c combinedLookup) IndexOf(col column.Column) int {
	if i := c.a.IndexOf(col); i != -1 {
		return i
	}
	return c.b.IndexOf(col)
}

// selectColumns is stage 6: projects staged down to q.Selection.
// schema resolves Simple columns' declared types for label/type
// purposes (the table as it stood before group+pivot reshaped it,
// since an Aggregation's Target references that table's columns, not
// the staged one's synthesized ids).
func selectColumns(q *qlang.Query, staged *table.Table, schema column.Schema, catalog *scalarfunc.Catalog) (*table.Table, error) {
	if len(q.Selection) == 0 {
		return staged, nil
	}
	if len(q.Pivot) == 0 {
		return projectFlat(q, staged, IDLookup{Table: staged}, schema, catalog)
	}
	return projectPivoted(q, staged, schema, catalog)
}

func projectFlat(q *qlang.Query, staged *table.Table, lookup Lookup, schema column.Schema, catalog *scalarfunc.Catalog) (*table.Table, error) {
	cols := make([]table.ColumnDescription, len(q.Selection))
	for i, c := range q.Selection {
		typ, err := column.ValueType(c, schema, catalog)
		if err != nil {
			return nil, err
		}
		cols[i] = table.ColumnDescription{ID: c.ID(), Type: typ, Label: column.Label(c)}
	}
	out, err := table.New(cols, staged.Locale)
	if err != nil {
		return nil, err
	}
	for _, row := range staged.Rows {
		values := make([]value.Value, len(q.Selection))
		for i, c := range q.Selection {
			v, err := EvaluateColumn(c, row, lookup, catalog)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		if err := out.AddRow(values); err != nil {
			return nil, err
		}
	}
	out.Warnings = append(out.Warnings, staged.Warnings...)
	return out, nil
}

// projectPivoted expands every aggregated selected column into one
// output column per distinct pivot vector that groupAndPivot observed,
// and projects every non-aggregated selected column once. The pivot
// vector each staged column belongs to is recovered from its synthesized
// id (see pivotColumnID), matched against the aggregation ids q.Selection
// actually uses.
func projectPivoted(q *qlang.Query, staged *table.Table, schema column.Schema, catalog *scalarfunc.Catalog) (*table.Table, error) {
	groupLookup := IDLookup{Table: staged}
	aggs := distinctAggregations(q.Selection)
	pivotMap := NewPivotedLookupMap()
	for i, col := range staged.Columns {
		for _, agg := range aggs {
			suffix := " " + agg.ID()
			if strings.HasSuffix(col.ID, suffix) {
				prefix := strings.TrimSuffix(col.ID, suffix)
				pivotMap.Lookup(PivotKey(prefix), nil).SetID(agg.ID(), i)
				break
			}
		}
	}

	var flatCols []column.Column
	var pivotedCols []column.Column
	for _, c := range q.Selection {
		if column.ContainsAggregation(c) {
			pivotedCols = append(pivotedCols, c)
		} else {
			flatCols = append(flatCols, c)
		}
	}

	cols := make([]table.ColumnDescription, 0, len(flatCols)+len(pivotedCols)*len(pivotMap.Keys()))
	for _, c := range flatCols {
		typ, err := column.ValueType(c, schema, catalog)
		if err != nil {
			return nil, err
		}
		cols = append(cols, table.ColumnDescription{ID: c.ID(), Type: typ, Label: column.Label(c)})
	}
	for _, key := range pivotMap.Keys() {
		for _, c := range pivotedCols {
			typ, err := column.ValueType(c, schema, catalog)
			if err != nil {
				return nil, err
			}
			id := string(key) + " " + c.ID()
			cols = append(cols, table.ColumnDescription{ID: id, Type: typ, Label: string(key) + " " + column.Label(c)})
		}
	}

	out, err := table.New(cols, staged.Locale)
	if err != nil {
		return nil, err
	}
	for _, row := range staged.Rows {
		var values []value.Value
		for _, c := range flatCols {
			v, err := EvaluateColumn(c, row, groupLookup, catalog)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		for _, key := range pivotMap.Keys() {
			pivotLookup, _ := pivotMap.Get(key)
			lookup := combinedLookup{a: pivotLookup, b: groupLookup}
			for _, c := range pivotedCols {
				v, err := EvaluateColumn(c, row, lookup, catalog)
				if err != nil {
					return nil, err
				}
				values = append(values, v)
			}
		}
		if err := out.AddRow(values); err != nil {
			return nil, err
		}
	}
	out.Warnings = append(out.Warnings, staged.Warnings...)
	return out, nil
}
