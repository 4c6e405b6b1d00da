package qlang

import (
	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/qerr"
	"github.com/brinkdata/qengine/scalarfunc"
)

// Validate enforces the eleven cross-clause invariants of spec.md §4.5
// against schema, stopping at the first violation. catalog resolves
// scalar function names for arity/type checking.
func Validate(q *Query, schema column.Schema, catalog *scalarfunc.Catalog) error {
	// 1. Every referenced column id must exist in the table, and every
	// referenced column (including aggregation/scalar-function
	// operators and arities) must be individually well-formed.
	//
	// 2. Aggregation operator/type matching (SUM/AVG require NUMBER) is
	// checked first for every aggregation whose target column exists, so
	// a type mismatch carries its own reason code rather than being
	// reported as a missing column.
	for _, c := range allReferencedColumns(q) {
		for _, agg := range c.AllAggregations() {
			if _, ok := schema.ColumnType(agg.Target.ColID); !ok {
				continue
			}
			if err := column.Validate(agg, schema, catalog); err != nil {
				return qerr.NewInvalid(qerr.AvgSumOnlyNumeric, "%v", err)
			}
		}
		if err := column.Validate(c, schema, catalog); err != nil {
			return qerr.NewInvalid(qerr.ColumnNotFound, "%v", err)
		}
	}

	// 3. No duplicate columns within selection, sort, group-by or pivot.
	if dup := findDuplicate(q.Selection); dup != nil {
		return qerr.NewInvalid(qerr.DuplicateColumn, "duplicate column %q in SELECT", dup.ID())
	}
	sortCols := make([]column.Column, len(q.Sort))
	for i, s := range q.Sort {
		sortCols[i] = s.Col
	}
	if dup := findDuplicate(sortCols); dup != nil {
		return qerr.NewInvalid(qerr.DuplicateColumn, "duplicate column %q in ORDER BY", dup.ID())
	}
	if dup := findDuplicate(q.Group); dup != nil {
		return qerr.NewInvalid(qerr.DuplicateColumn, "duplicate column %q in GROUP BY", dup.ID())
	}
	if dup := findDuplicate(q.Pivot); dup != nil {
		return qerr.NewInvalid(qerr.DuplicateColumn, "duplicate column %q in PIVOT", dup.ID())
	}

	// 4. No aggregation column in GROUP BY, PIVOT or WHERE.
	for _, c := range q.Group {
		if column.ContainsAggregation(c) {
			return qerr.NewInvalid(qerr.AggregationInGroupOrderBy, "GROUP BY column %q may not be an aggregation", c.ID())
		}
	}
	for _, c := range q.Pivot {
		if column.ContainsAggregation(c) {
			return qerr.NewInvalid(qerr.AggregationInGroupOrderBy, "PIVOT column %q may not be an aggregation", c.ID())
		}
	}
	if q.Filter != nil && len(q.Filter.AllAggregationColumns()) > 0 {
		return qerr.NewInvalid(qerr.AggregationInGroupOrderBy, "WHERE clause may not reference an aggregation column")
	}

	hasAgg := q.HasAggregation()

	// 5. If selection has any aggregation, every non-aggregated
	// selected column must be a group-by column, or a scalar function
	// whose inner columns each satisfy the same rule recursively.
	if hasAgg {
		groupSet := columnIDSet(q.Group)
		for _, c := range q.Selection {
			if err := checkSelectedUnderAggregation(c, groupSet); err != nil {
				return err
			}
		}
	}

	// 6. Selecting the same simple column both as itself and as an
	// aggregation is forbidden.
	if hasAgg {
		simpleIDs := map[string]bool{}
		aggTargetIDs := map[string]bool{}
		for _, c := range q.Selection {
			if s, ok := c.(*column.Simple); ok {
				simpleIDs[s.ColID] = true
			}
			for _, agg := range c.AllAggregations() {
				aggTargetIDs[agg.Target.ColID] = true
			}
		}
		for id := range simpleIDs {
			if aggTargetIDs[id] {
				return qerr.NewInvalid(qerr.ColAggNotInSelect,
					"column %q selected both directly and as an aggregation target", id)
			}
		}
	}

	// 7. An aggregated column in SELECT may not appear in GROUP BY.
	for _, c := range q.Selection {
		for _, agg := range c.AllAggregations() {
			for _, g := range q.Group {
				if agg.Equal(g) {
					return qerr.NewInvalid(qerr.AggregatedGroupByColumn,
						"aggregation %q may not also be a GROUP BY column", agg.ID())
				}
			}
		}
	}

	// 8. Presence of GROUP BY or PIVOT requires at least one
	// aggregation in SELECT.
	if (len(q.Group) > 0 || len(q.Pivot) > 0) && !hasAgg {
		return qerr.NewInvalid(qerr.CannotPivotWithoutAgg,
			"GROUP BY / PIVOT requires at least one aggregation in SELECT")
	}

	// 9. A column may not appear in both GROUP BY and PIVOT.
	for _, g := range q.Group {
		for _, p := range q.Pivot {
			if g.Equal(p) {
				return qerr.NewInvalid(qerr.ColumnInGroupAndPivot,
					"column %q may not appear in both GROUP BY and PIVOT", g.ID())
			}
		}
	}

	// 10. ORDER BY columns must be in SELECT when any aggregation is
	// present; ORDER BY cannot contain aggregation columns when PIVOT
	// is in use; any aggregation used in ORDER BY must be in SELECT.
	for _, s := range q.Sort {
		isAgg := column.ContainsAggregation(s.Col)
		if isAgg && len(q.Pivot) > 0 {
			return qerr.NewInvalid(qerr.OrderByAggregationInPivot,
				"ORDER BY may not use an aggregation column %q when PIVOT is present", s.Col.ID())
		}
		if hasAgg || isAgg {
			if !columnInList(s.Col, q.Selection) {
				return qerr.NewInvalid(qerr.OrderByNotInSelect,
					"ORDER BY column %q must also be in SELECT", s.Col.ID())
			}
		}
	}

	// 11. LABEL / FORMAT may only reference columns present in SELECT.
	selectIDs := columnIDSet(q.Selection)
	for id := range q.Labels {
		if !selectIDs[id] {
			return qerr.NewInvalid(qerr.LabelFormatNotInSelect, "LABEL references column %q not in SELECT", id)
		}
	}
	for id := range q.Formats {
		if !selectIDs[id] {
			return qerr.NewInvalid(qerr.LabelFormatNotInSelect, "FORMAT references column %q not in SELECT", id)
		}
	}

	return nil
}

func allReferencedColumns(q *Query) []column.Column {
	out := append([]column.Column{}, q.Selection...)
	out = append(out, q.Group...)
	out = append(out, q.Pivot...)
	for _, s := range q.Sort {
		out = append(out, s.Col)
	}
	if q.Filter != nil {
		for _, s := range q.Filter.AllSimpleColumns() {
			out = append(out, s)
		}
		for _, a := range q.Filter.AllAggregationColumns() {
			out = append(out, a)
		}
	}
	return out
}

func findDuplicate(cols []column.Column) column.Column {
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			if cols[i].Equal(cols[j]) {
				return cols[i]
			}
		}
	}
	return nil
}

func columnIDSet(cols []column.Column) map[string]bool {
	out := make(map[string]bool, len(cols))
	for _, c := range cols {
		out[c.ID()] = true
	}
	return out
}

func columnInList(c column.Column, cols []column.Column) bool {
	for _, other := range cols {
		if c.Equal(other) {
			return true
		}
	}
	return false
}

// checkSelectedUnderAggregation implements rule 5: c is fine if it is
// itself an aggregation, a group-by column, or (recursively) a scalar
// function whose every argument satisfies this rule.
func checkSelectedUnderAggregation(c column.Column, groupSet map[string]bool) error {
	if column.ContainsAggregation(c) {
		return nil
	}
	switch t := c.(type) {
	case *column.Simple:
		if !groupSet[t.ColID] {
			return qerr.NewInvalid(qerr.ColAggNotInSelect,
				"selected column %q is neither aggregated nor a GROUP BY column", t.ColID)
		}
		return nil
	case *column.ScalarFunction:
		for _, arg := range t.Args {
			if err := checkSelectedUnderAggregation(arg, groupSet); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
