package engine

import (
	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// Execute runs the full eight-stage pipeline — filter, group+pivot,
// sort, skip, paginate, select, label, format — over src under q,
// assumed already validated by qlang.Validate against src's schema.
// locale, if non-empty, selects the collator used for every TEXT
// comparison (filter predicates and ORDER BY); an empty locale uses
// value.DefaultComparator.
func Execute(q *qlang.Query, src *table.Table, catalog *scalarfunc.Catalog, locale string) (*table.Table, error) {
	cmp := value.DefaultComparator
	if locale != "" {
		cmp = value.NewLocaleComparator(locale)
	}

	filtered, err := applyFilter(src, q.Filter, catalog, cmp)
	if err != nil {
		return nil, err
	}

	staged, err := groupAndPivot(q, filtered, catalog)
	if err != nil {
		return nil, err
	}

	// ORDER BY may not reference an aggregation when PIVOT is present
	// (validator rule 10), so every sort key is a plain group or simple
	// column and resolves the same way whether or not PIVOT expanded
	// the staging table's other columns.
	sorted, err := sortRows(q, staged, IDLookup{Table: staged}, catalog, cmp)
	if err != nil {
		return nil, err
	}

	skipped := skipRows(q, sorted)
	paged := paginate(q, skipped)

	selected, err := selectColumns(q, paged, filtered, catalog)
	if err != nil {
		return nil, err
	}

	labeled := applyLabels(q, selected)
	formatted := applyFormats(q, labeled)
	return formatted, nil
}
