package qlang

import (
	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/filter"
	"github.com/brinkdata/qengine/value"
)

// fakeFilterWithAgg is a minimal filter.Filter stub used only to test
// that the validator rejects aggregation columns referenced from WHERE.
type fakeFilterWithAgg struct {
	agg *column.Aggregation
}

func (f *fakeFilterWithAgg) Matches(filter.RowContext, value.Comparator) (bool, error) {
	return false, nil
}
func (f *fakeFilterWithAgg) AllColumnIDs() map[string]bool      { return map[string]bool{f.agg.ID(): true} }
func (f *fakeFilterWithAgg) AllSimpleColumns() []*column.Simple { return nil }
func (f *fakeFilterWithAgg) AllAggregationColumns() []*column.Aggregation {
	return []*column.Aggregation{f.agg}
}
func (f *fakeFilterWithAgg) ToQueryString() string { return "" }
