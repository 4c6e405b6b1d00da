package splitter

import (
	"testing"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/filter"
	"github.com/brinkdata/qengine/qlang"
)

func simple(t *testing.T, id string) *column.Simple {
	c, err := column.NewSimple(id)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSplit_All(t *testing.T) {
	q := qlang.New()
	q.Selection = []column.Column{simple(t, "name")}
	ds, completion, err := Split(q, All)
	if err != nil {
		t.Fatal(err)
	}
	if ds != q {
		t.Errorf("ALL should push the whole query to the data source")
	}
	if len(completion.Selection) != 0 {
		t.Errorf("ALL should leave an empty completion query")
	}
}

func TestSplit_None(t *testing.T) {
	q := qlang.New()
	ds, completion, err := Split(q, None)
	if err != nil {
		t.Fatal(err)
	}
	if ds != nil {
		t.Errorf("NONE should push nothing to the data source")
	}
	if completion != q {
		t.Errorf("NONE should run the whole query as completion")
	}
}

func TestSplit_SelectPushesReferencedColumns(t *testing.T) {
	q := qlang.New()
	amount := simple(t, "amount")
	q.Selection = []column.Column{column.NewAggregation(amount, column.Sum)}
	q.Filter = &filter.ColumnIsNull{Col: simple(t, "region")}
	ds, completion, err := Split(q, Select)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Selection) != 2 {
		t.Fatalf("expected data-source selection of 2 simple columns, got %d: %+v", len(ds.Selection), ds.Selection)
	}
	if completion != q {
		t.Errorf("SELECT completion should be the full original query")
	}
}

func TestSplit_SortAndPagination_PlainQuery(t *testing.T) {
	q := qlang.New()
	name := simple(t, "name")
	q.Selection = []column.Column{name}
	q.Sort = []qlang.SortItem{{Col: name}}
	q.Limit = 10
	ds, completion, err := Split(q, SortAndPagination)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Sort) != 1 || ds.Limit != 10 {
		t.Errorf("expected sort+limit pushed to data source, got %+v", ds)
	}
	if len(completion.Selection) != 1 || completion.Limit != -1 {
		t.Errorf("expected completion to keep selection and drop the limit, got %+v", completion)
	}
}

func TestSplit_SortAndPagination_WithFilterFallsBackToCompletionOnly(t *testing.T) {
	q := qlang.New()
	name := simple(t, "name")
	q.Selection = []column.Column{name}
	q.Filter = &filter.ColumnIsNull{Col: name}
	ds, completion, err := Split(q, SortAndPagination)
	if err != nil {
		t.Fatal(err)
	}
	if ds != nil {
		t.Errorf("a filter present should empty the data source")
	}
	if completion != q {
		t.Errorf("expected completion to be the full original query")
	}
}

func TestSplit_SQL_Plain(t *testing.T) {
	q := qlang.New()
	region := simple(t, "region")
	amount := simple(t, "amount")
	sum := column.NewAggregation(amount, column.Sum)
	q.Selection = []column.Column{region, sum}
	q.Group = []column.Column{region}
	ds, completion, err := Split(q, SQL)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Selection) != 2 || len(ds.Group) != 1 {
		t.Errorf("expected the whole aggregation pushed to the data source, got %+v", ds)
	}
	if len(completion.Selection) != 0 {
		t.Errorf("expected an empty completion query, got %+v", completion)
	}
}

func TestSplit_SQL_Pivot(t *testing.T) {
	q := qlang.New()
	name := simple(t, "name")
	region := simple(t, "region")
	amount := simple(t, "amount")
	sum := column.NewAggregation(amount, column.Sum)
	q.Selection = []column.Column{name, sum}
	q.Group = []column.Column{name}
	q.Pivot = []column.Column{region}
	ds, completion, err := Split(q, SQL)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Group) != 2 {
		t.Fatalf("expected data source to group by name+region, got %+v", ds.Group)
	}
	if len(ds.Selection) != 3 {
		t.Fatalf("expected data source to select name, sum-amount, region, got %+v", ds.Selection)
	}
	if len(completion.Selection) != 2 {
		t.Fatalf("expected completion to re-select name and a MIN-wrapped aggregation, got %+v", completion.Selection)
	}
	agg, ok := completion.Selection[1].(*column.Aggregation)
	if !ok || agg.Op != column.Min {
		t.Errorf("expected completion's second selection to be a MIN aggregation, got %+v", completion.Selection[1])
	}
}

func TestSplit_UnknownCapability(t *testing.T) {
	q := qlang.New()
	if _, _, err := Split(q, Capability(99)); err == nil {
		t.Errorf("expected an error for an unknown capability")
	}
}
