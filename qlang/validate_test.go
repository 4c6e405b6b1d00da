package qlang

import (
	"testing"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/value"
)

type fakeSchema map[string]value.Type

func (s fakeSchema) ColumnType(id string) (value.Type, bool) {
	t, ok := s[id]
	return t, ok
}

func baseSchema() fakeSchema {
	return fakeSchema{"name": value.Text, "amount": value.Number, "d": value.Date}
}

func mustSimple(t *testing.T, id string) *column.Simple {
	c, err := column.NewSimple(id)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestValidate_UnknownColumn(t *testing.T) {
	q := New()
	q.Selection = []column.Column{mustSimple(t, "missing")}
	if err := Validate(q, baseSchema(), scalarfunc.NewCatalog()); err == nil {
		t.Errorf("expected error for unknown column")
	}
}

func TestValidate_GroupByRequiresAggregation(t *testing.T) {
	q := New()
	name := mustSimple(t, "name")
	q.Selection = []column.Column{name}
	q.Group = []column.Column{name}
	if err := Validate(q, baseSchema(), scalarfunc.NewCatalog()); err == nil {
		t.Errorf("expected error: GROUP BY without aggregation in SELECT")
	}
}

func TestValidate_NonGroupedSelectedColumnUnderAggregation(t *testing.T) {
	q := New()
	name := mustSimple(t, "name")
	amount := mustSimple(t, "amount")
	agg := column.NewAggregation(amount, column.Sum)
	q.Selection = []column.Column{name, agg} // name not aggregated nor grouped
	q.Group = []column.Column{}
	if err := Validate(q, baseSchema(), scalarfunc.NewCatalog()); err == nil {
		t.Errorf("expected error: name neither aggregated nor GROUP BY")
	}
}

func TestValidate_ValidGroupAndAggregate(t *testing.T) {
	q := New()
	name := mustSimple(t, "name")
	amount := mustSimple(t, "amount")
	agg := column.NewAggregation(amount, column.Sum)
	q.Selection = []column.Column{name, agg}
	q.Group = []column.Column{name}
	if err := Validate(q, baseSchema(), scalarfunc.NewCatalog()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DuplicateInSelect(t *testing.T) {
	q := New()
	name := mustSimple(t, "name")
	name2 := mustSimple(t, "name")
	q.Selection = []column.Column{name, name2}
	if err := Validate(q, baseSchema(), scalarfunc.NewCatalog()); err == nil {
		t.Errorf("expected duplicate column error")
	}
}

func TestValidate_ColumnInGroupAndPivot(t *testing.T) {
	q := New()
	name := mustSimple(t, "name")
	amount := mustSimple(t, "amount")
	agg := column.NewAggregation(amount, column.Sum)
	q.Selection = []column.Column{agg}
	q.Group = []column.Column{name}
	q.Pivot = []column.Column{mustSimple(t, "name")}
	if err := Validate(q, baseSchema(), scalarfunc.NewCatalog()); err == nil {
		t.Errorf("expected error: column in both GROUP BY and PIVOT")
	}
}

func TestValidate_OrderByAggregationWithPivot(t *testing.T) {
	q := New()
	name := mustSimple(t, "name")
	amount := mustSimple(t, "amount")
	agg := column.NewAggregation(amount, column.Sum)
	q.Selection = []column.Column{name, agg}
	q.Group = []column.Column{name}
	q.Pivot = []column.Column{mustSimple(t, "d")}
	q.Sort = []SortItem{{Col: agg}}
	if err := Validate(q, baseSchema(), scalarfunc.NewCatalog()); err == nil {
		t.Errorf("expected error: ORDER BY aggregation with PIVOT")
	}
}

func TestValidate_LabelNotInSelect(t *testing.T) {
	q := New()
	q.Selection = []column.Column{mustSimple(t, "name")}
	q.Labels["amount"] = "Amount"
	if err := Validate(q, baseSchema(), scalarfunc.NewCatalog()); err == nil {
		t.Errorf("expected error: LABEL references column not in SELECT")
	}
}

func TestValidate_AvgOnTextColumn(t *testing.T) {
	q := New()
	name := mustSimple(t, "name")
	q.Selection = []column.Column{column.NewAggregation(name, column.Avg)}
	if err := Validate(q, baseSchema(), scalarfunc.NewCatalog()); err == nil {
		t.Errorf("expected error: AVG over TEXT column")
	}
}

func TestValidate_AggregationInFilter(t *testing.T) {
	q := New()
	amount := mustSimple(t, "amount")
	q.Selection = []column.Column{amount}
	agg := column.NewAggregation(amount, column.Sum)
	q.Filter = &fakeFilterWithAgg{agg: agg}
	if err := Validate(q, baseSchema(), scalarfunc.NewCatalog()); err == nil {
		t.Errorf("expected error: aggregation in WHERE")
	}
}
