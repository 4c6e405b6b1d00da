package column

import (
	"testing"

	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/value"
)

type fakeSchema map[string]value.Type

func (s fakeSchema) ColumnType(id string) (value.Type, bool) {
	t, ok := s[id]
	return t, ok
}

func TestSimple_RejectsBacktick(t *testing.T) {
	if _, err := NewSimple("bad`id"); err == nil {
		t.Errorf("expected error for id containing a backtick")
	}
}

func TestAggregation_ID(t *testing.T) {
	target, _ := NewSimple("amount")
	agg := NewAggregation(target, Sum)
	if got, want := agg.ID(), "sum-amount"; got != want {
		t.Errorf("ID() = %q, want %q", got, want)
	}
}

func TestScalarFunction_ID(t *testing.T) {
	a, _ := NewSimple("x")
	b, _ := NewSimple("y")
	fn := NewScalarFunction("sum", []Column{a, b})
	if got, want := fn.ID(), "sum_x,y"; got != want {
		t.Errorf("ID() = %q, want %q", got, want)
	}
}

func TestAllSimple_Recurses(t *testing.T) {
	a, _ := NewSimple("x")
	b, _ := NewSimple("y")
	agg := NewAggregation(b, Sum)
	fn := NewScalarFunction("difference", []Column{a, agg})
	simples := fn.AllSimple()
	if len(simples) != 2 {
		t.Fatalf("AllSimple() = %d columns, want 2", len(simples))
	}
}

func TestAllAggregations(t *testing.T) {
	a, _ := NewSimple("x")
	agg := NewAggregation(a, Count)
	fn := NewScalarFunction("constant_wrapper", []Column{agg})
	if len(fn.AllAggregations()) != 1 {
		t.Errorf("expected one aggregation")
	}
	if !ContainsAggregation(fn) {
		t.Errorf("ContainsAggregation() = false, want true")
	}
}

func TestEqual(t *testing.T) {
	a1, _ := NewSimple("x")
	a2, _ := NewSimple("x")
	if !a1.Equal(a2) {
		t.Errorf("expected structural equality for identical Simple columns")
	}
	agg1 := NewAggregation(a1, Sum)
	agg2 := NewAggregation(a2, Sum)
	if !agg1.Equal(agg2) {
		t.Errorf("expected structural equality for identical aggregations")
	}
	agg3 := NewAggregation(a2, Avg)
	if agg1.Equal(agg3) {
		t.Errorf("expected inequality for different operators")
	}
}

func TestValueType(t *testing.T) {
	schema := fakeSchema{"amount": value.Number, "name": value.Text}
	catalog := scalarfunc.NewCatalog()

	amount, _ := NewSimple("amount")
	sumCol := NewAggregation(amount, Sum)
	typ, err := ValueType(sumCol, schema, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if typ != value.Number {
		t.Errorf("ValueType(sum(amount)) = %v, want Number", typ)
	}

	name, _ := NewSimple("name")
	countCol := NewAggregation(name, Count)
	typ, err = ValueType(countCol, schema, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if typ != value.Number {
		t.Errorf("ValueType(count(name)) = %v, want Number", typ)
	}

	maxCol := NewAggregation(name, Max)
	typ, err = ValueType(maxCol, schema, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if typ != value.Text {
		t.Errorf("ValueType(max(name)) = %v, want Text", typ)
	}
}

func TestValidate_AvgRequiresNumber(t *testing.T) {
	schema := fakeSchema{"name": value.Text}
	catalog := scalarfunc.NewCatalog()
	name, _ := NewSimple("name")
	avgCol := NewAggregation(name, Avg)
	if err := Validate(avgCol, schema, catalog); err == nil {
		t.Errorf("expected error for avg() over TEXT column")
	}
}

func TestValidate_UnknownColumn(t *testing.T) {
	schema := fakeSchema{}
	catalog := scalarfunc.NewCatalog()
	bad, _ := NewSimple("missing")
	if err := Validate(bad, schema, catalog); err == nil {
		t.Errorf("expected error for unknown column")
	}
}

func TestValidate_ScalarFunctionArity(t *testing.T) {
	schema := fakeSchema{"d": value.Date}
	catalog := scalarfunc.NewCatalog()
	d, _ := NewSimple("d")
	fn := NewScalarFunction("year", []Column{d, d})
	if err := Validate(fn, schema, catalog); err == nil {
		t.Errorf("expected arity error for year() with two arguments")
	}
}

func TestConstantColumn(t *testing.T) {
	c := NewConstant(value.Num(7))
	schema := fakeSchema{}
	catalog := scalarfunc.NewCatalog()
	typ, err := ValueType(c, schema, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if typ != value.Number {
		t.Errorf("ValueType(constant(7)) = %v, want Number", typ)
	}
	if err := Validate(c, schema, catalog); err != nil {
		t.Errorf("Validate(constant(7)) unexpected error: %v", err)
	}
}

func TestLabel(t *testing.T) {
	amount, _ := NewSimple("amount")
	agg := NewAggregation(amount, Sum)
	if got, want := Label(agg), "sum amount"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}
