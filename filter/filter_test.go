package filter

import (
	"testing"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/value"
)

// fakeRowContext resolves Simple columns from a fixed map; good enough
// to exercise filter matching without an engine.
type fakeRowContext map[string]value.Value

func (c fakeRowContext) ValueOf(col column.Column) (value.Value, error) {
	s := col.(*column.Simple)
	return c[s.ColID], nil
}

func TestLikeMatch(t *testing.T) {
	tests := []struct {
		s, pattern string
		want       bool
	}{
		{"alpha", "a%", true},
		{"beta", "a%", false},
		{"gamma", "a%", false},
		{"alpha", "%ph_", true},
		{"alpha", "_lpha", true},
		{"alpha", "alph_", true},
		{"alpha", "alpha", true},
		{"alpha", "alphax", false},
	}
	for _, tt := range tests {
		if got := matchLike(tt.s, tt.pattern); got != tt.want {
			t.Errorf("matchLike(%q, %q) = %v, want %v", tt.s, tt.pattern, got, tt.want)
		}
	}
}

func TestApply_RequiresEqualTypesShortCircuits(t *testing.T) {
	got, err := Apply(Eq, value.Num(1), value.Str("1"), value.DefaultComparator)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Errorf("expected Eq across types to be false without comparing")
	}
}

func TestApply_Matches_MalformedRegexReturnsFalse(t *testing.T) {
	got, err := Apply(Matches, value.Str("abc"), value.Str("("), value.DefaultComparator)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got {
		t.Errorf("expected malformed regex to not match")
	}
}

func TestColumnValue_Reversed(t *testing.T) {
	col, _ := column.NewSimple("age")
	f := &ColumnValue{Col: col, Val: value.Num(10), Op: Gt, Reversed: true}
	ctx := fakeRowContext{"age": value.Num(5)}
	// Reversed: 10 > age(5) => true
	got, err := f.Matches(ctx, value.DefaultComparator)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Errorf("expected reversed comparison 10 > 5 to match")
	}
}

func TestColumnIsNull(t *testing.T) {
	col, _ := column.NewSimple("age")
	f := &ColumnIsNull{Col: col}
	ctx := fakeRowContext{"age": value.NullOf(value.Number)}
	got, err := f.Matches(ctx, value.DefaultComparator)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Errorf("expected null match")
	}
}

func TestNegation_DoubleNegationIsIdentity(t *testing.T) {
	col, _ := column.NewSimple("age")
	base := &ColumnValue{Col: col, Val: value.Num(5), Op: Eq}
	doubleNeg := &Negation{Sub: &Negation{Sub: base}}
	ctx := fakeRowContext{"age": value.Num(5)}

	got1, _ := base.Matches(ctx, value.DefaultComparator)
	got2, _ := doubleNeg.Matches(ctx, value.DefaultComparator)
	if got1 != got2 {
		t.Errorf("NOT(NOT(f)) should equal f: %v != %v", got1, got2)
	}
}

func TestCompound_And_ShortCircuitsFalse(t *testing.T) {
	col, _ := column.NewSimple("age")
	f1 := &ColumnValue{Col: col, Val: value.Num(5), Op: Eq}
	f2 := &ColumnValue{Col: col, Val: value.Num(6), Op: Eq}
	c := &Compound{Op: And, Subs: []Filter{f1, f2}}
	ctx := fakeRowContext{"age": value.Num(5)}
	got, err := c.Matches(ctx, value.DefaultComparator)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Errorf("expected AND(true, false) = false")
	}
}

func TestCompound_Or(t *testing.T) {
	col, _ := column.NewSimple("age")
	f1 := &ColumnValue{Col: col, Val: value.Num(5), Op: Eq}
	f2 := &ColumnValue{Col: col, Val: value.Num(6), Op: Eq}
	c := &Compound{Op: Or, Subs: []Filter{f1, f2}}
	ctx := fakeRowContext{"age": value.Num(6)}
	got, err := c.Matches(ctx, value.DefaultComparator)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Errorf("expected OR(false, true) = true")
	}
}

func TestCompound_EmptySubsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on empty Compound")
		}
	}()
	c := &Compound{Op: And, Subs: nil}
	ctx := fakeRowContext{}
	c.Matches(ctx, value.DefaultComparator)
}

func TestColumnValue_ToQueryString(t *testing.T) {
	col, _ := column.NewSimple("age")
	f := &ColumnValue{Col: col, Val: value.Num(5), Op: Ge}
	if got, want := f.ToQueryString(), "`age` >= 5"; got != want {
		t.Errorf("ToQueryString() = %q, want %q", got, want)
	}
}
