package value

import "testing"

func TestCompare_NullSemantics(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"null num vs null num", NullOf(Number), NullOf(Number), 0},
		{"null num vs num", NullOf(Number), Num(1), -1},
		{"num vs null num", Num(1), NullOf(Number), 1},
		{"null text vs empty text", NullOf(Text), Str(""), -1},
		{"null bool vs null bool", NullOf(Boolean), NullOf(Boolean), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompare_Number(t *testing.T) {
	if Num(1).Compare(Num(2)) >= 0 {
		t.Errorf("expected 1 < 2")
	}
	if Num(2).Compare(Num(1)) <= 0 {
		t.Errorf("expected 2 > 1")
	}
	if Num(2).Compare(Num(2)) != 0 {
		t.Errorf("expected 2 == 2")
	}
}

func TestCompare_TextIsByteLexicographic(t *testing.T) {
	if Str("a").Compare(Str("b")) >= 0 {
		t.Errorf("expected a < b")
	}
}

func TestNewDate_RejectsInvalidDates(t *testing.T) {
	if _, err := NewDate(2025, 1, 30); err == nil {
		t.Errorf("expected error for 2025-02-30")
	}
	if _, err := NewDate(2024, 1, 29); err != nil {
		t.Errorf("2024-02-29 should be valid (leap year): %v", err)
	}
	if _, err := NewDate(2023, 1, 29); err == nil {
		t.Errorf("2023-02-29 should be invalid (non-leap year)")
	}
}

func TestNewTimeOfDay_RejectsOutOfRange(t *testing.T) {
	if _, err := NewTimeOfDay(24, 0, 0, 0); err == nil {
		t.Errorf("expected error for hour 24")
	}
	if _, err := NewTimeOfDay(23, 59, 59, 999); err != nil {
		t.Errorf("23:59:59.999 should be valid: %v", err)
	}
}

func TestToQueryString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"number", Num(42), "42"},
		{"text plain", Str("hello"), `"hello"`},
		{"text with double quote", Str(`a"b`), `'a"b'`},
		{"bool true", Bool(true), "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.ToQueryString(); got != tt.want {
				t.Errorf("ToQueryString() = %q, want %q", got, tt.want)
			}
		})
	}

	d, err := NewDate(2021, 0, 15)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := d.ToQueryString(), "DATE '2021-1-15'"; got != want {
		t.Errorf("ToQueryString() = %q, want %q", got, want)
	}
}

func TestToQueryString_PanicsOnNull(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on null ToQueryString")
		}
	}()
	NullOf(Number).ToQueryString()
}

func TestToString_NullIsEmpty(t *testing.T) {
	if got := NullOf(Text).ToString(); got != "" {
		t.Errorf("ToString() on null = %q, want empty", got)
	}
}

func TestLocaleComparator_FallsBackForNonText(t *testing.T) {
	cmp := NewLocaleComparator("de")
	if cmp(Num(1), Num(2)) >= 0 {
		t.Errorf("expected 1 < 2 under locale comparator")
	}
}

func TestLocaleComparator_UnknownLocaleDoesNotPanic(t *testing.T) {
	cmp := NewLocaleComparator("not-a-locale-tag-%%%")
	if cmp(Str("a"), Str("b")) >= 0 {
		t.Errorf("expected a < b")
	}
}
