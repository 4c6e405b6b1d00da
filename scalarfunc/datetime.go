package scalarfunc

import (
	"fmt"
	"time"

	"github.com/brinkdata/qengine/value"
)

func isDateLike(t value.Type) bool { return t == value.Date || t == value.DateTime }

func isTimeLike(t value.Type) bool { return t == value.TimeOfDay || t == value.DateTime }

// dateParts extracts (year, 0-indexed month, day) from a DATE or
// DATETIME value.
func dateParts(v value.Value) (int, int, int) { return v.Date() }

// timeParts extracts (hour, minute, second, ms) from a TIMEOFDAY or
// DATETIME value.
func timeParts(v value.Value) (int, int, int, int) { return v.Time() }

// weekday converts a proleptic-Gregorian (year, 0-indexed month, day) to
// 1=Sunday .. 7=Saturday, matching TimeComponentExtractorComponent's
// DAY_OF_WEEK semantics.
func weekday(year, month, day int) int {
	t := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
	return int(t.Weekday()) + 1
}

type yearFunc struct{}
type monthFunc struct{}
type dayFunc struct{}
type quarterFunc struct{}
type dayOfWeekFunc struct{}
type hourFunc struct{}
type minuteFunc struct{}
type secondFunc struct{}
type millisecondFunc struct{}

func (f *yearFunc) Name() string      { return "year" }
func (f *yearFunc) Arity() (int, int) { return 1, 1 }
func (f *yearFunc) Validate(argTypes []value.Type) error {
	if !isDateLike(argTypes[0]) {
		return fmt.Errorf("year(): argument must be DATE or DATETIME, got %s", argTypes[0])
	}
	return nil
}
func (f *yearFunc) ReturnType([]value.Type) value.Type { return value.Number }
func (f *yearFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Number), nil
	}
	y, _, _ := dateParts(args[0])
	return value.Num(float64(y)), nil
}
func (f *yearFunc) ToQueryString(argStrs []string) string { return fmt.Sprintf("year(%s)", argStrs[0]) }

func (f *monthFunc) Name() string      { return "month" }
func (f *monthFunc) Arity() (int, int) { return 1, 1 }
func (f *monthFunc) Validate(argTypes []value.Type) error {
	if !isDateLike(argTypes[0]) {
		return fmt.Errorf("month(): argument must be DATE or DATETIME, got %s", argTypes[0])
	}
	return nil
}
func (f *monthFunc) ReturnType([]value.Type) value.Type { return value.Number }
func (f *monthFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Number), nil
	}
	_, m, _ := dateParts(args[0])
	return value.Num(float64(m)), nil
}
func (f *monthFunc) ToQueryString(argStrs []string) string { return fmt.Sprintf("month(%s)", argStrs[0]) }

func (f *dayFunc) Name() string      { return "day" }
func (f *dayFunc) Arity() (int, int) { return 1, 1 }
func (f *dayFunc) Validate(argTypes []value.Type) error {
	if !isDateLike(argTypes[0]) {
		return fmt.Errorf("day(): argument must be DATE or DATETIME, got %s", argTypes[0])
	}
	return nil
}
func (f *dayFunc) ReturnType([]value.Type) value.Type { return value.Number }
func (f *dayFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Number), nil
	}
	_, _, d := dateParts(args[0])
	return value.Num(float64(d)), nil
}
func (f *dayFunc) ToQueryString(argStrs []string) string { return fmt.Sprintf("day(%s)", argStrs[0]) }

// quarter is (0-indexed month / 3) + 1, per spec.md §4.2.
func (f *quarterFunc) Name() string      { return "quarter" }
func (f *quarterFunc) Arity() (int, int) { return 1, 1 }
func (f *quarterFunc) Validate(argTypes []value.Type) error {
	if !isDateLike(argTypes[0]) {
		return fmt.Errorf("quarter(): argument must be DATE or DATETIME, got %s", argTypes[0])
	}
	return nil
}
func (f *quarterFunc) ReturnType([]value.Type) value.Type { return value.Number }
func (f *quarterFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Number), nil
	}
	_, m, _ := dateParts(args[0])
	return value.Num(float64(m/3 + 1)), nil
}
func (f *quarterFunc) ToQueryString(argStrs []string) string {
	return fmt.Sprintf("quarter(%s)", argStrs[0])
}

// dayofweek returns 1 for Sunday through 7 for Saturday.
func (f *dayOfWeekFunc) Name() string      { return "dayofweek" }
func (f *dayOfWeekFunc) Arity() (int, int) { return 1, 1 }
func (f *dayOfWeekFunc) Validate(argTypes []value.Type) error {
	if !isDateLike(argTypes[0]) {
		return fmt.Errorf("dayofweek(): argument must be DATE or DATETIME, got %s", argTypes[0])
	}
	return nil
}
func (f *dayOfWeekFunc) ReturnType([]value.Type) value.Type { return value.Number }
func (f *dayOfWeekFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Number), nil
	}
	y, m, d := dateParts(args[0])
	return value.Num(float64(weekday(y, m, d))), nil
}
func (f *dayOfWeekFunc) ToQueryString(argStrs []string) string {
	return fmt.Sprintf("dayofweek(%s)", argStrs[0])
}

func (f *hourFunc) Name() string      { return "hour" }
func (f *hourFunc) Arity() (int, int) { return 1, 1 }
func (f *hourFunc) Validate(argTypes []value.Type) error {
	if !isTimeLike(argTypes[0]) {
		return fmt.Errorf("hour(): argument must be TIMEOFDAY or DATETIME, got %s", argTypes[0])
	}
	return nil
}
func (f *hourFunc) ReturnType([]value.Type) value.Type { return value.Number }
func (f *hourFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Number), nil
	}
	h, _, _, _ := timeParts(args[0])
	return value.Num(float64(h)), nil
}
func (f *hourFunc) ToQueryString(argStrs []string) string { return fmt.Sprintf("hour(%s)", argStrs[0]) }

func (f *minuteFunc) Name() string      { return "minute" }
func (f *minuteFunc) Arity() (int, int) { return 1, 1 }
func (f *minuteFunc) Validate(argTypes []value.Type) error {
	if !isTimeLike(argTypes[0]) {
		return fmt.Errorf("minute(): argument must be TIMEOFDAY or DATETIME, got %s", argTypes[0])
	}
	return nil
}
func (f *minuteFunc) ReturnType([]value.Type) value.Type { return value.Number }
func (f *minuteFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Number), nil
	}
	_, mi, _, _ := timeParts(args[0])
	return value.Num(float64(mi)), nil
}
func (f *minuteFunc) ToQueryString(argStrs []string) string {
	return fmt.Sprintf("minute(%s)", argStrs[0])
}

func (f *secondFunc) Name() string      { return "second" }
func (f *secondFunc) Arity() (int, int) { return 1, 1 }
func (f *secondFunc) Validate(argTypes []value.Type) error {
	if !isTimeLike(argTypes[0]) {
		return fmt.Errorf("second(): argument must be TIMEOFDAY or DATETIME, got %s", argTypes[0])
	}
	return nil
}
func (f *secondFunc) ReturnType([]value.Type) value.Type { return value.Number }
func (f *secondFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Number), nil
	}
	_, _, s, _ := timeParts(args[0])
	return value.Num(float64(s)), nil
}
func (f *secondFunc) ToQueryString(argStrs []string) string {
	return fmt.Sprintf("second(%s)", argStrs[0])
}

func (f *millisecondFunc) Name() string      { return "millisecond" }
func (f *millisecondFunc) Arity() (int, int) { return 1, 1 }
func (f *millisecondFunc) Validate(argTypes []value.Type) error {
	if !isTimeLike(argTypes[0]) {
		return fmt.Errorf("millisecond(): argument must be TIMEOFDAY or DATETIME, got %s", argTypes[0])
	}
	return nil
}
func (f *millisecondFunc) ReturnType([]value.Type) value.Type { return value.Number }
func (f *millisecondFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Number), nil
	}
	_, _, _, ms := timeParts(args[0])
	return value.Num(float64(ms)), nil
}
func (f *millisecondFunc) ToQueryString(argStrs []string) string {
	return fmt.Sprintf("millisecond(%s)", argStrs[0])
}

// dateDiffFunc computes whole GMT calendar days, date-part only, a - b.
type dateDiffFunc struct{}

func (f *dateDiffFunc) Name() string      { return "datediff" }
func (f *dateDiffFunc) Arity() (int, int) { return 2, 2 }
func (f *dateDiffFunc) Validate(argTypes []value.Type) error {
	if !isDateLike(argTypes[0]) {
		return fmt.Errorf("datediff(): first argument must be DATE or DATETIME, got %s", argTypes[0])
	}
	if !isDateLike(argTypes[1]) {
		return fmt.Errorf("datediff(): second argument must be DATE or DATETIME, got %s", argTypes[1])
	}
	return nil
}
func (f *dateDiffFunc) ReturnType([]value.Type) value.Type { return value.Number }
func (f *dateDiffFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() || args[1].IsNull() {
		return value.NullOf(value.Number), nil
	}
	ay, am, ad := dateParts(args[0])
	by, bm, bd := dateParts(args[1])
	a := time.Date(ay, time.Month(am+1), ad, 0, 0, 0, 0, time.UTC)
	b := time.Date(by, time.Month(bm+1), bd, 0, 0, 0, 0, time.UTC)
	days := int(a.Sub(b).Hours() / 24)
	return value.Num(float64(days)), nil
}
func (f *dateDiffFunc) ToQueryString(argStrs []string) string {
	return fmt.Sprintf("datediff(%s, %s)", argStrs[0], argStrs[1])
}

// nowFunc returns the current GMT instant. It is the one function in
// the catalog whose result is not a pure function of its (empty) args;
// the engine evaluates it once per row like any other scalar function,
// matching the source's behavior of re-evaluating per call.
type nowFunc struct{}

func (f *nowFunc) Name() string      { return "now" }
func (f *nowFunc) Arity() (int, int) { return 0, 0 }
func (f *nowFunc) Validate([]value.Type) error { return nil }
func (f *nowFunc) ReturnType([]value.Type) value.Type { return value.DateTime }
func (f *nowFunc) Evaluate([]value.Value) (value.Value, error) {
	t := time.Now().UTC()
	return value.NewDateTime(t.Year(), int(t.Month())-1, t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e6)
}
func (f *nowFunc) ToQueryString([]string) string { return "now()" }

// toDateFunc truncates a DATETIME to DATE, passes a DATE through, or
// interprets a NUMBER as milliseconds since the Unix epoch.
type toDateFunc struct{}

func (f *toDateFunc) Name() string      { return "toDate" }
func (f *toDateFunc) Arity() (int, int) { return 1, 1 }
func (f *toDateFunc) Validate(argTypes []value.Type) error {
	switch argTypes[0] {
	case value.Date, value.DateTime, value.Number:
		return nil
	default:
		return fmt.Errorf("toDate(): argument must be DATE, DATETIME or NUMBER, got %s", argTypes[0])
	}
}
func (f *toDateFunc) ReturnType([]value.Type) value.Type { return value.Date }
func (f *toDateFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Date), nil
	}
	switch args[0].Type() {
	case value.Date:
		y, m, d := dateParts(args[0])
		return value.NewDate(y, m, d)
	case value.DateTime:
		y, m, d := dateParts(args[0])
		return value.NewDate(y, m, d)
	case value.Number:
		t := time.UnixMilli(int64(args[0].Num())).UTC()
		return value.NewDate(t.Year(), int(t.Month())-1, t.Day())
	default:
		return value.Value{}, fmt.Errorf("toDate(): unsupported argument type")
	}
}
func (f *toDateFunc) ToQueryString(argStrs []string) string {
	return fmt.Sprintf("toDate(%s)", argStrs[0])
}
