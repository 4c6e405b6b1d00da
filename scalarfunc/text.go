package scalarfunc

import (
	"fmt"
	"strings"

	"github.com/brinkdata/qengine/value"
)

type upperFunc struct{}

func (f *upperFunc) Name() string      { return "upper" }
func (f *upperFunc) Arity() (int, int) { return 1, 1 }
func (f *upperFunc) Validate(argTypes []value.Type) error {
	if argTypes[0] != value.Text {
		return fmt.Errorf("upper(): argument must be TEXT, got %s", argTypes[0])
	}
	return nil
}
func (f *upperFunc) ReturnType([]value.Type) value.Type { return value.Text }
func (f *upperFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Text), nil
	}
	return value.Str(strings.ToUpper(args[0].Str())), nil
}
func (f *upperFunc) ToQueryString(argStrs []string) string { return fmt.Sprintf("upper(%s)", argStrs[0]) }

type lowerFunc struct{}

func (f *lowerFunc) Name() string      { return "lower" }
func (f *lowerFunc) Arity() (int, int) { return 1, 1 }
func (f *lowerFunc) Validate(argTypes []value.Type) error {
	if argTypes[0] != value.Text {
		return fmt.Errorf("lower(): argument must be TEXT, got %s", argTypes[0])
	}
	return nil
}
func (f *lowerFunc) ReturnType([]value.Type) value.Type { return value.Text }
func (f *lowerFunc) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() {
		return value.NullOf(value.Text), nil
	}
	return value.Str(strings.ToLower(args[0].Str())), nil
}
func (f *lowerFunc) ToQueryString(argStrs []string) string { return fmt.Sprintf("lower(%s)", argStrs[0]) }

// constantFunc implements constant(v): a zero-arity function whose
// return type and value are fixed at construction time. It exists so a
// query can embed a literal inside a scalar-function-only column
// position (e.g. as a function argument produced by the parser for
// mixed literal/column expressions).
type constantFunc struct{ v value.Value }

func (f *constantFunc) Name() string                        { return "constant" }
func (f *constantFunc) Arity() (int, int)                   { return 0, 0 }
func (f *constantFunc) Validate([]value.Type) error         { return nil }
func (f *constantFunc) ReturnType([]value.Type) value.Type  { return f.v.Type() }
func (f *constantFunc) Evaluate([]value.Value) (value.Value, error) { return f.v, nil }
func (f *constantFunc) ToQueryString([]string) string {
	if f.v.IsNull() {
		return "constant(null)"
	}
	return fmt.Sprintf("constant(%s)", f.v.ToQueryString())
}
