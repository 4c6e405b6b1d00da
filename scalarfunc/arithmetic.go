package scalarfunc

import (
	"fmt"

	"github.com/brinkdata/qengine/value"
)

// binaryNumeric implements the shared shape of sum/difference/product/
// quotient/modulo: two NUMBER arguments, NUMBER result, null if either
// argument is null, and "(a op b)" query-string rendering.
type binaryNumeric struct {
	name string
	op   string
	fn   func(a, b float64) (float64, error)
}

func (f *binaryNumeric) Name() string      { return f.name }
func (f *binaryNumeric) Arity() (int, int) { return 2, 2 }

func (f *binaryNumeric) Validate(argTypes []value.Type) error {
	if argTypes[0] != value.Number {
		return fmt.Errorf("%s(): first argument must be NUMBER, got %s", f.name, argTypes[0])
	}
	if argTypes[1] != value.Number {
		return fmt.Errorf("%s(): second argument must be NUMBER, got %s", f.name, argTypes[1])
	}
	return nil
}

func (f *binaryNumeric) ReturnType([]value.Type) value.Type { return value.Number }

func (f *binaryNumeric) Evaluate(args []value.Value) (value.Value, error) {
	if args[0].IsNull() || args[1].IsNull() {
		return value.NullOf(value.Number), nil
	}
	result, err := f.fn(args[0].Num(), args[1].Num())
	if err != nil {
		return value.Value{}, err
	}
	return value.Num(result), nil
}

func (f *binaryNumeric) ToQueryString(argStrs []string) string {
	return fmt.Sprintf("(%s %s %s)", argStrs[0], f.op, argStrs[1])
}

type sumFunc struct{ binaryNumeric }
type differenceFunc struct{ binaryNumeric }
type productFunc struct{ binaryNumeric }
type quotientFunc struct{ binaryNumeric }
type moduloFunc struct{ binaryNumeric }

func newSumFunc() *sumFunc {
	return &sumFunc{binaryNumeric{name: "sum", op: "+", fn: func(a, b float64) (float64, error) { return a + b, nil }}}
}

func newDifferenceFunc() *differenceFunc {
	return &differenceFunc{binaryNumeric{name: "difference", op: "-", fn: func(a, b float64) (float64, error) { return a - b, nil }}}
}

func newProductFunc() *productFunc {
	return &productFunc{binaryNumeric{name: "product", op: "*", fn: func(a, b float64) (float64, error) { return a * b, nil }}}
}

func newQuotientFunc() *quotientFunc {
	return &quotientFunc{binaryNumeric{name: "quotient", op: "/", fn: func(a, b float64) (float64, error) {
		return a / b, nil
	}}}
}

func newModuloFunc() *moduloFunc {
	return &moduloFunc{binaryNumeric{name: "modulo", op: "%", fn: func(a, b float64) (float64, error) {
		ai, bi := int64(a), int64(b)
		if bi == 0 {
			return 0, fmt.Errorf("modulo(): division by zero")
		}
		return float64(ai % bi), nil
	}}}
}
