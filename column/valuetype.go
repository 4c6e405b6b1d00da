package column

import (
	"fmt"

	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/value"
)

// Schema resolves a simple column id to its declared type. table.Table
// satisfies this interface; column never imports the table package, so
// any schema-like type (including a synthetic one built for the
// group+pivot staging table) can be used.
type Schema interface {
	ColumnType(id string) (value.Type, bool)
}

// ValueType computes the value type of c against schema and catalog,
// recursing into aggregation targets and scalar function arguments.
func ValueType(c Column, schema Schema, catalog *scalarfunc.Catalog) (value.Type, error) {
	switch t := c.(type) {
	case *Simple:
		typ, ok := schema.ColumnType(t.ColID)
		if !ok {
			return 0, fmt.Errorf("column: unknown column %q", t.ColID)
		}
		return typ, nil

	case *Aggregation:
		targetType, err := ValueType(t.Target, schema, catalog)
		if err != nil {
			return 0, err
		}
		switch t.Op {
		case Count, Min, Max:
			if t.Op == Count {
				return value.Number, nil
			}
			return targetType, nil
		case Sum, Avg:
			return value.Number, nil
		default:
			return 0, fmt.Errorf("column: unknown aggregation operator %v", t.Op)
		}

	case *ScalarFunction:
		if t.Fn != nil {
			return t.Fn.ReturnType(nil), nil
		}
		fn, ok := catalog.Get(t.FuncName)
		if !ok {
			return 0, fmt.Errorf("column: unknown scalar function %q", t.FuncName)
		}
		argTypes := make([]value.Type, len(t.Args))
		for i, a := range t.Args {
			at, err := ValueType(a, schema, catalog)
			if err != nil {
				return 0, err
			}
			argTypes[i] = at
		}
		return fn.ReturnType(argTypes), nil

	default:
		return 0, fmt.Errorf("column: unknown column kind %T", c)
	}
}

// Validate checks c's semantic validity against schema and catalog:
// simple columns must exist, aggregation operators must match their
// target's type (COUNT/MIN/MAX accept any type, SUM/AVG only NUMBER),
// and scalar function arguments must satisfy the function's signature.
func Validate(c Column, schema Schema, catalog *scalarfunc.Catalog) error {
	switch t := c.(type) {
	case *Simple:
		if _, ok := schema.ColumnType(t.ColID); !ok {
			return fmt.Errorf("column: unknown column %q", t.ColID)
		}
		return nil

	case *Aggregation:
		if err := Validate(t.Target, schema, catalog); err != nil {
			return err
		}
		targetType, err := ValueType(t.Target, schema, catalog)
		if err != nil {
			return err
		}
		if (t.Op == Sum || t.Op == Avg) && targetType != value.Number {
			return fmt.Errorf("column: %s() requires a NUMBER column, got %s on %q",
				t.Op, targetType, t.Target.ColID)
		}
		return nil

	case *ScalarFunction:
		for _, a := range t.Args {
			if err := Validate(a, schema, catalog); err != nil {
				return err
			}
		}
		if t.Fn != nil {
			return nil
		}
		fn, ok := catalog.Get(t.FuncName)
		if !ok {
			return fmt.Errorf("column: unknown scalar function %q", t.FuncName)
		}
		min, max := fn.Arity()
		if len(t.Args) < min || (max >= 0 && len(t.Args) > max) {
			return fmt.Errorf("column: %s() takes %d argument(s), got %d", t.FuncName, min, len(t.Args))
		}
		argTypes := make([]value.Type, len(t.Args))
		for i, a := range t.Args {
			at, err := ValueType(a, schema, catalog)
			if err != nil {
				return err
			}
			argTypes[i] = at
		}
		return fn.Validate(argTypes)

	default:
		return fmt.Errorf("column: unknown column kind %T", c)
	}
}
