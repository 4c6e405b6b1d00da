// Package column implements the abstract column AST: a symbolic
// reference to a value extractable from a row, either a simple column
// id, an aggregation over a simple column, or a scalar function applied
// to other abstract columns.
package column

import (
	"fmt"
	"strings"

	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/value"
)

// AggOp is an aggregation operator.
type AggOp int

const (
	Count AggOp = iota
	Sum
	Avg
	Min
	Max
)

// String returns the lowercase query-language name of the operator.
func (op AggOp) String() string {
	switch op {
	case Count:
		return "count"
	case Sum:
		return "sum"
	case Avg:
		return "avg"
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "unknown"
	}
}

// Column is an abstract column: Simple, Aggregation, or ScalarFunction.
// All three implement the same interface so the engine can treat a
// selection, group key, sort key, filter operand, etc. uniformly.
type Column interface {
	// ID is the generated, stable identity of this column, used to
	// match it across pipeline stages.
	ID() string

	// AllSimple returns every Simple sub-column reachable from this
	// column, including itself if it is Simple.
	AllSimple() []*Simple

	// AllAggregations returns every Aggregation sub-column reachable
	// from this column.
	AllAggregations() []*Aggregation

	// AllScalarFunctions returns every ScalarFunction sub-column
	// reachable from this column, including itself if it is one.
	AllScalarFunctions() []*ScalarFunction

	// Equal reports structural equality.
	Equal(other Column) bool
}

// Simple is a reference to one column of the underlying table by id.
// The id must not contain a backtick, since ids are backtick-quoted when
// emitted as query text.
type Simple struct {
	ColID string
}

// NewSimple constructs a Simple column, validating that the id does not
// contain a backtick.
func NewSimple(id string) (*Simple, error) {
	if strings.Contains(id, "`") {
		return nil, fmt.Errorf("column: id %q must not contain a backtick", id)
	}
	return &Simple{ColID: id}, nil
}

func (s *Simple) ID() string { return s.ColID }

func (s *Simple) AllSimple() []*Simple { return []*Simple{s} }

func (s *Simple) AllAggregations() []*Aggregation { return nil }

func (s *Simple) AllScalarFunctions() []*ScalarFunction { return nil }

func (s *Simple) Equal(other Column) bool {
	o, ok := other.(*Simple)
	return ok && o.ColID == s.ColID
}

// Aggregation aggregates a Simple target column with one of the five
// operators. Generated id is "OP-target", e.g. "sum-amount".
type Aggregation struct {
	Target *Simple
	Op     AggOp
}

// NewAggregation constructs an Aggregation column.
func NewAggregation(target *Simple, op AggOp) *Aggregation {
	return &Aggregation{Target: target, Op: op}
}

func (a *Aggregation) ID() string {
	return fmt.Sprintf("%s-%s", a.Op, a.Target.ColID)
}

func (a *Aggregation) AllSimple() []*Simple { return []*Simple{a.Target} }

func (a *Aggregation) AllAggregations() []*Aggregation { return []*Aggregation{a} }

func (a *Aggregation) AllScalarFunctions() []*ScalarFunction { return nil }

func (a *Aggregation) Equal(other Column) bool {
	o, ok := other.(*Aggregation)
	return ok && o.Op == a.Op && o.Target.Equal(a.Target)
}

// ScalarFunction applies a named scalar function to an ordered list of
// abstract column arguments, which may themselves be Simple, Aggregation
// or nested ScalarFunction columns. Generated id is
// "fn_arg1,arg2,…".
//
// A constant(v) node (zero arguments, a literal baked into the function
// itself) carries its resolved Function directly in Fn rather than
// being looked up from a catalog by name, since catalog entries are
// shared across all occurrences of a name but each constant(v) needs
// its own literal.
type ScalarFunction struct {
	FuncName string
	Args     []Column
	Fn       scalarfunc.Function
}

// NewScalarFunction constructs a ScalarFunction column resolved against
// a catalog by name at evaluation time.
func NewScalarFunction(name string, args []Column) *ScalarFunction {
	return &ScalarFunction{FuncName: name, Args: args}
}

// NewConstant constructs a constant(v) column: zero arguments, its
// value type is the type of v, and it evaluates to v on every row.
func NewConstant(v value.Value) *ScalarFunction {
	fn := scalarfunc.NewConstant(v)
	return &ScalarFunction{FuncName: fn.Name(), Fn: fn}
}

func (f *ScalarFunction) ID() string {
	if f.Fn != nil && len(f.Args) == 0 {
		return fmt.Sprintf("%s_%s", f.FuncName, f.Fn.ToQueryString(nil))
	}
	ids := make([]string, len(f.Args))
	for i, a := range f.Args {
		ids[i] = a.ID()
	}
	return fmt.Sprintf("%s_%s", f.FuncName, strings.Join(ids, ","))
}

func (f *ScalarFunction) AllSimple() []*Simple {
	var out []*Simple
	for _, a := range f.Args {
		out = append(out, a.AllSimple()...)
	}
	return out
}

func (f *ScalarFunction) AllAggregations() []*Aggregation {
	var out []*Aggregation
	for _, a := range f.Args {
		out = append(out, a.AllAggregations()...)
	}
	return out
}

func (f *ScalarFunction) AllScalarFunctions() []*ScalarFunction {
	out := []*ScalarFunction{f}
	for _, a := range f.Args {
		out = append(out, a.AllScalarFunctions()...)
	}
	return out
}

func (f *ScalarFunction) Equal(other Column) bool {
	o, ok := other.(*ScalarFunction)
	if !ok || o.FuncName != f.FuncName || len(o.Args) != len(f.Args) {
		return false
	}
	if (f.Fn == nil) != (o.Fn == nil) {
		return false
	}
	if f.Fn != nil && f.Fn.ToQueryString(nil) != o.Fn.ToQueryString(nil) {
		return false
	}
	for i, a := range f.Args {
		if !a.Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// ContainsAggregation reports whether c or any of its descendants is an
// Aggregation column.
func ContainsAggregation(c Column) bool {
	return len(c.AllAggregations()) > 0
}

// Label synthesizes a human-readable default label for c, following the
// same separator pattern as ID but using spaces instead of hyphens for
// aggregations and a comma-separated argument list for scalar functions.
func Label(c Column) string {
	switch t := c.(type) {
	case *Simple:
		return t.ColID
	case *Aggregation:
		return fmt.Sprintf("%s %s", t.Op, t.Target.ColID)
	case *ScalarFunction:
		labels := make([]string, len(t.Args))
		for i, a := range t.Args {
			labels[i] = Label(a)
		}
		return fmt.Sprintf("%s %s", t.FuncName, strings.Join(labels, ", "))
	default:
		return c.ID()
	}
}
