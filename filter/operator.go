// Package filter implements the filter AST used by a query's WHERE
// clause: value/column comparisons, null tests, negation, and compound
// boolean combinations.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/brinkdata/qengine/value"
)

// Operator is one of the eleven comparison operators a ColumnValue or
// ColumnColumn filter can use.
type Operator int

const (
	Eq Operator = iota
	Ne
	Lt
	Gt
	Le
	Ge
	Contains
	StartsWith
	EndsWith
	Matches
	Like
)

// opInfo's query-string form (str) and equal-types flag (eqTypes) mirror the source's
// ComparisonFilterOperator enum exactly (confirmed against
// original_source/ComparisonFilterOperator.java): the six relational
// operators require equal types, the five text-pattern operators do
// not.
var opInfo = map[Operator]struct {
	str      string
	eqTypes  bool
}{
	Eq:         {"=", true},
	Ne:         {"!=", true},
	Lt:         {"<", true},
	Gt:         {">", true},
	Le:         {"<=", true},
	Ge:         {">=", true},
	Contains:   {"CONTAINS", false},
	StartsWith: {"STARTS WITH", false},
	EndsWith:   {"ENDS WITH", false},
	Matches:    {"MATCHES", false},
	Like:       {"LIKE", false},
}

// RequiresEqualTypes reports whether op short-circuits to false when its
// two operands have different types, rather than stringifying them.
func (op Operator) RequiresEqualTypes() bool { return opInfo[op].eqTypes }

// String is the query-language spelling of op.
func (op Operator) String() string { return opInfo[op].str }

// Apply evaluates op between a and b using cmp for the type-preserving
// relational operators, and ToString-based text semantics for the
// pattern operators. If op requires equal types and a.Type() !=
// b.Type(), Apply returns false without invoking cmp.
func Apply(op Operator, a, b value.Value, cmp value.Comparator) (bool, error) {
	if op.RequiresEqualTypes() && a.Type() != b.Type() {
		return false, nil
	}
	switch op {
	case Eq:
		return cmp(a, b) == 0, nil
	case Ne:
		return cmp(a, b) != 0, nil
	case Lt:
		return cmp(a, b) < 0, nil
	case Gt:
		return cmp(a, b) > 0, nil
	case Le:
		return cmp(a, b) <= 0, nil
	case Ge:
		return cmp(a, b) >= 0, nil
	case Contains:
		return strings.Contains(a.ToString(), b.ToString()), nil
	case StartsWith:
		return strings.HasPrefix(a.ToString(), b.ToString()), nil
	case EndsWith:
		return strings.HasSuffix(a.ToString(), b.ToString()), nil
	case Matches:
		re, err := regexp.Compile(b.ToString())
		if err != nil {
			// A malformed regex matches nothing, per spec.md §4.3 /
			// open question 5: never propagate the compile error.
			return false, nil
		}
		return re.MatchString(a.ToString()), nil
	case Like:
		return matchLike(a.ToString(), b.ToString()), nil
	default:
		return false, fmt.Errorf("filter: unknown operator %v", op)
	}
}

// matchLike implements SQL-style LIKE with % (any run) and _ (any
// single character) and no escape mechanism: every other character in
// pattern is literal, including % or _ a caller wanted literal.
func matchLike(s, pattern string) bool {
	return likeMatch([]rune(s), []rune(pattern))
}

func likeMatch(s, p []rune) bool {
	if len(p) == 0 {
		return len(s) == 0
	}
	switch p[0] {
	case '%':
		if likeMatch(s, p[1:]) {
			return true
		}
		for len(s) > 0 {
			s = s[1:]
			if likeMatch(s, p[1:]) {
				return true
			}
		}
		return false
	case '_':
		if len(s) == 0 {
			return false
		}
		return likeMatch(s[1:], p[1:])
	default:
		if len(s) == 0 || s[0] != p[0] {
			return false
		}
		return likeMatch(s[1:], p[1:])
	}
}
