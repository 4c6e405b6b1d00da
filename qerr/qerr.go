// Package qerr implements the engine's error taxonomy: a single
// "invalid query" result kind carrying a stable reason code and a
// parameterized message (validator, scalar-function validate,
// aggregation type errors all map here), and a separate "internal
// error" kind for invariants the engine itself must never violate
// (empty compound filter, unknown aggregation operator reaching the
// evaluator).
package qerr

import (
	"errors"
	"fmt"
)

// Reason is a stable enumeration of invalid-query causes, used by
// callers (e.g. a localizing transport layer) to key a translated
// message independent of the English text in Error().
type Reason string

const (
	ColumnNotFound            Reason = "COL_NOT_FOUND"
	AvgSumOnlyNumeric         Reason = "AVG_SUM_ONLY_NUMERIC"
	DuplicateColumn           Reason = "DUPLICATE_COLUMN"
	AggregationInGroupOrderBy Reason = "AGG_IN_GROUP_PIVOT_WHERE"
	ColAggNotInSelect         Reason = "COL_AGG_NOT_IN_SELECT"
	AggregatedGroupByColumn   Reason = "AGG_COLUMN_IN_GROUP_BY"
	CannotPivotWithoutAgg     Reason = "CANNOT_PIVOT_WITHOUT_AGG"
	ColumnInGroupAndPivot     Reason = "COL_IN_GROUP_AND_PIVOT"
	OrderByNotInSelect        Reason = "ORDER_BY_NOT_IN_SELECT"
	OrderByAggregationInPivot Reason = "ORDER_BY_AGG_WITH_PIVOT"
	LabelFormatNotInSelect    Reason = "LABEL_FORMAT_NOT_IN_SELECT"
	ScalarFunctionMisuse      Reason = "SCALAR_FUNCTION_MISUSE"
	DataTruncated             Reason = "DATA_TRUNCATED"
	IllegalFormattingPatterns Reason = "ILLEGAL_FORMATTING_PATTERNS"
)

// Invalid is a semantic query error: the validator, a scalar function's
// Validate, or an aggregation type check stopped at the first failure
// and is surfacing it to the caller.
type Invalid struct {
	Reason  Reason
	Message string
}

func (e *Invalid) Error() string { return fmt.Sprintf("invalid query [%s]: %s", e.Reason, e.Message) }

// NewInvalid constructs an Invalid error with a formatted message.
func NewInvalid(reason Reason, format string, args ...interface{}) *Invalid {
	return &Invalid{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Internal marks a programming-error condition the engine must never
// reach through valid input: an empty compound filter, an unknown
// aggregation operator, a column lookup miss after validation passed.
// Internal errors are not localized and not meant to be shown to an
// end user; they indicate a bug in the caller or the engine itself.
type Internal struct {
	Message string
}

func (e *Internal) Error() string { return fmt.Sprintf("internal error: %s", e.Message) }

// NewInternal constructs an Internal error with a formatted message.
func NewInternal(format string, args ...interface{}) *Internal {
	return &Internal{Message: fmt.Sprintf(format, args...)}
}

// IsInvalid reports whether err is (or wraps) an *Invalid.
func IsInvalid(err error) bool {
	var inv *Invalid
	return errors.As(err, &inv)
}
