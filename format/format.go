// Package format implements the engine's pluggable cell-formatting
// collaborator: a formatting pattern compiles once per column into a
// Formatter, which then renders every cell's value to display text. A
// malformed pattern is reported once at compile time rather than on
// every cell, so the pipeline's format stage can fall back to a
// column's default rendering and attach a single table-level warning.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brinkdata/qengine/value"
)

// Formatter renders a Value to display text under one compiled pattern.
type Formatter interface {
	Format(v value.Value) string
}

// Compile parses pattern for typ, returning an error if pattern is not a
// formatting pattern typ supports.
func Compile(pattern string, typ value.Type) (Formatter, error) {
	if pattern == "" {
		return defaultFormatter{}, nil
	}
	switch typ {
	case value.Number:
		return compileNumber(pattern)
	case value.Date, value.DateTime, value.TimeOfDay:
		return compileTemporal(pattern, typ)
	case value.Boolean, value.Text:
		return nil, fmt.Errorf("format: %s columns do not support a formatting pattern", typ)
	default:
		return nil, fmt.Errorf("format: unknown type %v", typ)
	}
}

type defaultFormatter struct{}

func (defaultFormatter) Format(v value.Value) string { return v.ToString() }

// numberFormatter renders a NUMBER with a fixed decimal precision and
// optional thousands grouping, per a pattern like "#,##0.00" or "0.0".
type numberFormatter struct {
	decimals int
	grouped  bool
}

func compileNumber(pattern string) (Formatter, error) {
	grouped := strings.Contains(pattern, ",")
	dot := strings.IndexByte(pattern, '.')
	decimals := 0
	if dot >= 0 {
		for _, ch := range pattern[dot+1:] {
			if ch != '0' && ch != '#' {
				break
			}
			decimals++
		}
	}
	for _, ch := range pattern {
		switch ch {
		case '#', '0', ',', '.', '-', '+', '%':
		default:
			return nil, fmt.Errorf("format: invalid character %q in number pattern %q", ch, pattern)
		}
	}
	return numberFormatter{decimals: decimals, grouped: grouped}, nil
}

func (f numberFormatter) Format(v value.Value) string {
	if v.IsNull() {
		return ""
	}
	s := strconv.FormatFloat(v.Num(), 'f', f.decimals, 64)
	if !f.grouped {
		return s
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot:]
	}
	grouped := groupThousands(intPart)
	out := grouped + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// temporalFormatter renders DATE/DATETIME/TIMEOFDAY values by replacing
// the recognized tokens (yyyy, yy, MM, M, dd, d, HH, H, mm, m, ss, s,
// SSS) in pattern with the corresponding zero-padded field.
type temporalFormatter struct {
	pattern string
	typ     value.Type
}

var temporalTokens = []string{"yyyy", "yy", "MM", "M", "dd", "d", "HH", "H", "mm", "m", "ss", "s", "SSS"}

func compileTemporal(pattern string, typ value.Type) (Formatter, error) {
	rest := pattern
	for _, tok := range temporalTokens {
		rest = strings.ReplaceAll(rest, tok, "")
	}
	for _, ch := range rest {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
			return nil, fmt.Errorf("format: unrecognized token in temporal pattern %q", pattern)
		}
	}
	return temporalFormatter{pattern: pattern, typ: typ}, nil
}

func (f temporalFormatter) Format(v value.Value) string {
	if v.IsNull() {
		return ""
	}
	out := f.pattern
	var year, month, day, hour, minute, second, ms int
	if f.typ == value.Date || f.typ == value.DateTime {
		year, month, day = v.Date()
		month++
	}
	if f.typ == value.TimeOfDay || f.typ == value.DateTime {
		hour, minute, second, ms = v.Time()
	}
	replacements := []struct{ tok, val string }{
		{"yyyy", fmt.Sprintf("%04d", year)},
		{"yy", fmt.Sprintf("%02d", year%100)},
		{"MM", fmt.Sprintf("%02d", month)},
		{"M", strconv.Itoa(month)},
		{"dd", fmt.Sprintf("%02d", day)},
		{"d", strconv.Itoa(day)},
		{"HH", fmt.Sprintf("%02d", hour)},
		{"H", strconv.Itoa(hour)},
		{"mm", fmt.Sprintf("%02d", minute)},
		{"m", strconv.Itoa(minute)},
		{"ss", fmt.Sprintf("%02d", second)},
		{"s", strconv.Itoa(second)},
		{"SSS", fmt.Sprintf("%03d", ms)},
	}
	for _, r := range replacements {
		out = strings.ReplaceAll(out, r.tok, r.val)
	}
	return out
}
