package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/filter"
	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/value"
)

// QueryFlags mirrors the clauses of a qlang.Query as flat strings, the
// form cobra flags naturally take. buildQuery turns them into a real
// *qlang.Query.
type QueryFlags struct {
	Select string
	Where  string
	Group  string
	Pivot  string
	Sort   string
	Skip   int
	Limit  int
	Offset int
	Label  string
	Format string
}

var aggCallPattern = regexp.MustCompile(`^(\w+)\((\w+)\)$`)

func buildQuery(f QueryFlags) (*qlang.Query, error) {
	q := qlang.New()

	selection, err := parseColumnList(f.Select)
	if err != nil {
		return nil, fmt.Errorf("--select: %w", err)
	}
	q.Selection = selection

	if f.Where != "" {
		ft, err := parseWhere(f.Where)
		if err != nil {
			return nil, fmt.Errorf("--where: %w", err)
		}
		q.Filter = ft
	}

	group, err := parseSimpleColumnList(f.Group)
	if err != nil {
		return nil, fmt.Errorf("--group: %w", err)
	}
	q.Group = group

	pivot, err := parseSimpleColumnList(f.Pivot)
	if err != nil {
		return nil, fmt.Errorf("--pivot: %w", err)
	}
	q.Pivot = pivot

	sort, err := parseSort(f.Sort)
	if err != nil {
		return nil, fmt.Errorf("--sort: %w", err)
	}
	q.Sort = sort

	q.Skip = f.Skip
	q.Offset = f.Offset
	if f.Limit != 0 {
		q.Limit = f.Limit
	}

	labels, err := parseAssignments(f.Label)
	if err != nil {
		return nil, fmt.Errorf("--label: %w", err)
	}
	q.Labels = labels

	formats, err := parseAssignments(f.Format)
	if err != nil {
		return nil, fmt.Errorf("--column-format: %w", err)
	}
	q.Formats = formats

	return q, nil
}

// parseColumnList parses a comma-separated "--select" value: each item
// is a bare column id or an aggregation call like "sum(amount)".
func parseColumnList(s string) ([]column.Column, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var cols []column.Column
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if m := aggCallPattern.FindStringSubmatch(item); m != nil {
			op, ok := parseAggOp(m[1])
			if !ok {
				return nil, fmt.Errorf("unknown aggregation %q", m[1])
			}
			target, err := column.NewSimple(m[2])
			if err != nil {
				return nil, err
			}
			cols = append(cols, column.NewAggregation(target, op))
			continue
		}
		simple, err := column.NewSimple(item)
		if err != nil {
			return nil, err
		}
		cols = append(cols, simple)
	}
	return cols, nil
}

func parseSimpleColumnList(s string) ([]column.Column, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var cols []column.Column
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		simple, err := column.NewSimple(item)
		if err != nil {
			return nil, err
		}
		cols = append(cols, simple)
	}
	return cols, nil
}

func parseAggOp(s string) (column.AggOp, bool) {
	switch strings.ToLower(s) {
	case "count":
		return column.Count, true
	case "sum":
		return column.Sum, true
	case "avg":
		return column.Avg, true
	case "min":
		return column.Min, true
	case "max":
		return column.Max, true
	default:
		return 0, false
	}
}

// parseSort parses a comma-separated "--sort" value of "col" or
// "col:desc"/"col:asc" entries.
func parseSort(s string) ([]qlang.SortItem, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var items []qlang.SortItem
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 2)
		col, err := column.NewSimple(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, err
		}
		desc := false
		if len(parts) == 2 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "desc":
				desc = true
			case "asc", "":
			default:
				return nil, fmt.Errorf("unknown sort direction %q", parts[1])
			}
		}
		items = append(items, qlang.SortItem{Col: col, Desc: desc})
	}
	return items, nil
}

// whereOperators is tried longest-spelling-first so "STARTS WITH" is not
// swallowed by a shorter prefix match.
var whereOperators = []struct {
	spelling string
	op       filter.Operator
}{
	{"STARTS WITH", filter.StartsWith},
	{"ENDS WITH", filter.EndsWith},
	{"CONTAINS", filter.Contains},
	{"MATCHES", filter.Matches},
	{"LIKE", filter.Like},
	{"!=", filter.Ne},
	{"<=", filter.Le},
	{">=", filter.Ge},
	{"=", filter.Eq},
	{"<", filter.Lt},
	{">", filter.Gt},
}

// parseWhere parses a single predicate of the form "col OP value". It
// does not support compound filters; those are only reachable through
// a real parsed query, not this CLI's flat flag surface.
func parseWhere(s string) (filter.Filter, error) {
	upper := strings.ToUpper(s)
	for _, cand := range whereOperators {
		idx := strings.Index(upper, cand.spelling)
		if idx < 0 {
			continue
		}
		colPart := strings.TrimSpace(s[:idx])
		valPart := strings.TrimSpace(s[idx+len(cand.spelling):])
		col, err := column.NewSimple(colPart)
		if err != nil {
			return nil, err
		}
		return &filter.ColumnValue{Col: col, Val: parseLiteral(valPart), Op: cand.op}, nil
	}
	return nil, fmt.Errorf("no recognized operator in %q", s)
}

// parseLiteral guesses a value's type the way an untyped CLI argument
// must: boolean and numeric spellings first, text otherwise.
func parseLiteral(s string) value.Value {
	s = strings.Trim(s, `"'`)
	if b, err := strconv.ParseBool(s); err == nil {
		return value.Bool(b)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Num(n)
	}
	return value.Str(s)
}

// parseAssignments parses a comma-separated "col=value" list, used for
// both --label and --column-format.
func parseAssignments(s string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected col=value, got %q", item)
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out, nil
}
