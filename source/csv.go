package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/splitter"
	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// CSVSource reads a whole CSV file into memory. The first row is the
// header; each column's type is inferred from its cell in the first
// data row only (NUMBER if it parses as a float, BOOLEAN if it is
// exactly "true"/"false", TEXT otherwise, including when that cell is
// empty or there is no data row). A source this shallow can't
// push any part of a query down, so it always advertises None.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Capability() splitter.Capability { return splitter.None }

func (s *CSVSource) Columns() ([]table.ColumnDescription, error) {
	header, firstRow, err := s.peek()
	if err != nil {
		return nil, err
	}
	cols := make([]table.ColumnDescription, len(header))
	for i, name := range header {
		typ := value.Text
		if i < len(firstRow) {
			typ = inferType(firstRow[i])
		}
		cols[i] = table.ColumnDescription{ID: name, Type: typ}
	}
	return cols, nil
}

// Load ignores dataSourceQuery: a CSV file is read in full regardless
// of what the splitter pushed down, since there is nothing underneath
// it capable of filtering or aggregating before the engine sees the
// rows.
func (s *CSVSource) Load(_ *qlang.Query) (*table.Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("source: read CSV header from %s: %w", s.Path, err)
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source: read CSV row from %s: %w", s.Path, err)
		}
		records = append(records, rec)
	}

	cols := make([]table.ColumnDescription, len(header))
	for i, name := range header {
		typ := value.Text
		if len(records) > 0 && i < len(records[0]) && records[0][i] != "" {
			typ = inferType(records[0][i])
		}
		cols[i] = table.ColumnDescription{ID: name, Type: typ}
	}

	tbl, err := table.New(cols, "")
	if err != nil {
		return nil, err
	}
	tbl.Properties = table.Properties{"source_id": newSourceID()}

	for _, rec := range records {
		values := make([]value.Value, len(cols))
		for i, col := range cols {
			if i >= len(rec) || rec[i] == "" {
				values[i] = value.NullOf(col.Type)
				continue
			}
			v, err := parseCell(rec[i], col.Type)
			if err != nil {
				return nil, fmt.Errorf("source: %s column %q: %w", s.Path, col.ID, err)
			}
			values[i] = v
		}
		if err := tbl.AddRow(values); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func (s *CSVSource) peek() (header, firstRow []string, err error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("source: open %s: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err = r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("source: read CSV header from %s: %w", s.Path, err)
	}
	firstRow, err = r.Read()
	if err == io.EOF {
		return header, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("source: read CSV row from %s: %w", s.Path, err)
	}
	return header, firstRow, nil
}

func inferType(cell string) value.Type {
	if cell == "" {
		return value.Text
	}
	if cell == "true" || cell == "false" {
		return value.Boolean
	}
	if _, err := strconv.ParseFloat(cell, 64); err == nil {
		return value.Number
	}
	return value.Text
}

func parseCell(cell string, typ value.Type) (value.Value, error) {
	switch typ {
	case value.Boolean:
		return value.Bool(cell == "true"), nil
	case value.Number:
		n, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return value.Value{}, err
		}
		return value.Num(n), nil
	default:
		return value.Str(cell), nil
	}
}
