package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/splitter"
	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// ParquetSource reads a whole Parquet file into memory via
// segmentio/parquet-go (imported under its github.com/parquet-go fork,
// which is what that module's go.mod actually points releases at).
// Like CSVSource it can't push any part of a query down to the file
// itself.
type ParquetSource struct {
	Path string
}

func NewParquetSource(path string) *ParquetSource {
	return &ParquetSource{Path: path}
}

func (s *ParquetSource) Capability() splitter.Capability { return splitter.None }

func (s *ParquetSource) Columns() ([]table.ColumnDescription, error) {
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}
	return columnsFromRows(rows), nil
}

func (s *ParquetSource) Load(_ *qlang.Query) (*table.Table, error) {
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}
	cols := columnsFromRows(rows)

	tbl, err := table.New(cols, "")
	if err != nil {
		return nil, err
	}
	tbl.Properties = table.Properties{"source_id": newSourceID()}

	for _, row := range rows {
		values := make([]value.Value, len(cols))
		for i, col := range cols {
			values[i] = toValue(row[col.ID], col.Type)
		}
		if err := tbl.AddRow(values); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func (s *ParquetSource) readRows() ([]map[string]interface{}, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", s.Path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("source: stat %s: %w", s.Path, err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("source: open parquet file %s: %w", s.Path, err)
	}

	reader := parquet.NewReader(pqFile)
	defer reader.Close()

	var rows []map[string]interface{}
	for {
		row := make(map[string]interface{})
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("source: read row from %s: %w", s.Path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// columnsFromRows derives a schema by scanning every row for the union
// of keys it carries, inferring each column's qengine type from the
// first non-nil value seen for it. Parquet rows are sparse-free
// (every row carries every declared field, null or not), but the
// library surfaces an absent optional field by omitting the key
// entirely, so a full scan is needed rather than trusting row zero.
func columnsFromRows(rows []map[string]interface{}) []table.ColumnDescription {
	order := []string{}
	seen := map[string]bool{}
	types := map[string]value.Type{}
	for _, row := range rows {
		for k, v := range row {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
			if v != nil {
				if _, has := types[k]; !has {
					types[k] = goTypeToValueType(v)
				}
			}
		}
	}
	cols := make([]table.ColumnDescription, len(order))
	for i, name := range order {
		typ, ok := types[name]
		if !ok {
			typ = value.Text
		}
		cols[i] = table.ColumnDescription{ID: name, Type: typ}
	}
	return cols
}

func goTypeToValueType(v interface{}) value.Type {
	switch v.(type) {
	case bool:
		return value.Boolean
	case int, int32, int64, float32, float64:
		return value.Number
	default:
		return value.Text
	}
}

func toValue(v interface{}, typ value.Type) value.Value {
	if v == nil {
		return value.NullOf(typ)
	}
	switch typ {
	case value.Boolean:
		b, _ := v.(bool)
		return value.Bool(b)
	case value.Number:
		return value.Num(toFloat(v))
	default:
		return value.Str(fmt.Sprintf("%v", v))
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
