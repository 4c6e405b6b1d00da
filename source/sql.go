package source

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/filter"
	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/splitter"
	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

// SQLSource reads from a table in a SQLite database. Unlike CSVSource
// and ParquetSource it advertises the SQL capability tier: the data
// source half of a split query is compiled to real parameterized SQL
// and run by SQLite itself, and only the completion half runs through
// the engine.
type SQLSource struct {
	DSN       string
	TableName string

	db *sql.DB
}

func NewSQLSource(dsn, tableName string) *SQLSource {
	return &SQLSource{DSN: dsn, TableName: tableName}
}

func (s *SQLSource) Capability() splitter.Capability { return splitter.SQL }

func (s *SQLSource) open() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := sql.Open("sqlite3", s.DSN)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", s.DSN, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("source: connect %s: %w", s.DSN, err)
	}
	s.db = db
	return db, nil
}

func (s *SQLSource) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLSource) Columns() ([]table.ColumnDescription, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(s.TableName)))
	if err != nil {
		return nil, fmt.Errorf("source: inspect table %s: %w", s.TableName, err)
	}
	defer rows.Close()

	var cols []table.ColumnDescription
	for rows.Next() {
		var cid int
		var name, declType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("source: scan table_info: %w", err)
		}
		cols = append(cols, table.ColumnDescription{ID: name, Type: sqliteTypeToValue(declType)})
	}
	return cols, rows.Err()
}

// Load runs dataSourceQuery as real SQL against SQLite. A nil query
// means "select every row, unfiltered, unsorted" — the splitter falls
// back to this when it can't push anything down.
func (s *SQLSource) Load(dataSourceQuery *qlang.Query) (*table.Table, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}

	sqlText, args, err := compileSelect(s.TableName, dataSourceQuery)
	if err != nil {
		return nil, fmt.Errorf("source: compile query: %w", err)
	}

	rows, err := db.Query(sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("source: execute %q: %w", sqlText, err)
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	cols := make([]table.ColumnDescription, len(colNames))
	for i, name := range colNames {
		cols[i] = table.ColumnDescription{ID: name, Type: sqlDatabaseTypeToValue(colTypes[i])}
	}

	tbl, err := table.New(cols, "")
	if err != nil {
		return nil, err
	}
	tbl.Properties = table.Properties{"source_id": newSourceID()}

	dest := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("source: scan row: %w", err)
		}
		values := make([]value.Value, len(cols))
		for i, col := range cols {
			values[i] = toValue(dest[i], col.Type)
		}
		if err := tbl.AddRow(values); err != nil {
			return nil, err
		}
	}
	return tbl, rows.Err()
}

func sqliteTypeToValue(declType string) value.Type {
	t := strings.ToUpper(declType)
	switch {
	case strings.Contains(t, "INT") || strings.Contains(t, "REAL") || strings.Contains(t, "FLOA") || strings.Contains(t, "DOUB") || strings.Contains(t, "NUM"):
		return value.Number
	case strings.Contains(t, "BOOL"):
		return value.Boolean
	default:
		return value.Text
	}
}

func sqlDatabaseTypeToValue(t *sql.ColumnType) value.Type {
	return sqliteTypeToValue(t.DatabaseTypeName())
}

// compileSelect translates q (a qlang.Query restricted to the subset
// splitter.Split ever pushes to a SQL capability tier: Selection,
// Filter, Group, Sort, Limit, Offset) into parameterized SQL. Values
// are always bound as placeholders, never interpolated.
func compileSelect(tableName string, q *qlang.Query) (string, []interface{}, error) {
	if q == nil {
		return fmt.Sprintf("SELECT * FROM %s", quoteIdent(tableName)), nil, nil
	}

	selectClause := "*"
	if len(q.Selection) > 0 {
		parts := make([]string, len(q.Selection))
		for i, c := range q.Selection {
			sqlExpr, err := compileSelectColumn(c)
			if err != nil {
				return "", nil, err
			}
			parts[i] = sqlExpr
		}
		selectClause = strings.Join(parts, ", ")
	}

	var b strings.Builder
	var args []interface{}
	fmt.Fprintf(&b, "SELECT %s FROM %s", selectClause, quoteIdent(tableName))

	if q.Filter != nil {
		whereSQL, whereArgs, err := compileFilter(q.Filter)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" WHERE ")
		b.WriteString(whereSQL)
		args = append(args, whereArgs...)
	}

	if len(q.Group) > 0 {
		parts := make([]string, len(q.Group))
		for i, c := range q.Group {
			parts[i] = quoteIdent(c.ID())
		}
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(parts, ", "))
	}

	if len(q.Sort) > 0 {
		parts := make([]string, len(q.Sort))
		for i, s := range q.Sort {
			dir := "ASC"
			if s.Desc {
				dir = "DESC"
			}
			parts[i] = fmt.Sprintf("%s %s", quoteIdent(s.Col.ID()), dir)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}

	if q.Limit >= 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	} else if q.Offset > 0 {
		// SQLite accepts OFFSET only after a LIMIT; -1 means no limit.
		b.WriteString(" LIMIT -1")
	}
	if q.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", q.Offset)
	}

	return b.String(), args, nil
}

func compileSelectColumn(c column.Column) (string, error) {
	switch t := c.(type) {
	case *column.Simple:
		return quoteIdent(t.ColID), nil
	case *column.Aggregation:
		return fmt.Sprintf("%s(%s) AS %s", t.Op, quoteIdent(t.Target.ColID), quoteIdent(t.ID())), nil
	default:
		return "", fmt.Errorf("source: cannot push a scalar function down to SQL: %s", c.ID())
	}
}

func compileFilter(f filter.Filter) (string, []interface{}, error) {
	switch t := f.(type) {
	case *filter.ColumnIsNull:
		return fmt.Sprintf("%s IS NULL", quoteIdent(t.Col.ID())), nil, nil
	case *filter.ColumnValue:
		opSQL, err := compileOperator(t.Op)
		if err != nil {
			return "", nil, err
		}
		lhs, rhs := quoteIdent(t.Col.ID()), "?"
		if t.Reversed {
			lhs, rhs = "?", quoteIdent(t.Col.ID())
		}
		return fmt.Sprintf("%s %s %s", lhs, opSQL, rhs), []interface{}{valueToParam(t.Val)}, nil
	case *filter.ColumnColumn:
		opSQL, err := compileOperator(t.Op)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s %s %s", quoteIdent(t.Col1.ID()), opSQL, quoteIdent(t.Col2.ID())), nil, nil
	case *filter.Negation:
		sub, args, err := compileFilter(t.Sub)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("NOT (%s)", sub), args, nil
	case *filter.Compound:
		sep := " AND "
		if t.Op == filter.Or {
			sep = " OR "
		}
		var parts []string
		var args []interface{}
		for _, sub := range t.Subs {
			sql, subArgs, err := compileFilter(sub)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, "("+sql+")")
			args = append(args, subArgs...)
		}
		return strings.Join(parts, sep), args, nil
	default:
		return "", nil, fmt.Errorf("source: unsupported filter node %T", f)
	}
}

// compileOperator maps the six relational operators and LIKE onto
// SQL; the other four text-pattern operators have no direct
// SQLite equivalent and are rejected rather than silently
// mistranslated.
func compileOperator(op filter.Operator) (string, error) {
	switch op {
	case filter.Eq:
		return "=", nil
	case filter.Ne:
		return "!=", nil
	case filter.Lt:
		return "<", nil
	case filter.Gt:
		return ">", nil
	case filter.Le:
		return "<=", nil
	case filter.Ge:
		return ">=", nil
	case filter.Like:
		return "LIKE", nil
	default:
		return "", fmt.Errorf("source: operator %s cannot be pushed down to SQL", op)
	}
}

func valueToParam(v value.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case value.Boolean:
		return v.Bool()
	case value.Number:
		return v.Num()
	default:
		return v.ToString()
	}
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
