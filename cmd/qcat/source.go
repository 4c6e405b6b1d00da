package main

import (
	"fmt"

	"github.com/brinkdata/qengine/source"
)

// SourceOptions are the flags describing which data source to open.
// Exactly which fields are required depends on Kind.
type SourceOptions struct {
	Kind      string // csv, parquet, sql
	Path      string
	DSN       string
	TableName string
}

func buildSource(opts SourceOptions) (source.Source, error) {
	switch opts.Kind {
	case "csv":
		if opts.Path == "" {
			return nil, fmt.Errorf("--path is required for --source csv")
		}
		return source.NewCSVSource(opts.Path), nil
	case "parquet":
		if opts.Path == "" {
			return nil, fmt.Errorf("--path is required for --source parquet")
		}
		return source.NewParquetSource(opts.Path), nil
	case "sql":
		if opts.DSN == "" || opts.TableName == "" {
			return nil, fmt.Errorf("--dsn and --table are required for --source sql")
		}
		return source.NewSQLSource(opts.DSN, opts.TableName), nil
	default:
		return nil, fmt.Errorf("unknown --source %q: must be csv, parquet or sql", opts.Kind)
	}
}
