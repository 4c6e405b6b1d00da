package main

import "github.com/spf13/cobra"

func registerSourceFlags(cmd *cobra.Command, src *SourceOptions) {
	cmd.Flags().StringVar(&src.Kind, "source", "csv", "data source kind: csv, parquet or sql")
	cmd.Flags().StringVar(&src.Path, "path", "", "file path, for --source csv or parquet")
	cmd.Flags().StringVar(&src.DSN, "dsn", "", "sqlite DSN, for --source sql")
	cmd.Flags().StringVar(&src.TableName, "table", "", "table name, for --source sql")
}

func registerQueryFlags(cmd *cobra.Command, qf *QueryFlags) {
	cmd.Flags().StringVar(&qf.Select, "select", "", `columns to select, e.g. "region,sum(amount)"`)
	cmd.Flags().StringVar(&qf.Where, "where", "", `a single predicate, e.g. "amount > 10"`)
	cmd.Flags().StringVar(&qf.Group, "group", "", "columns to group by")
	cmd.Flags().StringVar(&qf.Pivot, "pivot", "", "columns to pivot by")
	cmd.Flags().StringVar(&qf.Sort, "sort", "", `sort keys, e.g. "region,amount:desc"`)
	cmd.Flags().IntVar(&qf.Skip, "skip", 0, "rows to skip before paginating")
	cmd.Flags().IntVar(&qf.Limit, "limit", 0, "maximum rows to return (0 means unlimited)")
	cmd.Flags().IntVar(&qf.Offset, "offset", 0, "rows to drop after skip, before limit")
	cmd.Flags().StringVar(&qf.Label, "label", "", `column labels, e.g. "amount=Total Amount"`)
	cmd.Flags().StringVar(&qf.Format, "column-format", "", `per-column display patterns, e.g. "amount=#,##0.00"`)
}
