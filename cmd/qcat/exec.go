package main

import (
	"github.com/spf13/cobra"

	"github.com/brinkdata/qengine/engine"
	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/scalarfunc"
	"github.com/brinkdata/qengine/source"
	"github.com/brinkdata/qengine/splitter"
	"github.com/brinkdata/qengine/table"
)

func newExecCommand(root *RootOptions) *cobra.Command {
	var src SourceOptions
	var qf QueryFlags

	cmd := &cobra.Command{
		Use:           "exec",
		Short:         "Run a query against a data source and print the result",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(root, src, qf, cmd)
		},
	}

	registerSourceFlags(cmd, &src)
	registerQueryFlags(cmd, &qf)
	return cmd
}

func runExec(root *RootOptions, srcOpts SourceOptions, qf QueryFlags, cmd *cobra.Command) error {
	dataSource, q, schema, catalog, err := prepare(srcOpts, qf)
	if err != nil {
		return WrapExitError(ExitCommandError, "preparing query", err)
	}

	if err := qlang.Validate(q, schema, catalog); err != nil {
		return WrapExitError(ExitCommandError, "query is invalid", err)
	}

	dataSourceQuery, completionQuery, err := splitter.Split(q, dataSource.Capability())
	if err != nil {
		return WrapExitError(ExitFailure, "splitting query", err)
	}

	loaded, err := dataSource.Load(dataSourceQuery)
	if err != nil {
		return WrapExitError(ExitFailure, "loading data source", err)
	}
	if root.Verbose {
		root.logger.Printf("loaded %d row(s) from %s source", len(loaded.Rows), srcOpts.Kind)
	}

	result, err := engine.Execute(completionQuery, loaded, catalog, root.Locale)
	if err != nil {
		return WrapExitError(ExitFailure, "executing query", err)
	}

	formatter, err := formatterFor(root.Format, cmd.OutOrStdout())
	if err != nil {
		return WrapExitError(ExitCommandError, "selecting output format", err)
	}
	if err := formatter.Format(result); err != nil {
		return WrapExitError(ExitFailure, "writing output", err)
	}
	return nil
}

// prepare opens the data source, builds the query from flags and
// resolves the schema/catalog every subcommand needs to validate or run
// it. Shared by exec, validate and split so they stay consistent.
func prepare(srcOpts SourceOptions, qf QueryFlags) (dataSource source.Source, q *qlang.Query, schema *table.Table, catalog *scalarfunc.Catalog, err error) {
	src, err := buildSource(srcOpts)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	cols, err := src.Columns()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	schemaTable, err := table.New(cols, "")
	if err != nil {
		return nil, nil, nil, nil, err
	}

	query, err := buildQuery(qf)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return src, query, schemaTable, scalarfunc.NewCatalog(), nil
}
