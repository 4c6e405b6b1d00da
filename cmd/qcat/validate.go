package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brinkdata/qengine/qlang"
)

func newValidateCommand(root *RootOptions) *cobra.Command {
	var src SourceOptions
	var qf QueryFlags

	cmd := &cobra.Command{
		Use:           "validate",
		Short:         "Check a query against a data source's schema without running it",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, q, schema, catalog, err := prepare(src, qf)
			if err != nil {
				return WrapExitError(ExitCommandError, "preparing query", err)
			}
			if err := qlang.Validate(q, schema, catalog); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				return NewExitError(ExitFailure, "query is invalid")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "query is valid")
			return nil
		},
	}

	registerSourceFlags(cmd, &src)
	registerQueryFlags(cmd, &qf)
	return cmd
}
