package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brinkdata/qengine/column"
	"github.com/brinkdata/qengine/qlang"
	"github.com/brinkdata/qengine/splitter"
)

func newSplitCommand(root *RootOptions) *cobra.Command {
	var src SourceOptions
	var qf QueryFlags

	cmd := &cobra.Command{
		Use:           "split",
		Short:         "Show how a query splits between the data source and the engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataSource, q, schema, catalog, err := prepare(src, qf)
			if err != nil {
				return WrapExitError(ExitCommandError, "preparing query", err)
			}
			if err := qlang.Validate(q, schema, catalog); err != nil {
				return WrapExitError(ExitCommandError, "query is invalid", err)
			}

			cap := dataSource.Capability()
			dataSourceQuery, completionQuery, err := splitter.Split(q, cap)
			if err != nil {
				return WrapExitError(ExitFailure, "splitting query", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "capability: %s\n", cap)
			fmt.Fprintf(out, "data source: %s\n", describeQuery(dataSourceQuery))
			fmt.Fprintf(out, "completion: %s\n", describeQuery(completionQuery))
			return nil
		},
	}

	registerSourceFlags(cmd, &src)
	registerQueryFlags(cmd, &qf)
	return cmd
}

func describeQuery(q *qlang.Query) string {
	if q == nil {
		return "(nil)"
	}
	var b strings.Builder
	b.WriteString("select ")
	b.WriteString(columnIDs(q.Selection))
	if q.Filter != nil {
		b.WriteString(" where ")
		b.WriteString(q.Filter.ToQueryString())
	}
	if len(q.Group) > 0 {
		b.WriteString(" group by ")
		b.WriteString(columnIDs(q.Group))
	}
	if len(q.Pivot) > 0 {
		b.WriteString(" pivot by ")
		b.WriteString(columnIDs(q.Pivot))
	}
	if len(q.Sort) > 0 {
		var parts []string
		for _, s := range q.Sort {
			if s.Desc {
				parts = append(parts, s.Col.ID()+" desc")
			} else {
				parts = append(parts, s.Col.ID())
			}
		}
		b.WriteString(" order by ")
		b.WriteString(strings.Join(parts, ", "))
	}
	if q.Limit >= 0 {
		fmt.Fprintf(&b, " limit %d", q.Limit)
	}
	return b.String()
}

func columnIDs(cols []column.Column) string {
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID()
	}
	return strings.Join(ids, ", ")
}
