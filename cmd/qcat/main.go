// Command qcat is the command-line frontend for qengine: it loads a
// table from a CSV, Parquet or SQLite data source, runs a query over
// it, and renders the result as CSV, JSON Lines or a terminal table.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(GetExitCode(err))
	}
}
