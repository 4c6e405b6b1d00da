package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSalesCSV(t *testing.T) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.csv")
	content := "region,amount\nwest,10\nwest,20\neast,5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunExec_GroupByAggregationCSV(t *testing.T) {
	path := writeSalesCSV(t)
	root := &RootOptions{Format: "csv", logger: testLogger()}

	cmd := newExecCommand(root)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--source", "csv", "--path", path,
		"--select", "region,sum(amount)",
		"--group", "region",
		"--sort", "region",
	})
	require.NoError(t, cmd.Execute())

	require.Contains(t, out.String(), "east,5")
	require.Contains(t, out.String(), "west,30")
}

func TestRunExec_UnknownSourceKind(t *testing.T) {
	root := &RootOptions{Format: "table", logger: testLogger()}
	cmd := newExecCommand(root)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--source", "xml", "--select", "region"})
	err := cmd.Execute()
	require.Error(t, err)
}
