package output

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/brinkdata/qengine/table"
	"github.com/brinkdata/qengine/value"
)

func sampleTable(t *testing.T) *table.Table {
	tbl, err := table.New([]table.ColumnDescription{
		{ID: "name", Type: value.Text, Label: "Name"},
		{ID: "amount", Type: value.Number, Label: "Amount"},
	}, "")
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow([]value.Value{value.Str("alice"), value.Num(10)}))
	require.NoError(t, tbl.AddRow([]value.Value{value.Str("=cmd"), value.Num(20)}))
	tbl.Rows[0].Cells[1].Formatted = "10.00"
	tbl.Rows[1].Cells[1].Formatted = "20.00"
	return tbl
}

func TestCSVFormatter_Golden(t *testing.T) {
	tbl := sampleTable(t)
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf).Format(tbl))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "csv_output", buf.Bytes())
}

func TestCSVFormatter_SanitizesFormulaInjection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf).Format(sampleTable(t)))
	require.Contains(t, buf.String(), "'=cmd")
}

func TestJSONFormatter_Golden(t *testing.T) {
	tbl := sampleTable(t)
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(tbl))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "json_output", buf.Bytes())
}

func TestTableFormatter_RendersHeaderAndRows(t *testing.T) {
	tbl := sampleTable(t)
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(&buf).Format(tbl))
	require.Contains(t, buf.String(), "NAME")
	require.Contains(t, buf.String(), "alice")
}
