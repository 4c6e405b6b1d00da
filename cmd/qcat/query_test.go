package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brinkdata/qengine/filter"
)

func TestBuildQuery_SelectGroupSortLimit(t *testing.T) {
	q, err := buildQuery(QueryFlags{
		Select: "region, sum(amount)",
		Group:  "region",
		Sort:   "region:desc",
		Limit:  10,
	})
	require.NoError(t, err)
	require.Len(t, q.Selection, 2)
	require.Equal(t, "sum-amount", q.Selection[1].ID())
	require.Len(t, q.Group, 1)
	require.True(t, q.Sort[0].Desc)
	require.Equal(t, 10, q.Limit)
}

func TestBuildQuery_DefaultLimitUnlimited(t *testing.T) {
	q, err := buildQuery(QueryFlags{Select: "region"})
	require.NoError(t, err)
	require.Equal(t, -1, q.Limit)
}

func TestParseWhere_NumericComparison(t *testing.T) {
	f, err := parseWhere("amount > 10")
	require.NoError(t, err)
	cv, ok := f.(*filter.ColumnValue)
	require.True(t, ok)
	require.Equal(t, "amount", cv.Col.ID())
	require.Equal(t, filter.Gt, cv.Op)
	require.Equal(t, 10.0, cv.Val.Num())
}

func TestParseWhere_StartsWith(t *testing.T) {
	f, err := parseWhere(`name STARTS WITH "al"`)
	require.NoError(t, err)
	cv, ok := f.(*filter.ColumnValue)
	require.True(t, ok)
	require.Equal(t, filter.StartsWith, cv.Op)
	require.Equal(t, "al", cv.Val.Str())
}

func TestParseWhere_UnrecognizedOperator(t *testing.T) {
	_, err := parseWhere("amount ~~ 10")
	require.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	m, err := parseAssignments("amount=Total Amount, region = Region")
	require.NoError(t, err)
	require.Equal(t, "Total Amount", m["amount"])
	require.Equal(t, "Region", m["region"])
}
