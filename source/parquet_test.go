package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brinkdata/qengine/value"
)

func TestColumnsFromRows_UnionOfKeysAndInferredTypes(t *testing.T) {
	rows := []map[string]interface{}{
		{"id": int64(1), "name": "alice", "score": 95.5},
		{"id": int64(2), "name": "bob"},
	}
	cols := columnsFromRows(rows)

	byID := map[string]value.Type{}
	for _, c := range cols {
		byID[c.ID] = c.Type
	}
	require.Equal(t, value.Number, byID["id"])
	require.Equal(t, value.Text, byID["name"])
	require.Equal(t, value.Number, byID["score"])
}

func TestColumnsFromRows_AllNilValuesFallBackToText(t *testing.T) {
	rows := []map[string]interface{}{
		{"flag": nil},
	}
	cols := columnsFromRows(rows)
	require.Len(t, cols, 1)
	require.Equal(t, value.Text, cols[0].Type)
}

func TestGoTypeToValueType(t *testing.T) {
	require.Equal(t, value.Boolean, goTypeToValueType(true))
	require.Equal(t, value.Number, goTypeToValueType(int32(1)))
	require.Equal(t, value.Number, goTypeToValueType(1.5))
	require.Equal(t, value.Text, goTypeToValueType("x"))
}

func TestToValue_NilIsNull(t *testing.T) {
	v := toValue(nil, value.Number)
	require.True(t, v.IsNull())
}

func TestToValue_NumberFromVariousGoTypes(t *testing.T) {
	require.Equal(t, 42.0, toValue(int64(42), value.Number).Num())
	require.Equal(t, 3.5, toValue(float32(3.5), value.Number).Num())
}
