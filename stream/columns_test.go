package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/stream"
)

func TestColumnsProjectsAndReordersByName(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("a", "b", "c")
	row := tabular.NewRow(columns, []tabular.Value{tabular.NewInt(1), tabular.NewInt(2), tabular.NewInt(3)})
	src := sourceStream(columns, []tabular.Row{row})

	wanted := tabular.NewColumnSetFromNames("c", "a")
	proj := stream.NewColumns(src, wanted)

	out := materialize(t, proj)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, 2, out.Schema.Columns.Len())
	first, _ := out.Rows[0].Values[0].AsInt()
	second, _ := out.Rows[0].Values[1].AsInt()
	assert.EqualValues(t, 3, first)
	assert.EqualValues(t, 1, second)
}

func TestColumnsSkipsMissingNames(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("a")
	row := tabular.NewRow(columns, []tabular.Value{tabular.NewInt(1)})
	src := sourceStream(columns, []tabular.Row{row})

	wanted := tabular.NewColumnSetFromNames("a", "missing")
	proj := stream.NewColumns(src, wanted)

	resolved, err := proj.Columns(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved.Len())
}
