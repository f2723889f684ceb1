package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr"
	"github.com/colstack/tabular/stream"
)

func TestCalculateAppendsNewColumnComputedPerRow(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("amount")
	rows := []tabular.Row{
		tabular.NewRow(columns, []tabular.Value{tabular.NewDouble(10)}),
		tabular.NewRow(columns, []tabular.Value{tabular.NewDouble(20)}),
	}
	src := sourceStream(columns, rows)

	doubled := expr.NewComparison(expr.NewSibling(tabular.NewColumn("amount")), expr.NewLiteral(tabular.NewDouble(2)), tabular.OpMul)
	calc := stream.NewCalculate(src, tabular.NewColumnSetFromNames("doubled"), []tabular.Expression{doubled})

	out := materialize(t, calc)
	require.Len(t, out.Rows, 2)
	idx, ok := out.Schema.Columns.IndexOf(tabular.NewColumn("doubled"))
	require.True(t, ok)
	f, _ := out.Rows[0].Values[idx].AsDouble()
	assert.Equal(t, 20.0, f)
}

func TestCalculateColumnsIncludesUpstreamAndTargetColumns(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("amount")
	src := sourceStream(columns, []tabular.Row{tabular.NewRow(columns, []tabular.Value{tabular.NewDouble(1)})})
	calc := stream.NewCalculate(src, tabular.NewColumnSetFromNames("total"), []tabular.Expression{expr.NewLiteral(tabular.NewDouble(0))})

	out, err := calc.Columns(nil)
	require.NoError(t, err)
	assert.True(t, out.Contains(tabular.NewColumn("amount")))
	assert.True(t, out.Contains(tabular.NewColumn("total")))
}
