package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr"
	"github.com/colstack/tabular/expr/function"
	"github.com/colstack/tabular/stream"
)

func TestAggregateGroupsAndSumsPerLeafInInsertionOrder(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("region", "amount")
	rows := []tabular.Row{
		tabular.NewRow(columns, []tabular.Value{tabular.NewString("east"), tabular.NewDouble(10)}),
		tabular.NewRow(columns, []tabular.Value{tabular.NewString("west"), tabular.NewDouble(5)}),
		tabular.NewRow(columns, []tabular.Value{tabular.NewString("east"), tabular.NewDouble(3)}),
	}
	src := sourceStream(columns, rows)

	groupExpr := expr.NewSibling(tabular.NewColumn("region"))
	valueExpr := expr.NewSibling(tabular.NewColumn("amount"))
	agg := stream.NewAggregate(src,
		tabular.NewColumnSetFromNames("region"), []tabular.Expression{groupExpr},
		tabular.NewColumnSetFromNames("total"), []tabular.Aggregator{{Map: valueExpr, Reduce: function.NewSum()}},
	)

	out := materialize(t, agg)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "east", out.Rows[0].Values[0].AsString())
	eastTotal, _ := out.Rows[0].Values[1].AsDouble()
	assert.Equal(t, 13.0, eastTotal)
	assert.Equal(t, "west", out.Rows[1].Values[0].AsString())
}

func TestAggregateColumnsCombinesGroupAndValueNames(t *testing.T) {
	groupExpr := expr.NewSibling(tabular.NewColumn("region"))
	valueExpr := expr.NewSibling(tabular.NewColumn("amount"))
	columns := tabular.NewColumnSetFromNames("region", "amount")
	src := sourceStream(columns, nil)

	agg := stream.NewAggregate(src,
		tabular.NewColumnSetFromNames("region"), []tabular.Expression{groupExpr},
		tabular.NewColumnSetFromNames("total"), []tabular.Aggregator{{Map: valueExpr, Reduce: function.NewSum()}},
	)

	resolved, err := agg.Columns(nil)
	require.NoError(t, err)
	assert.True(t, resolved.Contains(tabular.NewColumn("region")))
	assert.True(t, resolved.Contains(tabular.NewColumn("total")))
}
