package raster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr"
	"github.com/colstack/tabular/expr/function"
	"github.com/colstack/tabular/raster"
)

func TestDatasetAggregateGroupsInFirstSeenOrder(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("region", "amount")
	rows := []tabular.Row{
		tabular.NewRow(columns, []tabular.Value{tabular.NewString("west"), tabular.NewDouble(5)}),
		tabular.NewRow(columns, []tabular.Value{tabular.NewString("east"), tabular.NewDouble(10)}),
		tabular.NewRow(columns, []tabular.Value{tabular.NewString("west"), tabular.NewDouble(1)}),
	}
	d := raster.NewFromRows(columns, rows)

	groupExpr := expr.NewSibling(tabular.NewColumn("region"))
	valueExpr := expr.NewSibling(tabular.NewColumn("amount"))
	result := d.Aggregate(
		tabular.NewColumnSetFromNames("region"), []tabular.Expression{groupExpr},
		tabular.NewColumnSetFromNames("total"), []tabular.Aggregator{{Map: valueExpr, Reduce: function.NewSum()}},
	)

	r, err := result.Raster(nil)
	require.NoError(t, err)
	require.Len(t, r.Rows, 2)
	assert.Equal(t, "west", r.Rows[0].Values[0].AsString())
	westTotal, _ := r.Rows[0].Values[1].AsDouble()
	assert.Equal(t, 6.0, westTotal)
	assert.Equal(t, "east", r.Rows[1].Values[0].AsString())
}
