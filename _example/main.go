package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/config"
	"github.com/colstack/tabular/expr"
	"github.com/colstack/tabular/formula"
	"github.com/colstack/tabular/raster"
	"github.com/colstack/tabular/stream"
)

// This demonstrates wiring config, the formula parser, and a Dataset
// pipeline together: load tuning config, build an in-memory table,
// apply a formula-derived Calculate column, then sort by it.
func main() {
	log := logrus.WithField("component", "example")

	cfg, err := config.Load(strings.NewReader(`
wavefronts: 4
defaultQoS: userInitiated
reservoirDefaultCapacity: 1000
dialect: standard
`))
	if err != nil {
		panic(err)
	}
	log.WithField("qos", cfg.DefaultQoS).Info("loaded config")

	columns := tabular.NewColumnSetFromNames("name", "amount", "tax")
	rows := []tabular.Row{
		tabular.NewRow(columns, []tabular.Value{tabular.NewString("west"), tabular.NewDouble(120), tabular.NewDouble(0.08)}),
		tabular.NewRow(columns, []tabular.Value{tabular.NewString("east"), tabular.NewDouble(75), tabular.NewDouble(0.08)}),
		tabular.NewRow(columns, []tabular.Value{tabular.NewString("north"), tabular.NewDouble(200), tabular.NewDouble(0.05)}),
	}

	ds := stream.NewStreamDataset(raster.NewFromRows(columns, rows).Stream())

	total, err := formula.Parse(`[@amount] + ([@amount] * [@tax])`, formula.DefaultLocale)
	if err != nil {
		panic(err)
	}

	job := tabular.NewJob(cfg.QoS(), nil)
	defer job.Finish()

	withTotal := ds.Calculate(tabular.NewColumnSetFromNames("total"), []tabular.Expression{total})
	sortKey := expr.NewSibling(tabular.NewColumn("total"))
	sorted := withTotal.Sort([]tabular.Order{{Expression: sortKey, Ascending: false, Numeric: true}})

	out, err := sorted.Raster(job)
	if err != nil {
		panic(err)
	}
	for _, row := range out.Rows {
		fmt.Println(row.Values)
	}
}
