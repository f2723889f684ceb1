package raster

import tabular "github.com/colstack/tabular"

type aggLeaf struct {
	groupValues []tabular.Value
	reducers    []tabular.Reducer
}

// Aggregate groups rows by a vector of group-expression values and
// reduces each value expression's results per group, per spec.md
// §4.5. The eager form needs no catalog mutex (no concurrent
// wavefronts touch a RasterDataset), unlike stream.Aggregate.
func (d *Dataset) Aggregate(groupNames *tabular.ColumnSet, groupExprs []tabular.Expression, valueNames *tabular.ColumnSet, aggregators []tabular.Aggregator) tabular.Dataset {
	all := append(append([]tabular.Column{}, groupNames.Columns()...), valueNames.Columns()...)
	columns := tabular.NewColumnSet(all...)

	order := make([]string, 0)
	leaves := make(map[string]*aggLeaf)

	for _, r := range d.data.Rows {
		groupValues := make([]tabular.Value, len(groupExprs))
		key := ""
		for i, e := range groupExprs {
			groupValues[i] = e.Apply(r, nil, tabular.Invalid)
			key += groupValues[i].AsString() + "\x1f"
		}
		leaf, ok := leaves[key]
		if !ok {
			reducers := make([]tabular.Reducer, len(aggregators))
			for i, agg := range aggregators {
				reducers[i] = agg.Reduce.New()
			}
			leaf = &aggLeaf{groupValues: groupValues, reducers: reducers}
			leaves[key] = leaf
			order = append(order, key)
		}
		for i, agg := range aggregators {
			leaf.reducers[i].Add(agg.Map.Apply(r, nil, tabular.Invalid))
		}
	}

	out := make([]tabular.Row, 0, len(order))
	for _, key := range order {
		leaf := leaves[key]
		values := make([]tabular.Value, 0, columns.Len())
		values = append(values, leaf.groupValues...)
		for i := range aggregators {
			values = append(values, leaf.reducers[i].Result())
		}
		out = append(out, tabular.NewRow(columns, values))
	}
	return NewFromRows(columns, out)
}
