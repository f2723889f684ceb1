package raster

import tabular "github.com/colstack/tabular"

// Join performs an in-memory nested-loop join against the (already
// materialised) right Dataset, per spec.md §4.4's matching rule; the
// filter-pruning pass only matters for the streaming/SQL families, so
// this eager form skips straight to the nested loop.
func (d *Dataset) Join(j tabular.Join) tabular.Dataset {
	job := (*tabular.Job)(nil)
	rightCols, err := j.ForeignDataset.Columns(job)
	if err != nil {
		return NewFromRows(d.data.Schema.Columns, append([]tabular.Row{}, d.data.Rows...))
	}
	rightRaster, err := j.ForeignDataset.Raster(job)
	if err != nil {
		return NewFromRows(d.data.Schema.Columns, append([]tabular.Row{}, d.data.Rows...))
	}

	leftCols := d.data.Schema.Columns
	result := leftCols
	newCount := 0
	for _, c := range rightCols.Columns() {
		if !result.Contains(c) {
			result, _ = result.Add(c)
			newCount++
		}
	}
	if newCount == 0 {
		out := make([]tabular.Row, len(d.data.Rows))
		for i, r := range d.data.Rows {
			out[i] = r.WithSchema(result)
		}
		return NewFromRows(result, out)
	}

	combine := func(left, right tabular.Row, hasRight bool) tabular.Row {
		values := make([]tabular.Value, result.Len())
		for i, c := range result.Columns() {
			if leftCols.Contains(c) {
				values[i] = left.Get(c)
				continue
			}
			if hasRight {
				values[i] = right.Get(c)
			} else {
				values[i] = tabular.Empty
			}
		}
		return tabular.NewRow(result, values)
	}

	out := make([]tabular.Row, 0, len(d.data.Rows))
	for _, left := range d.data.Rows {
		matched := false
		for _, right := range rightRaster.Rows {
			v := j.Expression.Apply(left, &right, tabular.Invalid)
			if v.Kind() == tabular.KindBool && v.AsBool() {
				matched = true
				out = append(out, combine(left, right, true))
			}
		}
		if !matched && j.Type == tabular.LeftJoin {
			out = append(out, combine(left, tabular.Row{}, false))
		}
	}
	return NewFromRows(result, out)
}
