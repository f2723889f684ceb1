package raster

import tabular "github.com/colstack/tabular"

// Pivot spreads the distinct values of horizontal into new columns,
// grouped by vertical, filling cells from values; later rows with the
// same (vertical, horizontal) pair overwrite earlier ones. Columns
// other than horizontal/vertical/values are dropped — this dataset has
// no original-language source to follow (see DESIGN.md), so the shape
// is the conventional spreadsheet pivot: one output row per distinct
// vertical key, one output column per distinct horizontal value.
func (d *Dataset) Pivot(horizontal, vertical, values tabular.Column) tabular.Dataset {
	type group struct {
		key    tabular.Value
		cells  map[string]tabular.Value
	}
	order := make([]string, 0)
	groups := make(map[string]*group)
	headerOrder := make([]string, 0)
	headerSeen := make(map[string]bool)

	for _, r := range d.data.Rows {
		vKey := r.Get(vertical)
		gk := vKey.AsString()
		g, ok := groups[gk]
		if !ok {
			g = &group{key: vKey, cells: make(map[string]tabular.Value)}
			groups[gk] = g
			order = append(order, gk)
		}
		hName := r.Get(horizontal).AsString()
		if !headerSeen[hName] {
			headerSeen[hName] = true
			headerOrder = append(headerOrder, hName)
		}
		g.cells[hName] = r.Get(values)
	}

	cols := make([]tabular.Column, 0, len(headerOrder)+1)
	cols = append(cols, vertical)
	for _, h := range headerOrder {
		cols = append(cols, tabular.NewColumn(h))
	}
	columns := tabular.NewColumnSet(cols...)

	out := make([]tabular.Row, 0, len(order))
	for _, gk := range order {
		g := groups[gk]
		vals := make([]tabular.Value, columns.Len())
		vals[0] = g.key
		for i, h := range headerOrder {
			if v, ok := g.cells[h]; ok {
				vals[i+1] = v
			} else {
				vals[i+1] = tabular.Empty
			}
		}
		out = append(out, tabular.NewRow(columns, vals))
	}
	return NewFromRows(columns, out)
}

// Transpose swaps rows and columns: each original column becomes a
// row (named "Column"), and each original row becomes a column (named
// by its first value, falling back to a positional name on collision
// or an empty first cell).
func (d *Dataset) Transpose() tabular.Dataset {
	oldColumns := d.data.Schema.Columns.Columns()
	rowNames := make([]string, len(d.data.Rows))
	used := make(map[string]bool)
	for i, r := range d.data.Rows {
		name := r.At(0).AsString()
		if name == "" || used[name] {
			name = positionalName(i)
		}
		used[name] = true
		rowNames[i] = name
	}

	cols := make([]tabular.Column, 0, len(d.data.Rows)+1)
	cols = append(cols, tabular.NewColumn("Column"))
	for _, n := range rowNames {
		cols = append(cols, tabular.NewColumn(n))
	}
	columns := tabular.NewColumnSet(cols...)

	out := make([]tabular.Row, len(oldColumns))
	for ci, oc := range oldColumns {
		vals := make([]tabular.Value, columns.Len())
		vals[0] = tabular.NewString(oc.String())
		for ri, r := range d.data.Rows {
			vals[ri+1] = r.At(ci)
		}
		out[ci] = tabular.NewRow(columns, vals)
	}
	return NewFromRows(columns, out)
}

func positionalName(i int) string {
	const digits = "0123456789"
	if i == 0 {
		return "Row0"
	}
	s := ""
	for i > 0 {
		s = string(digits[i%10]) + s
		i /= 10
	}
	return "Row" + s
}

// Flatten pivots wide rows to long form, matching stream.Flatten's
// contract over an already-materialised row slice.
func (d *Dataset) Flatten(valueTo, columnNameTo, rowIdentifier tabular.Column, to *tabular.ColumnSet) tabular.Dataset {
	cols := make([]tabular.Column, 0, 3)
	if !rowIdentifier.IsZero() {
		cols = append(cols, rowIdentifier)
	}
	if !columnNameTo.IsZero() {
		cols = append(cols, columnNameTo)
	}
	cols = append(cols, valueTo)
	columns := tabular.NewColumnSet(cols...)

	out := make([]tabular.Row, 0, len(d.data.Rows)*to.Len())
	for _, r := range d.data.Rows {
		for _, c := range to.Columns() {
			values := make([]tabular.Value, 0, 3)
			if !rowIdentifier.IsZero() {
				values = append(values, r.Get(rowIdentifier))
			}
			if !columnNameTo.IsZero() {
				values = append(values, tabular.NewString(c.String()))
			}
			values = append(values, r.Get(c))
			out = append(out, tabular.NewRow(columns, values))
		}
	}
	return NewFromRows(columns, out)
}
