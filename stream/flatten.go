package stream

import tabular "github.com/colstack/tabular"

// Flatten pivots wide rows to long form: for every (row, column) pair
// drawn from the declared "to" column set, it emits one output row
// holding {rowIdentifier?, columnName?, valueTo}, per spec.md §4.3.
type Flatten struct {
	base          transformerBase
	valueTo       tabular.Column
	columnNameTo  tabular.Column
	rowIdentifier tabular.Column
	to            *tabular.ColumnSet
	columns       *tabular.ColumnSet
}

func NewFlatten(upstream tabular.Stream, valueTo, columnNameTo, rowIdentifier tabular.Column, to *tabular.ColumnSet) *Flatten {
	cols := make([]tabular.Column, 0, 3)
	if !rowIdentifier.IsZero() {
		cols = append(cols, rowIdentifier)
	}
	if !columnNameTo.IsZero() {
		cols = append(cols, columnNameTo)
	}
	cols = append(cols, valueTo)
	return &Flatten{
		base: newBase("flatten", upstream),
		valueTo: valueTo, columnNameTo: columnNameTo, rowIdentifier: rowIdentifier,
		to:      to,
		columns: tabular.NewColumnSet(cols...),
	}
}

func (f *Flatten) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return f.columns, nil
}

func (f *Flatten) Fetch(job *tabular.Job, sink tabular.Sink) {
	f.base.runFetch(job, sink, nil, func(rows []tabular.Row, status tabular.FetchStatus) ([]tabular.Row, tabular.FetchStatus, error) {
		out := make([]tabular.Row, 0, len(rows)*f.to.Len())
		for _, r := range rows {
			for _, c := range f.to.Columns() {
				values := make([]tabular.Value, 0, 3)
				if !f.rowIdentifier.IsZero() {
					values = append(values, r.Get(f.rowIdentifier))
				}
				if !f.columnNameTo.IsZero() {
					values = append(values, tabular.NewString(c.String()))
				}
				values = append(values, r.Get(c))
				out = append(out, tabular.NewRow(f.columns, values))
			}
		}
		return out, status, nil
	})
}

func (f *Flatten) Clone() tabular.Stream {
	return &Flatten{
		base: newBase("flatten", f.base.upstream.Clone()),
		valueTo: f.valueTo, columnNameTo: f.columnNameTo, rowIdentifier: f.rowIdentifier,
		to: f.to, columns: f.columns,
	}
}
