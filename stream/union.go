package stream

import tabular "github.com/colstack/tabular"

// Union forwards the left stream then the right stream, projecting
// both onto the combined column set.
type Union struct {
	base    transformerBase
	right   tabular.Stream
	columns *tabular.ColumnSet
	leftDone bool
}

func NewUnion(left, right tabular.Stream) *Union {
	return &Union{base: newBase("union", left), right: right}
}

func (u *Union) resolveColumns(job *tabular.Job) (*tabular.ColumnSet, error) {
	if u.columns != nil {
		return u.columns, nil
	}
	leftCols, err := u.base.upstream.Columns(job)
	if err != nil {
		return nil, err
	}
	rightCols, err := u.right.Columns(job)
	if err != nil {
		return nil, err
	}
	result := leftCols
	for _, c := range rightCols.Columns() {
		if !result.Contains(c) {
			result, _ = result.Add(c)
		}
	}
	u.columns = result
	return result, nil
}

func (u *Union) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return u.resolveColumns(job)
}

func (u *Union) Fetch(job *tabular.Job, sink tabular.Sink) {
	columns, err := u.resolveColumns(job)
	if err != nil {
		sink(nil, tabular.Finished, err)
		return
	}
	if !u.leftDone {
		u.base.upstream.Fetch(job, func(rows []tabular.Row, status tabular.FetchStatus, ferr error) {
			if ferr != nil {
				sink(nil, tabular.Finished, ferr)
				return
			}
			out := make([]tabular.Row, len(rows))
			for i, r := range rows {
				out[i] = conform(r, columns)
			}
			if status == tabular.Finished {
				u.leftDone = true
				sink(out, tabular.HasMore, nil)
				return
			}
			sink(out, status, nil)
		})
		return
	}
	u.right.Fetch(job, func(rows []tabular.Row, status tabular.FetchStatus, ferr error) {
		if ferr != nil {
			sink(nil, tabular.Finished, ferr)
			return
		}
		out := make([]tabular.Row, len(rows))
		for i, r := range rows {
			out[i] = conform(r, columns)
		}
		sink(out, status, nil)
	})
}

func (u *Union) Clone() tabular.Stream {
	return &Union{base: newBase("union", u.base.upstream.Clone()), right: u.right.Clone()}
}

// conform rebuilds row against columns by name, filling Empty for any
// column row doesn't have — unlike Row.WithSchema, which only pads
// positionally and assumes a shared prefix, this tolerates the two
// sides of a Union declaring columns in different orders.
func conform(row tabular.Row, columns *tabular.ColumnSet) tabular.Row {
	values := make([]tabular.Value, columns.Len())
	for i, c := range columns.Columns() {
		if row.Columns != nil && row.Columns.Contains(c) {
			values[i] = row.Get(c)
		} else {
			values[i] = tabular.Empty
		}
	}
	return tabular.NewRow(columns, values)
}
