package stream

import tabular "github.com/colstack/tabular"

// Calculate applies an expression per declared target column; new
// columns are appended to the schema, and rows shorter than the new
// schema are right-padded with Empty. Prepare is applied to every
// expression once at construction, per spec.md §4.3.
type Calculate struct {
	base    transformerBase
	targets []tabular.Column
	exprs   []tabular.Expression
	columns *tabular.ColumnSet // lazily resolved, memoised
}

func NewCalculate(upstream tabular.Stream, targets *tabular.ColumnSet, exprs []tabular.Expression) *Calculate {
	prepared := make([]tabular.Expression, len(exprs))
	for i, e := range exprs {
		prepared[i] = e.Prepare()
	}
	return &Calculate{base: newBase("calculate", upstream), targets: targets.Columns(), exprs: prepared}
}

func (c *Calculate) resolveColumns(job *tabular.Job) (*tabular.ColumnSet, error) {
	if c.columns != nil {
		return c.columns, nil
	}
	upCols, err := c.base.upstream.Columns(job)
	if err != nil {
		return nil, err
	}
	result := upCols
	for _, t := range c.targets {
		if !result.Contains(t) {
			result, _ = result.Add(t)
		}
	}
	c.columns = result
	return result, nil
}

func (c *Calculate) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return c.resolveColumns(job)
}

func (c *Calculate) Fetch(job *tabular.Job, sink tabular.Sink) {
	columns, err := c.resolveColumns(job)
	if err != nil {
		sink(nil, tabular.Finished, err)
		return
	}
	c.base.runFetch(job, sink, nil, func(rows []tabular.Row, status tabular.FetchStatus) ([]tabular.Row, tabular.FetchStatus, error) {
		out := make([]tabular.Row, len(rows))
		for i, r := range rows {
			padded := r.WithSchema(columns)
			for ti, t := range c.targets {
				idx, _ := columns.IndexOf(t)
				padded.Values[idx] = c.exprs[ti].Apply(r, nil, tabular.Invalid)
			}
			out[i] = padded
		}
		return out, status, nil
	})
}

func (c *Calculate) Clone() tabular.Stream {
	return &Calculate{base: newBase("calculate", c.base.upstream.Clone()), targets: c.targets, exprs: c.exprs}
}
