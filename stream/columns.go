package stream

import tabular "github.com/colstack/tabular"

// Columns projects and reorders columns by name; missing names are
// skipped.
type Columns struct {
	base    transformerBase
	wanted  *tabular.ColumnSet
	columns *tabular.ColumnSet
}

func NewColumns(upstream tabular.Stream, wanted *tabular.ColumnSet) *Columns {
	return &Columns{base: newBase("columns", upstream), wanted: wanted}
}

func (c *Columns) resolveColumns(job *tabular.Job) (*tabular.ColumnSet, error) {
	if c.columns != nil {
		return c.columns, nil
	}
	upCols, err := c.base.upstream.Columns(job)
	if err != nil {
		return nil, err
	}
	kept := make([]tabular.Column, 0, c.wanted.Len())
	for _, w := range c.wanted.Columns() {
		if upCols.Contains(w) {
			kept = append(kept, w)
		}
	}
	c.columns = tabular.NewColumnSet(kept...)
	return c.columns, nil
}

func (c *Columns) Columns(job *tabular.Job) (*tabular.ColumnSet, error) { return c.resolveColumns(job) }

func (c *Columns) Fetch(job *tabular.Job, sink tabular.Sink) {
	columns, err := c.resolveColumns(job)
	if err != nil {
		sink(nil, tabular.Finished, err)
		return
	}
	c.base.runFetch(job, sink, nil, func(rows []tabular.Row, status tabular.FetchStatus) ([]tabular.Row, tabular.FetchStatus, error) {
		out := make([]tabular.Row, len(rows))
		for i, r := range rows {
			out[i] = r.Project(columns)
		}
		return out, status, nil
	})
}

func (c *Columns) Clone() tabular.Stream {
	return &Columns{base: newBase("columns", c.base.upstream.Clone()), wanted: c.wanted}
}
