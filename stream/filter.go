package stream

import tabular "github.com/colstack/tabular"

// Filter retains rows where condition.Apply(row)==Bool(true).
type Filter struct {
	base      transformerBase
	condition tabular.Expression
}

func NewFilter(upstream tabular.Stream, condition tabular.Expression) *Filter {
	return &Filter{base: newBase("filter", upstream), condition: condition.Prepare()}
}

func (f *Filter) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return f.base.upstream.Columns(job)
}

func (f *Filter) Fetch(job *tabular.Job, sink tabular.Sink) {
	f.base.runFetch(job, sink, nil, func(rows []tabular.Row, status tabular.FetchStatus) ([]tabular.Row, tabular.FetchStatus, error) {
		out := make([]tabular.Row, 0, len(rows))
		for _, r := range rows {
			v := f.condition.Apply(r, nil, tabular.Invalid)
			if v.Kind() == tabular.KindBool && v.AsBool() {
				out = append(out, r)
			}
		}
		return out, status, nil
	})
}

func (f *Filter) Clone() tabular.Stream {
	return &Filter{base: newBase("filter", f.base.upstream.Clone()), condition: f.condition}
}
