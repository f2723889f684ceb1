package stream

import tabular "github.com/colstack/tabular"

// Random reservoir-samples k rows from upstream, per spec.md §4.6. It
// is a deferred-emission transformer: every upstream row feeds the
// reservoir during Fetch, and the sampled rows are only produced once
// from finish() after upstream signals Finished.
type Random struct {
	base      transformerBase
	reservoir *Reservoir
	columns   *tabular.ColumnSet
}

func NewRandom(upstream tabular.Stream, capacity int) *Random {
	return &Random{base: newBase("random", upstream), reservoir: NewReservoir(capacity)}
}

func (r *Random) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return r.base.upstream.Columns(job)
}

func (r *Random) finish() ([]tabular.Row, error) {
	return r.reservoir.Sample(), nil
}

func (r *Random) Fetch(job *tabular.Job, sink tabular.Sink) {
	r.base.runFetch(job, sink, r, func(rows []tabular.Row, status tabular.FetchStatus) ([]tabular.Row, tabular.FetchStatus, error) {
		for _, row := range rows {
			r.reservoir.Add(row)
		}
		return nil, status, nil
	})
}

func (r *Random) Clone() tabular.Stream {
	return &Random{base: newBase("random", r.base.upstream.Clone()), reservoir: NewReservoir(r.reservoir.capacity)}
}
