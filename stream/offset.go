package stream

import (
	"sync/atomic"

	tabular "github.com/colstack/tabular"
)

// Offset discards the first N rows across batches; the remainder is
// forwarded unchanged.
type Offset struct {
	base      transformerBase
	n         int64
	discarded int64
}

func NewOffset(upstream tabular.Stream, n int) *Offset {
	return &Offset{base: newBase("offset", upstream), n: int64(n)}
}

func (o *Offset) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return o.base.upstream.Columns(job)
}

func (o *Offset) Fetch(job *tabular.Job, sink tabular.Sink) {
	o.base.runFetch(job, sink, nil, func(rows []tabular.Row, status tabular.FetchStatus) ([]tabular.Row, tabular.FetchStatus, error) {
		remaining := o.n - atomic.LoadInt64(&o.discarded)
		if remaining <= 0 {
			return rows, status, nil
		}
		if int64(len(rows)) <= remaining {
			atomic.AddInt64(&o.discarded, int64(len(rows)))
			return nil, status, nil
		}
		atomic.AddInt64(&o.discarded, remaining)
		return rows[remaining:], status, nil
	})
}

func (o *Offset) Clone() tabular.Stream {
	return &Offset{base: newBase("offset", o.base.upstream.Clone()), n: o.n}
}
