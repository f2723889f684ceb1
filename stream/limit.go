package stream

import tabular "github.com/colstack/tabular"

// Limit streams at most N rows then signals Finished, reporting
// progress n/N, per spec.md §4.3.
type Limit struct {
	base  transformerBase
	n     int
	emitted int
}

func NewLimit(upstream tabular.Stream, n int) *Limit {
	return &Limit{base: newBase("limit", upstream), n: n}
}

func (l *Limit) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return l.base.upstream.Columns(job)
}

func (l *Limit) Fetch(job *tabular.Job, sink tabular.Sink) {
	if l.emitted >= l.n {
		sink(nil, tabular.Finished, nil)
		return
	}
	l.base.begin(job)
	l.base.upstream.Fetch(job, func(rows []tabular.Row, status tabular.FetchStatus, err error) {
		defer l.base.end(job, true)
		if err != nil {
			sink(nil, tabular.Finished, err)
			return
		}
		remaining := l.n - l.emitted
		outStatus := status
		if len(rows) >= remaining {
			rows = rows[:remaining]
			outStatus = tabular.Finished
		}
		l.emitted += len(rows)
		if job != nil {
			job.ReportProgress(float64(l.emitted)/float64(l.n), l.base.progressKey)
		}
		if outStatus == tabular.Finished {
			l.base.reportDone(job)
		}
		sink(rows, outStatus, nil)
	})
}

func (l *Limit) Clone() tabular.Stream {
	return &Limit{base: newBase("limit", l.base.upstream.Clone()), n: l.n}
}
