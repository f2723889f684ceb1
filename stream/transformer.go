// Package stream implements the pull-based dataflow engine described
// in spec.md §4.3: a Transformer base with wavefront accounting and a
// finish hook, the concrete transformers, StreamPuller, and the
// StreamDataset facade.
package stream

import (
	"sync"

	tabular "github.com/colstack/tabular"
	"github.com/sirupsen/logrus"
)

// transformerBase is the shared bookkeeping every concrete transformer
// embeds: progress reporting at initiation/finish, the
// outstanding-transforms counter, and the exactly-once Finish hook —
// the Go rendering of the source's Transformer base class (spec.md
// §9: "model as tagged sum types... dispatch on the variant" for
// Expression, but for Transformer a plain embedded struct is the
// idiomatic stand-in for the shared base-class behaviour, since every
// transformer genuinely shares the same bookkeeping rather than
// dispatching on a tag).
type transformerBase struct {
	name        string
	upstream    tabular.Stream
	progressKey tabular.ProgressKey

	mu           sync.Mutex
	started      bool
	outstanding  int
	finishCalled bool
}

func newBase(name string, upstream tabular.Stream) transformerBase {
	return transformerBase{name: name, upstream: upstream}
}

func (b *transformerBase) log() *logrus.Entry {
	return logrus.WithField("transformer", b.name)
}

// begin reports 0.0 progress exactly once (on the very first Fetch)
// and marks a transform in flight.
func (b *transformerBase) begin(job *tabular.Job) {
	b.mu.Lock()
	first := !b.started
	b.started = true
	b.outstanding++
	b.mu.Unlock()
	if first && job != nil {
		job.ReportProgress(0.0, b.progressKey)
		b.log().Debug("transformer started")
	}
}

// end decrements the outstanding-transforms counter and reports
// whether this was the last outstanding transform once the upstream
// has signalled Finished — the condition under which finish()
// must run exactly once.
func (b *transformerBase) end(job *tabular.Job, upstreamFinished bool) (runFinish bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outstanding--
	if upstreamFinished && b.outstanding == 0 && !b.finishCalled {
		b.finishCalled = true
		return true
	}
	return false
}

func (b *transformerBase) reportDone(job *tabular.Job) {
	if job != nil {
		job.ReportProgress(1.0, b.progressKey)
	}
	b.log().Debug("transformer finished")
}

// finisher is implemented by transformers with deferred emission
// (Random, Aggregate): finish() produces any rows that could
// only be known once the upstream is exhausted.
type finisher interface {
	finish() ([]tabular.Row, error)
}

// runFetch is the common Fetch skeleton: pull one upstream batch,
// apply transform to it, and — if the upstream just finished and no
// other transform is outstanding — splice in finish()'s rows exactly
// once before delivering to sink.
func (b *transformerBase) runFetch(
	job *tabular.Job,
	sink tabular.Sink,
	self finisher,
	transform func(rows []tabular.Row, status tabular.FetchStatus) ([]tabular.Row, tabular.FetchStatus, error),
) {
	b.begin(job)
	b.upstream.Fetch(job, func(rows []tabular.Row, status tabular.FetchStatus, err error) {
		if err != nil {
			b.end(job, true)
			sink(nil, tabular.Finished, err)
			return
		}
		outRows, outStatus, terr := transform(rows, status)
		if terr != nil {
			b.end(job, true)
			sink(nil, tabular.Finished, terr)
			return
		}
		runFinish := b.end(job, status == tabular.Finished)
		if runFinish && self != nil {
			lastRows, ferr := self.finish()
			if ferr != nil {
				sink(nil, tabular.Finished, ferr)
				return
			}
			outRows = append(outRows, lastRows...)
		}
		if outStatus == tabular.Finished {
			b.reportDone(job)
		}
		sink(outRows, outStatus, nil)
	})
}
