package stream

import (
	"context"
	"sync"

	tabular "github.com/colstack/tabular"
	"golang.org/x/sync/errgroup"
)

// StreamPuller coordinates up to W concurrent fetches against a single
// Stream, tagging each batch with a monotonically increasing wavefront
// id and reassembling them in id order for the consumer, per spec.md
// §4.1/§4.3. W new wavefronts are kept in flight by self-relaunching:
// each completed wavefront launches the next one, so at most
// `wavefronts` goroutines are ever alive at once.
type StreamPuller struct {
	source     tabular.Stream
	wavefronts int

	mu          sync.Mutex
	nextID      int
	nextDeliver int
	totalCount  int // -1 until the Finished wavefront is observed
	pending     map[int][]tabular.Row
	errored     bool
	doneFired   bool
}

func NewStreamPuller(source tabular.Stream, wavefronts int) *StreamPuller {
	if wavefronts < 1 {
		wavefronts = 1
	}
	return &StreamPuller{
		source:     source,
		wavefronts: wavefronts,
		totalCount: -1,
		pending:    make(map[int][]tabular.Row),
	}
}

// Pull drives the fetch loop until the source is exhausted, an error
// occurs, or the Job is cancelled. onBatch is called once per
// wavefront, strictly in id order. onDoneReceiving fires exactly once,
// when the source has signalled Finished and every wavefront up to
// that point has been delivered. onError fires exactly once, on the
// first failure from any wavefront; outstanding wavefronts are then
// abandoned — already in-flight fetches are allowed to return, but no
// further wavefront is launched and no further batch is delivered.
func (p *StreamPuller) Pull(job *tabular.Job, onBatch func(rows []tabular.Row), onDoneReceiving func(), onError func(error)) {
	g, _ := errgroup.WithContext(context.Background())

	fail := func(err error) {
		p.mu.Lock()
		already := p.errored
		p.errored = true
		p.mu.Unlock()
		if !already {
			onError(err)
		}
	}

	var deliverReady func()
	deliverReady = func() {
		for {
			p.mu.Lock()
			if p.errored || p.doneFired {
				p.mu.Unlock()
				return
			}
			rows, ok := p.pending[p.nextDeliver]
			if !ok {
				p.mu.Unlock()
				return
			}
			delete(p.pending, p.nextDeliver)
			p.nextDeliver++
			finished := p.totalCount >= 0 && p.nextDeliver >= p.totalCount
			if finished {
				p.doneFired = true
			}
			p.mu.Unlock()

			if len(rows) > 0 {
				onBatch(rows)
			}
			if finished {
				onDoneReceiving()
				return
			}
		}
	}

	var launch func()
	launch = func() {
		p.mu.Lock()
		if p.errored || p.doneFired || (p.totalCount >= 0 && p.nextID >= p.totalCount) {
			p.mu.Unlock()
			return
		}
		id := p.nextID
		p.nextID++
		p.mu.Unlock()

		g.Go(func() error {
			if job != nil && job.IsCancelled() {
				return nil
			}
			var ferr error
			p.source.Fetch(job, func(rows []tabular.Row, status tabular.FetchStatus, err error) {
				if err != nil {
					ferr = err
					fail(err)
					return
				}
				p.mu.Lock()
				p.pending[id] = rows
				if status == tabular.Finished && p.totalCount < 0 {
					p.totalCount = id + 1
				}
				p.mu.Unlock()
				deliverReady()
				launch()
			})
			return ferr
		})
	}

	for i := 0; i < p.wavefronts; i++ {
		launch()
	}
	_ = g.Wait()
}
