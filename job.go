package tabular

import (
	"context"
	"runtime"
	"sync"

	"github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

// classSemaphores bounds total concurrent Async closures per QoS
// class across every Job sharing that class, not just within one Job:
// background work contends for a smaller weight than user-initiated
// work, so a flood of background jobs can't starve interactive ones.
var classSemaphores = map[QoS]*semaphore.Weighted{
	QoSBackground:    semaphore.NewWeighted(int64(maxInt(1, runtime.NumCPU()/2))),
	QoSUserInitiated: semaphore.NewWeighted(int64(runtime.NumCPU())),
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// QoS is the work-queue priority class described in SPEC_FULL.md §4.1.
type QoS int

const (
	QoSBackground QoS = iota
	QoSUserInitiated
)

// ProgressKey is the caller-supplied opaque key under which a Job
// component reports progress.
type ProgressKey int

// Job is an asynchronous scope with cancellation, hierarchical
// progress, and a QoS work queue, per SPEC_FULL.md §4.1 and §5.
//
// The mutex guards the progress map only; Job is deliberately *not*
// reentered while holding it (progress reporting to the parent happens
// after the child releases its own lock), since Go's sync.Mutex is not
// natively recursive.
type Job struct {
	id       uuid.UUID
	parent   *Job
	parentKey ProgressKey
	qos      QoS

	mu        sync.Mutex
	progress  map[ProgressKey]float64
	cancelled atomic.Bool

	span opentracing.Span

	queue chan func()
	wg    sync.WaitGroup
}

// NewJob creates a root or child Job. When parent is non-nil, progress
// reported on the new Job is forwarded to the parent under parentKey.
func NewJob(qos QoS, parent *Job) *Job {
	j := &Job{
		id:       uuid.NewV4(),
		parent:   parent,
		qos:      qos,
		progress: make(map[ProgressKey]float64),
		queue:    make(chan func(), 64),
	}
	var span opentracing.Span
	if parent != nil {
		span = opentracing.StartSpan("tabular.job.child", opentracing.ChildOf(spanContextOf(parent)))
	} else {
		span = opentracing.StartSpan("tabular.job")
	}
	span.SetTag("job.id", j.id.String())
	j.span = span
	go j.drain()
	return j
}

// NewChild creates a child Job that reports its aggregate progress to
// this Job under key.
func (j *Job) NewChild(key ProgressKey, qos QoS) *Job {
	child := NewJob(qos, j)
	child.parentKey = key
	return child
}

func spanContextOf(j *Job) opentracing.SpanContext {
	if j == nil || j.span == nil {
		return nil
	}
	return j.span.Context()
}

func (j *Job) drain() {
	sem := classSemaphores[j.qos]
	for f := range j.queue {
		if sem != nil {
			_ = sem.Acquire(context.Background(), 1)
		}
		f()
		if sem != nil {
			sem.Release(1)
		}
		j.wg.Done()
	}
}

// Async posts f to the Job's work queue and returns immediately;
// blocking is permitted inside f, never on the caller's thread, per
// SPEC_FULL.md §5.
func (j *Job) Async(f func()) {
	j.wg.Add(1)
	j.queue <- f
}

// Wait blocks until every posted closure has run. It does not imply
// cancellation semantics; it is a convenience for tests and the
// example program.
func (j *Job) Wait() { j.wg.Wait() }

// IsCancelled is checked at every suspension point inside
// transformers and inference, per SPEC_FULL.md §5.
func (j *Job) IsCancelled() bool { return j.cancelled.Load() }

// Cancel is cooperative and sticky: it never un-cancels.
func (j *Job) Cancel() {
	j.cancelled.Store(true)
	if j.span != nil {
		j.span.SetTag("cancelled", true)
	}
}

// ReportProgress records p (0≤p≤1) under key, recomputes this Job's
// overall progress as the arithmetic mean of all registered
// components, and forwards the result to the parent under the child's
// own identity key, per SPEC_FULL.md §4.1.
func (j *Job) ReportProgress(p float64, key ProgressKey) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	j.mu.Lock()
	j.progress[key] = p
	mean := j.meanProgressLocked()
	j.mu.Unlock()

	if j.span != nil {
		j.span.SetTag("progress", mean)
	}
	if j.parent != nil {
		j.parent.ReportProgress(mean, j.parentKey)
	}
}

func (j *Job) meanProgressLocked() float64 {
	if len(j.progress) == 0 {
		return 0
	}
	var sum float64
	for _, v := range j.progress {
		sum += v
	}
	return sum / float64(len(j.progress))
}

func (j *Job) Progress() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.meanProgressLocked()
}

// Finish marks the Job's tracing span complete. Call once the Job's
// work is fully drained.
func (j *Job) Finish() {
	close(j.queue)
	if j.span != nil {
		j.span.Finish()
	}
}

func (j *Job) ID() string { return j.id.String() }
