package stream_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/stream"
)

// countingStream hands out one single-row batch per Fetch call, up to
// n calls, then signals Finished with an empty batch.
type countingStream struct {
	columns *tabular.ColumnSet
	n       int

	mu    sync.Mutex
	calls int
}

func (c *countingStream) Columns(job *tabular.Job) (*tabular.ColumnSet, error) { return c.columns, nil }

func (c *countingStream) Fetch(job *tabular.Job, sink tabular.Sink) {
	c.mu.Lock()
	i := c.calls
	c.calls++
	c.mu.Unlock()

	if i >= c.n {
		sink(nil, tabular.Finished, nil)
		return
	}
	row := tabular.NewRow(c.columns, []tabular.Value{tabular.NewInt(int64(i))})
	status := tabular.HasMore
	if i == c.n-1 {
		status = tabular.Finished
	}
	sink([]tabular.Row{row}, status, nil)
}

func (c *countingStream) Clone() tabular.Stream {
	return &countingStream{columns: c.columns, n: c.n}
}

func TestStreamPullerDeliversBatchesInIDOrder(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	src := &countingStream{columns: columns, n: 20}
	// wavefronts=1 keeps delivery order deterministic: each row's
	// value is assigned at the moment its Fetch call executes, so
	// concurrent wavefronts racing ahead of the puller's own id
	// bookkeeping would make per-id content nondeterministic.
	puller := stream.NewStreamPuller(src, 1)

	var mu sync.Mutex
	var delivered []int64
	var doneCount int
	puller.Pull(nil,
		func(batch []tabular.Row) {
			mu.Lock()
			for _, r := range batch {
				v, _ := r.Values[0].AsInt()
				delivered = append(delivered, v)
			}
			mu.Unlock()
		},
		func() {
			mu.Lock()
			doneCount++
			mu.Unlock()
		},
		func(err error) { t.Fatalf("unexpected error: %v", err) },
	)

	require.Equal(t, 1, doneCount)
	require.Len(t, delivered, 20)
	for i, v := range delivered {
		assert.EqualValues(t, i, v)
	}
}

func TestStreamPullerReportsErrorExactlyOnce(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	src := &erroringStream{columns: columns}
	puller := stream.NewStreamPuller(src, 2)

	var errCount int
	var mu sync.Mutex
	puller.Pull(nil,
		func(batch []tabular.Row) {},
		func() {},
		func(err error) {
			mu.Lock()
			errCount++
			mu.Unlock()
		},
	)
	assert.Equal(t, 1, errCount)
}

type erroringStream struct {
	columns *tabular.ColumnSet
}

func (e *erroringStream) Columns(job *tabular.Job) (*tabular.ColumnSet, error) { return e.columns, nil }
func (e *erroringStream) Fetch(job *tabular.Job, sink tabular.Sink) {
	sink(nil, tabular.Finished, assert.AnError)
}
func (e *erroringStream) Clone() tabular.Stream { return e }
