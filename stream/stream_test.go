package stream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/raster"
	"github.com/colstack/tabular/stream"
)

func newJob() *tabular.Job {
	return tabular.NewJob(tabular.QoSBackground, nil)
}

func sourceStream(columns *tabular.ColumnSet, rows []tabular.Row) tabular.Stream {
	return raster.NewFromRows(columns, rows).Stream()
}

// materialize pulls s to completion through the StreamDataset facade,
// exercising the real StreamPuller wavefront-reassembly path rather
// than calling Fetch directly.
func materialize(t *testing.T, s tabular.Stream) *tabular.Raster {
	t.Helper()
	job := newJob()
	defer job.Finish()
	r, err := stream.NewStreamDataset(s).Raster(job)
	require.NoError(t, err)
	return r
}
