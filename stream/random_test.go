package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/stream"
)

func TestRandomSamplesAtMostCapacityRows(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	src := sourceStream(columns, intRows(columns, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10))

	out := materialize(t, stream.NewRandom(src, 3))
	assert.Len(t, out.Rows, 3)
}

func TestRandomReturnsEveryRowWhenCapacityExceedsRowCount(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	src := sourceStream(columns, intRows(columns, 1, 2))

	out := materialize(t, stream.NewRandom(src, 10))
	assert.Len(t, out.Rows, 2)
}

func TestRandomDefersEmissionUntilFinish(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	src := sourceStream(columns, intRows(columns, 1))

	r := stream.NewRandom(src, 5)
	var gotRows []tabular.Row
	var gotStatus tabular.FetchStatus
	r.Fetch(nil, func(rows []tabular.Row, status tabular.FetchStatus, err error) {
		gotRows = rows
		gotStatus = status
	})
	assert.Equal(t, tabular.Finished, gotStatus)
	assert.Len(t, gotRows, 1)
}
