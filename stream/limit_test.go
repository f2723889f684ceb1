package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/stream"
)

func intRows(columns *tabular.ColumnSet, values ...int64) []tabular.Row {
	rows := make([]tabular.Row, len(values))
	for i, v := range values {
		rows[i] = tabular.NewRow(columns, []tabular.Value{tabular.NewInt(v)})
	}
	return rows
}

func TestLimitTruncatesToN(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	src := sourceStream(columns, intRows(columns, 1, 2, 3, 4, 5))

	out := materialize(t, stream.NewLimit(src, 3))
	assert.Len(t, out.Rows, 3)
}

func TestLimitPassesThroughWhenFewerRowsThanN(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	src := sourceStream(columns, intRows(columns, 1, 2))

	out := materialize(t, stream.NewLimit(src, 10))
	assert.Len(t, out.Rows, 2)
}

func TestLimitZeroEmitsNoRows(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	src := sourceStream(columns, intRows(columns, 1, 2, 3))

	out := materialize(t, stream.NewLimit(src, 0))
	assert.Len(t, out.Rows, 0)
}
