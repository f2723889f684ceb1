package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/stream"
)

func TestReservoirFillPhaseKeepsEveryItemUnderCapacity(t *testing.T) {
	r := stream.NewReservoir(5)
	columns := tabular.NewColumnSetFromNames("n")
	for i := 0; i < 3; i++ {
		r.Add(tabular.NewRow(columns, []tabular.Value{tabular.NewInt(int64(i))}))
	}
	assert.Len(t, r.Sample(), 3)
}

func TestReservoirNeverExceedsCapacityPastFillPhase(t *testing.T) {
	r := stream.NewReservoir(3)
	columns := tabular.NewColumnSetFromNames("n")
	for i := 0; i < 100; i++ {
		r.Add(tabular.NewRow(columns, []tabular.Value{tabular.NewInt(int64(i))}))
	}
	assert.Len(t, r.Sample(), 3)
}

func TestReservoirSampleIsIndependentCopy(t *testing.T) {
	r := stream.NewReservoir(2)
	columns := tabular.NewColumnSetFromNames("n")
	r.Add(tabular.NewRow(columns, []tabular.Value{tabular.NewInt(1)}))

	sample := r.Sample()
	sample[0] = tabular.NewRow(columns, []tabular.Value{tabular.NewInt(999)})

	again := r.Sample()
	v, _ := again[0].Values[0].AsInt()
	assert.EqualValues(t, 1, v)
}
