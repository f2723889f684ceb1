package raster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/raster"
)

func TestDatasetStreamDeliversEveryRowThenFinishes(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	d := raster.NewFromRows(columns, rowsOfInts(columns, 1, 2, 3))

	s := d.Stream()
	var got []tabular.Row
	s.Fetch(nil, func(rows []tabular.Row, status tabular.FetchStatus, err error) {
		require.NoError(t, err)
		got = rows
		assert.Equal(t, tabular.Finished, status)
	})
	assert.Len(t, got, 3)
}

func TestDatasetStreamSecondFetchYieldsNothing(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	d := raster.NewFromRows(columns, rowsOfInts(columns, 1))

	s := d.Stream()
	s.Fetch(nil, func(rows []tabular.Row, status tabular.FetchStatus, err error) {})

	var got []tabular.Row
	var status tabular.FetchStatus
	s.Fetch(nil, func(rows []tabular.Row, st tabular.FetchStatus, err error) {
		got = rows
		status = st
	})
	assert.Len(t, got, 0)
	assert.Equal(t, tabular.Finished, status)
}

func TestDatasetStreamCloneIsIndependentAndFresh(t *testing.T) {
	columns := tabular.NewColumnSetFromNames("n")
	d := raster.NewFromRows(columns, rowsOfInts(columns, 1, 2))

	s := d.Stream()
	s.Fetch(nil, func(rows []tabular.Row, status tabular.FetchStatus, err error) {})

	clone := s.Clone()
	var got []tabular.Row
	clone.Fetch(nil, func(rows []tabular.Row, status tabular.FetchStatus, err error) {
		got = rows
	})
	assert.Len(t, got, 2)
}
