package raster

import tabular "github.com/colstack/tabular"

// rasterStream adapts an in-memory row slice to the Stream contract:
// a single Fetch call delivers every row and signals Finished. Later
// fetches on the same instance deliver nothing and immediately signal
// Finished (Clone returns a fresh instance that delivers every row
// again), matching the "no
// further fetches will produce rows" clause of spec.md §4.3.
type rasterStream struct {
	columns *tabular.ColumnSet
	rows    []tabular.Row
	done    bool
}

func newRasterStream(columns *tabular.ColumnSet, rows []tabular.Row) *rasterStream {
	return &rasterStream{columns: columns, rows: rows}
}

func (s *rasterStream) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return s.columns, nil
}

func (s *rasterStream) Fetch(job *tabular.Job, sink tabular.Sink) {
	if s.done {
		sink(nil, tabular.Finished, nil)
		return
	}
	s.done = true
	sink(s.rows, tabular.Finished, nil)
}

func (s *rasterStream) Clone() tabular.Stream {
	return newRasterStream(s.columns, s.rows)
}
