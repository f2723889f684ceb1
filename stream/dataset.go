package stream

import (
	"runtime"
	"sync"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/raster"
)

// StreamDataset is the Dataset family that composes Transformers
// lazily, per spec.md §2: every operator it can express as a
// transformer returns a new StreamDataset; the handful that cannot
// (distinct, sort, pivot, transpose, unique) materialise eagerly and
// fall back to package raster, per spec.md §4.9.
type StreamDataset struct {
	upstream tabular.Stream
}

func NewStreamDataset(upstream tabular.Stream) *StreamDataset {
	return &StreamDataset{upstream: upstream}
}

func (s *StreamDataset) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return s.upstream.Columns(job)
}

func (s *StreamDataset) Stream() tabular.Stream { return s.upstream }

// Raster materialises the full stream by pulling it through a
// StreamPuller sized to the host CPU count (W ≈ host CPU count, per
// spec.md §4.1).
func (s *StreamDataset) Raster(job *tabular.Job) (*tabular.Raster, error) {
	columns, err := s.upstream.Columns(job)
	if err != nil {
		return nil, err
	}
	puller := NewStreamPuller(s.upstream.Clone(), runtime.NumCPU())
	var mu sync.Mutex
	var rows []tabular.Row
	var pullErr error
	puller.Pull(job,
		func(batch []tabular.Row) {
			mu.Lock()
			rows = append(rows, batch...)
			mu.Unlock()
		},
		func() {},
		func(err error) { pullErr = err },
	)
	if pullErr != nil {
		return nil, pullErr
	}
	return tabular.NewRaster(tabular.NewSchema(columns), rows), nil
}

func (s *StreamDataset) Limit(n int) tabular.Dataset      { return NewStreamDataset(NewLimit(s.upstream, n)) }
func (s *StreamDataset) Offset(n int) tabular.Dataset     { return NewStreamDataset(NewOffset(s.upstream, n)) }
func (s *StreamDataset) Random(n int) tabular.Dataset     { return NewStreamDataset(NewRandom(s.upstream, n)) }
func (s *StreamDataset) Filter(expr tabular.Expression) tabular.Dataset {
	return NewStreamDataset(NewFilter(s.upstream, expr))
}
func (s *StreamDataset) Calculate(targets *tabular.ColumnSet, exprs []tabular.Expression) tabular.Dataset {
	return NewStreamDataset(NewCalculate(s.upstream, targets, exprs))
}
func (s *StreamDataset) SelectColumns(columns *tabular.ColumnSet) tabular.Dataset {
	return NewStreamDataset(NewColumns(s.upstream, columns))
}
func (s *StreamDataset) Aggregate(groupNames *tabular.ColumnSet, groupExprs []tabular.Expression, valueNames *tabular.ColumnSet, aggregators []tabular.Aggregator) tabular.Dataset {
	return NewStreamDataset(NewAggregate(s.upstream, groupNames, groupExprs, valueNames, aggregators))
}
func (s *StreamDataset) Flatten(valueTo, columnNameTo, rowIdentifier tabular.Column, to *tabular.ColumnSet) tabular.Dataset {
	return NewStreamDataset(NewFlatten(s.upstream, valueTo, columnNameTo, rowIdentifier, to))
}
func (s *StreamDataset) Join(j tabular.Join) tabular.Dataset {
	return NewStreamDataset(NewJoin(s.upstream, j))
}
func (s *StreamDataset) Union(other tabular.Dataset) tabular.Dataset {
	return NewStreamDataset(NewUnion(s.upstream, other.Stream()))
}

// toRaster materialises with an internal background Job, for the
// operators whose Dataset signature takes no job parameter (distinct,
// sort, pivot, transpose) — those always fall back to package raster,
// per spec.md §4.9.
func (s *StreamDataset) toRaster() (*raster.Dataset, error) {
	job := tabular.NewJob(tabular.QoSBackground, nil)
	defer job.Finish()
	r, err := s.Raster(job)
	if err != nil {
		return nil, err
	}
	return raster.New(r), nil
}

func (s *StreamDataset) Distinct() tabular.Dataset {
	r, err := s.toRaster()
	if err != nil {
		return newErrorDataset(err)
	}
	return r.Distinct()
}

func (s *StreamDataset) Sort(orders []tabular.Order) tabular.Dataset {
	r, err := s.toRaster()
	if err != nil {
		return newErrorDataset(err)
	}
	return r.Sort(orders)
}

func (s *StreamDataset) Pivot(horizontal, vertical, values tabular.Column) tabular.Dataset {
	r, err := s.toRaster()
	if err != nil {
		return newErrorDataset(err)
	}
	return r.Pivot(horizontal, vertical, values)
}

func (s *StreamDataset) Transpose() tabular.Dataset {
	r, err := s.toRaster()
	if err != nil {
		return newErrorDataset(err)
	}
	return r.Transpose()
}

func (s *StreamDataset) Unique(expr tabular.Expression, job *tabular.Job) (map[tabular.Value]struct{}, error) {
	r, err := s.Raster(job)
	if err != nil {
		return nil, err
	}
	return raster.New(r).Unique(expr, job)
}

// errorDataset is a Dataset that carries a materialisation failure
// forward through every method, instead of panicking: operators whose
// signature cannot return an error (Distinct, Sort, Pivot, Transpose)
// still need somewhere to put a failed Raster pull.
type errorDataset struct{ err error }

func newErrorDataset(err error) *errorDataset { return &errorDataset{err: err} }

func (e *errorDataset) Columns(job *tabular.Job) (*tabular.ColumnSet, error) { return nil, e.err }
func (e *errorDataset) Raster(job *tabular.Job) (*tabular.Raster, error)     { return nil, e.err }
func (e *errorDataset) Stream() tabular.Stream                              { return newErrorStream(e.err) }
func (e *errorDataset) Limit(int) tabular.Dataset                          { return e }
func (e *errorDataset) Offset(int) tabular.Dataset                         { return e }
func (e *errorDataset) Random(int) tabular.Dataset                         { return e }
func (e *errorDataset) Distinct() tabular.Dataset                          { return e }
func (e *errorDataset) Unique(tabular.Expression, *tabular.Job) (map[tabular.Value]struct{}, error) {
	return nil, e.err
}
func (e *errorDataset) Filter(tabular.Expression) tabular.Dataset                         { return e }
func (e *errorDataset) Calculate(*tabular.ColumnSet, []tabular.Expression) tabular.Dataset { return e }
func (e *errorDataset) SelectColumns(*tabular.ColumnSet) tabular.Dataset                   { return e }
func (e *errorDataset) Sort([]tabular.Order) tabular.Dataset                               { return e }
func (e *errorDataset) Aggregate(*tabular.ColumnSet, []tabular.Expression, *tabular.ColumnSet, []tabular.Aggregator) tabular.Dataset {
	return e
}
func (e *errorDataset) Pivot(tabular.Column, tabular.Column, tabular.Column) tabular.Dataset { return e }
func (e *errorDataset) Transpose() tabular.Dataset                                           { return e }
func (e *errorDataset) Flatten(tabular.Column, tabular.Column, tabular.Column, *tabular.ColumnSet) tabular.Dataset {
	return e
}
func (e *errorDataset) Join(tabular.Join) tabular.Dataset    { return e }
func (e *errorDataset) Union(tabular.Dataset) tabular.Dataset { return e }

type errorStream struct{ err error }

func newErrorStream(err error) *errorStream { return &errorStream{err: err} }

func (s *errorStream) Columns(job *tabular.Job) (*tabular.ColumnSet, error) { return nil, s.err }
func (s *errorStream) Fetch(job *tabular.Job, sink tabular.Sink)            { sink(nil, tabular.Finished, s.err) }
func (s *errorStream) Clone() tabular.Stream                                { return s }
