package function

import (
	"math"

	tabular "github.com/colstack/tabular"
)

// Reducer implementations. Every one except medianReducer (see its
// own note below) is associative: Add folds in
// isolation, Result projects the running state, and New clones a
// fresh zero-state instance — callers must never mutate one reducer
// from two goroutines concurrently without external synchronisation
// (the Aggregate transformer's catalog mutex provides that, see
// package stream).

type sumReducer struct {
	sum float64
	any bool
}

func NewSum() tabular.Reducer { return &sumReducer{} }
func (r *sumReducer) New() tabular.Reducer { return &sumReducer{} }
func (r *sumReducer) Name() string { return "Sum" }
func (r *sumReducer) Add(v tabular.Value) {
	if f, ok := v.AsDouble(); ok {
		r.sum += f
		r.any = true
	}
}
func (r *sumReducer) Result() tabular.Value {
	if !r.any {
		return tabular.NewDouble(0)
	}
	return tabular.NewDouble(r.sum)
}

type averageReducer struct {
	sum   float64
	count int64
}

func NewAverage() tabular.Reducer { return &averageReducer{} }
func (r *averageReducer) New() tabular.Reducer { return &averageReducer{} }
func (r *averageReducer) Name() string { return "Average" }
func (r *averageReducer) Add(v tabular.Value) {
	if f, ok := v.AsDouble(); ok {
		r.sum += f
		r.count++
	}
}
func (r *averageReducer) Result() tabular.Value {
	if r.count == 0 {
		return tabular.Invalid
	}
	return tabular.NewDouble(r.sum / float64(r.count))
}

type minMaxReducer struct {
	value   tabular.Value
	any     bool
	wantMax bool
}

func NewMin() tabular.Reducer { return &minMaxReducer{wantMax: false} }
func NewMax() tabular.Reducer { return &minMaxReducer{wantMax: true} }
func (r *minMaxReducer) New() tabular.Reducer { return &minMaxReducer{wantMax: r.wantMax} }
func (r *minMaxReducer) Name() string {
	if r.wantMax {
		return "Max"
	}
	return "Min"
}
func (r *minMaxReducer) Add(v tabular.Value) {
	if v.IsInvalid() {
		return
	}
	if !r.any {
		r.value, r.any = v, true
		return
	}
	c := v.Compare(r.value, true)
	if (r.wantMax && c > 0) || (!r.wantMax && c < 0) {
		r.value = v
	}
}
func (r *minMaxReducer) Result() tabular.Value {
	if !r.any {
		return tabular.Invalid
	}
	return r.value
}

type countReducer struct {
	n          int64
	countAll   bool
}

func NewCount() tabular.Reducer    { return &countReducer{} }
func NewCountAll() tabular.Reducer { return &countReducer{countAll: true} }
func (r *countReducer) New() tabular.Reducer { return &countReducer{countAll: r.countAll} }
func (r *countReducer) Name() string {
	if r.countAll {
		return "CountAll"
	}
	return "Count"
}
func (r *countReducer) Add(v tabular.Value) {
	if r.countAll || !v.IsInvalid() {
		r.n++
	}
}
func (r *countReducer) Result() tabular.Value { return tabular.NewInt(r.n) }

type countDistinctReducer struct {
	seen map[tabular.Value]struct{}
}

func NewCountDistinct() tabular.Reducer { return &countDistinctReducer{seen: map[tabular.Value]struct{}{}} }
func (r *countDistinctReducer) New() tabular.Reducer { return NewCountDistinct() }
func (r *countDistinctReducer) Name() string { return "CountDistinct" }
func (r *countDistinctReducer) Add(v tabular.Value) {
	if v.IsInvalid() {
		return
	}
	r.seen[v] = struct{}{}
}
func (r *countDistinctReducer) Result() tabular.Value { return tabular.NewInt(int64(len(r.seen))) }

// varianceReducer accumulates via Welford's online algorithm so it
// stays associative-enough for incremental streaming use (merging two
// partial states is not exposed, but single-stream incremental Add
// matches spec.md §8's "same result regardless of batching" property
// because batching only changes the order rows arrive in Add, not the
// formula).
type varianceReducer struct {
	n        int64
	mean     float64
	m2       float64
	sample   bool
	wantStd  bool
}

func NewVarSample() tabular.Reducer    { return &varianceReducer{sample: true} }
func NewVarPopulation() tabular.Reducer { return &varianceReducer{sample: false} }
func NewStdDevSample() tabular.Reducer  { return &varianceReducer{sample: true, wantStd: true} }
func NewStdDevPopulation() tabular.Reducer { return &varianceReducer{sample: false, wantStd: true} }

func (r *varianceReducer) New() tabular.Reducer {
	return &varianceReducer{sample: r.sample, wantStd: r.wantStd}
}
func (r *varianceReducer) Name() string {
	switch {
	case r.sample && r.wantStd:
		return "StdDevSample"
	case !r.sample && r.wantStd:
		return "StdDevPopulation"
	case r.sample:
		return "VarSample"
	default:
		return "VarPopulation"
	}
}
func (r *varianceReducer) Add(v tabular.Value) {
	f, ok := v.AsDouble()
	if !ok {
		return
	}
	r.n++
	delta := f - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (f - r.mean)
}
func (r *varianceReducer) Result() tabular.Value {
	denom := float64(r.n)
	if r.sample {
		denom = float64(r.n - 1)
	}
	if denom <= 0 {
		return tabular.Invalid
	}
	variance := r.m2 / denom
	if r.wantStd {
		return tabular.NewDouble(math.Sqrt(variance))
	}
	return tabular.NewDouble(variance)
}

// medianReducer is not strictly associative under arbitrary batching
// (it must see the full distribution), so it buffers; this is noted
// as a deliberate exception, matching the source's own non-streaming
// Median implementation.
type medianReducer struct {
	values []float64
}

func NewMedian() tabular.Reducer { return &medianReducer{} }
func (r *medianReducer) New() tabular.Reducer { return &medianReducer{} }
func (r *medianReducer) Name() string { return "Median" }
func (r *medianReducer) Add(v tabular.Value) {
	if f, ok := v.AsDouble(); ok {
		r.values = append(r.values, f)
	}
}
func (r *medianReducer) Result() tabular.Value {
	n := len(r.values)
	if n == 0 {
		return tabular.Invalid
	}
	sorted := append([]float64(nil), r.values...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	if n%2 == 1 {
		return tabular.NewDouble(sorted[n/2])
	}
	return tabular.NewDouble((sorted[n/2-1] + sorted[n/2]) / 2)
}

type packReducer struct {
	items []string
}

func NewPackReducer() tabular.Reducer { return &packReducer{} }
func (r *packReducer) New() tabular.Reducer { return &packReducer{} }
func (r *packReducer) Name() string { return "Pack" }
func (r *packReducer) Add(v tabular.Value) {
	if !v.IsInvalid() {
		r.items = append(r.items, v.AsString())
	}
}
func (r *packReducer) Result() tabular.Value {
	return tabular.NewString(tabular.NewPack(r.items...).StringValue())
}

// aggregationConvenienceFunctions exposes each reducer as a plain,
// variadic Function too (e.g. for use inside a formula like
// "=Sum(1,2,3)" outside of an Aggregate context), by running a fresh
// Reducer over the call's arguments.
func aggregationConvenienceFunctions() []tabular.Function {
	wrap := func(name string, newReducer func() tabular.Reducer) *simpleFunction {
		return &simpleFunction{
			name: name, deterministic: true, arity: atLeast(0),
			apply: func(args []tabular.Value) tabular.Value {
				red := newReducer()
				for _, a := range args {
					red.Add(a)
				}
				return red.Result()
			},
		}
	}
	return []tabular.Function{
		wrap("Sum", func() tabular.Reducer { return NewSum() }),
		wrap("Average", func() tabular.Reducer { return NewAverage() }),
		wrap("Min", func() tabular.Reducer { return NewMin() }),
		wrap("Max", func() tabular.Reducer { return NewMax() }),
		wrap("Count", func() tabular.Reducer { return NewCount() }),
		wrap("CountAll", func() tabular.Reducer { return NewCountAll() }),
		wrap("CountDistinct", func() tabular.Reducer { return NewCountDistinct() }),
		wrap("StdDevSample", func() tabular.Reducer { return NewStdDevSample() }),
		wrap("StdDevPopulation", func() tabular.Reducer { return NewStdDevPopulation() }),
		wrap("VarSample", func() tabular.Reducer { return NewVarSample() }),
		wrap("VarPopulation", func() tabular.Reducer { return NewVarPopulation() }),
		wrap("Median", func() tabular.Reducer { return NewMedian() }),
		wrap("Pack", func() tabular.Reducer { return NewPackReducer() }),
	}
}
