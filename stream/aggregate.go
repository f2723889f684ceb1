package stream

import (
	"sync"

	"github.com/mitchellh/hashstructure/v2"

	tabular "github.com/colstack/tabular"
)

// aggLeaf is one row of the group catalog: the group key values that
// identify it, and one Reducer per declared value column, cloned from
// the Aggregator template the first time the key is seen.
type aggLeaf struct {
	groupValues []tabular.Value
	reducers    []tabular.Reducer
}

// Aggregate groups rows by a vector of group-expression values and
// feeds each value expression's result into a per-leaf Reducer, per
// spec.md §4.5. It is a deferred-emission transformer: output rows
// only exist once finish() traverses the catalog in insertion order.
//
// The Mutex guards leaf insertion and reducer state, per spec.md §5,
// since concurrent wavefronts may call Fetch in parallel.
type Aggregate struct {
	base transformerBase

	groupNames  *tabular.ColumnSet
	groupExprs  []tabular.Expression
	valueNames  *tabular.ColumnSet
	aggregators []tabular.Aggregator
	columns     *tabular.ColumnSet

	mu     sync.Mutex
	order  []uint64
	leaves map[uint64][]*aggLeaf
}

// NewAggregate panics (a programming error, per spec.md §4.5) if
// groupNames and valueNames share a column name.
func NewAggregate(upstream tabular.Stream, groupNames *tabular.ColumnSet, groupExprs []tabular.Expression, valueNames *tabular.ColumnSet, aggregators []tabular.Aggregator) *Aggregate {
	prepared := make([]tabular.Expression, len(groupExprs))
	for i, e := range groupExprs {
		prepared[i] = e.Prepare()
	}
	all := append(append([]tabular.Column{}, groupNames.Columns()...), valueNames.Columns()...)
	return &Aggregate{
		base:        newBase("aggregate", upstream),
		groupNames:  groupNames,
		groupExprs:  prepared,
		valueNames:  valueNames,
		aggregators: aggregators,
		columns:     tabular.NewColumnSet(all...),
		leaves:      make(map[uint64][]*aggLeaf),
	}
}

func (a *Aggregate) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return a.columns, nil
}

func groupHash(values []tabular.Value) (uint64, error) {
	return hashstructure.Hash(values, hashstructure.FormatV2, nil)
}

func sameGroupKey(a, b []tabular.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind() != b[i].Kind() {
			return false
		}
		switch a[i].Kind() {
		case tabular.KindDouble, tabular.KindDate:
			fa, _ := a[i].AsDouble()
			fb, _ := b[i].AsDouble()
			if fa != fb {
				return false
			}
		default:
			if a[i].AsString() != b[i].AsString() {
				return false
			}
		}
	}
	return true
}

// leafFor returns the catalog leaf for groupValues, creating one
// (cloning a fresh Reducer per aggregator from its template) if this
// is the first time the key is seen.
func (a *Aggregate) leafFor(groupValues []tabular.Value) *aggLeaf {
	h, err := groupHash(groupValues)
	if err != nil {
		h = 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, leaf := range a.leaves[h] {
		if sameGroupKey(leaf.groupValues, groupValues) {
			return leaf
		}
	}
	reducers := make([]tabular.Reducer, len(a.aggregators))
	for i, agg := range a.aggregators {
		reducers[i] = agg.Reduce.New()
	}
	leaf := &aggLeaf{groupValues: groupValues, reducers: reducers}
	if _, seen := a.leaves[h]; !seen {
		a.order = append(a.order, h)
	}
	a.leaves[h] = append(a.leaves[h], leaf)
	return leaf
}

func (a *Aggregate) addRow(row tabular.Row) {
	groupValues := make([]tabular.Value, len(a.groupExprs))
	for i, e := range a.groupExprs {
		groupValues[i] = e.Apply(row, nil, tabular.Invalid)
	}
	leaf := a.leafFor(groupValues)
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, agg := range a.aggregators {
		v := agg.Map.Apply(row, nil, tabular.Invalid)
		leaf.reducers[i].Add(v)
	}
}

// finish traverses the catalog in insertion order and emits one row
// per leaf: group key values followed by value reducer results, per
// spec.md §4.5 and the deterministic output-order invariant of §5.
func (a *Aggregate) finish() ([]tabular.Row, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]tabular.Row, 0)
	for _, h := range a.order {
		for _, leaf := range a.leaves[h] {
			values := make([]tabular.Value, 0, a.columns.Len())
			values = append(values, leaf.groupValues...)
			for i := range a.aggregators {
				values = append(values, leaf.reducers[i].Result())
			}
			out = append(out, tabular.NewRow(a.columns, values))
		}
	}
	return out, nil
}

func (a *Aggregate) Fetch(job *tabular.Job, sink tabular.Sink) {
	a.base.runFetch(job, sink, a, func(rows []tabular.Row, status tabular.FetchStatus) ([]tabular.Row, tabular.FetchStatus, error) {
		for _, r := range rows {
			a.addRow(r)
		}
		return nil, status, nil
	})
}

func (a *Aggregate) Clone() tabular.Stream {
	return NewAggregate(a.base.upstream.Clone(), a.groupNames, a.groupExprs, a.valueNames, a.aggregators)
}
