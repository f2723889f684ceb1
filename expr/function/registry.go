// Package function implements the closed enum of named Call callees
// described in spec.md §3 — arithmetic, trig, string, logic,
// aggregation reducers, date/random, and containment — plus the
// Reducer implementations backing Aggregator.
package function

import (
	"strings"
	"sync"

	tabular "github.com/colstack/tabular"
)

type simpleFunction struct {
	name          string
	deterministic bool
	arity         func(int) bool
	apply         func([]tabular.Value) tabular.Value
}

func (f *simpleFunction) Name() string            { return f.name }
func (f *simpleFunction) IsDeterministic() bool    { return f.deterministic }
func (f *simpleFunction) AcceptsArity(n int) bool  { return f.arity(n) }
func (f *simpleFunction) Apply(args []tabular.Value) tabular.Value {
	return f.apply(args)
}

func exactly(n int) func(int) bool { return func(k int) bool { return k == n } }
func between(lo, hi int) func(int) bool {
	return func(k int) bool { return k >= lo && k <= hi }
}
func atLeast(n int) func(int) bool { return func(k int) bool { return k >= n } }

// Registry is a name→Function lookup table. The zero value is not
// usable; use Standard() for the built-in function set.
type Registry struct {
	byName map[string]tabular.Function
}

var (
	standardOnce sync.Once
	standard     *Registry
)

// Standard returns the process-wide registry of built-in functions.
// It is safe for concurrent use; the core itself stays state-free
// aside from this lazily-built, read-only table (see spec.md §9 on
// global state).
func Standard() *Registry {
	standardOnce.Do(func() {
		standard = newRegistry()
	})
	return standard
}

func newRegistry() *Registry {
	r := &Registry{byName: make(map[string]tabular.Function)}
	for _, f := range allFunctions() {
		r.byName[strings.ToLower(f.Name())] = f
	}
	return r
}

func (r *Registry) Lookup(name string) (tabular.Function, bool) {
	f, ok := r.byName[strings.ToLower(name)]
	return f, ok
}

func (r *Registry) All() []tabular.Function {
	out := make([]tabular.Function, 0, len(r.byName))
	for _, f := range r.byName {
		out = append(out, f)
	}
	return out
}

// Unary returns every deterministic, arity-1 function — the candidate
// pool Infer's Call suggestion draws from (spec.md §4.2).
func (r *Registry) Unary() []tabular.Function {
	out := make([]tabular.Function, 0)
	for _, f := range r.byName {
		if f.IsDeterministic() && f.AcceptsArity(1) {
			out = append(out, f)
		}
	}
	return out
}

func allFunctions() []tabular.Function {
	var fns []tabular.Function
	fns = append(fns, arithmeticFunctions()...)
	fns = append(fns, stringFunctions()...)
	fns = append(fns, logicFunctions()...)
	fns = append(fns, dateFunctions()...)
	fns = append(fns, randomFunctions()...)
	fns = append(fns, containmentFunctions()...)
	fns = append(fns, aggregationConvenienceFunctions()...)
	return fns
}
