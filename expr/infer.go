package expr

import (
	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr/function"
)

// substituteIdentity rebuilds cand, replacing every Identity node with
// base — the composition step that lets a one-level suggestion extend
// the expression accumulated by previous search levels.
func substituteIdentity(candExpr, base tabular.Expression) tabular.Expression {
	return candExpr.Visit(func(e tabular.Expression) tabular.Expression {
		if _, ok := e.(*Identity); ok {
			return base
		}
		return e
	})
}

// Infer performs the bounded depth-first search described in
// spec.md §4.2: it searches for an Expression that transforms row's
// inputValue source into target, subject to a complexity ceiling, a
// visited-value set that prunes cycles, and a Job cancellation check
// at every recursion (a documented suspension point, spec.md §5).
//
// It returns (nil, false) if no expression within maxComplexity
// transforms source into target.
func Infer(job *tabular.Job, row tabular.Row, source, target tabular.Value, maxComplexity int) (tabular.Expression, bool) {
	registry := function.Standard()
	state := &inferState{
		job:       job,
		row:       row,
		source:    source,
		target:    target,
		registry:  registry,
		visited:   map[tabular.Value]bool{source: true},
		ceiling:   maxComplexity,
	}
	state.search(NewIdentity(), source, 0, true)
	if state.best == nil {
		return nil, false
	}
	return state.best, true
}

type inferState struct {
	job      *tabular.Job
	row      tabular.Row
	source   tabular.Value
	target   tabular.Value
	registry *function.Registry
	visited  map[tabular.Value]bool
	ceiling  int
	best     tabular.Expression
}

func (s *inferState) search(currentExpr tabular.Expression, currentValue tabular.Value, depth int, root bool) {
	if s.job != nil && s.job.IsCancelled() {
		return
	}
	if depth > 6 {
		return
	}
	for _, cand := range suggestAll(s.row, currentValue, s.target, s.registry, root) {
		composed := substituteIdentity(cand.expr, currentExpr)
		complexity := composed.Complexity()
		if complexity > s.ceiling {
			continue
		}
		value := composed.Apply(s.row, nil, s.source)
		if value.Equal(s.target) {
			// Tie-break: tighten the ceiling to this match's
			// complexity so later candidates must be at least as
			// simple, per spec.md §4.2.
			if s.best == nil || complexity < s.best.Complexity() {
				s.best = composed
				s.ceiling = complexity
			}
			continue
		}
		if value.IsInvalid() || s.visited[value] {
			continue
		}
		s.visited[value] = true
		s.search(composed, value, depth+1, false)
	}
}
