// Package expr provides the concrete Expression node variants —
// Literal, Identity, Sibling, Foreign, Comparison, Call — dispatched
// on their Go type rather than through a class hierarchy, per the
// re-architecture note in spec.md §9.
package expr

import (
	"fmt"

	tabular "github.com/colstack/tabular"
)

// Literal always yields the same Value, independent of row/foreign/
// inputValue.
type Literal struct {
	Value tabular.Value
}

func NewLiteral(v tabular.Value) *Literal { return &Literal{Value: v} }

func (l *Literal) Complexity() int  { return 10 }
func (l *Literal) IsConstant() bool { return true }
func (l *Literal) Apply(tabular.Row, *tabular.Row, tabular.Value) tabular.Value { return l.Value }
func (l *Literal) Visit(fn func(tabular.Expression) tabular.Expression) tabular.Expression {
	return fn(l)
}
func (l *Literal) Prepare() tabular.Expression { return l }
func (l *Literal) String() string              { return l.Value.AsString() }
func (l *Literal) IsEquivalentTo(other tabular.Expression) bool {
	o, ok := other.(*Literal)
	return ok && l.Value.Equal(o.Value) && o.Value.Equal(l.Value)
}

// Identity yields the caller-supplied inputValue, or Invalid when
// absent. It models the current-cell reference used by Infer and by
// the formula parser's current-cell identifier.
type Identity struct{}

func NewIdentity() *Identity { return &Identity{} }

func (i *Identity) Complexity() int  { return 0 }
func (i *Identity) IsConstant() bool { return false }
func (i *Identity) Apply(_ tabular.Row, _ *tabular.Row, inputValue tabular.Value) tabular.Value {
	return inputValue
}
func (i *Identity) Visit(fn func(tabular.Expression) tabular.Expression) tabular.Expression {
	return fn(i)
}
func (i *Identity) Prepare() tabular.Expression { return i }
func (i *Identity) String() string              { return "identity" }
func (i *Identity) IsEquivalentTo(other tabular.Expression) bool {
	_, ok := other.(*Identity)
	return ok
}

// Sibling yields row[Column] or Invalid if absent.
type Sibling struct {
	Column tabular.Column
}

func NewSibling(c tabular.Column) *Sibling { return &Sibling{Column: c} }

func (s *Sibling) Complexity() int  { return 2 }
func (s *Sibling) IsConstant() bool { return false }
func (s *Sibling) Apply(row tabular.Row, _ *tabular.Row, _ tabular.Value) tabular.Value {
	return row.Get(s.Column)
}
func (s *Sibling) Visit(fn func(tabular.Expression) tabular.Expression) tabular.Expression {
	return fn(s)
}
func (s *Sibling) Prepare() tabular.Expression { return s }
func (s *Sibling) String() string              { return "[@" + s.Column.String() + "]" }
func (s *Sibling) IsEquivalentTo(other tabular.Expression) bool {
	o, ok := other.(*Sibling)
	return ok && s.Column.Equal(o.Column)
}

// Foreign yields foreignRow[Column] or Invalid if absent or no
// foreign row is supplied (used by Join expressions).
type Foreign struct {
	Column tabular.Column
}

func NewForeign(c tabular.Column) *Foreign { return &Foreign{Column: c} }

func (f *Foreign) Complexity() int  { return 2 }
func (f *Foreign) IsConstant() bool { return false }
func (f *Foreign) Apply(_ tabular.Row, foreign *tabular.Row, _ tabular.Value) tabular.Value {
	if foreign == nil {
		return tabular.Invalid
	}
	return foreign.Get(f.Column)
}
func (f *Foreign) Visit(fn func(tabular.Expression) tabular.Expression) tabular.Expression {
	return fn(f)
}
func (f *Foreign) Prepare() tabular.Expression { return f }
func (f *Foreign) String() string              { return "[#" + f.Column.String() + "]" }
func (f *Foreign) IsEquivalentTo(other tabular.Expression) bool {
	o, ok := other.(*Foreign)
	return ok && f.Column.Equal(o.Column)
}

// Comparison evaluates as op(second, first) — note the right-to-left
// convention preserved from the source per the Open Question in
// spec.md §9: deviating silently would invert non-commutative
// operators (subtraction, division, containsString).
type Comparison struct {
	First, Second tabular.Expression
	Op            tabular.BinaryOp
}

func NewComparison(first, second tabular.Expression, op tabular.BinaryOp) *Comparison {
	return &Comparison{First: first, Second: second, Op: op}
}

func (c *Comparison) Complexity() int {
	return c.First.Complexity() + c.Second.Complexity() + 5
}
func (c *Comparison) IsConstant() bool { return c.First.IsConstant() && c.Second.IsConstant() }

func (c *Comparison) Apply(row tabular.Row, foreign *tabular.Row, inputValue tabular.Value) tabular.Value {
	first := c.First.Apply(row, foreign, inputValue)
	second := c.Second.Apply(row, foreign, inputValue)
	return ApplyBinary(c.Op, second, first)
}

func (c *Comparison) Visit(fn func(tabular.Expression) tabular.Expression) tabular.Expression {
	return fn(&Comparison{First: c.First.Visit(fn), Second: c.Second.Visit(fn), Op: c.Op})
}

// Prepare constant-folds both operands, then — per spec.md §3 —
// collapses to Literal(true/false) when both sides are structurally
// equivalent and Op is one of =/≠/≤/≥/</>.
func (c *Comparison) Prepare() tabular.Expression {
	first := c.First.Prepare()
	second := c.Second.Prepare()
	folded := &Comparison{First: first, Second: second, Op: c.Op}

	if first.IsConstant() && second.IsConstant() {
		return NewLiteral(folded.Apply(tabular.Row{}, nil, tabular.Invalid))
	}

	if c.Op.IsComparisonKind() && first.IsEquivalentTo(second) {
		switch c.Op {
		case tabular.OpEqual, tabular.OpGreaterEqual, tabular.OpLesserEqual:
			return NewLiteral(tabular.NewBool(true))
		case tabular.OpNotEqual, tabular.OpGreater, tabular.OpLesser:
			return NewLiteral(tabular.NewBool(false))
		}
	}
	return folded
}

func (c *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Second.String(), c.Op.String(), c.First.String())
}

// IsEquivalentTo is structural equivalence modulo operator mirroring:
// a op b is equivalent to b mirror(op) a when a mirror exists.
func (c *Comparison) IsEquivalentTo(other tabular.Expression) bool {
	o, ok := other.(*Comparison)
	if !ok {
		return false
	}
	if c.Op == o.Op && c.First.IsEquivalentTo(o.First) && c.Second.IsEquivalentTo(o.Second) {
		return true
	}
	if mirror, has := c.Op.Mirror(); has && mirror == o.Op {
		return c.First.IsEquivalentTo(o.Second) && c.Second.IsEquivalentTo(o.First)
	}
	return false
}

// Call applies a named Function to a list of argument expressions.
type Call struct {
	Args []tabular.Expression
	Fn   tabular.Function
}

func NewCall(fn tabular.Function, args ...tabular.Expression) *Call {
	return &Call{Args: args, Fn: fn}
}

func (c *Call) Complexity() int {
	sum := 0
	for _, a := range c.Args {
		sum += a.Complexity()
	}
	return sum + 10
}

func (c *Call) IsConstant() bool {
	if !c.Fn.IsDeterministic() {
		return false
	}
	for _, a := range c.Args {
		if !a.IsConstant() {
			return false
		}
	}
	return true
}

func (c *Call) Apply(row tabular.Row, foreign *tabular.Row, inputValue tabular.Value) tabular.Value {
	args := make([]tabular.Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Apply(row, foreign, inputValue)
	}
	return c.Fn.Apply(args)
}

func (c *Call) Visit(fn func(tabular.Expression) tabular.Expression) tabular.Expression {
	args := make([]tabular.Expression, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Visit(fn)
	}
	return fn(&Call{Args: args, Fn: c.Fn})
}

func (c *Call) Prepare() tabular.Expression {
	args := make([]tabular.Expression, len(c.Args))
	allConstant := c.Fn.IsDeterministic()
	for i, a := range c.Args {
		args[i] = a.Prepare()
		if !args[i].IsConstant() {
			allConstant = false
		}
	}
	folded := &Call{Args: args, Fn: c.Fn}
	if allConstant {
		return NewLiteral(folded.Apply(tabular.Row{}, nil, tabular.Invalid))
	}
	return folded
}

func (c *Call) String() string {
	s := c.Fn.Name() + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

// IsEquivalentTo treats two Calls to the same non-deterministic
// function as never equivalent, even with identical arguments, per
// spec.md §4.2.
func (c *Call) IsEquivalentTo(other tabular.Expression) bool {
	o, ok := other.(*Call)
	if !ok || c.Fn.Name() != o.Fn.Name() || len(c.Args) != len(o.Args) {
		return false
	}
	if !c.Fn.IsDeterministic() {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].IsEquivalentTo(o.Args[i]) {
			return false
		}
	}
	return true
}
