package tabular

// Expression is the interface every node variant of the expression
// tree implements (Literal, Identity, Sibling, Foreign, Comparison,
// Call — concrete implementations live in package expr). Modelling it
// as an interface with dispatch on the concrete type, rather than a
// class hierarchy, is the Go-native rendering of the source's
// inheritance-based Expression class called for in spec.md §9.
type Expression interface {
	// Complexity is a static cost estimate used by Infer's search
	// budget: Literal=10, Identity=0, Sibling=2,
	// Comparison=first+second+5, Call=Σargs+10.
	Complexity() int

	// IsConstant reports whether Apply's result is independent of its
	// row/foreign/inputValue arguments.
	IsConstant() bool

	// Apply is pure evaluation: failures manifest as Invalid, never as
	// an out-of-band error.
	Apply(row Row, foreign *Row, inputValue Value) Value

	// Visit walks the tree bottom-up: it visits every child first,
	// rebuilds the node from the (possibly replaced) children, and
	// returns fn applied to that rebuilt node.
	Visit(fn func(Expression) Expression) Expression

	// Prepare constant-folds and algebraically simplifies the
	// expression. It must be idempotent.
	Prepare() Expression

	// IsEquivalentTo is structural equivalence modulo operator
	// mirroring and non-determinism, per SPEC_FULL.md §4.2.
	IsEquivalentTo(other Expression) bool

	String() string
}

// Function is the closed-enum contract for Call nodes' callees.
type Function interface {
	Name() string
	IsDeterministic() bool
	AcceptsArity(n int) bool
	Apply(args []Value) Value
}

// Reducer is an associative incremental accumulator backing an
// Aggregator, per SPEC_FULL.md §3/§4.5. Every Reducer must be
// associative to admit parallel/streaming evaluation (§8).
type Reducer interface {
	// New returns a fresh zero-state Reducer of the same kind, used as
	// the per-group-leaf template in Aggregate's catalog.
	New() Reducer
	Add(v Value)
	Result() Value
	// Name identifies the reducer kind (e.g. "Sum", "CountDistinct"),
	// used by sqlpush to translate an Aggregator to a SQL aggregate
	// function.
	Name() string
}

// Aggregator pairs a per-row mapping expression with a Reducer that
// combines the mapped values, per SPEC_FULL.md §3.
type Aggregator struct {
	Map    Expression
	Reduce Reducer
}

// BinaryOp enumerates the Comparison node's operator set, per
// SPEC_FULL.md §3. Each has an optional Mirror used by IsEquivalentTo.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpConcat
	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLesser
	OpLesserEqual
	OpContainsString
	OpContainsStringStrict
	OpMatchesRegex
	OpMatchesRegexStrict
)

var binaryOpNames = map[BinaryOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpPow: "^",
	OpConcat: "&", OpEqual: "=", OpNotEqual: "<>", OpGreater: ">",
	OpGreaterEqual: ">=", OpLesser: "<", OpLesserEqual: "<=",
	OpContainsString: "~=", OpContainsStringStrict: "~==",
	OpMatchesRegex: "~", OpMatchesRegexStrict: "~~",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// Mirror returns the operator obtained by swapping operand order, and
// whether one exists. Per the Open Question in spec.md §9, arithmetic
// operators (sub, div in particular) are intentionally NOT symmetric
// under mirroring — only =, ≠, and the four relational pairs are.
func (op BinaryOp) Mirror() (BinaryOp, bool) {
	switch op {
	case OpEqual:
		return OpEqual, true
	case OpNotEqual:
		return OpNotEqual, true
	case OpGreater:
		return OpLesser, true
	case OpLesser:
		return OpGreater, true
	case OpGreaterEqual:
		return OpLesserEqual, true
	case OpLesserEqual:
		return OpGreaterEqual, true
	default:
		return op, false
	}
}

func (op BinaryOp) IsComparisonKind() bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreater, OpGreaterEqual, OpLesser, OpLesserEqual:
		return true
	default:
		return false
	}
}
