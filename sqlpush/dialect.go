// Package sqlpush implements the push-down query planner of spec.md
// §4.7: SQLDialect translates Expressions/Functions/operators to SQL
// text, SQLFragment is a staged query builder enforcing logical
// clause order, and SQLDataset composes fragments per operator,
// falling back to the streaming engine when a sub-translation fails.
package sqlpush

import (
	"fmt"
	"strconv"
	"strings"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr"
)

// Dialect is the capability object described in spec.md §4.7. A
// Function/operator/expression translator may return ("", false) to
// signal "cannot be translated", which propagates outward as a
// fallback to streaming rather than a failure.
type Dialect interface {
	QuoteIdentifier(segments ...string) string
	QuoteString(s string) string
	ValueToSQL(v tabular.Value) string
	TranslateBinaryOp(op tabular.BinaryOp) (string, bool)
	TranslateFunction(name string, args []string) (string, bool)
	JoinKeyword(jt tabular.JoinType) string
	SupportsColumnDrop() bool
	SupportsAlterType() bool
}

// StandardDialect targets ANSI/SQL92 plus the widely supported
// extensions named in spec.md §6: CONCAT, LOG/EXP/POW, REGEXP,
// GROUP_CONCAT, LIMIT/OFFSET. Vendor dialects embed StandardDialect
// and override the functions/operators that deviate.
type StandardDialect struct{}

func NewStandardDialect() *StandardDialect { return &StandardDialect{} }

// QuoteIdentifier escapes the identifier qualifier (") in each segment
// and joins database/schema/table-qualified segments with ".", per
// spec.md §4.7.
func (StandardDialect) QuoteIdentifier(segments ...string) string {
	quoted := make([]string, len(segments))
	for i, s := range segments {
		quoted[i] = `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ".")
}

// QuoteString escapes the escape character first, then the string
// qualifier, per spec.md §4.7.
func (StandardDialect) QuoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `''`)
	return "'" + s + "'"
}

// ValueToSQL emits a constant Value as a SQL literal. Constant
// expressions are always evaluated in-process and emitted this way —
// Literal nodes never reach the non-constant translation path.
func (d StandardDialect) ValueToSQL(v tabular.Value) string {
	switch v.Kind() {
	case tabular.KindInvalid:
		return "NULL"
	case tabular.KindEmpty:
		return "''"
	case tabular.KindBool:
		if v.AsBool() {
			return "TRUE"
		}
		return "FALSE"
	case tabular.KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	case tabular.KindDouble, tabular.KindDate:
		f, _ := v.AsDouble()
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return d.QuoteString(v.AsString())
	}
}

var standardBinaryOps = map[tabular.BinaryOp]string{
	tabular.OpAdd: "+", tabular.OpSub: "-", tabular.OpMul: "*", tabular.OpDiv: "/",
	tabular.OpMod: "%", tabular.OpPow: "POW", tabular.OpConcat: "CONCAT",
	tabular.OpEqual: "=", tabular.OpNotEqual: "<>", tabular.OpGreater: ">",
	tabular.OpGreaterEqual: ">=", tabular.OpLesser: "<", tabular.OpLesserEqual: "<=",
	tabular.OpContainsString: "REGEXP", tabular.OpContainsStringStrict: "REGEXP BINARY",
	tabular.OpMatchesRegex: "REGEXP", tabular.OpMatchesRegexStrict: "REGEXP BINARY",
}

func (StandardDialect) TranslateBinaryOp(op tabular.BinaryOp) (string, bool) {
	s, ok := standardBinaryOps[op]
	return s, ok
}

var standardFunctions = map[string]string{
	"abs": "ABS", "sqrt": "SQRT", "floor": "FLOOR", "ceiling": "CEILING",
	"ln": "LOG", "log10": "LOG10", "exp": "EXP", "sin": "SIN", "cos": "COS", "tan": "TAN",
	"left": "LEFT", "right": "RIGHT", "length": "LENGTH", "trim": "TRIM",
	"concat": "CONCAT", "lower": "LOWER", "upper": "UPPER", "now": "NOW",
	"year": "YEAR", "month": "MONTH", "day": "DAY",
	"sum": "SUM", "average": "AVG", "min": "MIN", "max": "MAX", "count": "COUNT",
	"countdistinct": "COUNT", "pack": "GROUP_CONCAT",
}

// TranslateFunction returns ("", false) for any Function with no
// direct SQL equivalent (e.g. Negate, Round,
// Split/Nth, the inference-only helpers) — the enclosing expression
// translation then fails as a whole, signalling a fallback.
func (StandardDialect) TranslateFunction(name string, args []string) (string, bool) {
	sqlName, ok := standardFunctions[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return sqlName + "(" + strings.Join(args, ", ") + ")", true
}

func (StandardDialect) JoinKeyword(jt tabular.JoinType) string {
	if jt == tabular.LeftJoin {
		return "LEFT JOIN"
	}
	return "JOIN"
}

func (StandardDialect) SupportsColumnDrop() bool { return true }
func (StandardDialect) SupportsAlterType() bool   { return false }

// TranslateExpression renders e as SQL text given the column→table
// qualification rules for left-row (Sibling) and foreign-row (Foreign)
// references, and the caller-supplied inputValue text (Identity maps
// to inputValue, or "???" when absent, per spec.md §4.7). A nil
// foreignSQL falls back to siblingSQL, which is correct everywhere a
// Foreign node cannot occur (every non-Join expression). It returns
// ("", false) when any sub-expression cannot be translated (an
// untranslatable Function, typically).
func TranslateExpression(d Dialect, e tabular.Expression, siblingSQL, foreignSQL func(tabular.Column) string, inputValue string) (string, bool) {
	if foreignSQL == nil {
		foreignSQL = siblingSQL
	}
	if e.IsConstant() {
		return d.ValueToSQL(e.Apply(tabular.Row{}, nil, tabular.Invalid)), true
	}
	switch n := e.(type) {
	case *expr.Literal:
		return d.ValueToSQL(n.Value), true
	case *expr.Identity:
		if inputValue == "" {
			return "???", true
		}
		return inputValue, true
	case *expr.Sibling:
		return siblingSQL(n.Column), true
	case *expr.Foreign:
		return foreignSQL(n.Column), true
	case *expr.Comparison:
		return translateComparison(d, n, siblingSQL, foreignSQL, inputValue)
	case *expr.Call:
		return translateCall(d, n, siblingSQL, foreignSQL, inputValue)
	default:
		return "", false
	}
}

// translateComparison renders op(second, first) per the right-to-left
// convention of spec.md §9, rewriting equality against NULL to IS
// NULL/IS NOT NULL and forcing numeric/string casts per spec.md §4.7.
func translateComparison(d Dialect, c *expr.Comparison, siblingSQL, foreignSQL func(tabular.Column) string, inputValue string) (string, bool) {
	firstSQL, ok := TranslateExpression(d, c.First, siblingSQL, foreignSQL, inputValue)
	if !ok {
		return "", false
	}
	secondSQL, ok := TranslateExpression(d, c.Second, siblingSQL, foreignSQL, inputValue)
	if !ok {
		return "", false
	}
	opSQL, ok := d.TranslateBinaryOp(c.Op)
	if !ok {
		return "", false
	}
	if lit, isLit := c.Second.(*expr.Literal); isLit && lit.Value.IsInvalid() {
		switch c.Op {
		case tabular.OpEqual:
			return firstSQL + " IS NULL", true
		case tabular.OpNotEqual:
			return firstSQL + " IS NOT NULL", true
		}
	}
	if lit, isLit := c.First.(*expr.Literal); isLit && lit.Value.IsInvalid() {
		switch c.Op {
		case tabular.OpEqual:
			return secondSQL + " IS NULL", true
		case tabular.OpNotEqual:
			return secondSQL + " IS NOT NULL", true
		}
	}
	switch c.Op {
	case tabular.OpGreater, tabular.OpGreaterEqual, tabular.OpLesser, tabular.OpLesserEqual:
		return fmt.Sprintf("(CAST(%s AS DECIMAL) %s CAST(%s AS DECIMAL))", secondSQL, opSQL, firstSQL), true
	case tabular.OpConcat:
		return fmt.Sprintf("CONCAT(CAST(%s AS CHAR), CAST(%s AS CHAR))", secondSQL, firstSQL), true
	case tabular.OpPow:
		return fmt.Sprintf("POW(%s, %s)", secondSQL, firstSQL), true
	case tabular.OpContainsString, tabular.OpContainsStringStrict, tabular.OpMatchesRegex, tabular.OpMatchesRegexStrict:
		return fmt.Sprintf("(%s %s %s)", secondSQL, opSQL, firstSQL), true
	default:
		return fmt.Sprintf("(%s %s %s)", secondSQL, opSQL, firstSQL), true
	}
}

func translateCall(d Dialect, c *expr.Call, siblingSQL, foreignSQL func(tabular.Column) string, inputValue string) (string, bool) {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		sql, ok := TranslateExpression(d, a, siblingSQL, foreignSQL, inputValue)
		if !ok {
			return "", false
		}
		args[i] = sql
	}
	return d.TranslateFunction(c.Fn.Name(), args)
}
