package expr

import (
	"math"
	"regexp"
	"strings"

	tabular "github.com/colstack/tabular"
)

// ApplyBinary implements every Binary operator in spec.md §3. Callers
// evaluate Comparison as op(second, first) — see node.go's Apply.
func ApplyBinary(op tabular.BinaryOp, second, first tabular.Value) tabular.Value {
	switch op {
	case tabular.OpAdd:
		return numeric(second, first, func(a, b float64) float64 { return a + b })
	case tabular.OpSub:
		return numeric(second, first, func(a, b float64) float64 { return a - b })
	case tabular.OpMul:
		return numeric(second, first, func(a, b float64) float64 { return a * b })
	case tabular.OpDiv:
		return numeric(second, first, func(a, b float64) float64 {
			if b == 0 {
				return math.NaN()
			}
			return a / b
		})
	case tabular.OpMod:
		return numeric(second, first, func(a, b float64) float64 {
			if b == 0 {
				return math.NaN()
			}
			return math.Mod(a, b)
		})
	case tabular.OpPow:
		return numeric(second, first, math.Pow)
	case tabular.OpConcat:
		return tabular.NewString(second.AsString() + first.AsString())
	case tabular.OpEqual:
		return tabular.NewBool(compareValid(second, first) && second.Equal(first))
	case tabular.OpNotEqual:
		return tabular.NewBool(compareValid(second, first) && !second.Equal(first))
	case tabular.OpGreater:
		return orderedCompare(second, first, func(c int) bool { return c > 0 })
	case tabular.OpGreaterEqual:
		return orderedCompare(second, first, func(c int) bool { return c >= 0 })
	case tabular.OpLesser:
		return orderedCompare(second, first, func(c int) bool { return c < 0 })
	case tabular.OpLesserEqual:
		return orderedCompare(second, first, func(c int) bool { return c <= 0 })
	case tabular.OpContainsString:
		if second.IsInvalid() || first.IsInvalid() {
			return tabular.NewBool(false)
		}
		return tabular.NewBool(strings.Contains(strings.ToLower(second.AsString()), strings.ToLower(first.AsString())))
	case tabular.OpContainsStringStrict:
		if second.IsInvalid() || first.IsInvalid() {
			return tabular.NewBool(false)
		}
		return tabular.NewBool(strings.Contains(second.AsString(), first.AsString()))
	case tabular.OpMatchesRegex:
		return regexMatch(second, first, true)
	case tabular.OpMatchesRegexStrict:
		return regexMatch(second, first, false)
	default:
		return tabular.Invalid
	}
}

func compareValid(a, b tabular.Value) bool {
	return !a.IsInvalid() && !b.IsInvalid()
}

func numeric(second, first tabular.Value, f func(a, b float64) float64) tabular.Value {
	a, ok1 := second.AsDouble()
	b, ok2 := first.AsDouble()
	if !ok1 || !ok2 {
		return tabular.Invalid
	}
	return tabular.NewDouble(f(a, b))
}

func orderedCompare(second, first tabular.Value, pred func(int) bool) tabular.Value {
	if second.IsInvalid() || first.IsInvalid() {
		return tabular.NewBool(false)
	}
	return tabular.NewBool(pred(second.Compare(first, true)))
}

func regexMatch(second, first tabular.Value, caseInsensitive bool) tabular.Value {
	if second.IsInvalid() || first.IsInvalid() {
		return tabular.NewBool(false)
	}
	pattern := first.AsString()
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return tabular.Invalid
	}
	return tabular.NewBool(re.MatchString(second.AsString()))
}
