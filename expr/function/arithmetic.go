package function

import (
	"math"

	tabular "github.com/colstack/tabular"
)

func unaryNumeric(name string, f func(float64) float64) *simpleFunction {
	return &simpleFunction{
		name: name, deterministic: true, arity: exactly(1),
		apply: func(args []tabular.Value) tabular.Value {
			v, ok := args[0].AsDouble()
			if !ok {
				return tabular.Invalid
			}
			return tabular.NewDouble(f(v))
		},
	}
}

func arithmeticFunctions() []tabular.Function {
	return []tabular.Function{
		unaryNumeric("Abs", math.Abs),
		unaryNumeric("Sqrt", math.Sqrt),
		unaryNumeric("Floor", math.Floor),
		unaryNumeric("Ceiling", math.Ceil),
		unaryNumeric("Ln", math.Log),
		unaryNumeric("Log10", math.Log10),
		unaryNumeric("Exp", math.Exp),
		unaryNumeric("Sin", math.Sin),
		unaryNumeric("Cos", math.Cos),
		unaryNumeric("Tan", math.Tan),
		unaryNumeric("Negate", func(v float64) float64 { return -v }),
		&simpleFunction{
			name: "Round", deterministic: true, arity: between(1, 2),
			apply: func(args []tabular.Value) tabular.Value {
				v, ok := args[0].AsDouble()
				if !ok {
					return tabular.Invalid
				}
				digits := 0.0
				if len(args) == 2 {
					d, ok2 := args[1].AsDouble()
					if !ok2 {
						return tabular.Invalid
					}
					digits = d
				}
				mult := math.Pow(10, digits)
				return tabular.NewDouble(math.Round(v*mult) / mult)
			},
		},
		&simpleFunction{
			name: "Power", deterministic: true, arity: exactly(2),
			apply: func(args []tabular.Value) tabular.Value {
				a, ok1 := args[0].AsDouble()
				b, ok2 := args[1].AsDouble()
				if !ok1 || !ok2 {
					return tabular.Invalid
				}
				return tabular.NewDouble(math.Pow(a, b))
			},
		},
	}
}
