package function

import (
	"math/rand"

	tabular "github.com/colstack/tabular"
)

// randomFunctions are deterministic=false by construction: two Calls
// to Random are never equivalent, per spec.md §4.2.
func randomFunctions() []tabular.Function {
	return []tabular.Function{
		&simpleFunction{
			name: "Random", deterministic: false, arity: exactly(0),
			apply: func(args []tabular.Value) tabular.Value { return tabular.NewDouble(rand.Float64()) },
		},
		&simpleFunction{
			name: "RandomBetween", deterministic: false, arity: exactly(2),
			apply: func(args []tabular.Value) tabular.Value {
				lo, ok1 := args[0].AsInt()
				hi, ok2 := args[1].AsInt()
				if !ok1 || !ok2 || hi <= lo {
					return tabular.Invalid
				}
				return tabular.NewInt(lo + rand.Int63n(hi-lo))
			},
		},
	}
}

func containmentFunctions() []tabular.Function {
	return []tabular.Function{
		&simpleFunction{
			name: "In", deterministic: true, arity: atLeast(1),
			apply: func(args []tabular.Value) tabular.Value {
				needle := args[0]
				for _, a := range args[1:] {
					if needle.Equal(a) {
						return tabular.NewBool(true)
					}
				}
				return tabular.NewBool(false)
			},
		},
		&simpleFunction{
			name: "NotIn", deterministic: true, arity: atLeast(1),
			apply: func(args []tabular.Value) tabular.Value {
				needle := args[0]
				for _, a := range args[1:] {
					if needle.Equal(a) {
						return tabular.NewBool(false)
					}
				}
				return tabular.NewBool(true)
			},
		},
	}
}
