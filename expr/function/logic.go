package function

import tabular "github.com/colstack/tabular"

func logicFunctions() []tabular.Function {
	return []tabular.Function{
		&simpleFunction{
			name: "And", deterministic: true, arity: atLeast(1),
			apply: func(args []tabular.Value) tabular.Value {
				for _, a := range args {
					if a.IsInvalid() {
						return tabular.Invalid
					}
					if !a.AsBool() {
						return tabular.NewBool(false)
					}
				}
				return tabular.NewBool(true)
			},
		},
		&simpleFunction{
			name: "Or", deterministic: true, arity: atLeast(1),
			apply: func(args []tabular.Value) tabular.Value {
				for _, a := range args {
					if !a.IsInvalid() && a.AsBool() {
						return tabular.NewBool(true)
					}
				}
				return tabular.NewBool(false)
			},
		},
		&simpleFunction{
			name: "Not", deterministic: true, arity: exactly(1),
			apply: func(args []tabular.Value) tabular.Value {
				if args[0].IsInvalid() {
					return tabular.Invalid
				}
				return tabular.NewBool(!args[0].AsBool())
			},
		},
		&simpleFunction{
			name: "Xor", deterministic: true, arity: exactly(2),
			apply: func(args []tabular.Value) tabular.Value {
				if args[0].IsInvalid() || args[1].IsInvalid() {
					return tabular.Invalid
				}
				return tabular.NewBool(args[0].AsBool() != args[1].AsBool())
			},
		},
		&simpleFunction{
			name: "If", deterministic: true, arity: exactly(3),
			apply: func(args []tabular.Value) tabular.Value {
				if args[0].IsInvalid() {
					return tabular.Invalid
				}
				if args[0].AsBool() {
					return args[1]
				}
				return args[2]
			},
		},
		&simpleFunction{
			name: "Coalesce", deterministic: true, arity: atLeast(1),
			apply: func(args []tabular.Value) tabular.Value {
				for _, a := range args {
					if !a.IsInvalid() && !a.IsEmpty() {
						return a
					}
				}
				return tabular.Empty
			},
		},
		&simpleFunction{
			name: "IfError", deterministic: true, arity: exactly(2),
			apply: func(args []tabular.Value) tabular.Value {
				if args[0].IsInvalid() {
					return args[1]
				}
				return args[0]
			},
		},
	}
}
