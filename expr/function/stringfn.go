package function

import (
	"strings"

	tabular "github.com/colstack/tabular"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

func stringFunctions() []tabular.Function {
	return []tabular.Function{
		&simpleFunction{
			name: "Left", deterministic: true, arity: exactly(2),
			apply: func(args []tabular.Value) tabular.Value {
				s := args[0].AsString()
				n, ok := args[1].AsInt()
				if !ok || n < 0 {
					return tabular.Invalid
				}
				r := []rune(s)
				if int(n) > len(r) {
					n = int64(len(r))
				}
				return tabular.NewString(string(r[:n]))
			},
		},
		&simpleFunction{
			name: "Right", deterministic: true, arity: exactly(2),
			apply: func(args []tabular.Value) tabular.Value {
				s := args[0].AsString()
				n, ok := args[1].AsInt()
				if !ok || n < 0 {
					return tabular.Invalid
				}
				r := []rune(s)
				if int(n) > len(r) {
					n = int64(len(r))
				}
				return tabular.NewString(string(r[len(r)-int(n):]))
			},
		},
		&simpleFunction{
			name: "Mid", deterministic: true, arity: exactly(3),
			apply: func(args []tabular.Value) tabular.Value {
				s := args[0].AsString()
				start, ok1 := args[1].AsInt()
				length, ok2 := args[2].AsInt()
				if !ok1 || !ok2 || start < 0 || length < 0 {
					return tabular.Invalid
				}
				r := []rune(s)
				if int(start) >= len(r) {
					return tabular.NewString("")
				}
				end := int(start) + int(length)
				if end > len(r) {
					end = len(r)
				}
				return tabular.NewString(string(r[start:end]))
			},
		},
		&simpleFunction{
			name: "Length", deterministic: true, arity: exactly(1),
			apply: func(args []tabular.Value) tabular.Value {
				return tabular.NewInt(int64(len([]rune(args[0].AsString()))))
			},
		},
		&simpleFunction{
			name: "Trim", deterministic: true, arity: exactly(1),
			apply: func(args []tabular.Value) tabular.Value {
				return tabular.NewString(strings.TrimSpace(args[0].AsString()))
			},
		},
		&simpleFunction{
			name: "Substitute", deterministic: true, arity: exactly(3),
			apply: func(args []tabular.Value) tabular.Value {
				s, from, to := args[0].AsString(), args[1].AsString(), args[2].AsString()
				return tabular.NewString(strings.ReplaceAll(s, from, to))
			},
		},
		&simpleFunction{
			name: "Split", deterministic: true, arity: exactly(2),
			apply: func(args []tabular.Value) tabular.Value {
				s, sep := args[0].AsString(), args[1].AsString()
				return tabular.NewString(tabular.NewPack(strings.Split(s, sep)...).StringValue())
			},
		},
		&simpleFunction{
			name: "Nth", deterministic: true, arity: exactly(2),
			apply: func(args []tabular.Value) tabular.Value {
				packed := tabular.ParsePack(args[0].AsString())
				items := packed.Items()
				i, ok := args[1].AsInt()
				if !ok || i < 0 || int(i) >= len(items) {
					return tabular.Invalid
				}
				return tabular.NewString(items[i])
			},
		},
		&simpleFunction{
			name: "Concat", deterministic: true, arity: atLeast(0),
			apply: func(args []tabular.Value) tabular.Value {
				var b strings.Builder
				for _, a := range args {
					b.WriteString(a.AsString())
				}
				return tabular.NewString(b.String())
			},
		},
		&simpleFunction{
			name: "Capitalize", deterministic: true, arity: exactly(1),
			apply: func(args []tabular.Value) tabular.Value {
				return tabular.NewString(titleCaser.String(args[0].AsString()))
			},
		},
	}
}
