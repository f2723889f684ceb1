package function

import (
	"time"

	tabular "github.com/colstack/tabular"
)

// epoch2001 is the reference instant for Value's Date encoding:
// seconds since 2001-01-01T00:00:00Z, per spec.md §3. Date-format
// helpers beyond this conversion are explicitly out of scope
// (spec.md §1).
var epoch2001 = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

func toTime(v tabular.Value) (time.Time, bool) {
	f, ok := v.AsDouble()
	if !ok {
		return time.Time{}, false
	}
	return epoch2001.Add(time.Duration(f * float64(time.Second))), true
}

func fromTime(t time.Time) tabular.Value {
	return tabular.NewDate(t.Sub(epoch2001).Seconds())
}

func dateFunctions() []tabular.Function {
	return []tabular.Function{
		&simpleFunction{
			name: "Now", deterministic: false, arity: exactly(0),
			apply: func(args []tabular.Value) tabular.Value { return fromTime(time.Now().UTC()) },
		},
		&simpleFunction{
			name: "Year", deterministic: true, arity: exactly(1),
			apply: func(args []tabular.Value) tabular.Value {
				t, ok := toTime(args[0])
				if !ok {
					return tabular.Invalid
				}
				return tabular.NewInt(int64(t.Year()))
			},
		},
		&simpleFunction{
			name: "Month", deterministic: true, arity: exactly(1),
			apply: func(args []tabular.Value) tabular.Value {
				t, ok := toTime(args[0])
				if !ok {
					return tabular.Invalid
				}
				return tabular.NewInt(int64(t.Month()))
			},
		},
		&simpleFunction{
			name: "Day", deterministic: true, arity: exactly(1),
			apply: func(args []tabular.Value) tabular.Value {
				t, ok := toTime(args[0])
				if !ok {
					return tabular.Invalid
				}
				return tabular.NewInt(int64(t.Day()))
			},
		},
		&simpleFunction{
			name: "AddDays", deterministic: true, arity: exactly(2),
			apply: func(args []tabular.Value) tabular.Value {
				t, ok := toTime(args[0])
				n, ok2 := args[1].AsInt()
				if !ok || !ok2 {
					return tabular.Invalid
				}
				return fromTime(t.AddDate(0, 0, int(n)))
			},
		},
	}
}
