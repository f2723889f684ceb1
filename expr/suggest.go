package expr

import (
	"strings"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr/function"
)

// candidate is a suggestion expressed in terms of Identity as the
// placeholder for "whatever expression produced the current value" —
// Infer substitutes Identity for the expression built so far before
// evaluating or recursing.
type candidate struct {
	expr tabular.Expression
}

// suggestAll gathers every variant's suggestion for bridging current
// (the value produced so far) to target, given the row the search is
// grounded in. root is true only for the first level, since Literal
// and Sibling suggestions do not depend on the accumulated expression
// and would otherwise be regenerated identically at every depth. The
// Literal suggestion is made only when there is no source value
// (current is Invalid); otherwise the search looks for a transformation
// of the source.
func suggestAll(row tabular.Row, current, target tabular.Value, registry *function.Registry, root bool) []candidate {
	var out []candidate
	if root {
		if current.IsInvalid() {
			out = append(out, suggestLiteral(target)...)
		}
		out = append(out, suggestSibling(row, target)...)
	}
	out = append(out, suggestComparison(current, target)...)
	out = append(out, suggestCall(current, target, registry)...)
	return out
}

// suggestLiteral suggests the constant target outright — the Literal
// variant's only possible suggestion when no transformation of a
// source is wanted.
func suggestLiteral(target tabular.Value) []candidate {
	return []candidate{{expr: NewLiteral(target)}}
}

// suggestSibling suggests every row column, with those already equal
// to the target naturally surfacing as zero-search-depth wins because
// Infer checks equality before recursing.
func suggestSibling(row tabular.Row, target tabular.Value) []candidate {
	if row.Columns == nil {
		return nil
	}
	cols := row.Columns.Columns()
	out := make([]candidate, 0, len(cols))
	// Columns already equal to the target are prioritised by sorting
	// them first, so Infer's tie-break (tightening maxComplexity on
	// the first match) favours them.
	var matching, rest []tabular.Column
	for _, c := range cols {
		if row.Get(c).Equal(target) {
			matching = append(matching, c)
		} else {
			rest = append(rest, c)
		}
	}
	for _, c := range append(matching, rest...) {
		out = append(out, candidate{expr: NewSibling(c)})
	}
	return out
}

// suggestComparison suggests add/sub/mul/div to bridge a numeric gap
// between current and target, and string concatenation to bridge a
// shared prefix/suffix.
func suggestComparison(current, target tabular.Value) []candidate {
	var out []candidate
	if cf, ok1 := current.AsDouble(); ok1 {
		if tf, ok2 := target.AsDouble(); ok2 {
			delta := tf - cf
			out = append(out,
				candidate{expr: NewComparison(NewIdentity(), NewLiteral(tabular.NewDouble(delta)), tabular.OpAdd)},
				candidate{expr: NewComparison(NewLiteral(tabular.NewDouble(-delta)), NewIdentity(), tabular.OpSub)},
			)
			if cf != 0 {
				ratio := tf / cf
				out = append(out, candidate{expr: NewComparison(NewIdentity(), NewLiteral(tabular.NewDouble(ratio)), tabular.OpMul)})
			}
			if tf != 0 {
				ratio := cf / tf
				out = append(out, candidate{expr: NewComparison(NewLiteral(tabular.NewDouble(ratio)), NewIdentity(), tabular.OpDiv)})
			}
		}
	}
	cs, ts := current.AsString(), target.AsString()
	if strings.HasPrefix(ts, cs) && cs != "" {
		suffix := strings.TrimPrefix(ts, cs)
		out = append(out, candidate{expr: NewComparison(NewLiteral(tabular.NewString(suffix)), NewIdentity(), tabular.OpConcat)})
	}
	if strings.HasSuffix(ts, cs) && cs != "" {
		prefix := strings.TrimSuffix(ts, cs)
		out = append(out, candidate{expr: NewComparison(NewIdentity(), NewLiteral(tabular.NewString(prefix)), tabular.OpConcat)})
	}
	return out
}

// suggestCall suggests any unary deterministic function mapping
// f(current)==target directly, plus string split-then-Nth, Left/
// Right/Mid substrings, and whole-string Substitute as a last resort.
func suggestCall(current, target tabular.Value, registry *function.Registry) []candidate {
	var out []candidate
	for _, fn := range registry.Unary() {
		out = append(out, candidate{expr: NewCall(fn, NewIdentity())})
	}

	cs, ts := current.AsString(), target.AsString()
	if cs == "" {
		return out
	}

	if left, ok := registry.Lookup("Left"); ok {
		if strings.HasPrefix(cs, ts) {
			out = append(out, candidate{expr: NewCall(left, NewIdentity(), NewLiteral(tabular.NewInt(int64(len([]rune(ts))))))})
		}
	}
	if right, ok := registry.Lookup("Right"); ok {
		if strings.HasSuffix(cs, ts) {
			out = append(out, candidate{expr: NewCall(right, NewIdentity(), NewLiteral(tabular.NewInt(int64(len([]rune(ts))))))})
		}
	}
	if mid, ok := registry.Lookup("Mid"); ok {
		if idx := strings.Index(cs, ts); idx >= 0 && ts != "" {
			out = append(out, candidate{expr: NewCall(mid, NewIdentity(),
				NewLiteral(tabular.NewInt(int64(idx))), NewLiteral(tabular.NewInt(int64(len([]rune(ts))))))})
		}
	}
	for _, sep := range []string{",", " ", "-", "/", ";", "|"} {
		parts := strings.Split(cs, sep)
		if len(parts) < 2 {
			continue
		}
		for i, p := range parts {
			if p == ts {
				split, ok1 := registry.Lookup("Split")
				nth, ok2 := registry.Lookup("Nth")
				if ok1 && ok2 {
					splitCall := NewCall(split, NewIdentity(), NewLiteral(tabular.NewString(sep)))
					out = append(out, candidate{expr: NewCall(nth, splitCall, NewLiteral(tabular.NewInt(int64(i))))})
				}
			}
		}
	}
	if sub, ok := registry.Lookup("Substitute"); ok {
		out = append(out, candidate{expr: NewCall(sub, NewIdentity(), NewLiteral(tabular.NewString(cs)), NewLiteral(tabular.NewString(ts)))})
	}
	return out
}
