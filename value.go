package tabular

import (
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/spf13/cast"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindEmpty
	KindString
	KindInt
	KindBool
	KindDouble
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindDouble:
		return "double"
	case KindDate:
		return "date"
	default:
		return "invalid"
	}
}

// Value is the tagged-union scalar described in SPEC_FULL.md §3. It is
// a small value type, not boxed behind an interface, so that Row slices
// stay cheap to copy.
type Value struct {
	kind Kind
	s    string
	i    int64
	b    bool
	f    float64 // also used for Date, as seconds since 2001-01-01T00:00:00Z
}

var (
	Invalid = Value{kind: KindInvalid}
	Empty   = Value{kind: KindEmpty}
)

func NewString(s string) Value { return Value{kind: KindString, s: s} }
func NewInt(i int64) Value     { return Value{kind: KindInt, i: i} }
func NewBool(b bool) Value     { return Value{kind: KindBool, b: b} }

// NewDouble coerces NaN/Inf to Invalid at construction, per the
// invariant that Double never carries a non-finite payload.
func NewDouble(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Invalid
	}
	return Value{kind: KindDouble, f: f}
}

// NewDate stores seconds since 2001-01-01T00:00:00Z, per spec.
func NewDate(secondsSinceEpoch2001 float64) Value {
	if math.IsNaN(secondsSinceEpoch2001) || math.IsInf(secondsSinceEpoch2001, 0) {
		return Invalid
	}
	return Value{kind: KindDate, f: secondsSinceEpoch2001}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsInvalid() bool { return v.kind == KindInvalid }
func (v Value) IsEmpty() bool   { return v.kind == KindEmpty }

// AsString renders the value as a string, used for concatenation,
// containsString, and cross-type equality fallback.
func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindDouble, KindDate:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindEmpty:
		return ""
	default:
		return ""
	}
}

// AsDouble attempts a numeric coercion, backing arithmetic and numeric
// comparison. ok is false (and the value Invalid-equivalent) when no
// coercion exists, per "any arithmetic where either operand lacks a
// double coercion yields Invalid".
func (v Value) AsDouble() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindDouble, KindDate:
		return v.f, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		f, err := cast.ToFloat64E(strings.TrimSpace(v.s))
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindDouble, KindDate:
		return int64(v.f), true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		i, err := cast.ToInt64E(strings.TrimSpace(v.s))
		if err == nil {
			return i, true
		}
		if f, err2 := cast.ToFloat64E(strings.TrimSpace(v.s)); err2 == nil {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func (v Value) AsBool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindDouble:
		return v.f != 0
	case KindString:
		b, err := cast.ToBoolE(v.s)
		return err == nil && b
	default:
		return false
	}
}

// Equal implements the cross-type equality rule in SPEC_FULL.md §3:
// Invalid is never equal to anything (including itself); Empty equals
// Empty; otherwise numeric coercion is tried first, falling back to
// string comparison.
func (v Value) Equal(o Value) bool {
	if v.kind == KindInvalid || o.kind == KindInvalid {
		return false
	}
	if v.kind == KindEmpty || o.kind == KindEmpty {
		return v.kind == o.kind
	}
	if fv, ok1 := v.AsDouble(); ok1 {
		if fo, ok2 := o.AsDouble(); ok2 {
			return fv == fo
		}
	}
	return v.AsString() == o.AsString()
}

// Hash implements hashstructure.Hashable so Value can key Aggregate's
// group catalog despite its fields being unexported (hashstructure's
// reflection-based walk would otherwise see an empty struct).
func (v Value) Hash(seed uint64) (uint64, error) {
	return hashstructure.Hash(
		[5]interface{}{v.kind, v.s, v.i, v.b, v.f},
		hashstructure.FormatV2,
		&hashstructure.HashOptions{Seed: seed},
	)
}

// Compare orders two values, used by sort. numeric forces a numeric
// comparison (Order.Numeric) instead of the default lexical one.
// It returns -1, 0, or 1; Invalid sorts last regardless of direction.
func (v Value) Compare(o Value, numeric bool) int {
	if v.kind == KindInvalid && o.kind == KindInvalid {
		return 0
	}
	if v.kind == KindInvalid {
		return 1
	}
	if o.kind == KindInvalid {
		return -1
	}
	if numeric {
		fv, ok1 := v.AsDouble()
		fo, ok2 := o.AsDouble()
		if ok1 && ok2 {
			switch {
			case fv < fo:
				return -1
			case fv > fo:
				return 1
			default:
				return 0
			}
		}
	}
	sv, so := v.AsString(), o.AsString()
	switch {
	case sv < so:
		return -1
	case sv > so:
		return 1
	default:
		return 0
	}
}
