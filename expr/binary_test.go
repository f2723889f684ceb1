package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr"
)

// second plays the left operand, first the right operand, per
// ApplyBinary's documented (op, second, first) convention.
func TestApplyBinaryArithmetic(t *testing.T) {
	five := tabular.NewDouble(5)
	two := tabular.NewDouble(2)

	assert.Equal(t, 7.0, asFloat(t, expr.ApplyBinary(tabular.OpAdd, five, two)))
	assert.Equal(t, 3.0, asFloat(t, expr.ApplyBinary(tabular.OpSub, five, two)))
	assert.Equal(t, 10.0, asFloat(t, expr.ApplyBinary(tabular.OpMul, five, two)))
	assert.Equal(t, 2.5, asFloat(t, expr.ApplyBinary(tabular.OpDiv, five, two)))
	assert.Equal(t, 1.0, asFloat(t, expr.ApplyBinary(tabular.OpMod, five, two)))
	assert.Equal(t, 25.0, asFloat(t, expr.ApplyBinary(tabular.OpPow, five, two)))
}

func asFloat(t *testing.T, v tabular.Value) float64 {
	t.Helper()
	f, ok := v.AsDouble()
	if !ok {
		t.Fatalf("value %v has no numeric coercion", v)
	}
	return f
}

func TestApplyBinaryDivisionByZeroYieldsInvalid(t *testing.T) {
	v := expr.ApplyBinary(tabular.OpDiv, tabular.NewDouble(1), tabular.NewDouble(0))
	assert.True(t, v.IsInvalid())
}

func TestApplyBinaryConcatOrdersLeftThenRight(t *testing.T) {
	v := expr.ApplyBinary(tabular.OpConcat, tabular.NewString("a"), tabular.NewString("b"))
	assert.Equal(t, "ab", v.AsString())
}

func TestApplyBinaryEqualityRequiresBothOperandsValid(t *testing.T) {
	assert.False(t, expr.ApplyBinary(tabular.OpEqual, tabular.Invalid, tabular.NewInt(1)).AsBool())
	assert.True(t, expr.ApplyBinary(tabular.OpEqual, tabular.NewInt(1), tabular.NewInt(1)).AsBool())
	assert.True(t, expr.ApplyBinary(tabular.OpNotEqual, tabular.NewInt(1), tabular.NewInt(2)).AsBool())
}

func TestApplyBinaryRelationalUsesNumericCompare(t *testing.T) {
	assert.True(t, expr.ApplyBinary(tabular.OpGreater, tabular.NewInt(10), tabular.NewInt(2)).AsBool())
	assert.True(t, expr.ApplyBinary(tabular.OpLesserEqual, tabular.NewInt(2), tabular.NewInt(2)).AsBool())
}

func TestApplyBinaryContainsStringIsCaseInsensitiveStrictIsNot(t *testing.T) {
	assert.True(t, expr.ApplyBinary(tabular.OpContainsString, tabular.NewString("HELLO world"), tabular.NewString("hello")).AsBool())
	assert.False(t, expr.ApplyBinary(tabular.OpContainsStringStrict, tabular.NewString("HELLO world"), tabular.NewString("hello")).AsBool())
	assert.True(t, expr.ApplyBinary(tabular.OpContainsStringStrict, tabular.NewString("HELLO world"), tabular.NewString("HELLO")).AsBool())
}

func TestApplyBinaryMatchesRegex(t *testing.T) {
	assert.True(t, expr.ApplyBinary(tabular.OpMatchesRegex, tabular.NewString("abc123"), tabular.NewString(`^[a-z]+\d+$`)).AsBool())
	assert.False(t, expr.ApplyBinary(tabular.OpMatchesRegexStrict, tabular.NewString("ABC123"), tabular.NewString(`^[a-z]+\d+$`)).AsBool())
}

func TestApplyBinaryInvalidRegexYieldsInvalid(t *testing.T) {
	v := expr.ApplyBinary(tabular.OpMatchesRegex, tabular.NewString("x"), tabular.NewString("(unterminated"))
	assert.True(t, v.IsInvalid())
}

func TestApplyBinaryNonNumericOperandYieldsInvalid(t *testing.T) {
	v := expr.ApplyBinary(tabular.OpAdd, tabular.NewString("not a number"), tabular.NewInt(1))
	assert.True(t, v.IsInvalid())
}
