package function_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tabular "github.com/colstack/tabular"
)

func TestLeftRightMid(t *testing.T) {
	assert.Equal(t, "hel", call(t, "Left", tabular.NewString("hello"), tabular.NewInt(3)).AsString())
	assert.Equal(t, "llo", call(t, "Right", tabular.NewString("hello"), tabular.NewInt(3)).AsString())
	assert.Equal(t, "ell", call(t, "Mid", tabular.NewString("hello"), tabular.NewInt(1), tabular.NewInt(3)).AsString())
}

func TestLeftClampsToStringLength(t *testing.T) {
	assert.Equal(t, "hi", call(t, "Left", tabular.NewString("hi"), tabular.NewInt(10)).AsString())
}

func TestLeftRejectsNegativeCount(t *testing.T) {
	assert.True(t, call(t, "Left", tabular.NewString("hi"), tabular.NewInt(-1)).IsInvalid())
}

func TestLengthCountsRunesNotBytes(t *testing.T) {
	v := call(t, "Length", tabular.NewString("héllo"))
	n, ok := v.AsInt()
	assert.True(t, ok)
	assert.EqualValues(t, 5, n)
}

func TestTrimRemovesSurroundingWhitespace(t *testing.T) {
	assert.Equal(t, "hi", call(t, "Trim", tabular.NewString("  hi  ")).AsString())
}

func TestSubstituteReplacesAllOccurrences(t *testing.T) {
	assert.Equal(t, "bxnxnx", call(t, "Substitute", tabular.NewString("banana"), tabular.NewString("a"), tabular.NewString("x")).AsString())
}

func TestSplitThenNthRoundTripsThroughPack(t *testing.T) {
	split := call(t, "Split", tabular.NewString("a,b,c"), tabular.NewString(","))
	second := call(t, "Nth", split, tabular.NewInt(1))
	assert.Equal(t, "b", second.AsString())
}

func TestNthOutOfRangeYieldsInvalid(t *testing.T) {
	split := call(t, "Split", tabular.NewString("a,b"), tabular.NewString(","))
	assert.True(t, call(t, "Nth", split, tabular.NewInt(5)).IsInvalid())
}

func TestConcatJoinsArgumentsInOrder(t *testing.T) {
	assert.Equal(t, "abc", call(t, "Concat", tabular.NewString("a"), tabular.NewString("b"), tabular.NewString("c")).AsString())
}

func TestCapitalizeTitleCasesWords(t *testing.T) {
	assert.Equal(t, "Hello World", call(t, "Capitalize", tabular.NewString("hello world")).AsString())
}
