package function_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colstack/tabular/expr/function"
)

func TestStandardLookupIsCaseInsensitive(t *testing.T) {
	registry := function.Standard()
	fn, ok := registry.Lookup("abs")
	require.True(t, ok)
	assert.Equal(t, "Abs", fn.Name())

	_, ok = registry.Lookup("DoesNotExist")
	assert.False(t, ok)
}

func TestStandardIsSingletonAcrossCalls(t *testing.T) {
	assert.Same(t, function.Standard(), function.Standard())
}

func TestUnaryExcludesNonDeterministicAndWrongArity(t *testing.T) {
	registry := function.Standard()
	for _, fn := range registry.Unary() {
		assert.True(t, fn.IsDeterministic())
		assert.True(t, fn.AcceptsArity(1))
	}

	now, ok := registry.Lookup("Now")
	require.True(t, ok)
	assert.False(t, now.IsDeterministic())

	names := map[string]bool{}
	for _, fn := range registry.Unary() {
		names[fn.Name()] = true
	}
	assert.True(t, names["Abs"])
	assert.False(t, names["Left"], "Left requires 2 arguments and must not be treated as unary")
	assert.False(t, names["Now"], "Now is non-deterministic and must not be suggested by Infer")
}

func TestAllReturnsEveryRegisteredFunctionExactlyOnce(t *testing.T) {
	registry := function.Standard()
	seen := map[string]bool{}
	for _, fn := range registry.All() {
		name := fn.Name()
		assert.False(t, seen[name], "duplicate function name %q", name)
		seen[name] = true
	}
	assert.True(t, seen["Abs"])
	assert.True(t, seen["Left"])
	assert.True(t, seen["Sum"])
	assert.True(t, seen["Random"])
	assert.True(t, seen["In"])
}
