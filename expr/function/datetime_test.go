package function_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
)

func TestYearMonthDayDecodeSecondsSinceEpoch2001(t *testing.T) {
	// 2001-03-02T00:00:00Z is 60 days after the 2001-01-01 epoch.
	date := tabular.NewDate(60 * 24 * 3600)

	year, ok := call(t, "Year", date).AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 2001, year)

	month, ok := call(t, "Month", date).AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 3, month)

	day, ok := call(t, "Day", date).AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 2, day)
}

func TestAddDaysShiftsTheEncodedInstant(t *testing.T) {
	date := tabular.NewDate(0)
	shifted := call(t, "AddDays", date, tabular.NewInt(1))

	day, ok := call(t, "Day", shifted).AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 2, day)
}

func TestDateFunctionsRejectNonNumericInput(t *testing.T) {
	assert.True(t, call(t, "Year", tabular.NewString("not a date")).IsInvalid())
}

func TestNowIsNonDeterministic(t *testing.T) {
	first := call(t, "Now")
	second := call(t, "Now")
	_, ok1 := first.AsDouble()
	_, ok2 := second.AsDouble()
	assert.True(t, ok1)
	assert.True(t, ok2)
}
