package sqlpush_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr"
	"github.com/colstack/tabular/sqlpush"
)

func colSQL(name string) func(tabular.Column) string {
	return func(c tabular.Column) string { return `"` + c.String() + `"` }
}

func TestTranslateExpressionLiteral(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	sql, ok := sqlpush.TranslateExpression(d, expr.NewLiteral(tabular.NewInt(42)), colSQL(""), nil, "")
	require.True(t, ok)
	assert.Equal(t, "42", sql)
}

func TestTranslateExpressionSiblingUsesSiblingCallback(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	sql, ok := sqlpush.TranslateExpression(d, expr.NewSibling(tabular.NewColumn("amount")), colSQL(""), nil, "")
	require.True(t, ok)
	assert.Equal(t, `"amount"`, sql)
}

// A Foreign node must resolve through foreignSQL, not siblingSQL, even
// when both reference a column of the same name — this is the
// dual-qualifier fix: a single name-keyed map cannot distinguish them.
func TestTranslateExpressionForeignUsesForeignCallback(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	siblingSQL := func(c tabular.Column) string { return "l." + `"` + c.String() + `"` }
	foreignSQL := func(c tabular.Column) string { return "r." + `"` + c.String() + `"` }
	cond := expr.NewComparison(expr.NewForeign(tabular.NewColumn("id")), expr.NewSibling(tabular.NewColumn("id")), tabular.OpEqual)
	sql, ok := sqlpush.TranslateExpression(d, cond, siblingSQL, foreignSQL, "")
	require.True(t, ok)
	assert.Equal(t, `(l."id" = r."id")`, sql)
}

func TestTranslateExpressionComparisonRewritesNullEquality(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	cond := expr.NewComparison(expr.NewSibling(tabular.NewColumn("amount")), expr.NewLiteral(tabular.Invalid), tabular.OpEqual)
	sql, ok := sqlpush.TranslateExpression(d, cond, colSQL(""), nil, "")
	require.True(t, ok)
	assert.Equal(t, `"amount" IS NULL`, sql)
}

func TestTranslateExpressionComparisonRewritesNullEqualityFirstPosition(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	cond := expr.NewComparison(expr.NewLiteral(tabular.Invalid), expr.NewSibling(tabular.NewColumn("amount")), tabular.OpNotEqual)
	sql, ok := sqlpush.TranslateExpression(d, cond, colSQL(""), nil, "")
	require.True(t, ok)
	assert.Equal(t, `"amount" IS NOT NULL`, sql)
}

func TestTranslateExpressionUnmappedFunctionFallsBack(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	sql, ok := d.TranslateFunction("negate", []string{"1"})
	assert.False(t, ok)
	assert.Empty(t, sql)
}

func TestQuoteIdentifierEscapesQuoteCharacter(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	assert.Equal(t, `"a""b"`, d.QuoteIdentifier(`a"b`))
	assert.Equal(t, `"db"."table"`, d.QuoteIdentifier("db", "table"))
}

func TestValueToSQLRendersEachKind(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	assert.Equal(t, "NULL", d.ValueToSQL(tabular.Invalid))
	assert.Equal(t, "TRUE", d.ValueToSQL(tabular.NewBool(true)))
	assert.Equal(t, "5", d.ValueToSQL(tabular.NewInt(5)))
	assert.Equal(t, `'it''s'`, d.ValueToSQL(tabular.NewString(`it's`)))
}
