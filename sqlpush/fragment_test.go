package sqlpush_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colstack/tabular/sqlpush"
)

func TestFragmentSimpleSelect(t *testing.T) {
	f := sqlpush.NewSQLFragmentFromTable(sqlpush.NewStandardDialect(), "orders")
	assert.Equal(t, `SELECT * FROM "orders"`, f.SQL())
}

func TestFragmentAccumulatesForwardStages(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	f := sqlpush.NewSQLFragmentFromTable(d, "orders")
	f = f.SQLWhere(`"amount" > 10`).SQLOrder(`"amount" ASC`).SQLLimit("5")
	assert.Equal(t, `SELECT * FROM "orders" WHERE "amount" > 10 ORDER BY "amount" ASC LIMIT 5`, f.SQL())
}

func TestFragmentSelectStageWrapsProjection(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	f := sqlpush.NewSQLFragmentFromTable(d, "orders").SQLSelect(`"amount"`)
	assert.Equal(t, `SELECT "amount" FROM "orders"`, f.SQL())
}

// A Where applied after Limit is a backward transition and must wrap
// the prior fragment as a derived table rather than emit invalid SQL
// clause ordering.
func TestFragmentBackwardTransitionWrapsAsSubquery(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	f := sqlpush.NewSQLFragmentFromTable(d, "orders").SQLLimit("5")
	f = f.SQLWhere(`"amount" > 10`)
	assert.Equal(t, `SELECT * FROM (SELECT * FROM "orders" LIMIT 5) "t" WHERE "amount" > 10`, f.SQL())
}

func TestFragmentWhereOrHavingRoutesByStage(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	beforeGroup := sqlpush.NewSQLFragmentFromTable(d, "orders").SQLWhereOrHaving(`"amount" > 10`)
	assert.Contains(t, beforeGroup.SQL(), "WHERE")

	afterGroup := sqlpush.NewSQLFragmentFromTable(d, "orders").SQLGroup(`"customerId"`).SQLWhereOrHaving(`COUNT(*) > 1`)
	assert.Contains(t, afterGroup.SQL(), "HAVING")
	assert.NotContains(t, afterGroup.SQL(), "WHERE")
}

func TestFragmentUnion(t *testing.T) {
	d := sqlpush.NewStandardDialect()
	left := sqlpush.NewSQLFragmentFromTable(d, "a")
	right := sqlpush.NewSQLFragmentFromTable(d, "b")
	u := sqlpush.SQLUnion(d, left, right)
	assert.Equal(t, `(SELECT * FROM "a") UNION ALL (SELECT * FROM "b")`, u.SQL())
}
