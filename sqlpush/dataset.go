package sqlpush

import (
	"strconv"
	"strings"
	"sync"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/stream"
)

// reducerSQL maps a Reducer's Name() to the SQL aggregate function
// that computes it; a reducer absent from this table (Median, Pack
// has its own GROUP_CONCAT mapping below) has no standard equivalent
// and forces Aggregate to fall back.
var reducerSQL = map[string]string{
	"Sum": "SUM", "Average": "AVG", "Min": "MIN", "Max": "MAX",
	"VarSample": "VAR_SAMP", "VarPopulation": "VAR_POP",
	"StdDevSample": "STDDEV_SAMP", "StdDevPopulation": "STDDEV_POP",
}

// SQLDataset is the push-down Dataset family of spec.md §4.7: each
// operator it can translate advances its SQLFragment; any operator it
// cannot (an untranslatable expression, an incompatible join/union
// partner, or an operator outside the pushable set — Pivot,
// Transpose, Flatten never push down) falls back by wrapping Stream()
// into a stream.StreamDataset, per spec.md §4.7/§4.9.
type SQLDataset struct {
	dialect  Dialect
	conn     Connection
	fragment *SQLFragment
	columns  *tabular.ColumnSet
	// qualify maps a column's exact name to its source-table alias
	// ("l"/"r") after a push-down Join; unqualified (base-table or
	// post-projection) datasets leave this nil.
	qualify map[string]string
}

// NewSQLDataset opens a dataset directly over a base table.
func NewSQLDataset(dialect Dialect, conn Connection, columns *tabular.ColumnSet, tableSegments ...string) *SQLDataset {
	return &SQLDataset{
		dialect:  dialect,
		conn:     conn,
		columns:  columns,
		fragment: NewSQLFragmentFromTable(dialect, tableSegments...),
	}
}

func (d *SQLDataset) with(fragment *SQLFragment, columns *tabular.ColumnSet, qualify map[string]string) *SQLDataset {
	return &SQLDataset{dialect: d.dialect, conn: d.conn, fragment: fragment, columns: columns, qualify: qualify}
}

func (d *SQLDataset) columnSQL(c tabular.Column) string {
	if prefix, ok := d.qualify[c.String()]; ok {
		return prefix + "." + d.dialect.QuoteIdentifier(c.String())
	}
	return d.dialect.QuoteIdentifier(c.String())
}

func (d *SQLDataset) translate(e tabular.Expression) (string, bool) {
	return TranslateExpression(d.dialect, e, d.columnSQL, nil, "")
}

func (d *SQLDataset) sql() string { return d.fragment.SQL() }

func (d *SQLDataset) Columns(job *tabular.Job) (*tabular.ColumnSet, error) { return d.columns, nil }

func (d *SQLDataset) Stream() tabular.Stream {
	return newSQLStream(d.conn, d.sql(), d.columns)
}

func (d *SQLDataset) fallback() tabular.Dataset {
	return stream.NewStreamDataset(d.Stream())
}

func (d *SQLDataset) Raster(job *tabular.Job) (*tabular.Raster, error) {
	var rows []tabular.Row
	var runErr error
	d.conn.Run(job, d.sql(), func(batch []tabular.Row, err error) {
		if err != nil {
			runErr = err
			return
		}
		rows = append(rows, batch...)
	})
	if runErr != nil {
		return nil, runErr
	}
	return tabular.NewRaster(tabular.NewSchema(d.columns), rows), nil
}

func (d *SQLDataset) Limit(n int) tabular.Dataset {
	return d.with(d.fragment.SQLLimit(strconv.Itoa(n)), d.columns, d.qualify)
}

func (d *SQLDataset) Offset(n int) tabular.Dataset {
	return d.with(d.fragment.SQLOffset(strconv.Itoa(n)), d.columns, d.qualify)
}

// Random pushes down as ORDER BY RAND() LIMIT n, the MySQL-flavoured
// random ordering; the function name is fixed here, not taken from the
// Dialect.
func (d *SQLDataset) Random(n int) tabular.Dataset {
	next := d.fragment.SQLOrder("RAND()").SQLLimit(strconv.Itoa(n))
	return d.with(next, d.columns, d.qualify)
}

func (d *SQLDataset) Distinct() tabular.Dataset {
	return d.with(d.fragment.advance(KindSelect, "DISTINCT *"), d.columns, d.qualify)
}

// Unique pushes down as SELECT DISTINCT <expr> against the current
// fragment, run eagerly (the Dataset contract returns the full set,
// not a lazy Dataset, so there is no fallback-by-wrapping path here —
// an untranslatable expression falls back to the raster-backed
// Unique on the streaming projection instead).
func (d *SQLDataset) Unique(e tabular.Expression, job *tabular.Job) (map[tabular.Value]struct{}, error) {
	exprSQL, ok := d.translate(e)
	if !ok {
		return d.fallback().Unique(e, job)
	}
	selected := d.fragment.advance(KindSelect, "DISTINCT "+exprSQL+" AS v")
	out := map[tabular.Value]struct{}{}
	var runErr error
	d.conn.Run(job, selected.SQL(), func(batch []tabular.Row, err error) {
		if err != nil {
			runErr = err
			return
		}
		for _, r := range batch {
			if len(r.Values) > 0 {
				out[r.Values[0]] = struct{}{}
			}
		}
	})
	if runErr != nil {
		return nil, runErr
	}
	return out, nil
}

func (d *SQLDataset) Filter(e tabular.Expression) tabular.Dataset {
	cond, ok := d.translate(e)
	if !ok {
		return d.fallback().Filter(e)
	}
	return d.with(d.fragment.SQLWhereOrHaving(cond), d.columns, d.qualify)
}

// Calculate pushes down as a re-projection onto the existing columns
// plus the new computed ones, aliased to their target names.
func (d *SQLDataset) Calculate(targets *tabular.ColumnSet, exprs []tabular.Expression) tabular.Dataset {
	parts := make([]string, 0, d.columns.Len()+targets.Len())
	for _, c := range d.columns.Columns() {
		parts = append(parts, d.columnSQL(c)+" AS "+d.dialect.QuoteIdentifier(c.String()))
	}
	nextColumns := d.columns
	for i, target := range targets.Columns() {
		exprSQL, ok := d.translate(exprs[i])
		if !ok {
			return d.fallback().Calculate(targets, exprs)
		}
		parts = append(parts, exprSQL+" AS "+d.dialect.QuoteIdentifier(target.String()))
		if !nextColumns.Contains(target) {
			nextColumns, _ = nextColumns.Add(target)
		}
	}
	return d.with(d.fragment.advance(KindSelect, strings.Join(parts, ", ")), nextColumns, nil)
}

func (d *SQLDataset) SelectColumns(columns *tabular.ColumnSet) tabular.Dataset {
	parts := make([]string, columns.Len())
	for i, c := range columns.Columns() {
		parts[i] = d.columnSQL(c) + " AS " + d.dialect.QuoteIdentifier(c.String())
	}
	return d.with(d.fragment.advance(KindSelect, strings.Join(parts, ", ")), columns, nil)
}

func (d *SQLDataset) Sort(orders []tabular.Order) tabular.Dataset {
	next := d.fragment
	for _, o := range orders {
		exprSQL, ok := d.translate(o.Expression)
		if !ok {
			return d.fallback().Sort(orders)
		}
		dir := "ASC"
		if !o.Ascending {
			dir = "DESC"
		}
		next = next.SQLOrder(exprSQL + " " + dir)
	}
	return d.with(next, d.columns, d.qualify)
}

// Aggregate pushes down when every group expression and every
// aggregator's Reducer has a SQL equivalent; CountDistinct and
// CountAll get their own rendering since they don't fit the plain
// "FUNC(mapExprSQL)" shape, Pack maps to GROUP_CONCAT via
// TranslateFunction, and any other unmapped reducer (Median) forces a
// fallback.
func (d *SQLDataset) Aggregate(groupNames *tabular.ColumnSet, groupExprs []tabular.Expression, valueNames *tabular.ColumnSet, aggregators []tabular.Aggregator) tabular.Dataset {
	groupSQL := make([]string, len(groupExprs))
	selectParts := make([]string, 0, len(groupExprs)+len(aggregators))
	for i, e := range groupExprs {
		exprSQL, ok := d.translate(e)
		if !ok {
			return d.fallback().Aggregate(groupNames, groupExprs, valueNames, aggregators)
		}
		groupSQL[i] = exprSQL
		selectParts = append(selectParts, exprSQL+" AS "+d.dialect.QuoteIdentifier(groupNames.At(i).String()))
	}
	for i, agg := range aggregators {
		mapSQL, ok := d.translate(agg.Map)
		if !ok {
			return d.fallback().Aggregate(groupNames, groupExprs, valueNames, aggregators)
		}
		name := agg.Reduce.Name()
		alias := d.dialect.QuoteIdentifier(valueNames.At(i).String())
		var callSQL string
		switch name {
		case "Count":
			callSQL = "COUNT(" + mapSQL + ")"
		case "CountAll":
			callSQL = "COUNT(*)"
		case "CountDistinct":
			callSQL = "COUNT(DISTINCT " + mapSQL + ")"
		case "Pack":
			fn, ok := d.dialect.TranslateFunction("pack", []string{mapSQL})
			if !ok {
				return d.fallback().Aggregate(groupNames, groupExprs, valueNames, aggregators)
			}
			callSQL = fn
		default:
			sqlFn, ok := reducerSQL[name]
			if !ok {
				return d.fallback().Aggregate(groupNames, groupExprs, valueNames, aggregators)
			}
			callSQL = sqlFn + "(" + mapSQL + ")"
		}
		selectParts = append(selectParts, callSQL+" AS "+alias)
	}
	next := d.fragment
	for _, g := range groupSQL {
		next = next.SQLGroup(g)
	}
	next = next.advance(KindSelect, strings.Join(selectParts, ", "))
	all := append(append([]tabular.Column{}, groupNames.Columns()...), valueNames.Columns()...)
	return d.with(next, tabular.NewColumnSet(all...), nil)
}

// Pivot, Transpose and Flatten are never in the pushable operator set
// of spec.md §4.7 — they always fall back to the streaming engine
// (materialising via raster, per spec.md §4.9).
func (d *SQLDataset) Pivot(horizontal, vertical, values tabular.Column) tabular.Dataset {
	return d.fallback().Pivot(horizontal, vertical, values)
}

func (d *SQLDataset) Transpose() tabular.Dataset { return d.fallback().Transpose() }

func (d *SQLDataset) Flatten(valueTo, columnNameTo, rowIdentifier tabular.Column, to *tabular.ColumnSet) tabular.Dataset {
	return d.fallback().Flatten(valueTo, columnNameTo, rowIdentifier, to)
}

// compatible reports whether other can be joined/unioned in-database
// with d: both must be SQLDatasets driven by the same Connection
// (cross-connection push-down would require a federated executor,
// out of scope per spec.md §1).
func (d *SQLDataset) compatibleSQL(other tabular.Dataset) (*SQLDataset, bool) {
	o, ok := other.(*SQLDataset)
	if !ok || o.conn != d.conn {
		return nil, false
	}
	return o, true
}

func (d *SQLDataset) Join(j tabular.Join) tabular.Dataset {
	right, ok := d.compatibleSQL(j.ForeignDataset)
	if !ok {
		return d.fallback().Join(j)
	}
	leftAlias := d.dialect.QuoteIdentifier("l")
	rightAlias := d.dialect.QuoteIdentifier("r")
	siblingSQL := func(c tabular.Column) string { return leftAlias + "." + d.dialect.QuoteIdentifier(c.String()) }
	foreignSQL := func(c tabular.Column) string { return rightAlias + "." + d.dialect.QuoteIdentifier(c.String()) }
	cond, ok := TranslateExpression(d.dialect, j.Expression, siblingSQL, foreignSQL, "")
	if !ok {
		return d.fallback().Join(j)
	}
	base := &SQLFragment{dialect: d.dialect, kind: KindFrom, from: "(" + d.sql() + ") " + leftAlias}
	next := base.SQLJoin(d.dialect.JoinKeyword(j.Type) + " (" + right.sql() + ") " + rightAlias + " ON " + cond)

	columns := d.columns
	qualify := map[string]string{}
	for _, c := range d.columns.Columns() {
		qualify[c.String()] = "l"
	}
	for _, c := range right.columns.Columns() {
		if !columns.Contains(c) {
			columns, _ = columns.Add(c)
			qualify[c.String()] = "r"
		}
	}
	return d.with(next, columns, qualify)
}

func (d *SQLDataset) Union(other tabular.Dataset) tabular.Dataset {
	right, ok := d.compatibleSQL(other)
	if !ok {
		return d.fallback().Union(other)
	}
	next := SQLUnion(d.dialect, d.fragment, right.fragment)
	return d.with(next, d.columns, nil)
}

// sqlStream adapts a single rendered SQL statement to tabular.Stream:
// the first Fetch call runs the whole query and delivers it as one
// batch, per spec.md §4.3's "Fetch delivers exactly one batch per
// invocation" contract; later calls on the same instance report
// Finished with no rows, since the statement has already been
// consumed. Clone returns a fresh, unrun instance.
type sqlStream struct {
	conn    Connection
	sql     string
	columns *tabular.ColumnSet
	mu      sync.Mutex
	ran     bool
}

func newSQLStream(conn Connection, sql string, columns *tabular.ColumnSet) *sqlStream {
	return &sqlStream{conn: conn, sql: sql, columns: columns}
}

func (s *sqlStream) Columns(job *tabular.Job) (*tabular.ColumnSet, error) { return s.columns, nil }

func (s *sqlStream) Fetch(job *tabular.Job, sink tabular.Sink) {
	s.mu.Lock()
	if s.ran {
		s.mu.Unlock()
		sink(nil, tabular.Finished, nil)
		return
	}
	s.ran = true
	s.mu.Unlock()

	var rows []tabular.Row
	var runErr error
	s.conn.Run(job, s.sql, func(batch []tabular.Row, err error) {
		if err != nil {
			runErr = err
			return
		}
		rows = append(rows, batch...)
	})
	sink(rows, tabular.Finished, runErr)
}

func (s *sqlStream) Clone() tabular.Stream {
	return &sqlStream{conn: s.conn, sql: s.sql, columns: s.columns}
}
