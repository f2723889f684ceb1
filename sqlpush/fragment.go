package sqlpush

import "strings"

// FragmentKind is a clause stage in the canonical SQL clause order of
// spec.md §4.7: From, Join, Where, Group, Having, Order, Limit,
// Offset, Select, Union.
type FragmentKind int

const (
	KindFrom FragmentKind = iota
	KindJoin
	KindWhere
	KindGroup
	KindHaving
	KindOrder
	KindLimit
	KindOffset
	KindSelect
	KindUnion
)

var stageOrder = []FragmentKind{
	KindFrom, KindJoin, KindWhere, KindGroup, KindHaving,
	KindOrder, KindLimit, KindOffset, KindSelect, KindUnion,
}

func rank(k FragmentKind) int {
	for i, o := range stageOrder {
		if o == k {
			return i
		}
	}
	return -1
}

// SQLFragment is the staged query builder of spec.md §4.7: every
// operator advances the fragment to the clause stage it belongs at,
// accumulating text in place when the advance is forward (logical
// order preserved) and wrapping the whole fragment as a derived-table
// FROM subquery when it is not (e.g. a Where applied after a Limit).
// This keeps the invariant that the rendered SQL is always a single
// valid statement, while still minimising subqueries along the common
// forward path.
type SQLFragment struct {
	dialect Dialect
	kind    FragmentKind

	from       string
	join       []string
	where      []string
	group      []string
	having     []string
	orderBy    []string
	limit      string
	offset     string
	selectPart string
	unionSQL   string
}

// NewSQLFragmentFromTable starts a fragment at the From stage over a
// quoted table reference.
func NewSQLFragmentFromTable(dialect Dialect, tableSegments ...string) *SQLFragment {
	return &SQLFragment{dialect: dialect, kind: KindFrom, from: dialect.QuoteIdentifier(tableSegments...)}
}

func (f *SQLFragment) clone() *SQLFragment {
	next := *f
	next.join = append([]string{}, f.join...)
	next.where = append([]string{}, f.where...)
	next.group = append([]string{}, f.group...)
	next.having = append([]string{}, f.having...)
	next.orderBy = append([]string{}, f.orderBy...)
	return &next
}

// advance moves the fragment to target, appending part. Forward
// transitions (target at or after the current stage) accumulate in
// the corresponding field; a backward transition (target precedes the
// current stage — e.g. a new Where after Limit was already set)
// forces a subquery wrap first, per the ordering invariant of
// spec.md §8.
func (f *SQLFragment) advance(target FragmentKind, part string) *SQLFragment {
	if f.kind == target && part == "" {
		return f
	}
	base := f
	if rank(target) < rank(f.kind) {
		base = f.wrapAsSubquery()
	}
	next := base.clone()
	next.kind = target
	switch target {
	case KindFrom:
		next.from = part
	case KindJoin:
		if part != "" {
			next.join = append(next.join, part)
		}
	case KindWhere:
		if part != "" {
			next.where = append(next.where, part)
		}
	case KindGroup:
		if part != "" {
			next.group = append(next.group, part)
		}
	case KindHaving:
		if part != "" {
			next.having = append(next.having, part)
		}
	case KindOrder:
		if part != "" {
			next.orderBy = append(next.orderBy, part)
		}
	case KindLimit:
		next.limit = part
	case KindOffset:
		next.offset = part
	case KindSelect:
		next.selectPart = part
	case KindUnion:
		next.unionSQL = part
	}
	return next
}

// wrapAsSubquery renders the fragment's current SQL as a derived
// table and restarts a fresh fragment at the From stage over it.
func (f *SQLFragment) wrapAsSubquery() *SQLFragment {
	inner := f.SQL()
	alias := f.dialect.QuoteIdentifier("t")
	return &SQLFragment{dialect: f.dialect, kind: KindFrom, from: "(" + inner + ") " + alias}
}

func (f *SQLFragment) SQLJoin(clause string) *SQLFragment  { return f.advance(KindJoin, clause) }
func (f *SQLFragment) SQLWhere(cond string) *SQLFragment   { return f.advance(KindWhere, cond) }
func (f *SQLFragment) SQLGroup(expr string) *SQLFragment   { return f.advance(KindGroup, expr) }
func (f *SQLFragment) SQLHaving(cond string) *SQLFragment  { return f.advance(KindHaving, cond) }
func (f *SQLFragment) SQLOrder(clause string) *SQLFragment { return f.advance(KindOrder, clause) }
func (f *SQLFragment) SQLLimit(n string) *SQLFragment      { return f.advance(KindLimit, n) }
func (f *SQLFragment) SQLOffset(n string) *SQLFragment     { return f.advance(KindOffset, n) }
func (f *SQLFragment) SQLSelect(list string) *SQLFragment  { return f.advance(KindSelect, list) }

// SQLWhereOrHaving routes a post-aggregate filter condition: once the
// fragment has advanced to Group, a further filter belongs in HAVING
// (it tests an aggregated value); before Group, it's an ordinary WHERE
// predicate. This resolves the Open Question in spec.md §9 in favour
// of the current stage deciding, not the condition's own content.
func (f *SQLFragment) SQLWhereOrHaving(cond string) *SQLFragment {
	if f.kind == KindGroup {
		return f.SQLHaving(cond)
	}
	return f.SQLWhere(cond)
}

// SQLUnion combines two already-rendered statements with UNION ALL
// (Distinct is a separate stage-0 operator in spec.md §4, so a Union
// never silently drops duplicate rows).
func SQLUnion(dialect Dialect, left, right *SQLFragment) *SQLFragment {
	return &SQLFragment{dialect: dialect, kind: KindUnion, unionSQL: "(" + left.SQL() + ") UNION ALL (" + right.SQL() + ")"}
}

// SQL renders the fragment's accumulated clauses in canonical order.
func (f *SQLFragment) SQL() string {
	if f.unionSQL != "" {
		return f.unionSQL
	}
	s := "FROM " + f.from
	for _, j := range f.join {
		s += " " + j
	}
	if len(f.where) > 0 {
		s += " WHERE " + strings.Join(f.where, " AND ")
	}
	if len(f.group) > 0 {
		s += " GROUP BY " + strings.Join(f.group, ", ")
	}
	if len(f.having) > 0 {
		s += " HAVING " + strings.Join(f.having, " AND ")
	}
	if len(f.orderBy) > 0 {
		s += " ORDER BY " + strings.Join(f.orderBy, ", ")
	}
	if f.limit != "" {
		s += " LIMIT " + f.limit
	}
	if f.offset != "" {
		s += " OFFSET " + f.offset
	}
	list := f.selectPart
	if list == "" {
		list = "*"
	}
	return "SELECT " + list + " " + s
}
