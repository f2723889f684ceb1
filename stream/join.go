package stream

import (
	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr"
	"github.com/colstack/tabular/expr/function"
)

// Join implements the nested-loop join transformer of spec.md §4.4:
// each left batch is turned into a disjunctive, foreign-referencing
// filter over the right Dataset, a pruned raster is fetched, and
// matched rows are produced in-memory against the join expression.
type Join struct {
	base transformerBase
	join tabular.Join

	columns     *tabular.ColumnSet
	leftColumns *tabular.ColumnSet
	passThrough bool
}

func NewJoin(upstream tabular.Stream, j tabular.Join) *Join {
	return &Join{base: newBase("join", upstream), join: j}
}

// resolveColumns computes the result column set once: left columns
// followed by right columns not already present. If the right side
// contributes nothing new, the transformer short-circuits to a
// verbatim forward (the column-set preflight of spec.md §4.4).
func (j *Join) resolveColumns(job *tabular.Job) (*tabular.ColumnSet, error) {
	if j.columns != nil {
		return j.columns, nil
	}
	leftCols, err := j.base.upstream.Columns(job)
	if err != nil {
		return nil, err
	}
	rightCols, err := j.join.ForeignDataset.Columns(job)
	if err != nil {
		return nil, err
	}
	result := leftCols
	newCount := 0
	for _, c := range rightCols.Columns() {
		if !result.Contains(c) {
			result, _ = result.Add(c)
			newCount++
		}
	}
	j.columns = result
	j.leftColumns = leftCols
	j.passThrough = newCount == 0
	return result, nil
}

func (j *Join) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return j.resolveColumns(job)
}

// substituteRow binds the join expression to one concrete left row:
// every Sibling(c) in e becomes Literal(row[c]) and every Foreign(c)
// becomes Sibling(c), so the result can filter the right Dataset's
// rows directly.
func substituteRow(e tabular.Expression, row tabular.Row) tabular.Expression {
	return e.Visit(func(node tabular.Expression) tabular.Expression {
		switch n := node.(type) {
		case *expr.Sibling:
			return expr.NewLiteral(row.Get(n.Column))
		case *expr.Foreign:
			return expr.NewSibling(n.Column)
		}
		return node
	})
}

// buildFilter constructs the disjunction of per-row substituted
// expressions used to prune the right Dataset before the nested-loop
// pass, per spec.md §4.4.
func (j *Join) buildFilter(rows []tabular.Row) tabular.Expression {
	or, ok := function.Standard().Lookup("Or")
	if !ok || len(rows) == 0 {
		return nil
	}
	args := make([]tabular.Expression, len(rows))
	for i, r := range rows {
		args[i] = substituteRow(j.join.Expression, r)
	}
	if len(args) == 1 {
		return args[0]
	}
	return expr.NewCall(or, args...)
}

func (j *Join) combine(left, right tabular.Row, hasRight bool, columns *tabular.ColumnSet) tabular.Row {
	values := make([]tabular.Value, columns.Len())
	for i, c := range columns.Columns() {
		if j.leftColumns.Contains(c) {
			values[i] = left.Get(c)
			continue
		}
		if hasRight {
			values[i] = right.Get(c)
		} else {
			values[i] = tabular.Empty
		}
	}
	return tabular.NewRow(columns, values)
}

func (j *Join) Fetch(job *tabular.Job, sink tabular.Sink) {
	columns, err := j.resolveColumns(job)
	if err != nil {
		sink(nil, tabular.Finished, err)
		return
	}
	if j.passThrough {
		j.base.runFetch(job, sink, nil, func(rows []tabular.Row, status tabular.FetchStatus) ([]tabular.Row, tabular.FetchStatus, error) {
			out := make([]tabular.Row, len(rows))
			for i, r := range rows {
				out[i] = r.WithSchema(columns)
			}
			return out, status, nil
		})
		return
	}
	j.base.runFetch(job, sink, nil, func(rows []tabular.Row, status tabular.FetchStatus) ([]tabular.Row, tabular.FetchStatus, error) {
		if len(rows) == 0 {
			return nil, status, nil
		}
		pruned := j.join.ForeignDataset
		if filter := j.buildFilter(rows); filter != nil {
			pruned = pruned.Filter(filter)
		}
		raster, err := pruned.Raster(job)
		if err != nil {
			return nil, status, err
		}
		out := make([]tabular.Row, 0, len(rows))
		for _, left := range rows {
			matched := false
			for _, right := range raster.Rows {
				v := j.join.Expression.Apply(left, &right, tabular.Invalid)
				if v.Kind() == tabular.KindBool && v.AsBool() {
					matched = true
					out = append(out, j.combine(left, right, true, columns))
				}
			}
			if !matched && j.join.Type == tabular.LeftJoin {
				out = append(out, j.combine(left, tabular.Row{}, false, columns))
			}
		}
		return out, status, nil
	})
}

func (j *Join) Clone() tabular.Stream {
	return &Join{base: newBase("join", j.base.upstream.Clone()), join: j.join}
}
