// Package raster implements the eager, in-memory Dataset family that
// every other family (Stream, SQL) can fall back to, per spec.md §2/
// §4.9: transpose, pivot, distinct, sort, and unique are computed here
// because they cannot be expressed as a single-pass streaming
// transform or are rarely worth pushing down.
package raster

import (
	"math/rand"
	"sort"

	"github.com/mitchellh/hashstructure/v2"

	tabular "github.com/colstack/tabular"
)

// Dataset is the RasterDataset family: an immutable descriptor backed
// by an already-materialised *tabular.Raster. Every operator method
// returns a new Dataset computed eagerly against the in-memory rows.
type Dataset struct {
	data *tabular.Raster
}

func New(data *tabular.Raster) *Dataset { return &Dataset{data: data} }

func NewFromRows(columns *tabular.ColumnSet, rows []tabular.Row) *Dataset {
	return New(tabular.NewRaster(tabular.NewSchema(columns), rows))
}

func (d *Dataset) Columns(job *tabular.Job) (*tabular.ColumnSet, error) {
	return d.data.Schema.Columns, nil
}

func (d *Dataset) Raster(job *tabular.Job) (*tabular.Raster, error) {
	return d.data, nil
}

func (d *Dataset) Stream() tabular.Stream {
	return newRasterStream(d.data.Schema.Columns, d.data.Rows)
}

func (d *Dataset) Limit(n int) tabular.Dataset {
	if n > len(d.data.Rows) {
		n = len(d.data.Rows)
	}
	return NewFromRows(d.data.Schema.Columns, append([]tabular.Row{}, d.data.Rows[:n]...))
}

func (d *Dataset) Offset(n int) tabular.Dataset {
	if n > len(d.data.Rows) {
		n = len(d.data.Rows)
	}
	return NewFromRows(d.data.Schema.Columns, append([]tabular.Row{}, d.data.Rows[n:]...))
}

// Random reservoir-samples n rows, per spec.md §4.6 (Algorithm R).
// Raster cannot share stream.Reservoir without introducing an import
// cycle (package stream already imports package raster for its
// fallback path), so the algorithm is restated here directly over the
// already-materialised slice.
func (d *Dataset) Random(n int) tabular.Dataset {
	rows := d.data.Rows
	if n >= len(rows) {
		return NewFromRows(d.data.Schema.Columns, append([]tabular.Row{}, rows...))
	}
	sample := make([]tabular.Row, n)
	copy(sample, rows[:n])
	for i := n; i < len(rows); i++ {
		j := rand.Intn(i + 1)
		if j < n {
			sample[j] = rows[i]
		}
	}
	return NewFromRows(d.data.Schema.Columns, sample)
}

// rowKey hashes a row's values into the bucket key Distinct groups
// candidate duplicates by; sameValues still decides true equality
// within a bucket, so a hash collision only costs an extra comparison.
func rowKey(row tabular.Row) (uint64, error) {
	return hashstructure.Hash(row.Values, hashstructure.FormatV2, nil)
}

func sameValues(a, b []tabular.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind() != b[i].Kind() || a[i].AsString() != b[i].AsString() {
			return false
		}
	}
	return true
}

// Distinct removes duplicate rows, preserving the order of first
// occurrence.
func (d *Dataset) Distinct() tabular.Dataset {
	type bucket struct {
		values []tabular.Value
	}
	seen := make(map[uint64][]bucket)
	out := make([]tabular.Row, 0, len(d.data.Rows))
	for _, r := range d.data.Rows {
		key, err := rowKey(r)
		if err != nil {
			key = 0
		}
		dup := false
		for _, b := range seen[key] {
			if sameValues(b.values, r.Values) {
				dup = true
				break
			}
		}
		if !dup {
			seen[key] = append(seen[key], bucket{values: r.Values})
			out = append(out, r)
		}
	}
	return NewFromRows(d.data.Schema.Columns, out)
}

// Unique evaluates expr over every row and returns the set of distinct
// results. Value is itself comparable (all fields are plain scalars),
// so it can be used directly as a Go map key without hashing.
func (d *Dataset) Unique(expr tabular.Expression, job *tabular.Job) (map[tabular.Value]struct{}, error) {
	out := make(map[tabular.Value]struct{})
	for _, r := range d.data.Rows {
		out[expr.Apply(r, nil, tabular.Invalid)] = struct{}{}
	}
	return out, nil
}

func (d *Dataset) Filter(expr tabular.Expression) tabular.Dataset {
	prepared := expr.Prepare()
	out := make([]tabular.Row, 0, len(d.data.Rows))
	for _, r := range d.data.Rows {
		v := prepared.Apply(r, nil, tabular.Invalid)
		if v.Kind() == tabular.KindBool && v.AsBool() {
			out = append(out, r)
		}
	}
	return NewFromRows(d.data.Schema.Columns, out)
}

func (d *Dataset) Calculate(targets *tabular.ColumnSet, exprs []tabular.Expression) tabular.Dataset {
	columns := d.data.Schema.Columns
	for _, t := range targets.Columns() {
		if !columns.Contains(t) {
			columns, _ = columns.Add(t)
		}
	}
	prepared := make([]tabular.Expression, len(exprs))
	for i, e := range exprs {
		prepared[i] = e.Prepare()
	}
	out := make([]tabular.Row, len(d.data.Rows))
	for i, r := range d.data.Rows {
		padded := r.WithSchema(columns)
		for ti, t := range targets.Columns() {
			idx, _ := columns.IndexOf(t)
			padded.Values[idx] = prepared[ti].Apply(r, nil, tabular.Invalid)
		}
		out[i] = padded
	}
	return NewFromRows(columns, out)
}

func (d *Dataset) SelectColumns(columns *tabular.ColumnSet) tabular.Dataset {
	kept := make([]tabular.Column, 0, columns.Len())
	for _, c := range columns.Columns() {
		if d.data.Schema.Columns.Contains(c) {
			kept = append(kept, c)
		}
	}
	keptSet := tabular.NewColumnSet(kept...)
	out := make([]tabular.Row, len(d.data.Rows))
	for i, r := range d.data.Rows {
		out[i] = r.Project(keptSet)
	}
	return NewFromRows(keptSet, out)
}

// Sort performs a stable multi-key sort, per spec.md §6's Order
// descriptor (expression, ascending, numeric).
func (d *Dataset) Sort(orders []tabular.Order) tabular.Dataset {
	out := append([]tabular.Row{}, d.data.Rows...)
	sort.SliceStable(out, func(i, k int) bool {
		for _, o := range orders {
			vi := o.Expression.Apply(out[i], nil, tabular.Invalid)
			vk := o.Expression.Apply(out[k], nil, tabular.Invalid)
			c := vi.Compare(vk, o.Numeric)
			if c == 0 {
				continue
			}
			if vi.IsInvalid() != vk.IsInvalid() {
				// Invalid stays last in either direction.
				return vk.IsInvalid()
			}
			if o.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return NewFromRows(d.data.Schema.Columns, out)
}

func (d *Dataset) Union(other tabular.Dataset) tabular.Dataset {
	job := (*tabular.Job)(nil)
	otherRaster, err := other.Raster(job)
	if err != nil {
		return NewFromRows(d.data.Schema.Columns, append([]tabular.Row{}, d.data.Rows...))
	}
	out := append([]tabular.Row{}, d.data.Rows...)
	for _, r := range otherRaster.Rows {
		out = append(out, r.WithSchema(d.data.Schema.Columns))
	}
	return NewFromRows(d.data.Schema.Columns, out)
}
