package tabular

// Row is an ordered vector of Value together with a shared ColumnSet
// of the same length. Access by Column uses the ColumnSet's shared
// name→index map (O(1) after it is built once); access by index is
// direct.
type Row struct {
	Columns *ColumnSet
	Values  []Value
}

func NewRow(columns *ColumnSet, values []Value) Row {
	return Row{Columns: columns, Values: values}
}

// Get returns row[col] or Invalid if the column is absent, per the
// Sibling/Foreign evaluation rule in SPEC_FULL.md §3.
func (r Row) Get(col Column) Value {
	if r.Columns == nil {
		return Invalid
	}
	i, ok := r.Columns.IndexOf(col)
	if !ok || i >= len(r.Values) {
		return Invalid
	}
	return r.Values[i]
}

func (r Row) At(i int) Value {
	if i < 0 || i >= len(r.Values) {
		return Invalid
	}
	return r.Values[i]
}

// WithSchema fits the row to columns by position: it right-pads with
// Empty to match a wider schema (used by Calculate when appending new
// columns) and drops trailing values to match a narrower one. It never
// reorders; the caller uses Columns projection for that.
func (r Row) WithSchema(columns *ColumnSet) Row {
	if len(r.Values) >= columns.Len() {
		return Row{Columns: columns, Values: r.Values[:columns.Len()]}
	}
	padded := make([]Value, columns.Len())
	copy(padded, r.Values)
	for i := len(r.Values); i < columns.Len(); i++ {
		padded[i] = Empty
	}
	return Row{Columns: columns, Values: padded}
}

// Project returns a new row containing only the named columns, in the
// given order; missing names are skipped (used by the Columns
// transformer / selectColumns operator).
func (r Row) Project(columns *ColumnSet) Row {
	values := make([]Value, 0, columns.Len())
	kept := make([]Column, 0, columns.Len())
	for _, c := range columns.Columns() {
		if i, ok := r.Columns.IndexOf(c); ok {
			values = append(values, r.Values[i])
			kept = append(kept, c)
		}
	}
	return Row{Columns: NewColumnSet(kept...), Values: values}
}

func (r Row) Clone() Row {
	values := make([]Value, len(r.Values))
	copy(values, r.Values)
	return Row{Columns: r.Columns, Values: values}
}
