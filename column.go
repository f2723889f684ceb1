package tabular

import (
	"sync"

	"golang.org/x/text/cases"
)

// foldCaser performs locale-stable case folding for Column
// canonicalisation, used instead of ad-hoc strings.ToLower so that
// comparisons behave consistently across locales (e.g. Turkish "I").
var foldCaser = cases.Fold()

func canonicalize(name string) string {
	return foldCaser.String(name)
}

// Column is a name compared case-insensitively, per SPEC_FULL.md §3.
type Column struct {
	name  string
	lower string
}

func NewColumn(name string) Column {
	return Column{name: name, lower: canonicalize(name)}
}

func (c Column) String() string { return c.name }
func (c Column) Equal(o Column) bool { return c.lower == o.lower }
func (c Column) IsZero() bool { return c.name == "" }

// ColumnSet is the Go rendering of OrderedSet<Column>: it preserves
// insertion order, rejects duplicates case-insensitively, and supports
// index-of/contains in O(1) once its name→index map has been built.
//
// The index map is shared by every Row that references this set (see
// row.go), not rebuilt per row, so the "O(1) after building the map"
// cost is paid once per schema, not once per row.
type ColumnSet struct {
	columns []Column
	once    sync.Once
	index   map[string]int
}

func NewColumnSet(columns ...Column) *ColumnSet {
	cs := &ColumnSet{}
	for _, c := range columns {
		cs.mustAdd(c)
	}
	return cs
}

func NewColumnSetFromNames(names ...string) *ColumnSet {
	cs := &ColumnSet{}
	for _, n := range names {
		cs.mustAdd(NewColumn(n))
	}
	return cs
}

func (cs *ColumnSet) mustAdd(c Column) {
	for _, e := range cs.columns {
		if e.Equal(c) {
			panic(ProgrammingError("programming error: duplicate column " + c.name + " in ColumnSet"))
		}
	}
	cs.columns = append(cs.columns, c)
}

// Add returns a new ColumnSet with c appended; it fails (returns ok
// false) rather than panicking, since callers build schemas
// incrementally from untrusted input (e.g. Calculate appending a
// column that might collide).
func (cs *ColumnSet) Add(c Column) (*ColumnSet, bool) {
	if cs.Contains(c) {
		return cs, false
	}
	next := make([]Column, len(cs.columns), len(cs.columns)+1)
	copy(next, cs.columns)
	next = append(next, c)
	return &ColumnSet{columns: next}, true
}

// Without returns a new ColumnSet with c removed, if present.
func (cs *ColumnSet) Without(c Column) *ColumnSet {
	next := make([]Column, 0, len(cs.columns))
	for _, e := range cs.columns {
		if !e.Equal(c) {
			next = append(next, e)
		}
	}
	return &ColumnSet{columns: next}
}

func (cs *ColumnSet) buildIndex() {
	cs.once.Do(func() {
		m := make(map[string]int, len(cs.columns))
		for i, c := range cs.columns {
			m[c.lower] = i
		}
		cs.index = m
	})
}

func (cs *ColumnSet) IndexOf(c Column) (int, bool) {
	cs.buildIndex()
	i, ok := cs.index[c.lower]
	return i, ok
}

func (cs *ColumnSet) Contains(c Column) bool {
	_, ok := cs.IndexOf(c)
	return ok
}

func (cs *ColumnSet) Len() int { return len(cs.columns) }

func (cs *ColumnSet) At(i int) Column { return cs.columns[i] }

func (cs *ColumnSet) Columns() []Column {
	out := make([]Column, len(cs.columns))
	copy(out, cs.columns)
	return out
}

func (cs *ColumnSet) Names() []string {
	out := make([]string, len(cs.columns))
	for i, c := range cs.columns {
		out[i] = c.name
	}
	return out
}
