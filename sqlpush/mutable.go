package sqlpush

import (
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/mutate"
	"github.com/colstack/tabular/stream"
)

// SQLMutableDataset is the DDL/DML side of a push-down table, per
// spec.md §4.8. It embeds *SQLDataset for the read surface and adds
// the mutate.MutableDataset write surface against the same table.
type SQLMutableDataset struct {
	*SQLDataset
	table        string
	capabilities map[mutate.DatasetMutationKind]bool
	log          *logrus.Entry
}

// NewSQLMutableDataset wraps base (a read dataset already scoped to
// table) with mutation support. A nil capabilities map defaults to
// every mutation the dialect can express, per dialect.SupportsColumnDrop.
func NewSQLMutableDataset(base *SQLDataset, table string, capabilities map[mutate.DatasetMutationKind]bool) *SQLMutableDataset {
	if capabilities == nil {
		capabilities = defaultCapabilities(base.dialect)
	}
	return &SQLMutableDataset{
		SQLDataset:   base,
		table:        table,
		capabilities: capabilities,
		log:          logrus.WithField("component", "sqlpush").WithField("table", table),
	}
}

func defaultCapabilities(d Dialect) map[mutate.DatasetMutationKind]bool {
	return map[mutate.DatasetMutationKind]bool{
		mutate.Truncate: true,
		mutate.Drop:     true,
		mutate.Insert:   true,
		mutate.Import:   true,
		mutate.Rename:   true,
		mutate.Update:   true,
		mutate.Delete:   true,
		mutate.Alter:    d.SupportsColumnDrop(),
	}
}

func (m *SQLMutableDataset) CanPerformMutation(kind mutate.DatasetMutationKind) bool {
	return m.capabilities[kind]
}

func (m *SQLMutableDataset) quotedTable() string { return m.dialect.QuoteIdentifier(m.table) }

func (m *SQLMutableDataset) Truncate(job *tabular.Job) error {
	if !m.CanPerformMutation(mutate.Truncate) {
		return refused(mutate.Truncate)
	}
	sql := "TRUNCATE TABLE " + m.quotedTable()
	m.log.WithField("sql", sql).Info("sqlpush: truncate")
	return m.conn.Exec(job, sql)
}

func (m *SQLMutableDataset) Drop(job *tabular.Job) error {
	if !m.CanPerformMutation(mutate.Drop) {
		return refused(mutate.Drop)
	}
	sql := "DROP TABLE " + m.quotedTable()
	m.log.WithField("sql", sql).Info("sqlpush: drop table")
	return m.conn.Exec(job, sql)
}

func (m *SQLMutableDataset) Insert(job *tabular.Job, row tabular.Row) error {
	if !m.CanPerformMutation(mutate.Insert) {
		return refused(mutate.Insert)
	}
	cols := make([]string, row.Columns.Len())
	vals := make([]string, row.Columns.Len())
	for i, c := range row.Columns.Columns() {
		cols[i] = m.dialect.QuoteIdentifier(c.String())
		vals[i] = m.dialect.ValueToSQL(row.Get(c))
	}
	sql := "INSERT INTO " + m.quotedTable() + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(vals, ", ") + ")"
	m.log.WithField("sql", sql).Info("sqlpush: insert")
	return m.conn.Exec(job, sql)
}

// Import pushes down to a single INSERT ... SELECT when source is a
// compatible SQLDataset on the same connection; otherwise it pulls
// source's stream and emits multi-VALUES INSERTs in batches,
// serialising writes via a mutex, per spec.md §4.8.
func (m *SQLMutableDataset) Import(job *tabular.Job, source tabular.Dataset, mapping []mutate.ImportMapping) error {
	if !m.CanPerformMutation(mutate.Import) {
		return refused(mutate.Import)
	}
	if sqlSrc, ok := source.(*SQLDataset); ok && sqlSrc.conn == m.conn {
		return m.importFromSQL(job, sqlSrc, mapping)
	}
	return m.importFromStream(job, source, mapping)
}

func (m *SQLMutableDataset) importFromSQL(job *tabular.Job, source *SQLDataset, mapping []mutate.ImportMapping) error {
	targetCols := make([]string, len(mapping))
	exprs := make([]string, len(mapping))
	for i, mp := range mapping {
		targetCols[i] = m.dialect.QuoteIdentifier(mp.Target.String())
		exprSQL, ok := TranslateExpression(source.dialect, mp.Source, source.columnSQL, nil, "")
		if !ok {
			return tabular.ErrCannotPushDown.New("import mapping for " + mp.Target.String())
		}
		exprs[i] = exprSQL
	}
	sql := "INSERT INTO " + m.quotedTable() + " (" + strings.Join(targetCols, ", ") + ") SELECT " +
		strings.Join(exprs, ", ") + " FROM (" + source.sql() + ") " + m.dialect.QuoteIdentifier("src")
	m.log.WithField("sql", sql).Info("sqlpush: import (push-down)")
	return errors.Wrapf(m.conn.Exec(job, sql), "sqlpush: import into %q (push-down)", m.table)
}

const importBatchSize = 500

func (m *SQLMutableDataset) importFromStream(job *tabular.Job, source tabular.Dataset, mapping []mutate.ImportMapping) error {
	puller := stream.NewStreamPuller(source.Stream(), runtime.NumCPU())
	var mu sync.Mutex
	var buffered []tabular.Row
	var firstErr error

	flush := func() {
		if len(buffered) == 0 {
			return
		}
		sql := m.buildInsertValues(buffered, mapping)
		buffered = buffered[:0]
		if err := m.conn.Exec(job, sql); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	puller.Pull(job,
		func(batch []tabular.Row) {
			mu.Lock()
			defer mu.Unlock()
			if firstErr != nil {
				return
			}
			buffered = append(buffered, batch...)
			for len(buffered) >= importBatchSize {
				head := buffered[:importBatchSize]
				sql := m.buildInsertValues(head, mapping)
				buffered = append([]tabular.Row{}, buffered[importBatchSize:]...)
				if err := m.conn.Exec(job, sql); err != nil && firstErr == nil {
					firstErr = err
					return
				}
			}
		},
		func() {
			mu.Lock()
			flush()
			mu.Unlock()
		},
		func(err error) {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		},
	)
	return firstErr
}

func (m *SQLMutableDataset) buildInsertValues(rows []tabular.Row, mapping []mutate.ImportMapping) string {
	targetCols := make([]string, len(mapping))
	for i, mp := range mapping {
		targetCols[i] = m.dialect.QuoteIdentifier(mp.Target.String())
	}
	groups := make([]string, len(rows))
	for ri, row := range rows {
		vals := make([]string, len(mapping))
		for i, mp := range mapping {
			v := mp.Source.Apply(row, nil, tabular.Invalid)
			vals[i] = m.dialect.ValueToSQL(v)
		}
		groups[ri] = "(" + strings.Join(vals, ", ") + ")"
	}
	return "INSERT INTO " + m.quotedTable() + " (" + strings.Join(targetCols, ", ") + ") VALUES " + strings.Join(groups, ", ")
}

// Alter emits ADD COLUMN/DROP COLUMN clauses for the schema delta.
// DropColumns is refused outright when the dialect can't drop columns
// (checked again here, not just at CanPerformMutation, since a single
// Alter capability flag can't express "adds are fine, drops are not").
func (m *SQLMutableDataset) Alter(job *tabular.Job, schema mutate.AlterSchema) error {
	if !m.CanPerformMutation(mutate.Alter) {
		return refused(mutate.Alter)
	}
	if len(schema.DropColumns) > 0 && !m.dialect.SupportsColumnDrop() {
		return tabular.ErrUnsupportedDialect.New("standard", "DROP COLUMN")
	}
	clauses := make([]string, 0, len(schema.AddColumns)+len(schema.DropColumns))
	for _, c := range schema.AddColumns {
		clauses = append(clauses, "ADD COLUMN "+m.dialect.QuoteIdentifier(c.String()))
	}
	for _, c := range schema.DropColumns {
		clauses = append(clauses, "DROP COLUMN "+m.dialect.QuoteIdentifier(c.String()))
	}
	if len(clauses) == 0 {
		return nil
	}
	sql := "ALTER TABLE " + m.quotedTable() + " " + strings.Join(clauses, ", ")
	m.log.WithField("sql", sql).Info("sqlpush: alter")
	return errors.Wrapf(m.conn.Exec(job, sql), "sqlpush: alter table %q", m.table)
}

func (m *SQLMutableDataset) Rename(job *tabular.Job, columns map[tabular.Column]tabular.Column) error {
	if !m.CanPerformMutation(mutate.Rename) {
		return refused(mutate.Rename)
	}
	for from, to := range columns {
		sql := "ALTER TABLE " + m.quotedTable() + " RENAME COLUMN " +
			m.dialect.QuoteIdentifier(from.String()) + " TO " + m.dialect.QuoteIdentifier(to.String())
		m.log.WithField("sql", sql).Info("sqlpush: rename column")
		if err := m.conn.Exec(job, sql); err != nil {
			return errors.Wrapf(err, "sqlpush: rename column %q to %q on %q", from.String(), to.String(), m.table)
		}
	}
	return nil
}

func (m *SQLMutableDataset) Update(job *tabular.Job, key tabular.Row, column tabular.Column, old, new tabular.Value) error {
	if !m.CanPerformMutation(mutate.Update) {
		return refused(mutate.Update)
	}
	conds := make([]string, 0, key.Columns.Len())
	for _, c := range key.Columns.Columns() {
		conds = append(conds, m.dialect.QuoteIdentifier(c.String())+" = "+m.dialect.ValueToSQL(key.Get(c)))
	}
	sql := "UPDATE " + m.quotedTable() + " SET " + m.dialect.QuoteIdentifier(column.String()) + " = " + m.dialect.ValueToSQL(new) +
		" WHERE " + strings.Join(conds, " AND ") + " AND " + m.dialect.QuoteIdentifier(column.String()) + " = " + m.dialect.ValueToSQL(old)
	m.log.WithField("sql", sql).Info("sqlpush: update")
	return m.conn.Exec(job, sql)
}

func (m *SQLMutableDataset) Delete(job *tabular.Job, keys []tabular.Row) error {
	if !m.CanPerformMutation(mutate.Delete) {
		return refused(mutate.Delete)
	}
	for _, key := range keys {
		conds := make([]string, 0, key.Columns.Len())
		for _, c := range key.Columns.Columns() {
			conds = append(conds, m.dialect.QuoteIdentifier(c.String())+" = "+m.dialect.ValueToSQL(key.Get(c)))
		}
		sql := "DELETE FROM " + m.quotedTable() + " WHERE " + strings.Join(conds, " AND ")
		m.log.WithField("sql", sql).Info("sqlpush: delete")
		if err := m.conn.Exec(job, sql); err != nil {
			return errors.Wrapf(err, "sqlpush: delete from %q", m.table)
		}
	}
	return nil
}
