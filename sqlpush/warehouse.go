package sqlpush

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/expr"
	"github.com/colstack/tabular/mutate"
)

// sourceColumnExpression builds the identity Sibling(c) mapping used
// by Create's default import: every destination column is populated
// verbatim from the same-named source column.
func sourceColumnExpression(c tabular.Column) tabular.Expression {
	return expr.NewSibling(c)
}

// SQLWarehouse is a named collection of push-down tables against a
// single Connection, per spec.md §4.8.
type SQLWarehouse struct {
	dialect      Dialect
	conn         Connection
	capabilities map[mutate.WarehouseMutationKind]bool
	log          *logrus.Entry
}

func NewSQLWarehouse(dialect Dialect, conn Connection) *SQLWarehouse {
	return &SQLWarehouse{
		dialect: dialect,
		conn:    conn,
		capabilities: map[mutate.WarehouseMutationKind]bool{
			mutate.Create:    true,
			mutate.DropTable: true,
		},
		log: logrus.WithField("component", "sqlpush.warehouse"),
	}
}

func (w *SQLWarehouse) CanPerformMutation(kind mutate.WarehouseMutationKind) bool {
	return w.capabilities[kind]
}

func (w *SQLWarehouse) Dataset(job *tabular.Job, name string) (mutate.MutableDataset, error) {
	columns, err := w.conn.Columns(job, "SELECT * FROM "+w.dialect.QuoteIdentifier(name))
	if err != nil {
		return nil, errors.Wrapf(err, "sqlpush: describe columns for table %q", name)
	}
	base := NewSQLDataset(w.dialect, w.conn, columns, name)
	return NewSQLMutableDataset(base, name, nil), nil
}

// Create runs BEGIN, CREATE TABLE, COMMIT as a single transaction
// (rolling back at the first error, never retrying, per spec.md §7),
// then imports data's rows via the ordinary Import pipeline.
func (w *SQLWarehouse) Create(job *tabular.Job, name string, data tabular.Dataset) (mutate.MutableDataset, error) {
	if !w.CanPerformMutation(mutate.Create) {
		return nil, refused(mutate.Create)
	}
	columns, err := data.Columns(job)
	if err != nil {
		return nil, errors.Wrap(err, "sqlpush: read source columns")
	}

	createSQL := w.createTableSQL(name, columns)
	w.log.WithField("sql", createSQL).Info("sqlpush: create table")

	if err := w.conn.Exec(job, "BEGIN"); err != nil {
		return nil, errors.Wrapf(err, "sqlpush: begin transaction for create table %q", name)
	}
	if err := w.conn.Exec(job, createSQL); err != nil {
		w.rollback(job)
		return nil, errors.Wrapf(err, "sqlpush: create table %q", name)
	}
	if err := w.conn.Exec(job, "COMMIT"); err != nil {
		w.rollback(job)
		return nil, errors.Wrapf(err, "sqlpush: commit create table %q", name)
	}

	base := NewSQLDataset(w.dialect, w.conn, columns, name)
	mutable := NewSQLMutableDataset(base, name, nil)

	mapping := make([]mutate.ImportMapping, columns.Len())
	for i, c := range columns.Columns() {
		mapping[i] = mutate.ImportMapping{Target: c, Source: sourceColumnExpression(c)}
	}
	if err := mutable.Import(job, data, mapping); err != nil {
		return nil, errors.Wrapf(err, "sqlpush: import data into newly created table %q", name)
	}
	return mutable, nil
}

func (w *SQLWarehouse) DropTable(job *tabular.Job, name string) error {
	if !w.CanPerformMutation(mutate.DropTable) {
		return refused(mutate.DropTable)
	}
	sql := "DROP TABLE " + w.dialect.QuoteIdentifier(name)
	w.log.WithField("sql", sql).Info("sqlpush: drop table")
	return errors.Wrapf(w.conn.Exec(job, sql), "sqlpush: drop table %q", name)
}

func (w *SQLWarehouse) rollback(job *tabular.Job) {
	if err := w.conn.Exec(job, "ROLLBACK"); err != nil {
		w.log.WithError(err).Warn("sqlpush: rollback failed")
	}
}

func (w *SQLWarehouse) createTableSQL(name string, columns *tabular.ColumnSet) string {
	defs := make([]string, columns.Len())
	for i, c := range columns.Columns() {
		defs[i] = w.dialect.QuoteIdentifier(c.String()) + " TEXT"
	}
	return "CREATE TABLE " + w.dialect.QuoteIdentifier(name) + " (" + strings.Join(defs, ", ") + ")"
}
