package sqlpush

import tabular "github.com/colstack/tabular"

// Connection is the backend execution contract SQLDataset renders
// fragments against. Run is a suspension point per spec.md §4.3 (like
// Stream.fetch and Job.async, implementations must check
// job.IsCancelled() before starting expensive work after it returns).
// Concrete drivers (Postgres/MySQL/SQLite wire protocols) are outside
// THE CORE's scope per spec.md §1 — Connection is the seam a host
// application plugs one into.
type Connection interface {
	// Columns resolves the result schema of sql without executing it
	// (e.g. via a backend PREPARE/describe call).
	Columns(job *tabular.Job, sql string) (*tabular.ColumnSet, error)
	// Run executes a SELECT and delivers result batches to fn; fn is
	// called one or more times with rows, then exactly once more with
	// rows == nil to signal completion (mirroring Stream.Fetch's
	// HasMore/Finished pairing).
	Run(job *tabular.Job, sql string, fn func(rows []tabular.Row, err error))
	// Exec runs a DDL/DML statement with no result set.
	Exec(job *tabular.Job, sql string) error
}
