package sqlpush_test

import (
	"sync"

	tabular "github.com/colstack/tabular"
)

// fakeConnection is a scripted sqlpush.Connection: Run/Exec record the
// rendered SQL text instead of talking to a real backend, so tests can
// assert on what push-down produced without a live database — the
// same role the teacher's harness/memory engine plays for SQL tests.
type fakeConnection struct {
	mu      sync.Mutex
	execs   []string
	runs    []string
	rows    []tabular.Row
	execErr error
	runErr  error
}

func (c *fakeConnection) Columns(job *tabular.Job, sql string) (*tabular.ColumnSet, error) {
	return tabular.NewColumnSetFromNames("id", "amount"), nil
}

func (c *fakeConnection) Run(job *tabular.Job, sql string, fn func(rows []tabular.Row, err error)) {
	c.mu.Lock()
	c.runs = append(c.runs, sql)
	c.mu.Unlock()
	if c.runErr != nil {
		fn(nil, c.runErr)
		return
	}
	fn(c.rows, nil)
}

func (c *fakeConnection) Exec(job *tabular.Job, sql string) error {
	c.mu.Lock()
	c.execs = append(c.execs, sql)
	c.mu.Unlock()
	return c.execErr
}

func (c *fakeConnection) lastRun() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.runs) == 0 {
		return ""
	}
	return c.runs[len(c.runs)-1]
}

func (c *fakeConnection) lastExec() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.execs) == 0 {
		return ""
	}
	return c.execs[len(c.execs)-1]
}
