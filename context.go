package tabular

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Context threads a standard context.Context, a Job, and a logger
// through the core's async entry points, mirroring the teacher's
// sql.Context pattern (a request-scoped carrier distinct from the
// bare stdlib context.Context).
type Context struct {
	context.Context
	Job *Job
	Log *logrus.Entry
}

// NewContext wraps ctx with a fresh Job and a package-level logger.
func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx, Job: NewJob(QoSUserInitiated, nil), Log: logrus.WithField("component", "tabular")}
}

func NewContextWithJob(ctx context.Context, job *Job) *Context {
	return &Context{Context: ctx, Job: job, Log: logrus.WithField("component", "tabular")}
}

// NewEmptyContext is a convenience constructor for tests and
// expression evaluation call sites that do not need cancellation.
func NewEmptyContext() *Context {
	return NewContext(context.Background())
}

func (c *Context) WithLogField(key string, value interface{}) *Context {
	return &Context{Context: c.Context, Job: c.Job, Log: c.Log.WithField(key, value)}
}
