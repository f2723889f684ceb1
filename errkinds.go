package tabular

import (
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// Error kinds for the Fallible side of the taxonomy described in
// SPEC_FULL.md §7: I/O-bearing Dataset and Mutable operations return
// ordinary Go errors built from one of these kinds, so callers can
// test the kind instead of matching message text.
var (
	ErrColumnNotFound      = goerrors.NewKind("column not found: %s")
	ErrDuplicateColumn     = goerrors.NewKind("duplicate column: %s")
	ErrUnsupportedDialect  = goerrors.NewKind("dialect %s does not support %s")
	ErrCannotPushDown      = goerrors.NewKind("cannot push down %s to SQL")
	ErrMutationNotAllowed  = goerrors.NewKind("mutation %s is not supported by this dataset")
	ErrIdentifierImmutable = goerrors.NewKind("changing the identifier key is not supported")
	ErrIncompatibleDataset = goerrors.NewKind("dataset is not SQL-compatible with %s")
	ErrFormulaSyntax       = goerrors.NewKind("formula syntax error: %s")
)

// Programming errors are not Fallible: they panic with one of these
// sentinel values so a recovering test harness can still identify them.
type ProgrammingError string

func (e ProgrammingError) Error() string { return string(e) }

const (
	ErrDuplicateTargetColumn ProgrammingError = "programming error: duplicate aggregate target column"
	ErrFutureAlreadySatisfied ProgrammingError = "programming error: future already satisfied"
	ErrCapabilityNotChecked  ProgrammingError = "programming error: mutation attempted without canPerformMutation check"
)
