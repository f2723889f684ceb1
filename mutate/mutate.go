// Package mutate defines the mutation protocol of spec.md §4.8: the
// DatasetMutation/WarehouseMutation kind enums, the MutableDataset and
// Warehouse contracts, and the capability-checked proxies that enforce
// canPerformMutation before every call reaches a backend.
package mutate

import tabular "github.com/colstack/tabular"

// DatasetMutationKind enumerates the operations a MutableDataset may
// support; canPerformMutation is checked before every one.
type DatasetMutationKind int

const (
	Truncate DatasetMutationKind = iota
	Drop
	Insert
	Import
	Alter
	Rename
	Update
	Delete
)

func (k DatasetMutationKind) String() string {
	switch k {
	case Truncate:
		return "truncate"
	case Drop:
		return "drop"
	case Insert:
		return "insert"
	case Import:
		return "import"
	case Alter:
		return "alter"
	case Rename:
		return "rename"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// WarehouseMutationKind enumerates the operations a Warehouse may
// support, independent of any single dataset's own capabilities.
type WarehouseMutationKind int

const (
	Create WarehouseMutationKind = iota
	DropTable
)

func (k WarehouseMutationKind) String() string {
	if k == Create {
		return "create"
	}
	return "dropTable"
}

// ImportMapping pairs each target column with the source expression
// that populates it, per spec.md §4.8's import(data, mapping) shape.
type ImportMapping struct {
	Target tabular.Column
	Source tabular.Expression
}

// AlterSchema describes a schema change: AddColumns/DropColumns name
// the delta against the dataset's current schema. Column renaming is
// a separate operation (Rename); changing the identifier key is out
// of scope per spec.md §4.8 and must be refused by
// canPerformMutation(Alter).
type AlterSchema struct {
	AddColumns  []tabular.Column
	DropColumns []tabular.Column
}

// MutableDataset is the write surface over an existing Dataset.
// Implementations must call canPerformMutation(kind) first and refuse
// (return an error) rather than attempt a mutation the backend cannot
// express.
type MutableDataset interface {
	tabular.Dataset

	CanPerformMutation(kind DatasetMutationKind) bool

	Truncate(job *tabular.Job) error
	Drop(job *tabular.Job) error
	Insert(job *tabular.Job, row tabular.Row) error
	Import(job *tabular.Job, source tabular.Dataset, mapping []ImportMapping) error
	Alter(job *tabular.Job, schema AlterSchema) error
	Rename(job *tabular.Job, columns map[tabular.Column]tabular.Column) error
	Update(job *tabular.Job, key tabular.Row, column tabular.Column, old, new tabular.Value) error
	Delete(job *tabular.Job, keys []tabular.Row) error
}

// Warehouse is a named collection of MutableDatasets (tables) plus
// table-level DDL.
type Warehouse interface {
	CanPerformMutation(kind WarehouseMutationKind) bool

	Dataset(job *tabular.Job, name string) (MutableDataset, error)
	Create(job *tabular.Job, name string, data tabular.Dataset) (MutableDataset, error)
	DropTable(job *tabular.Job, name string) error
}

// refused renders the uniform ErrMutationNotAllowed error the Checked
// proxies return when CanPerformMutation(kind) is false.
func refused(kind interface{ String() string }) error {
	return tabular.ErrMutationNotAllowed.New(kind.String())
}
