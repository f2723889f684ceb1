package mutate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
	"github.com/colstack/tabular/mutate"
	"github.com/colstack/tabular/stream"
)

// emptyStream is a canned zero-row tabular.Stream, just enough to let
// fakeMutable satisfy the full tabular.Dataset surface via
// stream.StreamDataset so the proxy tests can focus on the mutation
// capability gate.
type emptyStream struct{ columns *tabular.ColumnSet }

func (s *emptyStream) Columns(job *tabular.Job) (*tabular.ColumnSet, error) { return s.columns, nil }
func (s *emptyStream) Fetch(job *tabular.Job, sink tabular.Sink)           { sink(nil, tabular.Finished, nil) }
func (s *emptyStream) Clone() tabular.Stream                               { return &emptyStream{columns: s.columns} }

// fakeMutable records which mutation methods were actually invoked, so
// Checked's capability gate can be asserted: a call refused by
// CanPerformMutation must never reach the wrapped dataset.
type fakeMutable struct {
	*stream.StreamDataset
	capabilities map[mutate.DatasetMutationKind]bool
	calls        []string
}

func newFakeMutable(capabilities map[mutate.DatasetMutationKind]bool) *fakeMutable {
	columns := tabular.NewColumnSetFromNames("id")
	return &fakeMutable{
		StreamDataset: stream.NewStreamDataset(&emptyStream{columns: columns}),
		capabilities:  capabilities,
	}
}

func (f *fakeMutable) CanPerformMutation(kind mutate.DatasetMutationKind) bool {
	return f.capabilities[kind]
}
func (f *fakeMutable) Truncate(job *tabular.Job) error { f.calls = append(f.calls, "truncate"); return nil }
func (f *fakeMutable) Drop(job *tabular.Job) error     { f.calls = append(f.calls, "drop"); return nil }
func (f *fakeMutable) Insert(job *tabular.Job, row tabular.Row) error {
	f.calls = append(f.calls, "insert")
	return nil
}
func (f *fakeMutable) Import(job *tabular.Job, source tabular.Dataset, mapping []mutate.ImportMapping) error {
	f.calls = append(f.calls, "import")
	return nil
}
func (f *fakeMutable) Alter(job *tabular.Job, schema mutate.AlterSchema) error {
	f.calls = append(f.calls, "alter")
	return nil
}
func (f *fakeMutable) Rename(job *tabular.Job, columns map[tabular.Column]tabular.Column) error {
	f.calls = append(f.calls, "rename")
	return nil
}
func (f *fakeMutable) Update(job *tabular.Job, key tabular.Row, column tabular.Column, old, new tabular.Value) error {
	f.calls = append(f.calls, "update")
	return nil
}
func (f *fakeMutable) Delete(job *tabular.Job, keys []tabular.Row) error {
	f.calls = append(f.calls, "delete")
	return nil
}

func TestCheckedRefusesMutationNotInCapabilities(t *testing.T) {
	inner := newFakeMutable(map[mutate.DatasetMutationKind]bool{mutate.Truncate: true})
	checked := mutate.NewChecked(inner)

	err := checked.Drop(nil)
	require.Error(t, err)
	assert.Empty(t, inner.calls)
}

func TestCheckedForwardsAllowedMutation(t *testing.T) {
	inner := newFakeMutable(map[mutate.DatasetMutationKind]bool{mutate.Truncate: true})
	checked := mutate.NewChecked(inner)

	require.NoError(t, checked.Truncate(nil))
	assert.Equal(t, []string{"truncate"}, inner.calls)
}

func TestCheckedForwardsEveryMutationKindWhenAllowed(t *testing.T) {
	all := map[mutate.DatasetMutationKind]bool{
		mutate.Truncate: true, mutate.Drop: true, mutate.Insert: true, mutate.Import: true,
		mutate.Alter: true, mutate.Rename: true, mutate.Update: true, mutate.Delete: true,
	}
	inner := newFakeMutable(all)
	checked := mutate.NewChecked(inner)

	require.NoError(t, checked.Truncate(nil))
	require.NoError(t, checked.Drop(nil))
	require.NoError(t, checked.Insert(nil, tabular.Row{}))
	require.NoError(t, checked.Import(nil, nil, nil))
	require.NoError(t, checked.Alter(nil, mutate.AlterSchema{}))
	require.NoError(t, checked.Rename(nil, nil))
	require.NoError(t, checked.Update(nil, tabular.Row{}, tabular.NewColumn("id"), tabular.Invalid, tabular.Invalid))
	require.NoError(t, checked.Delete(nil, nil))

	assert.Equal(t, []string{"truncate", "drop", "insert", "import", "alter", "rename", "update", "delete"}, inner.calls)
}

// fakeWarehouse records Create/DropTable invocations behind the
// Warehouse-level capability gate.
type fakeWarehouse struct {
	capabilities map[mutate.WarehouseMutationKind]bool
	calls        []string
}

func (w *fakeWarehouse) CanPerformMutation(kind mutate.WarehouseMutationKind) bool {
	return w.capabilities[kind]
}
func (w *fakeWarehouse) Dataset(job *tabular.Job, name string) (mutate.MutableDataset, error) {
	return nil, nil
}
func (w *fakeWarehouse) Create(job *tabular.Job, name string, data tabular.Dataset) (mutate.MutableDataset, error) {
	w.calls = append(w.calls, "create")
	return nil, nil
}
func (w *fakeWarehouse) DropTable(job *tabular.Job, name string) error {
	w.calls = append(w.calls, "dropTable")
	return nil
}

func TestCheckedWarehouseRefusesDisallowedMutation(t *testing.T) {
	inner := &fakeWarehouse{capabilities: map[mutate.WarehouseMutationKind]bool{mutate.Create: true}}
	checked := mutate.NewCheckedWarehouse(inner)

	err := checked.DropTable(nil, "t")
	require.Error(t, err)
	assert.Empty(t, inner.calls)
}

func TestCheckedWarehouseForwardsAllowedMutation(t *testing.T) {
	inner := &fakeWarehouse{capabilities: map[mutate.WarehouseMutationKind]bool{mutate.Create: true}}
	checked := mutate.NewCheckedWarehouse(inner)

	_, err := checked.Create(nil, "t", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"create"}, inner.calls)
}
