package mutate

import tabular "github.com/colstack/tabular"

// Checked wraps a MutableDataset and enforces CanPerformMutation
// before every call reaches it, so a backend implementation only has
// to declare its capabilities truthfully once rather than repeat the
// check in every method body.
type Checked struct {
	MutableDataset
}

func NewChecked(d MutableDataset) *Checked { return &Checked{MutableDataset: d} }

func (c *Checked) Truncate(job *tabular.Job) error {
	if !c.CanPerformMutation(Truncate) {
		return refused(Truncate)
	}
	return c.MutableDataset.Truncate(job)
}

func (c *Checked) Drop(job *tabular.Job) error {
	if !c.CanPerformMutation(Drop) {
		return refused(Drop)
	}
	return c.MutableDataset.Drop(job)
}

func (c *Checked) Insert(job *tabular.Job, row tabular.Row) error {
	if !c.CanPerformMutation(Insert) {
		return refused(Insert)
	}
	return c.MutableDataset.Insert(job, row)
}

func (c *Checked) Import(job *tabular.Job, source tabular.Dataset, mapping []ImportMapping) error {
	if !c.CanPerformMutation(Import) {
		return refused(Import)
	}
	return c.MutableDataset.Import(job, source, mapping)
}

func (c *Checked) Alter(job *tabular.Job, schema AlterSchema) error {
	if !c.CanPerformMutation(Alter) {
		return refused(Alter)
	}
	return c.MutableDataset.Alter(job, schema)
}

func (c *Checked) Rename(job *tabular.Job, columns map[tabular.Column]tabular.Column) error {
	if !c.CanPerformMutation(Rename) {
		return refused(Rename)
	}
	return c.MutableDataset.Rename(job, columns)
}

func (c *Checked) Update(job *tabular.Job, key tabular.Row, column tabular.Column, old, new tabular.Value) error {
	if !c.CanPerformMutation(Update) {
		return refused(Update)
	}
	return c.MutableDataset.Update(job, key, column, old, new)
}

func (c *Checked) Delete(job *tabular.Job, keys []tabular.Row) error {
	if !c.CanPerformMutation(Delete) {
		return refused(Delete)
	}
	return c.MutableDataset.Delete(job, keys)
}

// CheckedWarehouse is the Warehouse-level analogue of Checked.
type CheckedWarehouse struct {
	Warehouse
}

func NewCheckedWarehouse(w Warehouse) *CheckedWarehouse { return &CheckedWarehouse{Warehouse: w} }

func (c *CheckedWarehouse) Create(job *tabular.Job, name string, data tabular.Dataset) (MutableDataset, error) {
	if !c.CanPerformMutation(Create) {
		return nil, refused(Create)
	}
	return c.Warehouse.Create(job, name, data)
}

func (c *CheckedWarehouse) DropTable(job *tabular.Job, name string) error {
	if !c.CanPerformMutation(DropTable) {
		return refused(DropTable)
	}
	return c.Warehouse.DropTable(job, name)
}
