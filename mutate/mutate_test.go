package mutate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colstack/tabular/mutate"
)

func TestDatasetMutationKindString(t *testing.T) {
	cases := map[mutate.DatasetMutationKind]string{
		mutate.Truncate: "truncate",
		mutate.Drop:     "drop",
		mutate.Insert:   "insert",
		mutate.Import:   "import",
		mutate.Alter:    "alter",
		mutate.Rename:   "rename",
		mutate.Update:   "update",
		mutate.Delete:   "delete",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
	assert.Equal(t, "unknown", mutate.DatasetMutationKind(999).String())
}

func TestWarehouseMutationKindString(t *testing.T) {
	assert.Equal(t, "create", mutate.Create.String())
	assert.Equal(t, "dropTable", mutate.DropTable.String())
}
