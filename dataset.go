package tabular

// FetchStatus is the binary completion status a Stream reports with
// every fetched batch, per SPEC_FULL.md §4.3.
type FetchStatus int

const (
	HasMore FetchStatus = iota
	Finished
)

// Sink receives one delivered batch from a Stream.fetch call.
type Sink func(rows []Row, status FetchStatus, err error)

// Stream is the pull-based contract described in SPEC_FULL.md §4.3.
// Implementations must tolerate concurrent Fetch invocations; ordering
// of batches across concurrent fetches is only guaranteed by routing
// through a StreamPuller.
type Stream interface {
	Columns(job *Job) (*ColumnSet, error)
	// Fetch delivers exactly one batch per invocation by calling sink
	// exactly once.
	Fetch(job *Job, sink Sink)
	// Clone returns a fresh Stream positioned at the start.
	Clone() Stream
}

// JoinType is the Join descriptor's kind, per SPEC_FULL.md §3.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

// Join is (type, foreignDataset, expression); Expression references
// left columns via Sibling and right columns via Foreign.
type Join struct {
	Type            JoinType
	ForeignDataset  Dataset
	Expression      Expression
}

// Order is one key of a multi-key sort; Numeric forces a numeric
// comparison via Value.AsDouble instead of the default lexical one.
type Order struct {
	Expression Expression
	Ascending  bool
	Numeric    bool
}

// Dataset is an immutable descriptor of a (possibly lazy) relation.
// Every operator method returns a new Dataset of the same family when
// the family can express it (StreamDataset composes Transformers,
// SQLDataset composes SQLFragments); RasterDataset is the eager
// terminal form every family can fall back to.
type Dataset interface {
	Columns(job *Job) (*ColumnSet, error)
	Raster(job *Job) (*Raster, error)
	Stream() Stream

	Limit(n int) Dataset
	Offset(n int) Dataset
	Random(n int) Dataset
	Distinct() Dataset
	Unique(expr Expression, job *Job) (map[Value]struct{}, error)
	Filter(expr Expression) Dataset
	Calculate(targets *ColumnSet, exprs []Expression) Dataset
	SelectColumns(columns *ColumnSet) Dataset
	Sort(orders []Order) Dataset
	Aggregate(groupNames *ColumnSet, groupExprs []Expression, valueNames *ColumnSet, aggregators []Aggregator) Dataset
	Pivot(horizontal, vertical, values Column) Dataset
	Transpose() Dataset
	Flatten(valueTo, columnNameTo, rowIdentifier Column, to *ColumnSet) Dataset
	Join(j Join) Dataset
	Union(other Dataset) Dataset
}

// Raster is an eagerly materialised table (rows × columns), the
// terminal form of every Dataset family. Its own operator
// implementation lives in package raster; Dataset embeds a pointer to
// it here only so the interface above can name the type without an
// import cycle (package raster imports package tabular, not the
// reverse).
type Raster struct {
	Schema *Schema
	Rows   []Row
}

func NewRaster(schema *Schema, rows []Row) *Raster {
	return &Raster{Schema: schema, Rows: rows}
}
