package scrub

// Schema is an ordered list of uniquely-named columns describing the rows
// produced by a dataset stream or pipeline stage. It allows one to resolve
// column references to index positions, rename columns, etc. Schemas are
// immutable; operations which alter the column set return a new Schema.
type Schema interface {
	Equals(otherSchema Schema) error
	Clone() Schema
	NumColumns() int
	HasColumn(colName string) bool
	ColumnNames() []string
	// Select resolves a list of column references against this schema,
	// returning the matched column names and their index positions.
	Select(refs ...ColumnRef) (colNames []string, colIdxs []int, err error)
	// Rename returns a new Schema with the referenced column renamed.
	Rename(ref ColumnRef, newName string) (newSchema Schema, err error)
}
