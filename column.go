package scrub

import (
	"fmt"
	"strconv"
)

// ColumnRef references a column in a schema, either by name or by index
// position. Use Name or Index to construct one.
type ColumnRef struct {
	name    string
	idx     int
	byIndex bool
}

// Name references a column by its name in the schema.
func Name(name string) ColumnRef {
	return ColumnRef{name: name}
}

// Index references a column by its index position in the schema.
func Index(idx int) ColumnRef {
	return ColumnRef{idx: idx, byIndex: true}
}

// Names converts a list of column names into column references.
func Names(names ...string) []ColumnRef {
	refs := make([]ColumnRef, len(names))
	for i, name := range names {
		refs[i] = Name(name)
	}
	return refs
}

// IsIndex returns true iff this reference addresses a column by position.
func (r ColumnRef) IsIndex() bool {
	return r.byIndex
}

// Position returns the referenced index position. Only meaningful when
// IsIndex returns true.
func (r ColumnRef) Position() int {
	return r.idx
}

// ColumnName returns the referenced column name. Only meaningful when IsIndex
// returns false.
func (r ColumnRef) ColumnName() string {
	return r.name
}

// String returns a textual representation of this reference.
func (r ColumnRef) String() string {
	if r.byIndex {
		return strconv.Itoa(r.idx)
	}
	return fmt.Sprintf("%q", r.name)
}
