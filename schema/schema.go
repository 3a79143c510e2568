package schema

import (
	"fmt"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
)

type schema struct {
	columns []string
	lookup  map[string]int
}

// CreateSchema builds a Schema from an ordered list of column names. Column
// names must be unique within a schema.
func CreateSchema(columns ...string) (scrub.Schema, error) {
	s := &schema{
		columns: make([]string, len(columns)),
		lookup:  make(map[string]int, len(columns)),
	}
	copy(s.columns, columns)
	for i, name := range columns {
		if _, exists := s.lookup[name]; exists {
			return nil, errors.DuplicateColumnError{Name: name}
		}
		s.lookup[name] = i
	}
	return s, nil
}

func (s *schema) NumColumns() int {
	return len(s.columns)
}

func (s *schema) HasColumn(colName string) bool {
	_, ok := s.lookup[colName]
	return ok
}

func (s *schema) ColumnNames() []string {
	names := make([]string, len(s.columns))
	copy(names, s.columns)
	return names
}

func (s *schema) Clone() scrub.Schema {
	clone, _ := CreateSchema(s.columns...)
	return clone
}

func (s *schema) Equals(otherSchema scrub.Schema) error {
	if otherSchema == nil {
		return fmt.Errorf("other schema is nil")
	}
	other := otherSchema.ColumnNames()
	if len(s.columns) != len(other) {
		return fmt.Errorf("schemas have different numbers of columns (%d != %d)", len(s.columns), len(other))
	}
	for i, name := range s.columns {
		if other[i] != name {
			return fmt.Errorf("column %d differs (%q != %q)", i, name, other[i])
		}
	}
	return nil
}

// Select resolves column references to (name, index) pairs, in the order the
// references are given. Name references must match an existing column and
// index references must be in range.
func (s *schema) Select(refs ...scrub.ColumnRef) ([]string, []int, error) {
	colNames := make([]string, 0, len(refs))
	colIdxs := make([]int, 0, len(refs))
	for _, ref := range refs {
		idx, err := s.resolve(ref)
		if err != nil {
			return nil, nil, err
		}
		colNames = append(colNames, s.columns[idx])
		colIdxs = append(colIdxs, idx)
	}
	return colNames, colIdxs, nil
}

func (s *schema) Rename(ref scrub.ColumnRef, newName string) (scrub.Schema, error) {
	idx, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	columns := make([]string, len(s.columns))
	copy(columns, s.columns)
	columns[idx] = newName
	return CreateSchema(columns...)
}

func (s *schema) resolve(ref scrub.ColumnRef) (int, error) {
	if ref.IsIndex() {
		idx := ref.Position()
		if idx < 0 || idx >= len(s.columns) {
			return -1, errors.InvalidColumnError{Ref: ref.String()}
		}
		return idx, nil
	}
	idx, ok := s.lookup[ref.ColumnName()]
	if !ok {
		return -1, errors.InvalidColumnError{Ref: ref.String()}
	}
	return idx, nil
}

// Select is a convenience for resolving column references against a plain
// column-name list, as exposed by a DatasetStream.
func Select(columns []string, refs ...scrub.ColumnRef) ([]string, []int, error) {
	s, err := CreateSchema(columns...)
	if err != nil {
		return nil, nil, err
	}
	return s.Select(refs...)
}
