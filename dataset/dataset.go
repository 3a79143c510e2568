// Package dataset provides an in-memory table of rows with an ordered
// column schema and a row-identifier index. Datasets are the terminal result
// of a collecting pipeline stage and a valid row source for further
// pipelines.
package dataset

import (
	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
	"github.com/go-scrub/scrub/schema"
)

// Dataset is an in-memory table. Rows are stored in insertion order together
// with their row identifiers.
type Dataset struct {
	schema scrub.Schema
	rows   []scrub.Row
	index  []scrub.RowID
}

// CreateDataset builds an empty Dataset with the given column names.
func CreateDataset(columns ...string) (*Dataset, error) {
	s, err := schema.CreateSchema(columns...)
	if err != nil {
		return nil, err
	}
	return &Dataset{schema: s}, nil
}

// FromRows builds a Dataset from a list of rows, assigning sequential row
// identifiers starting at zero.
func FromRows(columns []string, rows []scrub.Row) (*Dataset, error) {
	ds, err := CreateDataset(columns...)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := ds.Append(scrub.RowID(i), row); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Append adds a row with the given identifier to the end of the dataset. The
// row width must match the dataset schema. The row is copied, so the caller
// may reuse its slice.
func (d *Dataset) Append(id scrub.RowID, row scrub.Row) error {
	if len(row) != d.schema.NumColumns() {
		return errors.IncompatibleRowError{Expected: d.schema.NumColumns(), Actual: len(row)}
	}
	d.rows = append(d.rows, row.Clone())
	d.index = append(d.index, id)
	return nil
}

// NumRows returns the number of rows in the dataset.
func (d *Dataset) NumRows() int {
	return len(d.rows)
}

// Schema returns the schema of the dataset.
func (d *Dataset) Schema() scrub.Schema {
	return d.schema
}

// Columns returns the ordered column names of the dataset.
func (d *Dataset) Columns() []string {
	return d.schema.ColumnNames()
}

// Row returns the identifier and values of the i-th row in insertion order.
// The returned row must not be modified.
func (d *Dataset) Row(i int) (scrub.RowID, scrub.Row) {
	return d.index[i], d.rows[i]
}

// Column returns the value series for a referenced column, in row order.
func (d *Dataset) Column(ref scrub.ColumnRef) ([]scrub.Value, error) {
	_, idxs, err := d.schema.Select(ref)
	if err != nil {
		return nil, err
	}
	values := make([]scrub.Value, len(d.rows))
	for i, row := range d.rows {
		values[i] = row[idxs[0]]
	}
	return values, nil
}

// Slice returns a new Dataset containing the rows at the given insertion
// positions, preserving their identifiers.
func (d *Dataset) Slice(positions []int) (*Dataset, error) {
	sub, err := CreateDataset(d.Columns()...)
	if err != nil {
		return nil, err
	}
	for _, pos := range positions {
		if err := sub.Append(d.index[pos], d.rows[pos]); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// Rename returns a new Dataset sharing this dataset's rows with one column
// renamed.
func (d *Dataset) Rename(ref scrub.ColumnRef, newName string) (*Dataset, error) {
	renamed, err := d.schema.Rename(ref, newName)
	if err != nil {
		return nil, err
	}
	return &Dataset{schema: renamed, rows: d.rows, index: d.index}, nil
}

// Equals reports whether two datasets hold the same schema, row identifiers
// and cell values in the same order.
func (d *Dataset) Equals(other *Dataset) bool {
	if other == nil || d.schema.Equals(other.schema) != nil || len(d.rows) != len(other.rows) {
		return false
	}
	for i, row := range d.rows {
		if d.index[i] != other.index[i] {
			return false
		}
		if !scrub.ValuesEqual(scrub.Tuple(row), scrub.Tuple(other.rows[i])) {
			return false
		}
	}
	return true
}
