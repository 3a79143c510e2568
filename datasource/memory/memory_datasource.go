// Package memory exposes an in-memory Dataset as a DatasetStream, suitable
// for feeding a pipeline or preparing evaluation functions without touching
// the file system.
package memory

import (
	"io"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/dataset"
)

// DataSource streams the rows of an in-memory Dataset.
type DataSource struct {
	data *dataset.Dataset
}

// CreateStream wraps a Dataset in a restartable DatasetStream.
func CreateStream(data *dataset.Dataset) *DataSource {
	return &DataSource{data: data}
}

// Columns returns the column names of the underlying dataset.
func (s *DataSource) Columns() []string {
	return s.data.Columns()
}

// Open starts a fresh iteration over the dataset rows.
func (s *DataSource) Open() (scrub.RowIterator, error) {
	return &rowIterator{data: s.data}, nil
}

type rowIterator struct {
	data *dataset.Dataset
	next int
}

func (it *rowIterator) HasNext() bool {
	return it.next < it.data.NumRows()
}

func (it *rowIterator) Next() (scrub.RowID, scrub.Row, error) {
	if it.next >= it.data.NumRows() {
		return 0, nil, io.EOF
	}
	id, row := it.data.Row(it.next)
	it.next++
	return id, row, nil
}

func (it *rowIterator) Close() error {
	return nil
}
