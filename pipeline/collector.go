package pipeline

import (
	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/dataset"
	"github.com/go-scrub/scrub/errors"
)

// Collectors are consumers at the end of a chain. They accumulate a result
// while the stream runs and return it on Close. A collector never forwards
// rows; its Consume returns nil so that lazy iteration does not yield
// absorbed rows.

// CollectedRow is one (identifier, row) pair captured by a Collector.
type CollectedRow struct {
	ID  scrub.RowID
	Row scrub.Row
}

// Collector buffers all received rows together with their identifiers. It is
// intended primarily for tests.
type Collector struct {
	rows   []CollectedRow
	closed bool
}

// NewCollector creates an empty row buffer collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Consume adds the (identifier, row) pair to the internal buffer.
func (c *Collector) Consume(id scrub.RowID, row scrub.Row) (scrub.Row, error) {
	c.rows = append(c.rows, CollectedRow{ID: id, Row: row})
	return nil, nil
}

// Close returns the collected rows as a []CollectedRow.
func (c *Collector) Close() (scrub.Value, error) {
	if c.closed {
		return nil, errors.ConsumerClosedError{}
	}
	c.closed = true
	return c.rows, nil
}

// DatasetCollector builds an in-memory Dataset from the rows in the stream,
// recording row identifiers as the dataset index.
type DatasetCollector struct {
	data   *dataset.Dataset
	closed bool
}

// NewDatasetCollector creates a dataset collector bound to an output schema.
func NewDatasetCollector(columns []string) (*DatasetCollector, error) {
	data, err := dataset.CreateDataset(columns...)
	if err != nil {
		return nil, err
	}
	return &DatasetCollector{data: data}, nil
}

// Consume appends the row and its identifier to the dataset.
func (c *DatasetCollector) Consume(id scrub.RowID, row scrub.Row) (scrub.Row, error) {
	if err := c.data.Append(id, row); err != nil {
		return nil, err
	}
	return nil, nil
}

// Close returns the collected *dataset.Dataset.
func (c *DatasetCollector) Close() (scrub.Value, error) {
	if c.closed {
		return nil, errors.ConsumerClosedError{}
	}
	c.closed = true
	return c.data, nil
}

// Distinct counts the frequency of each distinct row in the stream. The key
// is the single value for one-column rows and the value tuple otherwise.
type Distinct struct {
	counts *Frequencies
	closed bool
}

// NewDistinct creates a distinct-value counter.
func NewDistinct() *Distinct {
	return &Distinct{counts: newFrequencies()}
}

// Consume adds the row's value combination to the counter.
func (c *Distinct) Consume(id scrub.RowID, row scrub.Row) (scrub.Row, error) {
	c.counts.add(scrub.Tuple(row.Clone()))
	return nil, nil
}

// Close returns the populated *Frequencies.
func (c *Distinct) Close() (scrub.Value, error) {
	if c.closed {
		return nil, errors.ConsumerClosedError{}
	}
	c.closed = true
	return c.counts, nil
}

// RowCount counts the rows that reach it.
type RowCount struct {
	rows   int
	closed bool
}

// NewRowCount creates a row counter.
func NewRowCount() *RowCount {
	return &RowCount{}
}

// Consume increments the counter.
func (c *RowCount) Consume(id scrub.RowID, row scrub.Row) (scrub.Row, error) {
	c.rows++
	return nil, nil
}

// Close returns the count as an int.
func (c *RowCount) Close() (scrub.Value, error) {
	if c.closed {
		return nil, errors.ConsumerClosedError{}
	}
	c.closed = true
	return c.rows, nil
}

// Write sends every row to an output writer. The writer is owned by the
// consumer: it was opened when the stage was opened and is released exactly
// once on Close.
type Write struct {
	writer scrub.RowWriter
	closed bool
}

// NewWrite creates a write consumer around an open row writer.
func NewWrite(writer scrub.RowWriter) *Write {
	return &Write{writer: writer}
}

// Consume writes the row values to the output.
func (c *Write) Consume(id scrub.RowID, row scrub.Row) (scrub.Row, error) {
	if err := c.writer.WriteRow(row); err != nil {
		return nil, err
	}
	return nil, nil
}

// Close flushes and releases the output writer.
func (c *Write) Close() (scrub.Value, error) {
	if c.closed {
		return nil, errors.ConsumerClosedError{}
	}
	c.closed = true
	return nil, c.writer.Close()
}
