package scrub

// DatasetStream is a finite, restartable source of dataset rows with a
// stable column-name schema. Each call to Open starts a fresh iteration
// over the full dataset.
type DatasetStream interface {
	Columns() []string
	Open() (RowIterator, error)
}

// RowIterator iterates over (RowID, Row) pairs in a dataset stream. Close
// releases any resources held by the iterator and must be called when
// iteration ends early; iterating an exhausted iterator is harmless.
type RowIterator interface {
	HasNext() bool
	Next() (RowID, Row, error)
	Close() error
}

// StreamConsumer is a stateful sink for rows in a data processing pipeline,
// instantiated from a StreamProcessor for exactly one pipeline run. Consume
// receives one row at a time in upstream order and returns the processed row,
// or nil if the row was suppressed or absorbed. Close signals that the end of
// the stream was reached and returns the consumer's final result; it is
// called exactly once per run and is not idempotent.
type StreamConsumer interface {
	Consume(id RowID, row Row) (Row, error)
	Close() (Value, error)
}

// StreamProcessor is a reusable, stateless descriptor of a pipeline stage.
// Open instantiates the stage against the schema of its upstream stage,
// recursively opening the downstream chain and returning the consumer at the
// head of it. Open performs schema-only work: it must not read any rows,
// except through an evaluation function's preparation scan over ds.
//
// ds is the stream of rows the consumer will receive, with upstream holding
// the already-applied operators; evaluation functions are prepared against
// that view. Collector stages ignore any downstream operators given to them.
type StreamProcessor interface {
	Open(ds DatasetStream, schema Schema, upstream []StreamProcessor, downstream []StreamProcessor) (StreamConsumer, error)
}

// RowWriter writes rows to an output target. Close flushes and releases the
// target exactly once.
type RowWriter interface {
	WriteRow(row Row) error
	Close() error
}

// RowSink is an output target which accepts an ordered header followed by
// row writes, e.g. a delimited text file.
type RowSink interface {
	OpenWriter(header []string) (RowWriter, error)
}
