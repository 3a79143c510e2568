package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/schema"
)

// producingConsumer is implemented by consumers that forward rows to a
// downstream consumer.
type producingConsumer interface {
	scrub.StreamConsumer
	SetDownstream(consumer scrub.StreamConsumer)
}

// openChain wires a freshly-created producing consumer to the opened
// downstream chain. The downstream stage is opened against this stage's
// output schema, with this operator appended to its upstream list.
func openChain(
	consumer producingConsumer,
	columns []string,
	self scrub.StreamProcessor,
	ds scrub.DatasetStream,
	upstream []scrub.StreamProcessor,
	downstream []scrub.StreamProcessor,
) (scrub.StreamConsumer, error) {
	if len(downstream) > 0 {
		outSchema, err := schema.CreateSchema(columns...)
		if err != nil {
			return nil, err
		}
		ups := make([]scrub.StreamProcessor, 0, len(upstream)+1)
		ups = append(ups, upstream...)
		ups = append(ups, self)
		next, err := downstream[0].Open(ds, outSchema, ups, downstream[1:])
		if err != nil {
			return nil, err
		}
		consumer.SetDownstream(next)
	}
	return consumer, nil
}

// FilterOperator is the pipeline stage descriptor for row filtering. The
// predicate is prepared against the upstream view of the data stream when
// the stage is opened.
type FilterOperator struct {
	Predicate scrub.EvalFunction
	// TruthValue is the predicate result that keeps a row. Nil defaults to
	// boolean true.
	TruthValue scrub.Value
	Logger     *zerolog.Logger
}

// Open prepares the predicate and returns a Filter consumer. The output
// schema is the input schema, unchanged.
func (op *FilterOperator) Open(ds scrub.DatasetStream, sch scrub.Schema, upstream []scrub.StreamProcessor, downstream []scrub.StreamProcessor) (scrub.StreamConsumer, error) {
	view := newView(ds, sch.ColumnNames(), upstream)
	predicate, err := op.Predicate.Prepare(view)
	if err != nil {
		return nil, err
	}
	consumer := NewFilter(predicate, op.TruthValue)
	consumer.logger = op.Logger
	return openChain(consumer, sch.ColumnNames(), op, ds, upstream, downstream)
}

// LimitOperator is the pipeline stage descriptor for row limits.
type LimitOperator struct {
	Count int
}

// Open returns a Limit consumer. The output schema is the input schema,
// unchanged.
func (op *LimitOperator) Open(ds scrub.DatasetStream, sch scrub.Schema, upstream []scrub.StreamProcessor, downstream []scrub.StreamProcessor) (scrub.StreamConsumer, error) {
	return openChain(NewLimit(op.Count), sch.ColumnNames(), op, ds, upstream, downstream)
}

// SelectOperator is the pipeline stage descriptor for column selection and
// reordering.
type SelectOperator struct {
	Columns []scrub.ColumnRef
}

// Open resolves the column references against the input schema and returns
// a Select consumer bound to the resolved positions. The output schema holds
// the selected columns in selection order.
func (op *SelectOperator) Open(ds scrub.DatasetStream, sch scrub.Schema, upstream []scrub.StreamProcessor, downstream []scrub.StreamProcessor) (scrub.StreamConsumer, error) {
	colNames, colIdxs, err := sch.Select(op.Columns...)
	if err != nil {
		return nil, err
	}
	return openChain(NewSelect(colIdxs), colNames, op, ds, upstream, downstream)
}

// UpdateOperator is the pipeline stage descriptor for in-stream value
// updates.
type UpdateOperator struct {
	Columns []scrub.ColumnRef
	Func    scrub.EvalFunction
}

// Open resolves the target columns, prepares the update function against the
// upstream view and returns an Update consumer. The output schema is the
// input schema, unchanged.
func (op *UpdateOperator) Open(ds scrub.DatasetStream, sch scrub.Schema, upstream []scrub.StreamProcessor, downstream []scrub.StreamProcessor) (scrub.StreamConsumer, error) {
	_, colIdxs, err := sch.Select(op.Columns...)
	if err != nil {
		return nil, err
	}
	view := newView(ds, sch.ColumnNames(), upstream)
	fn, err := op.Func.Prepare(view)
	if err != nil {
		return nil, err
	}
	return openChain(NewUpdate(colIdxs, fn), sch.ColumnNames(), op, ds, upstream, downstream)
}

// CollectOperator is a generic descriptor for any collecting stage whose
// consumer can be built from the output schema alone. A collector is always
// the final stage of a chain; any downstream operators are ignored, so a
// collector is a valid drop-in wherever a generic stage is accepted.
type CollectOperator struct {
	Create func(columns []string) (scrub.StreamConsumer, error)
}

// Open instantiates the collector consumer, ignoring downstream operators.
func (op *CollectOperator) Open(ds scrub.DatasetStream, sch scrub.Schema, upstream []scrub.StreamProcessor, downstream []scrub.StreamProcessor) (scrub.StreamConsumer, error) {
	return op.Create(sch.ColumnNames())
}

// DatasetOperator is the collecting stage descriptor that materializes the
// stream into an in-memory Dataset.
type DatasetOperator struct{}

// Open returns a DatasetCollector bound to the stage's schema, ignoring
// downstream operators.
func (op *DatasetOperator) Open(ds scrub.DatasetStream, sch scrub.Schema, upstream []scrub.StreamProcessor, downstream []scrub.StreamProcessor) (scrub.StreamConsumer, error) {
	return NewDatasetCollector(sch.ColumnNames())
}

// WriteOperator is the collecting stage descriptor that writes the stream to
// a row sink, e.g. a dsv file.
type WriteOperator struct {
	Sink scrub.RowSink
}

// Open opens the sink with the stage's schema as the header and returns a
// Write consumer owning the writer, ignoring downstream operators.
func (op *WriteOperator) Open(ds scrub.DatasetStream, sch scrub.Schema, upstream []scrub.StreamProcessor, downstream []scrub.StreamProcessor) (scrub.StreamConsumer, error) {
	writer, err := op.Sink.OpenWriter(sch.ColumnNames())
	if err != nil {
		return nil, err
	}
	return NewWrite(writer), nil
}
