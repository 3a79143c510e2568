package pipeline

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/dataset"
	"github.com/go-scrub/scrub/errors"
	"github.com/go-scrub/scrub/schema"
)

// Pipeline is a lazily-evaluated chain of stream operators over a row
// source. Pipelines are immutable: every builder method returns a new
// Pipeline with one more operator appended, so a prefix may be shared and
// extended into several independent runs. Nothing is read from the source
// until a terminal method (Run, Count, ToDataset, Write, Iterate) executes
// the chain.
//
// A Pipeline is itself a DatasetStream, which is how evaluation functions of
// later stages are prepared against the transformed view of the data up to
// their position in the chain.
type Pipeline struct {
	reader  scrub.DatasetStream
	columns []string
	ops     []scrub.StreamProcessor
	logger  *zerolog.Logger
}

// New starts an empty pipeline over a row source.
func New(reader scrub.DatasetStream) *Pipeline {
	return &Pipeline{reader: reader, columns: reader.Columns()}
}

// newView builds the dataset stream seen by a stage part-way down a chain:
// the original reader with the upstream operators applied and the schema at
// that point.
func newView(reader scrub.DatasetStream, columns []string, ops []scrub.StreamProcessor) *Pipeline {
	return &Pipeline{reader: reader, columns: columns, ops: ops}
}

// WithLogger returns a pipeline that emits debug events through the given
// logger while it runs.
func (p *Pipeline) WithLogger(logger zerolog.Logger) *Pipeline {
	clone := p.clone()
	clone.logger = &logger
	return clone
}

// Columns returns the column names of the rows this pipeline produces.
func (p *Pipeline) Columns() []string {
	columns := make([]string, len(p.columns))
	copy(columns, p.columns)
	return columns
}

// Open starts a lazy iteration over the pipeline's output rows. It is a
// synonym for Iterate and makes Pipeline a DatasetStream.
func (p *Pipeline) Open() (scrub.RowIterator, error) {
	return p.Iterate()
}

func (p *Pipeline) clone() *Pipeline {
	clone := &Pipeline{
		reader:  p.reader,
		columns: p.columns,
		logger:  p.logger,
	}
	clone.ops = make([]scrub.StreamProcessor, len(p.ops))
	copy(clone.ops, p.ops)
	return clone
}

// Append returns a pipeline with one more operator at the end of the chain.
// The schema of the appended stage is computed when the pipeline is opened,
// not here.
func (p *Pipeline) Append(op scrub.StreamProcessor) *Pipeline {
	clone := p.clone()
	clone.ops = append(clone.ops, op)
	return clone
}

// Select narrows the streamed rows to the referenced columns, in reference
// order.
func (p *Pipeline) Select(columns ...scrub.ColumnRef) *Pipeline {
	clone := p.Append(&SelectOperator{Columns: columns})
	if names, _, err := schema.Select(p.columns, columns...); err == nil {
		clone.columns = names
	}
	return clone
}

// Filter keeps only the rows for which the predicate evaluates to the truth
// value. The optional truthValue overrides the default of boolean true, for
// predicates with a non-Boolean result convention.
func (p *Pipeline) Filter(predicate scrub.EvalFunction, truthValue ...scrub.Value) *Pipeline {
	op := &FilterOperator{Predicate: predicate, Logger: p.logger}
	if len(truthValue) > 0 {
		op.TruthValue = truthValue[0]
	}
	return p.Append(op)
}

// Where filters rows by a predicate and limits the result, a common
// combination when sampling a cleaned stream.
func (p *Pipeline) Where(predicate scrub.EvalFunction, limit int) *Pipeline {
	return p.Filter(predicate).Limit(limit)
}

// Update replaces the values of the referenced columns in every row with
// the result of the evaluation function. A function bound to multiple
// columns must yield a tuple of matching length.
func (p *Pipeline) Update(columns []scrub.ColumnRef, fn scrub.EvalFunction) *Pipeline {
	return p.Append(&UpdateOperator{Columns: columns, Func: fn})
}

// Limit caps the number of rows this pipeline yields.
func (p *Pipeline) Limit(count int) *Pipeline {
	return p.Append(&LimitOperator{Count: count})
}

// Head collects the first count rows into a Dataset.
func (p *Pipeline) Head(count int) (*dataset.Dataset, error) {
	return p.Limit(count).ToDataset()
}

// Count streams the pipeline and returns the number of rows it yields.
func (p *Pipeline) Count() (int, error) {
	result, err := p.Stream(&CollectOperator{Create: func(columns []string) (scrub.StreamConsumer, error) {
		return NewRowCount(), nil
	}})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// Distinct streams the pipeline and counts the distinct value combinations
// over the referenced columns, or over all columns if none are given.
func (p *Pipeline) Distinct(columns ...scrub.ColumnRef) (*Frequencies, error) {
	target := p
	if len(columns) > 0 {
		target = p.Select(columns...)
	}
	result, err := target.Stream(&CollectOperator{Create: func(columns []string) (scrub.StreamConsumer, error) {
		return NewDistinct(), nil
	}})
	if err != nil {
		return nil, err
	}
	return result.(*Frequencies), nil
}

// ToDataset streams the pipeline and collects all yielded rows into an
// in-memory Dataset.
func (p *Pipeline) ToDataset() (*dataset.Dataset, error) {
	result, err := p.Stream(&DatasetOperator{})
	if err != nil {
		return nil, err
	}
	return result.(*dataset.Dataset), nil
}

// Write streams the pipeline into a row sink, e.g. a dsv file.
func (p *Pipeline) Write(sink scrub.RowSink) error {
	_, err := p.Stream(&WriteOperator{Sink: sink})
	return err
}

// Stream appends a terminal operator and runs the pipeline, returning the
// result of the terminal consumer.
func (p *Pipeline) Stream(op scrub.StreamProcessor) (scrub.Value, error) {
	return p.Append(op).Run()
}

// Run executes the pipeline: every operator is opened in order against the
// evolving schema, all rows are streamed through the resulting consumer
// chain and the terminal consumer's close result is returned. Opening is
// fail-fast: any error during preparation aborts the run before a single
// row is read. Once streaming has started the consumer chain is closed
// exactly once, also when iteration fails part-way.
//
// A pipeline without operators has no consumer to produce a result and
// returns nil without reading the source.
func (p *Pipeline) Run() (result scrub.Value, err error) {
	if len(p.ops) == 0 {
		return nil, nil
	}
	consumer, err := p.open()
	if err != nil {
		return nil, err
	}
	closed := false
	defer func() {
		// release consumer resources on every exit path
		if closed {
			return
		}
		if _, cerr := consumer.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()
	it, err := p.reader.Open()
	if err != nil {
		return nil, err
	}
	defer it.Close()
	rows := 0
	for it.HasNext() {
		id, row, rerr := it.Next()
		if rerr != nil {
			return nil, rerr
		}
		rows++
		if _, cerr := consumer.Consume(id, row); cerr != nil {
			if errors.IsLimitReached(cerr) {
				if p.logger != nil {
					p.logger.Debug().Int("rows", rows).Msg("row limit reached, stream stopped")
				}
				break
			}
			return nil, cerr
		}
	}
	closed = true
	result, err = consumer.Close()
	if p.logger != nil {
		p.logger.Debug().Int("rows", rows).Int("operators", len(p.ops)).Msg("pipeline drained")
	}
	return result, err
}

// Iterate opens the pipeline for lazy row-by-row consumption. The consumer
// chain is driven incrementally as the caller advances the iterator;
// reaching a row limit ends the iteration normally. The chain is closed when
// the iterator is exhausted or closed; its terminal result is discarded.
func (p *Pipeline) Iterate() (scrub.RowIterator, error) {
	if len(p.ops) == 0 {
		return p.reader.Open()
	}
	consumer, err := p.open()
	if err != nil {
		return nil, err
	}
	src, err := p.reader.Open()
	if err != nil {
		consumer.Close()
		return nil, err
	}
	return &pipelineIterator{src: src, consumer: consumer}, nil
}

// open builds the consumer chain for this pipeline's operators, threading
// the source schema through the chain.
func (p *Pipeline) open() (scrub.StreamConsumer, error) {
	sch, err := schema.CreateSchema(p.reader.Columns()...)
	if err != nil {
		return nil, err
	}
	if p.logger != nil {
		p.logger.Debug().Int("operators", len(p.ops)).Msg("opening pipeline")
	}
	return p.ops[0].Open(p.reader, sch, nil, p.ops[1:])
}

type pipelineIterator struct {
	src      scrub.RowIterator
	consumer scrub.StreamConsumer
	id       scrub.RowID
	row      scrub.Row
	ready    bool
	done     bool
	err      error
}

// HasNext advances the underlying source until the consumer chain yields a
// row, the stream ends or an error is pending.
func (it *pipelineIterator) HasNext() bool {
	if it.ready || it.err != nil {
		return true
	}
	if it.done {
		return false
	}
	for it.src.HasNext() {
		id, row, err := it.src.Next()
		if err != nil {
			it.err = err
			it.finish()
			return true
		}
		out, err := it.consumer.Consume(id, row)
		if err != nil {
			if errors.IsLimitReached(err) {
				break
			}
			it.err = err
			it.finish()
			return true
		}
		if out == nil {
			continue
		}
		it.id = id
		it.row = out
		it.ready = true
		return true
	}
	it.finish()
	return false
}

func (it *pipelineIterator) Next() (scrub.RowID, scrub.Row, error) {
	if !it.HasNext() {
		return 0, nil, io.EOF
	}
	if it.err != nil {
		err := it.err
		it.err = nil
		return 0, nil, err
	}
	it.ready = false
	return it.id, it.row, nil
}

func (it *pipelineIterator) Close() error {
	it.ready = false
	it.finish()
	return nil
}

func (it *pipelineIterator) finish() {
	if it.done {
		return
	}
	it.done = true
	it.src.Close()
	it.consumer.Close()
}
