package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
)

// producer is the shared base for consumers that pass processed rows on to a
// downstream consumer. A producer without a downstream consumer returns the
// processed row from Consume, which lets the same consumer drive both a full
// pipeline run and lazy iteration.
type producer struct {
	consumer scrub.StreamConsumer
	closed   bool
}

// SetDownstream wires the consumer that receives this stage's output rows.
// Must be called before the first row is consumed.
func (p *producer) SetDownstream(consumer scrub.StreamConsumer) {
	p.consumer = consumer
}

func (p *producer) forward(id scrub.RowID, row scrub.Row) (scrub.Row, error) {
	if row == nil || p.consumer == nil {
		return row, nil
	}
	return p.consumer.Consume(id, row)
}

// closeDownstream finalizes the downstream consumer after this stage has
// finished its own buffering. Closing a stage twice is an error.
func (p *producer) closeDownstream() (scrub.Value, error) {
	if p.closed {
		return nil, errors.ConsumerClosedError{}
	}
	p.closed = true
	if p.consumer == nil {
		return nil, nil
	}
	return p.consumer.Close()
}

// Filter suppresses rows for which the predicate does not evaluate to the
// configured truth value.
type Filter struct {
	producer
	predicate  scrub.StreamFunc
	truthValue scrub.Value
	consumed   bool
	matched    bool
	logger     *zerolog.Logger
}

// NewFilter creates a filter consumer around a prepared predicate. A nil
// truthValue defaults to boolean true.
func NewFilter(predicate scrub.StreamFunc, truthValue scrub.Value) *Filter {
	if truthValue == nil {
		truthValue = true
	}
	return &Filter{predicate: predicate, truthValue: truthValue}
}

// Consume evaluates the predicate and passes matching rows on unchanged.
func (c *Filter) Consume(id scrub.RowID, row scrub.Row) (scrub.Row, error) {
	c.consumed = true
	val, err := c.predicate(row)
	if err != nil {
		return nil, err
	}
	if !scrub.ValuesEqual(val, c.truthValue) {
		return nil, nil
	}
	c.matched = true
	return c.forward(id, row)
}

// Close closes the downstream consumer and returns its result. A predicate
// that saw rows but never once returned its truth value usually indicates a
// mismatched truth-value convention, so that case is logged before closing.
// An empty upstream stream is not a mismatch and stays silent.
func (c *Filter) Close() (scrub.Value, error) {
	if c.consumed && !c.matched && c.logger != nil {
		c.logger.Warn().
			Interface("truthValue", c.truthValue).
			Msg("filter predicate never returned its truth value; all rows were suppressed")
	}
	return c.closeDownstream()
}

// Limit passes at most a fixed number of rows on to the downstream consumer.
// Any further row signals ErrLimitReached, which the pipeline driver treats
// as the end of the stream.
type Limit struct {
	producer
	limit int
	count int
}

// NewLimit creates a limit consumer.
func NewLimit(limit int) *Limit {
	return &Limit{limit: limit}
}

// Consume passes the row on if the limit has not been reached yet.
func (c *Limit) Consume(id scrub.RowID, row scrub.Row) (scrub.Row, error) {
	if c.count < c.limit {
		c.count++
		return c.forward(id, row)
	}
	return nil, errors.ErrLimitReached
}

// Close closes the downstream consumer and returns its result.
func (c *Limit) Close() (scrub.Value, error) {
	return c.closeDownstream()
}

// Select narrows and reorders rows to a fixed list of column index
// positions, computed once when the stage is opened. Row identifiers are
// preserved.
type Select struct {
	producer
	columns []int
}

// NewSelect creates a select consumer for the given source index positions.
func NewSelect(columns []int) *Select {
	return &Select{columns: columns}
}

// Consume forwards a new row holding the selected values. Positions are not
// re-validated per row.
func (c *Select) Consume(id scrub.RowID, row scrub.Row) (scrub.Row, error) {
	values := make(scrub.Row, len(c.columns))
	for i, idx := range c.columns {
		values[i] = row[idx]
	}
	return c.forward(id, values)
}

// Close closes the downstream consumer and returns its result.
func (c *Select) Close() (scrub.Value, error) {
	return c.closeDownstream()
}

// Update replaces the values at fixed column positions with the result of a
// prepared evaluation function. A function bound to multiple columns must
// return a tuple of matching length.
type Update struct {
	producer
	columns []int
	fn      scrub.StreamFunc
}

// NewUpdate creates an update consumer for the given target positions.
func NewUpdate(columns []int, fn scrub.StreamFunc) *Update {
	return &Update{columns: columns, fn: fn}
}

// Consume forwards a copy of the row with the updated values. The input row
// is never modified.
func (c *Update) Consume(id scrub.RowID, row scrub.Row) (scrub.Row, error) {
	val, err := c.fn(row)
	if err != nil {
		return nil, err
	}
	values := row.Clone()
	if len(c.columns) == 1 {
		values[c.columns[0]] = val
	} else {
		tuple, ok := val.(scrub.Tuple)
		if !ok {
			return nil, errors.CardinalityError{Expected: len(c.columns), Actual: 1}
		}
		if len(tuple) != len(c.columns) {
			return nil, errors.CardinalityError{Expected: len(c.columns), Actual: len(tuple)}
		}
		for i, idx := range c.columns {
			values[idx] = tuple[i]
		}
	}
	return c.forward(id, values)
}

// Close closes the downstream consumer and returns its result.
func (c *Update) Close() (scrub.Value, error) {
	return c.closeDownstream()
}
