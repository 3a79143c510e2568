package eval

import (
	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/schema"
)

// Constant returns an evaluation function that yields the same value for
// every row.
func Constant(value scrub.Value) scrub.EvalFunction {
	return constFunc{value: value}
}

type constFunc struct {
	value scrub.Value
}

func (f constFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	return func(row scrub.Row) (scrub.Value, error) {
		return f.value, nil
	}, nil
}

// Col returns an evaluation function that yields the value of a single named
// column.
func Col(column string) scrub.EvalFunction {
	return ColRef(scrub.Name(column))
}

// ColRef returns an evaluation function that yields the value of a single
// referenced column.
func ColRef(ref scrub.ColumnRef) scrub.EvalFunction {
	return colFunc{ref: ref}
}

type colFunc struct {
	ref scrub.ColumnRef
}

func (f colFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	_, idxs, err := schema.Select(ds.Columns(), f.ref)
	if err != nil {
		return nil, err
	}
	idx := idxs[0]
	return func(row scrub.Row) (scrub.Value, error) {
		return row[idx], nil
	}, nil
}

// Cols returns an evaluation function that yields a tuple with the values of
// the named columns, in the given order.
func Cols(columns ...string) scrub.EvalFunction {
	return ColRefs(scrub.Names(columns...)...)
}

// ColRefs returns an evaluation function that yields a tuple with the values
// of the referenced columns, in the given order.
func ColRefs(refs ...scrub.ColumnRef) scrub.EvalFunction {
	return colsFunc{refs: refs}
}

type colsFunc struct {
	refs []scrub.ColumnRef
}

func (f colsFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	_, idxs, err := schema.Select(ds.Columns(), f.refs...)
	if err != nil {
		return nil, err
	}
	return func(row scrub.Row) (scrub.Value, error) {
		values := make(scrub.Tuple, len(idxs))
		for i, idx := range idxs {
			values[i] = row[idx]
		}
		return values, nil
	}, nil
}

// Apply returns an evaluation function that applies fn to the value of the
// referenced column in each row.
func Apply(ref scrub.ColumnRef, fn func(scrub.Value) (scrub.Value, error)) scrub.EvalFunction {
	return applyFunc{ref: ref, fn: fn}
}

type applyFunc struct {
	ref scrub.ColumnRef
	fn  func(scrub.Value) (scrub.Value, error)
}

func (f applyFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	_, idxs, err := schema.Select(ds.Columns(), f.ref)
	if err != nil {
		return nil, err
	}
	idx := idxs[0]
	return func(row scrub.Row) (scrub.Value, error) {
		return f.fn(row[idx])
	}, nil
}

// Func wraps a raw row function as an evaluation function that requires no
// preparation.
func Func(fn scrub.StreamFunc) scrub.EvalFunction {
	return funcFunc{fn: fn}
}

type funcFunc struct {
	fn scrub.StreamFunc
}

func (f funcFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	return f.fn, nil
}

// asEval converts an operand of a composite function into an evaluation
// function. EvalFunctions are used as given, ColumnRefs become column
// accessors and anything else becomes a constant.
func asEval(operand interface{}) scrub.EvalFunction {
	switch op := operand.(type) {
	case scrub.EvalFunction:
		return op
	case scrub.ColumnRef:
		return ColRef(op)
	default:
		return Constant(op)
	}
}
