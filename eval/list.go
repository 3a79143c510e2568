package eval

import (
	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
)

// List evaluates a fixed list of nested expressions and yields their results
// as a tuple, in declaration order. Preparation forwards to every nested
// function and fails if any of them fails to prepare.
func List(operands ...interface{}) scrub.EvalFunction {
	return listFunc{operands: asEvals(operands)}
}

type listFunc struct {
	operands []scrub.EvalFunction
}

func (f listFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	prepared, err := prepareAll(ds, f.operands)
	if err != nil {
		return nil, err
	}
	return func(row scrub.Row) (scrub.Value, error) {
		values := make(scrub.Tuple, len(prepared))
		for i, fn := range prepared {
			val, err := fn(row)
			if err != nil {
				return nil, err
			}
			values[i] = val
		}
		return values, nil
	}, nil
}

// IfThenElse evaluates a predicate for each row and yields the result of the
// first branch when the predicate holds and the result of the second branch
// otherwise.
func IfThenElse(predicate interface{}, then interface{}, els interface{}) scrub.EvalFunction {
	return condFunc{
		predicate: asEval(predicate),
		then:      asEval(then),
		els:       asEval(els),
	}
}

type condFunc struct {
	predicate scrub.EvalFunction
	then      scrub.EvalFunction
	els       scrub.EvalFunction
}

func (f condFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	prepared, err := prepareAll(ds, []scrub.EvalFunction{f.predicate, f.then, f.els})
	if err != nil {
		return nil, err
	}
	pred, then, els := prepared[0], prepared[1], prepared[2]
	return func(row scrub.Row) (scrub.Value, error) {
		val, err := pred(row)
		if err != nil {
			return nil, err
		}
		b, ok := val.(bool)
		if !ok {
			return nil, errors.DataError{Value: val}
		}
		if b {
			return then(row)
		}
		return els(row)
	}, nil
}
