package eval

import (
	"github.com/hashicorp/go-multierror"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
)

// And evaluates to true iff every nested predicate evaluates to true.
// Evaluation short-circuits on the first false predicate.
func And(predicates ...interface{}) scrub.EvalFunction {
	return logicFunc{operands: asEvals(predicates), shortCircuit: false}
}

// Or evaluates to true iff at least one nested predicate evaluates to true.
// Evaluation short-circuits on the first true predicate.
func Or(predicates ...interface{}) scrub.EvalFunction {
	return logicFunc{operands: asEvals(predicates), shortCircuit: true}
}

type logicFunc struct {
	operands []scrub.EvalFunction
	// shortCircuit is the boolean that terminates evaluation early: true
	// for a disjunction, false for a conjunction.
	shortCircuit bool
}

func (f logicFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	prepared, err := prepareAll(ds, f.operands)
	if err != nil {
		return nil, err
	}
	return func(row scrub.Row) (scrub.Value, error) {
		for _, fn := range prepared {
			val, err := fn(row)
			if err != nil {
				return nil, err
			}
			b, ok := val.(bool)
			if !ok {
				return nil, errors.DataError{Value: val}
			}
			if b == f.shortCircuit {
				return f.shortCircuit, nil
			}
		}
		return !f.shortCircuit, nil
	}, nil
}

// Not negates a nested predicate.
func Not(predicate interface{}) scrub.EvalFunction {
	return notFunc{operand: asEval(predicate)}
}

type notFunc struct {
	operand scrub.EvalFunction
}

func (f notFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	inner, err := f.operand.Prepare(ds)
	if err != nil {
		return nil, err
	}
	return func(row scrub.Row) (scrub.Value, error) {
		val, err := inner(row)
		if err != nil {
			return nil, err
		}
		b, ok := val.(bool)
		if !ok {
			return nil, errors.DataError{Value: val}
		}
		return !b, nil
	}, nil
}

func asEvals(operands []interface{}) []scrub.EvalFunction {
	funcs := make([]scrub.EvalFunction, len(operands))
	for i, op := range operands {
		funcs[i] = asEval(op)
	}
	return funcs
}

// prepareAll prepares a list of nested functions in declaration order,
// aggregating every preparation failure.
func prepareAll(ds scrub.DatasetStream, funcs []scrub.EvalFunction) ([]scrub.StreamFunc, error) {
	var errs *multierror.Error
	prepared := make([]scrub.StreamFunc, len(funcs))
	for i, f := range funcs {
		fn, err := f.Prepare(ds)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		prepared[i] = fn
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return prepared, nil
}
