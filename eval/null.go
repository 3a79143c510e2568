package eval

import (
	"github.com/go-scrub/scrub"
)

// IsNull evaluates to true iff the nested expression yields a missing value.
func IsNull(operand interface{}) scrub.EvalFunction {
	return nullFunc{operand: asEval(operand), negated: false}
}

// IsNotNull evaluates to true iff the nested expression yields a present
// value.
func IsNotNull(operand interface{}) scrub.EvalFunction {
	return nullFunc{operand: asEval(operand), negated: true}
}

type nullFunc struct {
	operand scrub.EvalFunction
	negated bool
}

func (f nullFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	inner, err := f.operand.Prepare(ds)
	if err != nil {
		return nil, err
	}
	return func(row scrub.Row) (scrub.Value, error) {
		val, err := inner(row)
		if err != nil {
			return nil, err
		}
		return (val == nil) != f.negated, nil
	}, nil
}
