package eval

import (
	"github.com/hashicorp/go-multierror"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
)

// binaryFunc evaluates two nested expressions and combines their results.
// Preparation forwards to both operands in declaration order and fails if
// either operand fails to prepare.
type binaryFunc struct {
	lhs scrub.EvalFunction
	rhs scrub.EvalFunction
	op  func(a scrub.Value, b scrub.Value) (scrub.Value, error)
}

func (f binaryFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	var result *multierror.Error
	left, err := f.lhs.Prepare(ds)
	result = multierror.Append(result, err)
	right, err := f.rhs.Prepare(ds)
	result = multierror.Append(result, err)
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return func(row scrub.Row) (scrub.Value, error) {
		a, err := left(row)
		if err != nil {
			return nil, err
		}
		b, err := right(row)
		if err != nil {
			return nil, err
		}
		return f.op(a, b)
	}, nil
}

func binary(lhs interface{}, rhs interface{}, op func(a, b scrub.Value) (scrub.Value, error)) scrub.EvalFunction {
	return binaryFunc{lhs: asEval(lhs), rhs: asEval(rhs), op: op}
}

// Eq compares two expressions for equality.
func Eq(lhs interface{}, rhs interface{}) scrub.EvalFunction {
	return binary(lhs, rhs, func(a, b scrub.Value) (scrub.Value, error) {
		return scrub.ValuesEqual(a, b), nil
	})
}

// Neq compares two expressions for inequality.
func Neq(lhs interface{}, rhs interface{}) scrub.EvalFunction {
	return binary(lhs, rhs, func(a, b scrub.Value) (scrub.Value, error) {
		return !scrub.ValuesEqual(a, b), nil
	})
}

// Lt evaluates to true iff the first expression is strictly less than the
// second.
func Lt(lhs interface{}, rhs interface{}) scrub.EvalFunction {
	return ordered(lhs, rhs, func(cmp int) bool { return cmp < 0 })
}

// Leq evaluates to true iff the first expression is less than or equal to
// the second.
func Leq(lhs interface{}, rhs interface{}) scrub.EvalFunction {
	return ordered(lhs, rhs, func(cmp int) bool { return cmp <= 0 })
}

// Gt evaluates to true iff the first expression is strictly greater than the
// second.
func Gt(lhs interface{}, rhs interface{}) scrub.EvalFunction {
	return ordered(lhs, rhs, func(cmp int) bool { return cmp > 0 })
}

// Geq evaluates to true iff the first expression is greater than or equal to
// the second.
func Geq(lhs interface{}, rhs interface{}) scrub.EvalFunction {
	return ordered(lhs, rhs, func(cmp int) bool { return cmp >= 0 })
}

func ordered(lhs interface{}, rhs interface{}, test func(cmp int) bool) scrub.EvalFunction {
	return binary(lhs, rhs, func(a, b scrub.Value) (scrub.Value, error) {
		cmp, err := scrub.CompareValues(a, b)
		if err != nil {
			return nil, errors.DataError{Value: a, Cause: err}
		}
		return test(cmp), nil
	})
}
