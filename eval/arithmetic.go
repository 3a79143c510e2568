package eval

import (
	stderrors "errors"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
)

// Add computes the sum of two expressions.
func Add(lhs interface{}, rhs interface{}) scrub.EvalFunction {
	return arithmetic(lhs, rhs,
		func(a, b int64) (scrub.Value, error) { return a + b, nil },
		func(a, b float64) (scrub.Value, error) { return a + b, nil })
}

// Sub computes the difference of two expressions.
func Sub(lhs interface{}, rhs interface{}) scrub.EvalFunction {
	return arithmetic(lhs, rhs,
		func(a, b int64) (scrub.Value, error) { return a - b, nil },
		func(a, b float64) (scrub.Value, error) { return a - b, nil })
}

// Mul computes the product of two expressions.
func Mul(lhs interface{}, rhs interface{}) scrub.EvalFunction {
	return arithmetic(lhs, rhs,
		func(a, b int64) (scrub.Value, error) { return a * b, nil },
		func(a, b float64) (scrub.Value, error) { return a * b, nil })
}

// Div computes the quotient of two expressions. The result is always a
// float64; division by zero is a data error.
func Div(lhs interface{}, rhs interface{}) scrub.EvalFunction {
	div := func(a, b float64) (scrub.Value, error) {
		if b == 0 {
			return nil, errors.DataError{Value: b, Cause: errDivisionByZero}
		}
		return a / b, nil
	}
	return arithmetic(lhs, rhs, func(a, b int64) (scrub.Value, error) {
		return div(float64(a), float64(b))
	}, div)
}

var errDivisionByZero = stderrors.New("division by zero")

// arithmetic combines two numeric expressions, keeping integer arithmetic
// when both operands are integers.
func arithmetic(
	lhs interface{}, rhs interface{},
	intOp func(a, b int64) (scrub.Value, error),
	floatOp func(a, b float64) (scrub.Value, error),
) scrub.EvalFunction {
	return binary(lhs, rhs, func(a, b scrub.Value) (scrub.Value, error) {
		if ai, aok := asInt(a); aok {
			if bi, bok := asInt(b); bok {
				return intOp(ai, bi)
			}
		}
		af, aok := scrub.AsFloat(a)
		if !aok {
			return nil, errors.DataError{Value: a}
		}
		bf, bok := scrub.AsFloat(b)
		if !bok {
			return nil, errors.DataError{Value: b}
		}
		return floatOp(af, bf)
	})
}

func asInt(v scrub.Value) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}
