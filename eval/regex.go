package eval

import (
	"fmt"
	"regexp"

	"github.com/go-scrub/scrub"
)

// Match evaluates to true iff the regular expression matches anywhere within
// the value of the nested expression. Only string values match; anything
// else, including missing values, evaluates to false. The pattern is
// compiled when the function is prepared, so an invalid pattern fails the
// pipeline before any row is read.
func Match(pattern string, operand interface{}) scrub.EvalFunction {
	return regexFunc{pattern: pattern, operand: asEval(operand)}
}

// FullMatch evaluates to true iff the regular expression matches the entire
// value of the nested expression.
func FullMatch(pattern string, operand interface{}) scrub.EvalFunction {
	return regexFunc{pattern: fmt.Sprintf("^(?:%s)$", pattern), operand: asEval(operand)}
}

type regexFunc struct {
	pattern string
	operand scrub.EvalFunction
}

func (f regexFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	re, err := regexp.Compile(f.pattern)
	if err != nil {
		return nil, err
	}
	inner, err := f.operand.Prepare(ds)
	if err != nil {
		return nil, err
	}
	return func(row scrub.Row) (scrub.Value, error) {
		val, err := inner(row)
		if err != nil {
			return nil, err
		}
		s, ok := val.(string)
		if !ok {
			return false, nil
		}
		return re.MatchString(s), nil
	}, nil
}
