package eval

import (
	"fmt"
	"strconv"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
)

// ErrorPolicy decides how a cast function responds to values it cannot
// convert. The policy belongs to the function instance; the pipeline never
// overrides it.
type ErrorPolicy int

const (
	// RaiseError surfaces a DataError for unconvertible values.
	RaiseError ErrorPolicy = iota
	// PassThrough returns unconvertible values unmodified.
	PassThrough
	// UseDefault substitutes a configured default for unconvertible values.
	UseDefault
)

// CastConf configures the data-error policy of a cast function.
type CastConf struct {
	Policy  ErrorPolicy
	Default scrub.Value // Substitute value when Policy is UseDefault.
}

// Int casts the value of the nested expression to int64. The optional
// configuration selects the policy for unconvertible values; the default is
// to raise a data error.
func Int(operand interface{}, conf ...CastConf) scrub.EvalFunction {
	return castFunc{operand: asEval(operand), conf: castConf(conf), cast: toInt}
}

// Float casts the value of the nested expression to float64.
func Float(operand interface{}, conf ...CastConf) scrub.EvalFunction {
	return castFunc{operand: asEval(operand), conf: castConf(conf), cast: toFloat}
}

// Bool casts the value of the nested expression to bool.
func Bool(operand interface{}, conf ...CastConf) scrub.EvalFunction {
	return castFunc{operand: asEval(operand), conf: castConf(conf), cast: toBool}
}

// Str casts the value of the nested expression to its string representation.
// Missing values stay missing.
func Str(operand interface{}) scrub.EvalFunction {
	return castFunc{operand: asEval(operand), cast: func(v scrub.Value) (scrub.Value, bool) {
		if v == nil {
			return nil, true
		}
		if s, ok := v.(string); ok {
			return s, true
		}
		return fmt.Sprintf("%v", v), true
	}}
}

func castConf(conf []CastConf) CastConf {
	if len(conf) > 0 {
		return conf[0]
	}
	return CastConf{Policy: RaiseError}
}

type castFunc struct {
	operand scrub.EvalFunction
	conf    CastConf
	cast    func(v scrub.Value) (scrub.Value, bool)
}

func (f castFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	inner, err := f.operand.Prepare(ds)
	if err != nil {
		return nil, err
	}
	return func(row scrub.Row) (scrub.Value, error) {
		val, err := inner(row)
		if err != nil {
			return nil, err
		}
		result, ok := f.cast(val)
		if ok {
			return result, nil
		}
		switch f.conf.Policy {
		case PassThrough:
			return val, nil
		case UseDefault:
			return f.conf.Default, nil
		default:
			return nil, errors.DataError{Value: val}
		}
	}, nil
}

func toInt(v scrub.Value) (scrub.Value, bool) {
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
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case bool:
		if n {
			return int64(1), true
		}
		return int64(0), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return nil, false
		}
		return i, true
	default:
		return nil, false
	}
}

func toFloat(v scrub.Value) (scrub.Value, bool) {
	f, ok := scrub.AsFloat(v)
	if !ok {
		return nil, false
	}
	return f, true
}

func toBool(v scrub.Value) (scrub.Value, bool) {
	switch n := v.(type) {
	case bool:
		return n, true
	case string:
		b, err := strconv.ParseBool(n)
		if err != nil {
			return nil, false
		}
		return b, true
	default:
		if f, ok := scrub.AsFloat(v); ok {
			return f != 0, true
		}
		return nil, false
	}
}
