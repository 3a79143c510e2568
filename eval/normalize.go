package eval

import (
	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
)

// MinMaxScale normalizes the numeric values of the nested expression using
// min-max feature scaling over the observed value range. Preparation
// performs a full scan of the upstream dataset to find the minimum and
// maximum; preparing the same function again against another dataset
// computes fresh statistics with no state carried over. Values outside the
// numeric domain follow the configured cast policy.
func MinMaxScale(operand interface{}, conf ...CastConf) scrub.EvalFunction {
	return statsFunc{operand: asEval(operand), conf: castConf(conf), scale: scaleMinMax}
}

// MaxAbsScale divides the numeric values of the nested expression by the
// maximum absolute value observed during preparation.
func MaxAbsScale(operand interface{}, conf ...CastConf) scrub.EvalFunction {
	return statsFunc{operand: asEval(operand), conf: castConf(conf), scale: scaleMaxAbs}
}

// DivideByTotal divides the numeric values of the nested expression by the
// sum over all values observed during preparation.
func DivideByTotal(operand interface{}, conf ...CastConf) scrub.EvalFunction {
	return statsFunc{operand: asEval(operand), conf: castConf(conf), scale: scaleByTotal}
}

// columnStats holds the result of a preparation scan.
type columnStats struct {
	min    float64
	max    float64
	sum    float64
	maxAbs float64
	seen   bool
}

func scaleMinMax(v float64, stats columnStats) float64 {
	if !stats.seen || stats.max == stats.min {
		return 0
	}
	return (v - stats.min) / (stats.max - stats.min)
}

func scaleMaxAbs(v float64, stats columnStats) float64 {
	if stats.maxAbs == 0 {
		return 0
	}
	return v / stats.maxAbs
}

func scaleByTotal(v float64, stats columnStats) float64 {
	if stats.sum == 0 {
		return 0
	}
	return v / stats.sum
}

type statsFunc struct {
	operand scrub.EvalFunction
	conf    CastConf
	scale   func(v float64, stats columnStats) float64
}

func (f statsFunc) Prepare(ds scrub.DatasetStream) (scrub.StreamFunc, error) {
	inner, err := f.operand.Prepare(ds)
	if err != nil {
		return nil, err
	}
	stats, err := f.collect(ds, inner)
	if err != nil {
		return nil, err
	}
	return func(row scrub.Row) (scrub.Value, error) {
		val, err := inner(row)
		if err != nil {
			return nil, err
		}
		v, ok := scrub.AsFloat(val)
		if !ok {
			switch f.conf.Policy {
			case PassThrough:
				return val, nil
			case UseDefault:
				return f.conf.Default, nil
			default:
				return nil, errors.DataError{Value: val}
			}
		}
		return f.scale(v, stats), nil
	}, nil
}

// collect scans the full upstream dataset once, accumulating the statistics
// the scaled function needs. Values outside the numeric domain are excluded
// from the statistics.
func (f statsFunc) collect(ds scrub.DatasetStream, inner scrub.StreamFunc) (columnStats, error) {
	var stats columnStats
	it, err := ds.Open()
	if err != nil {
		return stats, err
	}
	defer it.Close()
	for it.HasNext() {
		_, row, err := it.Next()
		if err != nil {
			return stats, err
		}
		val, err := inner(row)
		if err != nil {
			return stats, err
		}
		v, ok := scrub.AsFloat(val)
		if !ok {
			continue
		}
		if !stats.seen {
			stats.min = v
			stats.max = v
			stats.seen = true
		} else {
			if v < stats.min {
				stats.min = v
			}
			if v > stats.max {
				stats.max = v
			}
		}
		stats.sum += v
		if abs := v; abs < 0 {
			if -abs > stats.maxAbs {
				stats.maxAbs = -abs
			}
		} else if abs > stats.maxAbs {
			stats.maxAbs = abs
		}
	}
	return stats, nil
}
