package groupby

import (
	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/dataset"
	"github.com/go-scrub/scrub/errors"
)

// Ready-made reducers for the common aggregates. Numeric reducers skip nil
// cells and fail on values that cannot be coerced to a number.

// Count returns a SeriesFunc that counts the non-nil values of a column.
func Count() SeriesFunc {
	return func(values []scrub.Value) (scrub.Value, error) {
		count := int64(0)
		for _, v := range values {
			if v != nil {
				count++
			}
		}
		return count, nil
	}
}

// Sum returns a SeriesFunc that adds up the numeric values of a column.
func Sum() SeriesFunc {
	return func(values []scrub.Value) (scrub.Value, error) {
		total := float64(0)
		for _, v := range values {
			if v == nil {
				continue
			}
			f, ok := scrub.AsFloat(v)
			if !ok {
				return nil, errors.DataError{Value: v}
			}
			total += f
		}
		return total, nil
	}
}

// Mean returns a SeriesFunc that averages the numeric values of a column.
// The mean of an all-nil series is nil.
func Mean() SeriesFunc {
	return func(values []scrub.Value) (scrub.Value, error) {
		total := float64(0)
		count := 0
		for _, v := range values {
			if v == nil {
				continue
			}
			f, ok := scrub.AsFloat(v)
			if !ok {
				return nil, errors.DataError{Value: v}
			}
			total += f
			count++
		}
		if count == 0 {
			return nil, nil
		}
		return total / float64(count), nil
	}
}

// Min returns a SeriesFunc that picks the smallest value of a column under
// the natural value ordering. The minimum of an all-nil series is nil.
func Min() SeriesFunc {
	return extremum(-1)
}

// Max returns a SeriesFunc that picks the largest value of a column under
// the natural value ordering. The maximum of an all-nil series is nil.
func Max() SeriesFunc {
	return extremum(1)
}

func extremum(sign int) SeriesFunc {
	return func(values []scrub.Value) (scrub.Value, error) {
		var best scrub.Value
		found := false
		for _, v := range values {
			if v == nil {
				continue
			}
			if !found {
				best = v
				found = true
				continue
			}
			cmp, err := scrub.CompareValues(v, best)
			if err != nil {
				return nil, err
			}
			if cmp*sign > 0 {
				best = v
			}
		}
		return best, nil
	}
}

// First returns a SeriesFunc that picks the first value of a column in row
// order.
func First() SeriesFunc {
	return func(values []scrub.Value) (scrub.Value, error) {
		if len(values) == 0 {
			return nil, nil
		}
		return values[0], nil
	}
}

// Compose combines column aggregates into a single GroupAggregate whose
// result fans out into one output column per entry. The entry's column name
// doubles as its output column.
func Compose(aggs ...ColumnAggregate) GroupAggregate {
	return GroupAggregate{
		Name: "composed",
		Func: func(group *dataset.Dataset) (scrub.Value, error) {
			result := make([]NamedValue, len(aggs))
			for i, agg := range aggs {
				series, err := group.Column(scrub.Name(agg.Column))
				if err != nil {
					return nil, err
				}
				val, err := agg.Func(series)
				if err != nil {
					return nil, err
				}
				result[i] = NamedValue{Column: agg.Column, Value: val}
			}
			return result, nil
		},
	}
}
