package scrub

import (
	"fmt"
	"strconv"
)

// Value is a single cell value within a Row. Values produced by the builtin
// dataset adapters are scalars (string, bool, int64, float64) or nil, which
// represents a missing value.
type Value interface{}

// Tuple is an ordered sequence of Values, returned by evaluation functions
// which operate over more than one column.
type Tuple []Value

// RowID is an opaque identifier for a Row within a dataset. Identifiers are
// not required to be contiguous or ordered.
type RowID int64

// Row is an ordered sequence of cell values, addressed positionally. Rows are
// immutable once produced by a pipeline stage - transformations yield new
// Rows rather than mutating in place.
type Row []Value

// Clone returns a copy of this Row which may be modified freely.
func (r Row) Clone() Row {
	clone := make(Row, len(r))
	copy(clone, r)
	return clone
}

// ToString returns a human-readable representation of this Row.
func (r Row) ToString() string {
	return fmt.Sprintf("%v", []Value(r))
}

// AsFloat attempts to coerce a Value into a float64. Numeric types widen,
// booleans map to 0 and 1 and strings are parsed.
func AsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ValuesEqual compares two cell values for equality. Numeric values are
// compared by magnitude regardless of their concrete type, so int64(1)
// equals float64(1).
func ValuesEqual(a Value, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if at, ok := a.(Tuple); ok {
		bt, ok := b.(Tuple)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !ValuesEqual(at[i], bt[i]) {
				return false
			}
		}
		return true
	}
	if a == b {
		return true
	}
	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	if aok && bok {
		return af == bf
	}
	return false
}

// CompareValues orders two cell values, returning a negative number if a < b,
// zero if they are equal and a positive number if a > b. Values are compared
// numerically when both sides are numeric, and as strings when both sides are
// strings. Any other combination is incomparable.
func CompareValues(a Value, b Value) (int, error) {
	if af, aok := numericValue(a); aok {
		if bf, bok := numericValue(b); bok {
			switch {
			case af < bf:
				return -1, nil
			case af > bf:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		switch {
		case as < bs:
			return -1, nil
		case as > bs:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}

// numericValue widens builtin numeric types to float64. Unlike AsFloat it
// does not parse strings, so that value comparisons do not silently treat
// text as numbers.
func numericValue(v Value) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
