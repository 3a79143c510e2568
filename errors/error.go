package errors

import (
	"errors"
	"fmt"
)

// ErrLimitReached signals that a Limit consumer has received its maximum
// number of rows. It is a control-flow signal rather than a failure: the
// pipeline driver treats it as "stop iterating" and it never escapes to the
// pipeline's caller.
var ErrLimitReached = errors.New("row limit reached")

// IsLimitReached reports whether err is the row-limit control signal.
func IsLimitReached(err error) bool {
	return errors.Is(err, ErrLimitReached)
}

// InvalidColumnError occurs when a column reference cannot be resolved
// against a schema
type InvalidColumnError struct{ Ref string }

// Error returns a textual representation of this InvalidColumnError
func (e InvalidColumnError) Error() string {
	return fmt.Sprintf("invalid column reference %s", e.Ref)
}

// DuplicateColumnError occurs when a schema would contain the same column
// name twice
type DuplicateColumnError struct{ Name string }

// Error returns a textual representation of this DuplicateColumnError
func (e DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column name %q", e.Name)
}

// SchemaMismatchError occurs when a user-supplied output schema does not
// match the number of columns an operation produces
type SchemaMismatchError struct{ Expected, Actual int }

// Error returns a textual representation of this SchemaMismatchError
func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema of length %d given for %d output columns", e.Actual, e.Expected)
}

// CardinalityError occurs when an evaluation function returns a different
// number of values than the columns it is bound to
type CardinalityError struct{ Expected, Actual int }

// Error returns a textual representation of this CardinalityError
func (e CardinalityError) Error() string {
	return fmt.Sprintf("expected %d values instead of %d", e.Expected, e.Actual)
}

// IncompatibleRowError occurs when a Row's width does not match the schema
// of the dataset it is added to
type IncompatibleRowError struct{ Expected, Actual int }

// Error returns a textual representation of this IncompatibleRowError
func (e IncompatibleRowError) Error() string {
	return fmt.Sprintf("row width %d is not compatible with schema of %d columns", e.Actual, e.Expected)
}

// ConsumerClosedError occurs when Close is called twice on the same consumer
type ConsumerClosedError struct{}

// Error returns a textual representation of this ConsumerClosedError
func (e ConsumerClosedError) Error() string {
	return "consumer is already closed"
}

// MissingKeyError occurs when a grouping is asked for a key it does not
// contain
type MissingKeyError struct{ Key string }

// Error returns a textual representation of this MissingKeyError
func (e MissingKeyError) Error() string {
	return fmt.Sprintf("key %s does not exist in grouping", e.Key)
}

// MissingVersionError occurs when an archive store is asked for a snapshot
// version it does not contain
type MissingVersionError struct{ Version int }

// Error returns a textual representation of this MissingVersionError
func (e MissingVersionError) Error() string {
	return fmt.Sprintf("unknown snapshot version %d", e.Version)
}

// DataError occurs when a cell value fails a type cast or predicate
// evaluation. Whether a DataError is raised, substituted or ignored is
// decided per evaluation function instance, never by the pipeline.
type DataError struct {
	Value interface{}
	Cause error
}

// Error returns a textual representation of this DataError
func (e DataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid value %v: %s", e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid value %v", e.Value)
}

// Unwrap returns the underlying cause of this DataError, if any
func (e DataError) Unwrap() error {
	return e.Cause
}
