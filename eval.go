package scrub

// StreamFunc is a prepared per-row evaluation function. It receives a single
// data stream row and returns a single value, or a Tuple of values for
// functions which operate over more than one column.
type StreamFunc func(row Row) (Value, error)

// An EvalFunction is a unit of computation over dataset rows. Evaluation
// functions hold only their configuration (a column reference, a comparison
// value, a pattern) until they are prepared against the dataset they will
// stream over. Prepare resolves column index positions and computes any
// dataset-wide statistics the function needs (e.g. the observed minimum and
// maximum for normalization), returning a fresh StreamFunc closure over that
// state. The EvalFunction itself is never mutated, so one unprepared function
// may safely be reused across any number of pipeline runs.
//
// Composite functions must prepare every nested function they own in
// declaration order, and fail if any nested preparation fails.
type EvalFunction interface {
	Prepare(ds DatasetStream) (StreamFunc, error)
}
