// Package eval provides evaluation functions, the per-row units of
// computation used by pipeline filter and update stages. An evaluation
// function holds only its configuration until it is prepared against the
// dataset it will stream over; preparation resolves column positions,
// computes any dataset-wide statistics and returns a fresh per-row closure,
// leaving the original function reusable across pipeline runs.
package eval
