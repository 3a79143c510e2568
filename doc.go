// Package scrub contains the core components of scrub, a toolkit for cleaning
// and profiling tabular datasets via lazily-evaluated, composable row
// processing pipelines. This root package defines the types which are employed
// during regular use of the toolkit, as well as in its extension, and is an
// excellent overview of scrub's key concepts.
package scrub
