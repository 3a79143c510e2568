// Package pipeline implements streaming dataset processing as a chain of
// stream operators. An operator is a reusable, stateless stage descriptor;
// opening it against the schema of its upstream stage instantiates a
// consumer, a single-run sink which receives rows one at a time and produces
// a final result when the stream is closed. The Pipeline type composes
// operators over a row source and drives iteration, returning the terminal
// consumer's result without ever materializing the full dataset, unless a
// collecting stage asks for exactly that.
package pipeline
