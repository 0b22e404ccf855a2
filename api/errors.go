package api

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
// They live in this package so evaluator packages and the root package can
// share them; the root package re-exports each one.
var (
	// ErrLengthMismatch indicates parallel sequences of different length,
	// such as start/end probability vectors or predictions vs documents.
	ErrLengthMismatch = errors.New("spaneval: sequence lengths differ")

	// ErrSpanOutOfRange indicates a predicted span outside the bounds of
	// the document's flattened context.
	ErrSpanOutOfRange = errors.New("spaneval: span outside context bounds")

	// ErrMissingInput indicates a model array named by RequiredInputs was
	// not supplied.
	ErrMissingInput = errors.New("spaneval: required model input missing")

	// ErrNoCandidates indicates the span search window was empty, usually
	// from a non-positive bound or an empty probability vector.
	ErrNoCandidates = errors.New("spaneval: no candidate spans in search window")
)
