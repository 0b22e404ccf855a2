package spaneval

import "github.com/datapress/spaneval/api"

// Sentinel errors re-exported from the api package so callers can match
// with errors.Is against either import path.
var (
	// ErrLengthMismatch indicates parallel sequences of different length.
	ErrLengthMismatch = api.ErrLengthMismatch
	// ErrSpanOutOfRange indicates a predicted span outside the context bounds.
	ErrSpanOutOfRange = api.ErrSpanOutOfRange
	// ErrMissingInput indicates a required model array was not supplied.
	ErrMissingInput = api.ErrMissingInput
	// ErrNoCandidates indicates an empty span search window.
	ErrNoCandidates = api.ErrNoCandidates
)
