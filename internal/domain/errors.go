package domain

import "errors"

var (
	// ErrNotFound signals a missing catalog row.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals malformed request parameters.
	ErrValidation = errors.New("invalid request")
	// ErrStorage signals a relational catalog failure. Fatal for the request.
	ErrStorage = errors.New("catalog storage error")
	// ErrUpstream signals an LLM or vector-index failure. Recovered locally
	// via fallback, never surfaced to the caller.
	ErrUpstream = errors.New("upstream service error")
	// ErrVectorDimMismatch signals a vector dimension mismatch between the
	// embedding model and the index.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
