package domain

import "errors"

// Sentinel errors for engine operations
var (
	// ErrNetwork indicates a catalog request could not complete
	ErrNetwork = errors.New("catalog request failed")

	// ErrAuthFailed indicates the API token was rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrEmptyQuery signals a query too short to search. It is a no-op, not a failure.
	ErrEmptyQuery = errors.New("query too short")

	// ErrAllSourcesFailed indicates every source in a batch failed
	ErrAllSourcesFailed = errors.New("all sources failed")

	// ErrMalformedState indicates a persisted payload could not be decoded
	ErrMalformedState = errors.New("malformed persisted state")
)
