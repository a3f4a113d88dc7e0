package api

import "errors"

// None of these errors are retryable: they are raised once, while a backend is being assembled, and mean the process
// cannot compile code for the target.
var (
	// ErrConfigNotFound is returned by a ConfigSource when the host does not expose the named flag, constant, field
	// or property.
	ErrConfigNotFound = errors.New("configuration entry not found")

	// ErrMissingBaseline is returned when a feature set lacks a capability the architecture always requires.
	ErrMissingBaseline = errors.New("missing baseline CPU feature")

	// ErrUnsupportedMapping is returned when a kind, register category or value type falls outside the closed tables
	// of an architecture. Correct callers never see it.
	ErrUnsupportedMapping = errors.New("unsupported mapping")
)
