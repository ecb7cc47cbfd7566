package cursorlang

import "errors"

// Common errors used throughout the cursorlang package
var (
	// ErrConfigValidation is returned when configuration validation fails
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrSuspended is returned by Run when the clock pauses a program and no
	// suspension handler was given.
	ErrSuspended = errors.New("program suspended")
	// ErrNoDocuments indicates that no literate program was found.
	ErrNoDocuments = errors.New("no literate program documents found")
	// ErrTestsFailed indicates that at least one literate program failed.
	ErrTestsFailed = errors.New("some literate programs failed")
)
