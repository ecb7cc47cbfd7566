package combinator

import (
	"errors"
	"strings"

	"github.com/shibukawa/cursorlang/source"
)

// Sentinel errors
var (
	// ErrNotMatch marks a recoverable failure: callers may try an alternative.
	ErrNotMatch = errors.New("no parser matched")
	// ErrFatal marks a failure after a construct unambiguously started.
	ErrFatal = errors.New("fatal parse failure")
)

// Error is the parsing fault. Recoverable errors are discarded by Optional,
// Repeat and FirstSucceeding; fatal errors always propagate.
type Error struct {
	Fatal    bool
	At       source.Range
	Expected []string
	Actual   string
	Reason   string
	Cause    error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Fatal {
		return "fatal: " + e.Message()
	}

	return e.Message()
}

// Header returns the diagnostic header.
func (e *Error) Header() string {
	return "PARSING ERROR"
}

// Message describes the failure without its location.
func (e *Error) Message() string {
	if e.Reason != "" {
		return e.Reason
	}

	actual := e.Actual
	if actual == "" {
		actual = "end of input"
	}

	if len(e.Expected) == 0 {
		return "unexpected " + actual
	}

	return "expected " + joinExpected(e.Expected) + ", got " + actual
}

// Range returns the offending source range.
func (e *Error) Range() source.Range {
	return e.At
}

// Unwrap exposes the failure class and the transformation cause, if any.
func (e *Error) Unwrap() []error {
	class := ErrNotMatch
	if e.Fatal {
		class = ErrFatal
	}

	if e.Cause != nil {
		return []error{class, e.Cause}
	}

	return []error{class}
}

func (e *Error) escalate() *Error {
	if e.Fatal {
		return e
	}

	fatal := *e
	fatal.Fatal = true

	return &fatal
}

// IsFatal reports whether err is a fatal parsing fault.
func IsFatal(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Fatal
	}

	return err != nil
}

// AsError extracts a parsing fault. Foreign errors are converted into a
// fatal fault located at r.
func AsError(err error, r source.Range) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}

	return &Error{Fatal: true, At: r, Reason: err.Error(), Cause: err}
}

// Failure builds a recoverable fault at the current element of s.
func Failure[E any](s State[E], expected ...string) *Error {
	return &Error{At: s.Span(), Expected: expected, Actual: s.Describe()}
}

// furthest keeps the error that progressed the most. Ties union their
// expectations so that alternatives are all listed.
func furthest(a, b *Error) *Error {
	if a == nil {
		return b
	}

	if b == nil {
		return a
	}

	if a.At.From.Before(b.At.From) {
		return b
	}

	if b.At.From.Before(a.At.From) {
		return a
	}

	if a.Reason != "" || b.Reason != "" {
		return a
	}

	merged := *a
	merged.Expected = appendUnique(append([]string{}, a.Expected...), b.Expected...)

	return &merged
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}

		if !found {
			list = append(list, item)
		}
	}

	return list
}

func joinExpected(expected []string) string {
	switch len(expected) {
	case 1:
		return expected[0]
	case 2:
		return expected[0] + " or " + expected[1]
	default:
		return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
	}
}
