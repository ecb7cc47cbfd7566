package typeinference

import (
	"errors"
	"fmt"

	"github.com/shibukawa/cursorlang/source"
	"github.com/shibukawa/cursorlang/types"
)

var (
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrDuplicateVariable = errors.New("variable already declared")
)

// TypeError is a typing fault located in the source.
type TypeError struct {
	Kind     error        // one of the sentinels above
	At       source.Range // offending expression or statement
	Expected types.Set    // acceptable types for a mismatch
	Actual   types.Type   // inferred type for a mismatch
	Variable string       // variable name for undefined/duplicate errors
}

func mismatch(at source.Range, actual types.Type, expected ...types.Type) *TypeError {
	return &TypeError{Kind: ErrTypeMismatch, At: at, Expected: expected, Actual: actual}
}

// Error implements the error interface
func (e *TypeError) Error() string {
	return fmt.Sprintf("typing error at %s: %s", e.At.From, e.Message())
}

func (e *TypeError) Header() string {
	return "TYPING ERROR"
}

func (e *TypeError) Message() string {
	switch {
	case errors.Is(e.Kind, ErrTypeMismatch):
		return fmt.Sprintf("type mismatch: expected one of [%s], got %s", e.Expected, e.Actual)
	case errors.Is(e.Kind, ErrUndefinedVariable):
		return fmt.Sprintf("undefined variable '%s'", e.Variable)
	case errors.Is(e.Kind, ErrDuplicateVariable):
		return fmt.Sprintf("variable '%s' is already declared in this scope", e.Variable)
	}

	return e.Kind.Error()
}

func (e *TypeError) Range() source.Range {
	return e.At
}

func (e *TypeError) Unwrap() error {
	return e.Kind
}

// AsTypeErrors extracts TypeError instances from a joined error
func AsTypeErrors(err error) []*TypeError {
	if err == nil {
		return nil
	}

	var typeErrors []*TypeError

	var joinedErr interface{ Unwrap() []error }
	if errors.As(err, &joinedErr) {
		for _, e := range joinedErr.Unwrap() {
			typeErrors = append(typeErrors, AsTypeErrors(e)...)
		}

		return typeErrors
	}

	var single *TypeError
	if errors.As(err, &single) {
		return []*TypeError{single}
	}

	return typeErrors
}
