package interpreter

import (
	"errors"
	"fmt"

	"github.com/shibukawa/cursorlang/compiler"
	"github.com/shibukawa/cursorlang/source"
	"github.com/shibukawa/cursorlang/value"
)

var (
	ErrTypeMismatch      = value.ErrTypeMismatch
	ErrDivisionByZero    = value.ErrDivisionByZero
	ErrInvalidExpression = value.ErrInvalidExpression
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrDuplicateVariable = errors.New("variable already declared")
	ErrUndefinedCursor   = errors.New("undefined cursor")
	ErrDuplicateCursor   = errors.New("cursor already declared")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrScopeUnderflow    = errors.New("no scope to exit")
	ErrUnknownOperation  = errors.New("unknown operation")
)

// EvalError is a fault raised while executing an instruction.
type EvalError struct {
	At  source.Range
	Op  compiler.Op
	Err error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluation error at %s: %s", e.At.From, e.Err)
}

func (e *EvalError) Header() string {
	return "EVALUATION ERROR"
}

func (e *EvalError) Message() string {
	return e.Err.Error()
}

func (e *EvalError) Range() source.Range {
	return e.At
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func faultf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}
