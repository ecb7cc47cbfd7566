// Package interpreter executes compiled programs on a stack machine whose
// scopes hold variables and cursors.
package interpreter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shibukawa/cursorlang/canvas"
	"github.com/shibukawa/cursorlang/clock"
	"github.com/shibukawa/cursorlang/compiler"
	"github.com/shibukawa/cursorlang/value"
)

// DefaultCursor is selected when a run starts.
var DefaultCursor = CursorID{}

// Status is the coarse state of a run.
type Status int

const (
	Running Status = iota
	Suspended
	Finished
	Faulted
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Finished:
		return "finished"
	default:
		return "faulted"
	}
}

// EvalContext holds the whole state of one run. It must not be shared
// between goroutines.
type EvalContext struct {
	Program  compiler.Program
	PC       int
	Stack    []value.Value
	Selected CursorID

	scope   *Scope
	surface canvas.Surface
	status  Status
	fault   error
	logger  zerolog.Logger
	runID   string
}

// Option configures an EvalContext.
type Option func(*EvalContext)

// WithLogger logs every effectful instruction at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *EvalContext) {
		c.logger = logger
	}
}

// WithRunID tags log events with id.
func WithRunID(id string) Option {
	return func(c *EvalContext) {
		c.runID = id
	}
}

// NewEvalContext prepares program to run against surface.
func NewEvalContext(program compiler.Program, surface canvas.Surface, opts ...Option) *EvalContext {
	c := &EvalContext{Program: program, surface: surface, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}

	c.Reset()

	return c
}

// Reset rewinds to the first instruction with a fresh root scope holding
// the default cursor at the center of the surface.
func (c *EvalContext) Reset() {
	c.PC = 0
	c.Stack = c.Stack[:0]
	c.Selected = DefaultCursor
	c.status = Running
	c.fault = nil
	c.scope = NewScope(nil)
	c.scope.DeclareCursor(DefaultCursor, c.newCursor())
}

func (c *EvalContext) newCursor() *Tangible {
	return NewTangible(c.surface.Width()/2, c.surface.Height()/2)
}

// Scope returns the innermost scope.
func (c *EvalContext) Scope() *Scope {
	return c.scope
}

func (c *EvalContext) Surface() canvas.Surface {
	return c.surface
}

func (c *EvalContext) Status() Status {
	return c.status
}

// Err returns the fault that stopped the run, if any.
func (c *EvalContext) Err() error {
	return c.fault
}

// HasNext reports whether an instruction remains to be executed.
func (c *EvalContext) HasNext() bool {
	return c.fault == nil && c.status != Finished && c.PC < len(c.Program)
}

// EvaluateAll runs as long as instructions remain and clk lets them through.
// A declined tick suspends the run; calling EvaluateAll again resumes it.
// ctx is checked between instructions.
func (c *EvalContext) EvaluateAll(ctx context.Context, clk clock.Clock) error {
	if c.fault != nil {
		return c.fault
	}

	for c.HasNext() {
		if err := ctx.Err(); err != nil {
			c.status = Suspended
			return err
		}

		if !clk.Tick(c.Program[c.PC].Op.Effectful()) {
			c.status = Suspended
			return nil
		}

		c.status = Running
		if err := c.Evaluate(); err != nil {
			return err
		}
	}

	if c.fault == nil {
		c.status = Finished
	}

	return nil
}
