// Package cursorlang ties the toolchain together: text is parsed, checked,
// compiled and executed against a drawing surface.
package cursorlang

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shibukawa/cursorlang/canvas"
	"github.com/shibukawa/cursorlang/clock"
	"github.com/shibukawa/cursorlang/compiler"
	"github.com/shibukawa/cursorlang/interpreter"
	"github.com/shibukawa/cursorlang/parser"
	"github.com/shibukawa/cursorlang/source"
	"github.com/shibukawa/cursorlang/typeinference"
)

// Build parses text, checks it when typecheck is set and compiles it.
func Build(text string, typecheck bool) (compiler.Program, error) {
	program, err := parser.ParseProgram(text)
	if err != nil {
		return nil, err
	}

	if typecheck {
		if err := typeinference.CheckProgram(program); err != nil {
			return nil, err
		}
	}

	return compiler.Compile(program), nil
}

// Options configures Run.
type Options struct {
	Typecheck bool
	Clock     clock.Clock // defaults to clock.Unbounded
	Logger    *zerolog.Logger
	RunID     string

	// OnSuspend is called each time the clock pauses the program. Returning
	// nil resumes it. Without a handler Run stops with ErrSuspended.
	OnSuspend func(c *interpreter.EvalContext) error
}

// Run builds text and executes it until it finishes, faults or is
// suspended without handler. The context is returned whenever the program
// got to run so that callers can inspect its state.
func Run(ctx context.Context, text string, surface canvas.Surface, opts Options) (*interpreter.EvalContext, error) {
	code, err := Build(text, opts.Typecheck)
	if err != nil {
		return nil, err
	}

	var evalOpts []interpreter.Option
	if opts.Logger != nil {
		evalOpts = append(evalOpts, interpreter.WithLogger(*opts.Logger))
	}

	if opts.RunID != "" {
		evalOpts = append(evalOpts, interpreter.WithRunID(opts.RunID))
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.Unbounded{}
	}

	c := interpreter.NewEvalContext(code, surface, evalOpts...)
	for {
		if err := c.EvaluateAll(ctx, clk); err != nil {
			return c, err
		}

		if !c.HasNext() {
			return c, nil
		}

		if opts.OnSuspend == nil {
			return c, ErrSuspended
		}

		if err := opts.OnSuspend(c); err != nil {
			return c, err
		}
	}
}

// Diagnostics flattens err into the located faults it carries.
func Diagnostics(err error) []source.Diagnostic {
	if err == nil {
		return nil
	}

	if d, ok := err.(source.Diagnostic); ok {
		return []source.Diagnostic{d}
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var result []source.Diagnostic
		for _, e := range joined.Unwrap() {
			result = append(result, Diagnostics(e)...)
		}

		return result
	}

	return Diagnostics(errors.Unwrap(err))
}

// Render formats every fault of err against text. Errors without a source
// location are printed as they are.
func Render(err error, text string) string {
	diagnostics := Diagnostics(err)
	if len(diagnostics) == 0 {
		return err.Error() + "\n"
	}

	var b strings.Builder
	for _, d := range diagnostics {
		b.WriteString(source.Render(d, text))
	}

	return b.String()
}
