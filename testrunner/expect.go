package testrunner

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/shibukawa/cursorlang/canvas"
	"github.com/shibukawa/cursorlang/interpreter"
	"github.com/shibukawa/cursorlang/value"
)

var ErrInvalidExpectation = errors.New("invalid expectation")

// Expectations are CEL expressions over
//
//	vars    map(string, dyn)        visible variables after the run
//	lines   list(map(string, dyn))  from_x, from_y, to_x, to_y, color, opacity, thickness
//	cursors int                     number of visible cursors
func newEnvironment() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("vars", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("lines", cel.ListType(cel.MapType(cel.StringType, cel.DynType))),
		cel.Variable("cursors", cel.IntType),
	)
}

// evaluate compiles and runs one boolean expectation.
func evaluate(env *cel.Env, expression string, activation map[string]any) (bool, error) {
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidExpectation, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidExpectation, err)
	}

	out, _, err := prg.Eval(activation)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidExpectation, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: result is %v, not a boolean", ErrInvalidExpectation, out.Value())
	}

	return result, nil
}

// snapshot exposes the final state of a run to CEL.
func snapshot(c *interpreter.EvalContext, lines []canvas.Line) map[string]any {
	vars := map[string]any{}
	for name, v := range c.Scope().Variables() {
		vars[name] = native(v)
	}

	strokes := make([]any, len(lines))
	for i, l := range lines {
		strokes[i] = map[string]any{
			"from_x":    l.FromX,
			"from_y":    l.FromY,
			"to_x":      l.ToX,
			"to_y":      l.ToY,
			"color":     l.Color.Hex(),
			"opacity":   l.Opacity,
			"thickness": l.Thickness,
		}
	}

	return map[string]any{
		"vars":    vars,
		"lines":   strokes,
		"cursors": int64(len(c.Scope().CursorIDs())),
	}
}

// native converts a runtime value; colors become #RRGGBBAA strings and
// percentages plain numbers.
func native(v value.Value) any {
	switch v := v.(type) {
	case value.Bool:
		return bool(v)
	case value.Int:
		return int64(v)
	case value.Float:
		return float64(v)
	case value.Percentage:
		return float64(v)
	case value.Str:
		return string(v)
	}

	return v.String()
}
