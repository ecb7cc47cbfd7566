package cursorlang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/cursorlang/canvas"
	"github.com/shibukawa/cursorlang/clock"
	"github.com/shibukawa/cursorlang/compiler"
	"github.com/shibukawa/cursorlang/interpreter"
	"github.com/shibukawa/cursorlang/value"
)

func TestBuild(t *testing.T) {
	code, err := Build("FWD 10", true)
	require.NoError(t, err)
	assert.Equal(t, compiler.OpEnd, code[len(code)-1].Op)

	_, err = Build("FWD (1", false)
	require.Error(t, err)

	diagnostics := Diagnostics(err)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "PARSING ERROR", diagnostics[0].Header())
	assert.Contains(t, Render(err, "FWD (1"), "PARSING ERROR at 1:")
}

func TestBuildCollectsTypeErrors(t *testing.T) {
	src := `INT x = "a" y = 1`

	_, err := Build(src, true)
	require.Error(t, err)

	diagnostics := Diagnostics(err)
	require.Len(t, diagnostics, 2)
	assert.Equal(t, "TYPING ERROR", diagnostics[0].Header())
	assert.Equal(t, "TYPING ERROR", diagnostics[1].Header())

	_, err = Build(src, false)
	assert.NoError(t, err)

	_, err = Build("FOR i FROM 0 TO 1 STEP 0.5 { FWD 1 }", true)
	require.Error(t, err)
	diagnostics = Diagnostics(err)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "TYPING ERROR", diagnostics[0].Header())
}

func TestRun(t *testing.T) {
	recorder := canvas.NewRecorder(100, 100)

	c, err := Run(context.Background(), "INT n = 2 FWD n * 5", recorder, Options{Typecheck: true})
	require.NoError(t, err)
	assert.Equal(t, interpreter.Finished, c.Status())
	assert.Equal(t, value.Value(value.Int(2)), c.Scope().Variables()["n"])
	assert.Len(t, recorder.Lines, 1)
}

func TestRunSuspension(t *testing.T) {
	step := clock.NewStep()

	c, err := Run(context.Background(), "FWD 1 FWD 1", canvas.NewRecorder(10, 10), Options{Clock: step})
	assert.ErrorIs(t, err, ErrSuspended)
	assert.Equal(t, interpreter.Suspended, c.Status())

	suspensions := 0
	recorder := canvas.NewRecorder(10, 10)
	c, err = Run(context.Background(), "FWD 1 FWD 1", recorder, Options{
		Clock: step,
		OnSuspend: func(*interpreter.EvalContext) error {
			suspensions++
			step.Resume()

			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, suspensions)
	assert.Len(t, recorder.Lines, 2)
	assert.Equal(t, interpreter.Finished, c.Status())
}

func TestRunFaultRendering(t *testing.T) {
	src := "FWD 1 / 0"

	c, err := Run(context.Background(), src, canvas.NewRecorder(10, 10), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, interpreter.ErrDivisionByZero)
	assert.Equal(t, interpreter.Faulted, c.Status())
	assert.Equal(t,
		"EVALUATION ERROR at 1:5: division by zero\n"+
			"   1 | FWD 1 / 0\n"+
			"     |     ^^^^^\n",
		Render(err, src))
}

func TestRenderPlainError(t *testing.T) {
	assert.Equal(t, "program suspended\n", Render(ErrSuspended, ""))
}
