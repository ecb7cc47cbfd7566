package testrunner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/cursorlang"
	"github.com/shibukawa/cursorlang/markdownparser"
)

const fence = "```"

func document(program string, expectations ...string) string {
	var b strings.Builder
	b.WriteString("# " + "Doc\n\n## Program\n\n" + fence + "cty\n" + program + "\n" + fence + "\n")

	if len(expectations) > 0 {
		b.WriteString("\n## Expect\n\n" + fence + "cel\n" + strings.Join(expectations, "\n") + "\n" + fence + "\n")
	}

	return b.String()
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func project(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	write(t, dir, "square.cty.md", "---\ncanvas:\n  width: 100\n  height: 100\n---\n"+
		strings.Replace(document(
			"INT side = 10\nFOR i FROM 0 TO 4 { FWD side TURN 90 }",
			"size(lines) == 4",
			"vars.side == 10",
			"lines[0].from_x == 50.0 && lines[0].to_y == 40.0",
			"lines[0].color == \"#000000FF\"",
			"cursors == 1",
		), "# Doc", "# Square", 1))
	write(t, dir, "nested/failing.cty.md", document("FWD 1", "size(lines) == 2"))
	write(t, dir, "nested/broken.cty.md", document("FWD (1"))
	write(t, dir, "skipped.cty.md", "---\nskip: true\n---\n"+document("FWD 1"))
	write(t, dir, "notes.md", "# Not a program\n")
	write(t, dir, ".cache/hidden.cty.md", document("FWD (1"))

	return dir
}

func TestRunAll(t *testing.T) {
	runner := NewRunner(project(t))

	var out bytes.Buffer
	runner.SetOutput(&out)

	summary, err := runner.RunAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)

	byName := map[string]Result{}
	for _, result := range summary.Results {
		byName[filepath.Base(result.File)] = result
	}

	assert.Equal(t, Passed, byName["square.cty.md"].Status)
	assert.Equal(t, "Square", byName["square.cty.md"].Title)
	assert.Equal(t, []string{"line 12: expected size(lines) == 2"}, byName["failing.cty.md"].Failures)
	assert.Contains(t, byName["broken.cty.md"].Failures[0], "PARSING ERROR at 1:")

	runner.PrintSummary(summary)
	assert.Contains(t, out.String(), "Documents: 4 total, 1 passed, 2 failed, 1 skipped")
	assert.Contains(t, out.String(), "Passed "+byName["square.cty.md"].File+" (Square)")
	assert.Contains(t, out.String(), "Some literate programs failed!")
}

func TestRunPattern(t *testing.T) {
	runner := NewRunner(project(t))
	assert.NoError(t, runner.SetRunPattern("Square"))

	summary, err := runner.RunAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Passed)

	assert.Error(t, runner.SetRunPattern("("))
}

func TestNoDocuments(t *testing.T) {
	_, err := NewRunner(t.TempDir()).RunAll(context.Background())
	assert.IsError(t, err, cursorlang.ErrNoDocuments)
}

func TestInvalidExpectations(t *testing.T) {
	runner := NewRunner(".")
	result := runner.RunDocument(context.Background(), &markdownparser.Document{
		Program: "FWD 1",
		Expectations: []markdownparser.Expectation{
			{Expression: "lines.foo", Line: 1},
			{Expression: "cursors + 1", Line: 2},
		},
	})

	assert.Equal(t, Failed, result.Status)
	assert.Equal(t, 2, len(result.Failures))
	assert.Contains(t, result.Failures[0], "line 1: lines.foo: invalid expectation")
	assert.Contains(t, result.Failures[1], "not a boolean")
}

func TestTimeout(t *testing.T) {
	runner := NewRunner(".")
	runner.SetTimeout(20 * time.Millisecond)

	result := runner.RunDocument(context.Background(), &markdownparser.Document{Program: "WHILE true { }"})
	assert.Equal(t, Failed, result.Status)
	assert.Equal(t, []string{"did not finish within 20ms"}, result.Failures)
}

func TestCanvasOverride(t *testing.T) {
	runner := NewRunner(".")
	runner.SetCanvas(10, 10)

	result := runner.RunDocument(context.Background(), &markdownparser.Document{
		Program:      "FWD 50%",
		Canvas:       markdownparser.CanvasSettings{Width: 200},
		Expectations: []markdownparser.Expectation{{Expression: "lines[0].to_y == -95.0", Line: 1}},
	})
	assert.Equal(t, Passed, result.Status, "%v", result.Failures)
}

func TestExamples(t *testing.T) {
	config, err := cursorlang.LoadConfig(filepath.Join("..", "examples", "cursorlang.yaml"))
	assert.NoError(t, err)

	runner := NewRunner(filepath.Join("..", "examples"))
	runner.SetCanvas(config.Canvas.Width, config.Canvas.Height)
	runner.SetTimeout(config.Run.TimeoutDuration())

	summary, err := runner.RunAll(context.Background())
	assert.NoError(t, err)

	for _, result := range summary.Results {
		assert.Equal(t, Passed, result.Status, "%s: %v", result.File, result.Failures)
	}

	assert.Equal(t, 4, summary.Total)
}
