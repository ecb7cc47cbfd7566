package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/cursorlang"
	"github.com/shibukawa/cursorlang/canvas"
)

type testIO struct {
	ctx    *Context
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestContext(t *testing.T, stdin string) testIO {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	return testIO{
		ctx: &Context{
			Config: filepath.Join(t.TempDir(), "missing.yaml"),
			Stdin:  strings.NewReader(stdin),
			Stdout: stdout,
			Stderr: stderr,
		},
		stdout: stdout,
		stderr: stderr,
	}
}

func writeProgram(t *testing.T, name, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	return path
}

func TestRunCmd(t *testing.T) {
	t.Run("LinesToStdout", func(t *testing.T) {
		env := newTestContext(t, "")
		cmd := &RunCmd{Input: writeProgram(t, "a.cty", "FWD 10"), Output: "-", Format: "lines"}

		assert.NoError(t, cmd.Run(env.ctx))
		assert.Equal(t, "200,200 -> 200,190 #000000FF 1 1\n", env.stdout.String())
	})

	t.Run("SVGFile", func(t *testing.T) {
		env := newTestContext(t, "")
		output := filepath.Join(t.TempDir(), "out", "a.svg")
		cmd := &RunCmd{Input: writeProgram(t, "a.cty", "FWD 10 TURN 90 FWD 10"), Output: output}

		assert.NoError(t, cmd.Run(env.ctx))

		data, err := os.ReadFile(output)
		assert.NoError(t, err)

		lines, err := canvas.ParseSVG(string(data))
		assert.NoError(t, err)
		assert.Equal(t, 2, len(lines))
		assert.Contains(t, env.stdout.String(), "Wrote "+output)
	})

	t.Run("LiterateDocument", func(t *testing.T) {
		env := newTestContext(t, "")
		doc := "---\ncanvas:\n  width: 20\n  height: 20\n---\n# Doc\n\n## Program\n\n```cty\nFWD 50%\n```\n"
		cmd := &RunCmd{Input: writeProgram(t, "a.cty.md", doc), Output: "-", Format: "lines"}

		assert.NoError(t, cmd.Run(env.ctx))
		assert.Equal(t, "10,10 -> 10,0 #000000FF 1 1\n", env.stdout.String())
	})

	t.Run("FaultIsRendered", func(t *testing.T) {
		env := newTestContext(t, "")
		cmd := &RunCmd{Input: writeProgram(t, "a.cty", "FWD 1 / 0"), Output: "-", Format: "lines"}

		assert.IsError(t, cmd.Run(env.ctx), ErrRunFailed)
		assert.Contains(t, env.stderr.String(), "EVALUATION ERROR at 1:5: division by zero")
		assert.Contains(t, env.stderr.String(), "   1 | FWD 1 / 0")
	})

	t.Run("StepClockWaitsForEnter", func(t *testing.T) {
		env := newTestContext(t, "\n\n")
		cmd := &RunCmd{Input: writeProgram(t, "a.cty", "FWD 1 FWD 1"), Output: "-", Format: "lines", Clock: "step"}

		assert.NoError(t, cmd.Run(env.ctx))
		assert.Equal(t, 2, strings.Count(env.stdout.String(), "->"))
		assert.Equal(t, 2, strings.Count(env.stderr.String(), "press Enter"))
	})

	t.Run("StepClockStopsAtEndOfInput", func(t *testing.T) {
		env := newTestContext(t, "\n")
		cmd := &RunCmd{Input: writeProgram(t, "a.cty", "FWD 1 FWD 1"), Output: "-", Format: "lines", Clock: "step"}

		assert.IsError(t, cmd.Run(env.ctx), ErrRunFailed)
		assert.Equal(t, 1, strings.Count(env.stdout.String(), "->"))
		assert.Contains(t, env.stderr.String(), "program suspended")
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		env := newTestContext(t, "")
		cmd := &RunCmd{Input: "a.cty", Format: "png"}

		assert.IsError(t, cmd.Run(env.ctx), ErrInvalidFormat)
	})

	t.Run("MissingInput", func(t *testing.T) {
		env := newTestContext(t, "")
		cmd := &RunCmd{Input: filepath.Join(t.TempDir(), "none.cty")}

		assert.IsError(t, cmd.Run(env.ctx), ErrInputFileNotExist)
	})
}

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "good.cty"), []byte("INT x = 1 FWD x"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cty"), []byte(`INT x = "s"`), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("FWD ("), 0o644))

	env := newTestContext(t, "")
	cmd := &CheckCmd{Inputs: []string{dir}}

	assert.IsError(t, cmd.Run(env.ctx), ErrCheckFailed)
	assert.Contains(t, env.stderr.String(), "TYPING ERROR")
	assert.Contains(t, env.stdout.String(), "Checked 2 file(s), 1 failed")

	env = newTestContext(t, "")
	cmd = &CheckCmd{Inputs: []string{filepath.Join(dir, "bad.cty")}, NoTypecheck: true}
	assert.NoError(t, cmd.Run(env.ctx))
}

func TestDumpCmd(t *testing.T) {
	path := writeProgram(t, "a.cty", "FWD 1")

	env := newTestContext(t, "")
	assert.NoError(t, (&DumpCmd{Input: path, Format: "text"}).Run(env.ctx))
	assert.Contains(t, env.stdout.String(), "0000  PUSH")
	assert.Contains(t, env.stdout.String(), "FORWARD")

	env = newTestContext(t, "")
	assert.NoError(t, (&DumpCmd{Input: path, Format: "yaml"}).Run(env.ctx))
	assert.Contains(t, env.stdout.String(), "op: FORWARD")

	env = newTestContext(t, "")
	assert.NoError(t, (&DumpCmd{Input: path, Format: "json"}).Run(env.ctx))

	var entries []map[string]any
	assert.NoError(t, json.Unmarshal(env.stdout.Bytes(), &entries))
	assert.Equal(t, "FORWARD", entries[1]["op"])
	assert.Equal(t, "END", entries[len(entries)-1]["op"])
}

func TestTokensCmd(t *testing.T) {
	env := newTestContext(t, "FWD 10")
	assert.NoError(t, (&TokensCmd{Input: "-"}).Run(env.ctx))

	lines := strings.Split(strings.TrimSpace(env.stdout.String()), "\n")
	assert.Equal(t, 2, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "1:1"))
	assert.True(t, strings.HasSuffix(lines[1], "10"))

	env = newTestContext(t, `PRINT "open`)
	assert.IsError(t, (&TokensCmd{Input: "-"}).Run(env.ctx), ErrCheckFailed)
	assert.Contains(t, env.stderr.String(), "PARSING ERROR")
}

func TestFormatCmd(t *testing.T) {
	env := newTestContext(t, "FWD   10 TURN 90")
	assert.NoError(t, (&FormatCmd{}).Run(env.ctx))
	assert.Equal(t, "FWD 10\nTURN 90", strings.TrimSpace(env.stdout.String()))

	path := writeProgram(t, "a.cty", "FWD   10")
	env = newTestContext(t, "")
	assert.IsError(t, (&FormatCmd{Input: path, Check: true}).Run(env.ctx), ErrFileNotFormatted)

	env = newTestContext(t, "")
	assert.NoError(t, (&FormatCmd{Input: filepath.Dir(path), Write: true}).Run(env.ctx))
	assert.Contains(t, env.stdout.String(), "Formatted: "+path)

	env = newTestContext(t, "")
	assert.NoError(t, (&FormatCmd{Input: path, Check: true}).Run(env.ctx))

	env = newTestContext(t, "")
	assert.NoError(t, (&FormatCmd{Input: writeProgram(t, "b.cty", "FWD   1"), Diff: true}).Run(env.ctx))
	assert.Contains(t, env.stdout.String(), "-FWD   1\n+FWD 1\n")
}

func TestInitAndTestCmd(t *testing.T) {
	dir := t.TempDir()

	env := newTestContext(t, "")
	assert.NoError(t, (&InitCmd{Dir: dir}).Run(env.ctx))
	assert.Contains(t, env.stdout.String(), "initialized successfully")

	config, err := cursorlang.LoadConfig(filepath.Join(dir, "cursorlang.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "./out", config.Output.Dir)

	env = newTestContext(t, "")
	assert.IsError(t, (&InitCmd{Dir: dir}).Run(env.ctx), ErrAlreadyInitialized)
	assert.NoError(t, (&InitCmd{Dir: dir, Force: true}).Run(env.ctx))

	env = newTestContext(t, "")
	assert.NoError(t, (&TestCmd{Path: filepath.Join(dir, "examples")}).Run(env.ctx))
	assert.Contains(t, env.stdout.String(), "1 total, 1 passed, 0 failed")

	failing := filepath.Join(dir, "examples", "failing.cty.md")
	assert.NoError(t, os.WriteFile(failing, []byte("# Fail\n\n## Program\n\n```cty\nFWD 1\n```\n\n## Expect\n\n```cel\ncursors == 2\n```\n"), 0o644))

	env = newTestContext(t, "")
	assert.IsError(t, (&TestCmd{Path: filepath.Join(dir, "examples")}).Run(env.ctx), cursorlang.ErrTestsFailed)
	assert.Contains(t, env.stdout.String(), "expected cursors == 2")

	env = newTestContext(t, "")
	assert.NoError(t, (&TestCmd{Path: filepath.Join(dir, "examples"), RunPattern: "Square"}).Run(env.ctx))
}

func TestVersionCmd(t *testing.T) {
	env := newTestContext(t, "")
	assert.NoError(t, (&VersionCmd{}).Run(env.ctx))
	assert.Equal(t, "cursorlang v0.1.0\n", env.stdout.String())
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "square.svg"), outputPath("out", "docs/square.cty.md", cursorlang.FormatSVG))
	assert.Equal(t, filepath.Join("out", "a.lines"), outputPath("out", "a.cty", cursorlang.FormatLines))
	assert.Equal(t, filepath.Join(".", "stdin.svg"), outputPath(".", "<stdin>", cursorlang.FormatSVG))
}

func TestSerializedNeverOverlaps(t *testing.T) {
	var running, overlaps, calls atomic.Int32

	run := serialized(func() {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(time.Millisecond)
		calls.Add(1)
		running.Add(-1)
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(16), calls.Load())
	assert.Equal(t, int32(0), overlaps.Load())
}
