package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

var ErrAlreadyInitialized = errors.New("file already exists (use --force to overwrite)")

// InitCmd represents the init command
type InitCmd struct {
	Dir   string `arg:"" optional:"" help:"Project directory (default: current directory)"`
	Force bool   `help:"Overwrite existing files"`
}

const sampleConfig = `# Drawing surface used by run and test
canvas:
  width: 400
  height: 400
  background: "#FFFFFF"

run:
  clock: unbounded  # unbounded, fps, step or timebox
  fps: 30
  timebox: 16ms
  typecheck: true
  timeout: 5s       # per literate program in 'cursorlang test'

output:
  dir: "./out"
  format: svg       # svg or lines

log:
  level: info
`

const sampleDocument = "---\n" +
	"canvas:\n" +
	"  width: 200\n" +
	"  height: 200\n" +
	"---\n" +
	"# Square\n" +
	"\n" +
	"Draws a square starting at the center of the canvas.\n" +
	"\n" +
	"## Program\n" +
	"\n" +
	"```cty\n" +
	"INT side = 40\n" +
	"FOR i FROM 0 TO 4 {\n" +
	"    FWD side\n" +
	"    TURN 90\n" +
	"}\n" +
	"```\n" +
	"\n" +
	"## Expect\n" +
	"\n" +
	"```cel\n" +
	"size(lines) == 4\n" +
	"vars.side == 40\n" +
	"cursors == 1\n" +
	"```\n"

func (i *InitCmd) Run(ctx *Context) error {
	dir := i.Dir
	if dir == "" {
		dir = "."
	}

	if ctx.Verbose {
		color.New(color.FgBlue).Fprintf(ctx.Stdout, "Initializing cursorlang project in %s\n", dir)
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, "cursorlang.yaml"), sampleConfig},
		{filepath.Join(dir, "examples", "square.cty.md"), sampleDocument},
	}

	for _, f := range files {
		if fileExists(f.path) && !i.Force {
			return fmt.Errorf("%w: %s", ErrAlreadyInitialized, f.path)
		}
	}

	for _, f := range files {
		if err := ensureDir(filepath.Dir(f.path)); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(f.path), err)
		}

		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}

		if ctx.Verbose {
			color.New(color.FgGreen).Fprintf(ctx.Stdout, "Created: %s\n", f.path)
		}
	}

	if !ctx.Quiet {
		color.New(color.FgGreen).Fprintln(ctx.Stdout, "cursorlang project initialized successfully")
		fmt.Fprintln(ctx.Stdout, "\nNext steps:")
		fmt.Fprintln(ctx.Stdout, "1. Edit cursorlang.yaml to configure the canvas and clock")
		fmt.Fprintln(ctx.Stdout, "2. Run 'cursorlang run examples/square.cty.md' to draw the sample")
		fmt.Fprintln(ctx.Stdout, "3. Run 'cursorlang test examples' to check its expectations")
	}

	return nil
}
