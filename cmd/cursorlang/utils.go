package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/shibukawa/cursorlang"
	"github.com/shibukawa/cursorlang/formatter"
	"github.com/shibukawa/cursorlang/markdownparser"
	"github.com/shibukawa/cursorlang/source"
)

var headerFmt = color.New(color.FgRed, color.Bold).SprintFunc()

// program is a source file ready to build. Literate documents contribute
// their program section and canvas settings.
type program struct {
	Path   string
	Text   string
	Canvas markdownparser.CanvasSettings
}

// loadProgram reads a plain program or a literate document. "-" reads stdin.
func loadProgram(ctx *Context, path string) (*program, error) {
	if path == "-" {
		data, err := io.ReadAll(ctx.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return &program{Path: "<stdin>", Text: string(data)}, nil
	}

	if !fileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrInputFileNotExist, path)
	}

	if formatter.IsMarkdownFile(path) {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", path, err)
		}
		defer file.Close()

		doc, err := markdownparser.Parse(file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		return &program{Path: path, Text: doc.Program, Canvas: doc.Canvas}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return &program{Path: path, Text: string(data)}, nil
}

// newLogger builds the console logger. --verbose forces debug and --quiet
// keeps only errors.
func newLogger(ctx *Context, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	switch {
	case ctx.Verbose:
		lvl = zerolog.DebugLevel
	case ctx.Quiet:
		lvl = zerolog.ErrorLevel
	}

	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = ctx.Stderr
		w.NoColor = color.NoColor
		w.TimeFormat = time.TimeOnly
	})).Level(lvl).With().Timestamp().Logger()
}

// printDiagnostics writes every located fault of err with a colored header.
func printDiagnostics(w io.Writer, err error, p *program) {
	diagnostics := cursorlang.Diagnostics(err)
	if len(diagnostics) == 0 {
		fmt.Fprintf(w, "%s: %v\n", p.Path, err)
		return
	}

	for _, d := range diagnostics {
		header, rest, _ := strings.Cut(source.Render(d, p.Text), "\n")
		fmt.Fprintf(w, "%s: %s\n%s", p.Path, headerFmt(header), rest)
	}
}

// outputPath places the drawing of input in dir with an extension
// matching format.
func outputPath(dir, input, format string) string {
	base := filepath.Base(input)
	if base == "<stdin>" {
		base = "stdin"
	}

	for _, ext := range []string{".cty.md", ".md", ".cty"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}

	ext := ".svg"
	if format == cursorlang.FormatLines {
		ext = ".lines"
	}

	return filepath.Join(dir, base+ext)
}

// ensureDir creates a directory if it doesn't exist
func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}

	return nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// serialized wraps f so that concurrent callers run it one at a time.
func serialized(f func()) func() {
	var mu sync.Mutex

	return func() {
		mu.Lock()
		defer mu.Unlock()

		f()
	}
}
