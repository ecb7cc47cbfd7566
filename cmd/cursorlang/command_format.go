package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shibukawa/cursorlang/formatter"
)

// FormatCmd represents the fmt command
type FormatCmd struct {
	Input string `arg:"" optional:"" help:"Input file or directory (default: stdin)"`
	Write bool   `short:"w" help:"Write result to input file instead of stdout"`
	Check bool   `short:"c" help:"Check if files are formatted (exit 1 if not)"`
	Diff  bool   `short:"d" help:"Show diff instead of rewriting files"`
}

// Run executes the fmt command
func (cmd *FormatCmd) Run(ctx *Context) error {
	if cmd.Input == "" {
		return cmd.formatFromReader(ctx, ctx.Stdin, "<stdin>")
	}

	info, err := os.Stat(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}

	if !info.IsDir() {
		return cmd.formatFile(ctx, cmd.Input)
	}

	files, err := collectProgramFiles(cmd.Input)
	if err != nil {
		return err
	}

	var hasErrors bool

	for _, file := range files {
		if err := cmd.formatFile(ctx, file); err != nil {
			fmt.Fprintf(ctx.Stderr, "Error formatting %s: %v\n", file, err)

			hasErrors = true

			continue
		}

		if cmd.Write && !ctx.Quiet {
			fmt.Fprintf(ctx.Stdout, "Formatted: %s\n", file)
		}
	}

	if hasErrors {
		return ErrFormattingErrors
	}

	return nil
}

func (cmd *FormatCmd) formatFile(ctx *Context, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	return cmd.formatFromReader(ctx, file, filename)
}

// formatFromReader formats one program or literate document
func (cmd *FormatCmd) formatFromReader(ctx *Context, reader io.Reader, filename string) error {
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var formatted string

	if formatter.IsMarkdownFile(filename) {
		formatted, err = formatter.NewMarkdownFormatter().Format(string(input))
	} else {
		formatted, err = formatter.NewFormatter().Format(string(input))
	}

	if err != nil {
		return fmt.Errorf("failed to format %s: %w", filename, err)
	}

	switch {
	case cmd.Check:
		if strings.TrimSpace(string(input)) != strings.TrimSpace(formatted) {
			fmt.Fprintf(ctx.Stderr, "%s is not formatted\n", filename)
			return ErrFileNotFormatted
		}

		return nil
	case cmd.Diff:
		showDiff(ctx.Stdout, string(input), formatted, filename)
		return nil
	case cmd.Write && filename != "<stdin>":
		return os.WriteFile(filename, []byte(formatted), 0o644)
	}

	_, err = io.WriteString(ctx.Stdout, formatted)

	return err
}

// showDiff prints the lines that differ between original and formatted
func showDiff(w io.Writer, original, formatted, filename string) {
	if strings.TrimSpace(original) == strings.TrimSpace(formatted) {
		return
	}

	fmt.Fprintf(w, "--- %s (original)\n", filename)
	fmt.Fprintf(w, "+++ %s (formatted)\n", filename)

	originalLines := strings.Split(original, "\n")
	formattedLines := strings.Split(formatted, "\n")

	for i := range max(len(originalLines), len(formattedLines)) {
		var origLine, formLine string

		if i < len(originalLines) {
			origLine = originalLines[i]
		}

		if i < len(formattedLines) {
			formLine = formattedLines[i]
		}

		if origLine == formLine {
			continue
		}

		if origLine != "" {
			fmt.Fprintf(w, "-%s\n", origLine)
		}

		if formLine != "" {
			fmt.Fprintf(w, "+%s\n", formLine)
		}
	}
}
