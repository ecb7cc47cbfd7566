package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/shibukawa/cursorlang"
	"github.com/shibukawa/cursorlang/compiler"
	"github.com/shibukawa/cursorlang/tokenizer"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Inputs      []string `arg:"" optional:"" help:"Program files or directories (default: .)"`
	NoTypecheck bool     `help:"Only parse, skip type checking"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	inputs := cmd.Inputs
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	var files []string

	for _, input := range inputs {
		found, err := collectProgramFiles(input)
		if err != nil {
			return err
		}

		files = append(files, found...)
	}

	failed := 0

	for _, file := range files {
		p, err := loadProgram(ctx, file)
		if err == nil {
			_, err = cursorlang.Build(p.Text, !cmd.NoTypecheck)
		}

		if err != nil {
			failed++

			if p == nil {
				fmt.Fprintf(ctx.Stderr, "%s: %v\n", file, err)
			} else {
				printDiagnostics(ctx.Stderr, err, p)
			}

			continue
		}

		if ctx.Verbose {
			color.New(color.FgGreen).Fprintf(ctx.Stdout, "ok %s\n", file)
		}
	}

	if !ctx.Quiet {
		fmt.Fprintf(ctx.Stdout, "Checked %d file(s), %d failed\n", len(files), failed)
	}

	if failed > 0 {
		return ErrCheckFailed
	}

	return nil
}

// DumpCmd represents the dump command
type DumpCmd struct {
	Input       string `arg:"" help:"Program file, literate document or - for stdin"`
	Format      string `short:"f" help:"Listing format: text, yaml or json" default:"text" enum:"text,yaml,json"`
	NoTypecheck bool   `help:"Skip type checking"`
}

// Run executes the dump command
func (cmd *DumpCmd) Run(ctx *Context) error {
	p, err := loadProgram(ctx, cmd.Input)
	if err != nil {
		return err
	}

	code, err := cursorlang.Build(p.Text, !cmd.NoTypecheck)
	if err != nil {
		printDiagnostics(ctx.Stderr, err, p)
		return ErrCheckFailed
	}

	switch cmd.Format {
	case "yaml":
		encoder := yaml.NewEncoder(ctx.Stdout)
		encoder.SetIndent(2)

		if err := encoder.Encode(code.Listing()); err != nil {
			return fmt.Errorf("failed to encode listing: %w", err)
		}

		return encoder.Close()
	case "json":
		data, err := json.MarshalIndent(code.Listing(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode listing: %w", err)
		}

		_, err = fmt.Fprintln(ctx.Stdout, string(data))

		return err
	case "text", "":
		_, err := fmt.Fprint(ctx.Stdout, compiler.Disassemble(code))
		return err
	}

	return fmt.Errorf("%w: '%s'", ErrInvalidFormat, cmd.Format)
}

// TokensCmd represents the tokens command
type TokensCmd struct {
	Input string `arg:"" help:"Program file, literate document or - for stdin"`
}

// Run executes the tokens command
func (cmd *TokensCmd) Run(ctx *Context) error {
	p, err := loadProgram(ctx, cmd.Input)
	if err != nil {
		return err
	}

	tokens, err := tokenizer.Tokenize(p.Text)
	if err != nil {
		printDiagnostics(ctx.Stderr, err, p)
		return ErrCheckFailed
	}

	for _, token := range tokens {
		if token.Type == tokenizer.EOF {
			continue
		}

		fmt.Fprintf(ctx.Stdout, "%-8s %-18s %s\n", token.Range.From, token.Type, token.Value)
	}

	return nil
}

// collectProgramFiles expands a directory into the programs below it.
func collectProgramFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputFileNotExist, root)
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && (strings.HasPrefix(info.Name(), ".") || strings.HasPrefix(info.Name(), "_")) {
				return filepath.SkipDir
			}

			return nil
		}

		if isProgramFile(path) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// isProgramFile checks if a file holds a program or a literate document
func isProgramFile(filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	return strings.HasSuffix(base, ".cty") || strings.HasSuffix(base, ".cty.md")
}
