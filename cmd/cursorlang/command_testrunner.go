package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shibukawa/cursorlang"
	"github.com/shibukawa/cursorlang/testrunner"
)

// TestCmd represents the test command
type TestCmd struct {
	Path        string `arg:"" optional:"" help:"Document or directory to run (default: current directory)"`
	RunPattern  string `help:"Run only documents whose path or title matches the regular expression" short:"r"`
	Timeout     string `help:"Per document timeout (default: run.timeout)"`
	NoTypecheck bool   `help:"Skip type checking"`
}

// Run executes the test command
func (cmd *TestCmd) Run(ctx *Context) error {
	config, err := cursorlang.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	root := cmd.Path
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	timeout := config.Run.TimeoutDuration()
	if cmd.Timeout != "" {
		timeout, err = time.ParseDuration(cmd.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout duration: %w", err)
		}
	}

	runner := testrunner.NewRunner(root)
	runner.SetVerbose(ctx.Verbose)
	runner.SetOutput(ctx.Stdout)
	runner.SetCanvas(config.Canvas.Width, config.Canvas.Height)
	runner.SetTypecheck(config.Run.TypecheckEnabled() && !cmd.NoTypecheck)
	runner.SetTimeout(timeout)

	if err := runner.SetRunPattern(cmd.RunPattern); err != nil {
		return err
	}

	if ctx.Verbose {
		fmt.Fprintf(ctx.Stdout, "Running literate programs in: %s\n", root)
		fmt.Fprintf(ctx.Stdout, "Timeout: %s\n", timeout)
	}

	summary, err := runner.RunAll(context.Background())
	if err != nil {
		return fmt.Errorf("test execution failed: %w", err)
	}

	if !ctx.Quiet || summary.Failed > 0 {
		runner.PrintSummary(summary)
	}

	if summary.Failed > 0 {
		return cursorlang.ErrTestsFailed
	}

	return nil
}
