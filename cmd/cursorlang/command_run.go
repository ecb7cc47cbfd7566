package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shibukawa/cursorlang"
	"github.com/shibukawa/cursorlang/canvas"
	"github.com/shibukawa/cursorlang/clock"
	"github.com/shibukawa/cursorlang/interpreter"
)

// ErrRunFailed is returned after the diagnostics of a failed run were printed.
var ErrRunFailed = errors.New("program failed")

const watchDebounce = 200 * time.Millisecond

// RunCmd represents the run command
type RunCmd struct {
	Input  string `arg:"" help:"Program file, literate document or - for stdin"`
	Output string `short:"o" help:"Output file (default: <output.dir>/<name>.<ext>, - for stdout)"`
	Format string `short:"f" help:"Output format: svg or lines (default: output.format)"`
	Clock  string `help:"Clock override: unbounded, fps, step or timebox"`
	Watch  bool   `short:"w" help:"Run again whenever the input file changes"`
}

// Run executes the run command
func (cmd *RunCmd) Run(ctx *Context) error {
	config, err := cursorlang.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Format != "" {
		if cmd.Format != cursorlang.FormatSVG && cmd.Format != cursorlang.FormatLines {
			return fmt.Errorf("%w: '%s'", ErrInvalidFormat, cmd.Format)
		}

		config.Output.Format = cmd.Format
	}

	if cmd.Clock != "" {
		config.Run.Clock = cmd.Clock
	}

	logger := newLogger(ctx, config.Log.Level)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !cmd.Watch {
		return cmd.execute(sigCtx, ctx, config, logger)
	}

	if cmd.Input == "-" {
		return ErrWatchNeedsFile
	}

	return cmd.watch(sigCtx, ctx, config, logger)
}

// execute runs the input once and writes its drawing.
func (cmd *RunCmd) execute(runCtx context.Context, ctx *Context, config *cursorlang.Config, logger zerolog.Logger) error {
	p, err := loadProgram(ctx, cmd.Input)
	if err != nil {
		return err
	}

	width, height := config.Canvas.Width, config.Canvas.Height
	if p.Canvas.Width > 0 {
		width = p.Canvas.Width
	}

	if p.Canvas.Height > 0 {
		height = p.Canvas.Height
	}

	clk, step, err := config.Run.NewClock()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	runLogger := logger.With().Str("file", p.Path).Logger()

	var (
		svg      *canvas.SVG
		recorder *canvas.Recorder
		surface  canvas.Surface
	)

	if config.Output.Format == cursorlang.FormatLines {
		recorder = canvas.NewRecorder(width, height)
		surface = recorder
	} else {
		svg = canvas.NewSVG(width, height, config.Canvas.Background, runID)
		surface = svg
	}

	runLogger.Info().Str("run", runID).Str("clock", config.Run.Clock).Msg("start")
	start := time.Now()

	c, err := cursorlang.Run(runCtx, p.Text, surface, cursorlang.Options{
		Typecheck: config.Run.TypecheckEnabled(),
		Clock:     clk,
		Logger:    &runLogger,
		RunID:     runID,
		OnSuspend: cmd.suspendHandler(ctx, step, runLogger),
	})

	if c != nil {
		if werr := cmd.writeOutput(ctx, config, p, svg, recorder); werr != nil {
			return werr
		}
	}

	if err != nil {
		printDiagnostics(ctx.Stderr, err, p)
		runLogger.Error().Str("run", runID).Dur("elapsed", time.Since(start)).Msg("failed")

		return ErrRunFailed
	}

	runLogger.Info().Str("run", runID).Dur("elapsed", time.Since(start)).Msg("finished")

	return nil
}

// suspendHandler resumes the step clock on Enter. Other clocks pause only to
// mark frame boundaries and continue at once.
func (cmd *RunCmd) suspendHandler(ctx *Context, step *clock.Step, logger zerolog.Logger) func(*interpreter.EvalContext) error {
	if step == nil {
		return func(c *interpreter.EvalContext) error {
			logger.Debug().Int("pc", c.PC).Msg("frame")
			return nil
		}
	}

	reader := bufio.NewReader(ctx.Stdin)

	return func(c *interpreter.EvalContext) error {
		fmt.Fprintf(ctx.Stderr, "paused at %d, press Enter to step ", c.PC)

		if _, err := reader.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return cursorlang.ErrSuspended
			}

			return err
		}

		step.Resume()

		return nil
	}
}

func (cmd *RunCmd) writeOutput(ctx *Context, config *cursorlang.Config, p *program, svg *canvas.SVG, recorder *canvas.Recorder) error {
	target := cmd.Output
	if target == "" {
		target = outputPath(config.Output.Dir, p.Path, config.Output.Format)
	}

	var w io.Writer = ctx.Stdout

	if target != "-" {
		if err := ensureDir(filepath.Dir(target)); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		file, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", target, err)
		}
		defer file.Close()

		w = file
	}

	var err error
	if recorder != nil {
		err = recorder.WriteText(w)
	} else {
		_, err = svg.WriteTo(w)
	}

	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if target != "-" && !ctx.Quiet {
		color.New(color.FgGreen).Fprintf(ctx.Stdout, "Wrote %s\n", target)
	}

	return nil
}

// watch runs the input and runs it again after every change until
// interrupted. Failures are reported and do not stop watching.
func (cmd *RunCmd) watch(runCtx context.Context, ctx *Context, config *cursorlang.Config, logger zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(cmd.Input)
	if err != nil {
		return err
	}

	// Editors often replace files, so the directory is watched.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cmd.Input, err)
	}

	rerun := serialized(func() {
		if err := cmd.execute(runCtx, ctx, config, logger); err != nil && !errors.Is(err, ErrRunFailed) {
			logger.Error().Err(err).Msg("run")
		}
	})

	rerun()
	logger.Info().Str("file", cmd.Input).Msg("watching for changes")

	debounced := debounce.New(watchDebounce)

	for {
		select {
		case <-runCtx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			logger.Debug().Str("event", event.Op.String()).Msg("change")
			debounced(rerun)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn().Err(err).Msg("watcher")
		}
	}
}
