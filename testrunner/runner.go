// Package testrunner executes literate program documents and checks their
// expectations.
package testrunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shibukawa/cursorlang"
	"github.com/shibukawa/cursorlang/canvas"
	"github.com/shibukawa/cursorlang/markdownparser"
)

// Status is the outcome of one document.
type Status string

const (
	Passed  Status = "passed"
	Failed  Status = "failed"
	Skipped Status = "skipped"
)

var (
	passedFmt  = color.New(color.FgGreen, color.Bold).SprintFunc()
	failedFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
	skippedFmt = color.New(color.FgYellow).SprintFunc()
	titleCaser = cases.Title(language.English)
)

// Result represents the result of a single document
type Result struct {
	File     string
	Title    string
	Status   Status
	Duration time.Duration
	Failures []string
	Error    error
}

// Summary represents the overall execution summary
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
	Results  []Result
}

// Runner runs every literate program below a root path.
type Runner struct {
	root       string
	width      float64
	height     float64
	typecheck  bool
	timeout    time.Duration
	verbose    bool
	runPattern *regexp.Regexp
	out        io.Writer
}

// NewRunner creates a runner with a 400x400 canvas and type checking on.
func NewRunner(root string) *Runner {
	return &Runner{
		root:      root,
		width:     400,
		height:    400,
		typecheck: true,
		timeout:   5 * time.Second,
		out:       os.Stdout,
	}
}

// SetVerbose enables or disables verbose output
func (r *Runner) SetVerbose(verbose bool) {
	r.verbose = verbose
}

// SetRunPattern filters documents by file path or title.
func (r *Runner) SetRunPattern(pattern string) error {
	if pattern == "" {
		r.runPattern = nil
		return nil
	}

	regex, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid run pattern: %w", err)
	}

	r.runPattern = regex

	return nil
}

// SetCanvas sets the canvas size used when a document does not set one.
func (r *Runner) SetCanvas(width, height float64) {
	r.width, r.height = width, height
}

func (r *Runner) SetTypecheck(typecheck bool) {
	r.typecheck = typecheck
}

// SetTimeout bounds the run time of each document.
func (r *Runner) SetTimeout(timeout time.Duration) {
	r.timeout = timeout
}

func (r *Runner) SetOutput(w io.Writer) {
	r.out = w
}

// RunAll executes every document found below the root.
func (r *Runner) RunAll(ctx context.Context) (*Summary, error) {
	files, err := findDocuments(r.root)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", cursorlang.ErrNoDocuments, r.root)
	}

	if r.verbose {
		fmt.Fprintf(r.out, "Found %d documents\n", len(files))
	}

	summary := &Summary{Results: make([]Result, 0, len(files))}
	start := time.Now()

	for _, file := range files {
		result, selected := r.RunFile(ctx, file)
		if !selected {
			continue
		}

		summary.Results = append(summary.Results, result)
		summary.Total++

		switch result.Status {
		case Passed:
			summary.Passed++
		case Failed:
			summary.Failed++
		case Skipped:
			summary.Skipped++
		}

		if r.verbose {
			fmt.Fprintf(r.out, "--- %s: %s (%.3fs)\n", strings.ToUpper(string(result.Status)), result.File, result.Duration.Seconds())
		}
	}

	summary.Duration = time.Since(start)

	return summary, nil
}

// RunFile parses and runs one document. It reports false when the document
// does not match the run pattern.
func (r *Runner) RunFile(ctx context.Context, path string) (Result, bool) {
	file, err := os.Open(path)
	if err != nil {
		return Result{File: path, Status: Failed, Error: err, Failures: []string{err.Error()}}, r.matches(path, "")
	}
	defer file.Close()

	doc, err := markdownparser.Parse(file)
	if err != nil {
		return Result{File: path, Status: Failed, Error: err, Failures: []string{err.Error()}}, r.matches(path, "")
	}

	if !r.matches(path, doc.Title) {
		return Result{}, false
	}

	result := r.RunDocument(ctx, doc)
	result.File = path

	return result, true
}

func (r *Runner) matches(path, title string) bool {
	return r.runPattern == nil || r.runPattern.MatchString(path) || (title != "" && r.runPattern.MatchString(title))
}

// RunDocument runs the program of doc and evaluates its expectations.
func (r *Runner) RunDocument(ctx context.Context, doc *markdownparser.Document) Result {
	start := time.Now()
	result := r.runDocument(ctx, doc)
	result.Duration = time.Since(start)

	return result
}

func (r *Runner) runDocument(ctx context.Context, doc *markdownparser.Document) Result {
	result := Result{Title: doc.Title, Status: Passed}

	if doc.Skip {
		result.Status = Skipped
		return result
	}

	width, height := r.width, r.height
	if doc.Canvas.Width > 0 {
		width = doc.Canvas.Width
	}

	if doc.Canvas.Height > 0 {
		height = doc.Canvas.Height
	}

	recorder := canvas.NewRecorder(width, height)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	c, err := cursorlang.Run(runCtx, doc.Program, recorder, cursorlang.Options{Typecheck: r.typecheck})
	if err != nil {
		result.Status = Failed
		result.Error = err

		if errors.Is(err, context.DeadlineExceeded) {
			result.Failures = append(result.Failures, fmt.Sprintf("did not finish within %s", r.timeout))
		} else {
			result.Failures = append(result.Failures, strings.TrimRight(cursorlang.Render(err, doc.Program), "\n"))
		}

		return result
	}

	env, err := newEnvironment()
	if err != nil {
		result.Status = Failed
		result.Error = err

		return result
	}

	activation := snapshot(c, recorder.Lines)
	for _, expectation := range doc.Expectations {
		ok, err := evaluate(env, expectation.Expression, activation)

		switch {
		case err != nil:
			result.Failures = append(result.Failures, fmt.Sprintf("line %d: %s: %v", expectation.Line, expectation.Expression, err))
		case !ok:
			result.Failures = append(result.Failures, fmt.Sprintf("line %d: expected %s", expectation.Line, expectation.Expression))
		}
	}

	if len(result.Failures) > 0 {
		result.Status = Failed
	}

	return result
}

// PrintSummary prints the execution summary
func (r *Runner) PrintSummary(summary *Summary) {
	fmt.Fprintf(r.out, "\n=== Literate Program Summary ===\n")
	fmt.Fprintf(r.out, "Documents: %d total, %d passed, %d failed, %d skipped\n",
		summary.Total, summary.Passed, summary.Failed, summary.Skipped)
	fmt.Fprintf(r.out, "Duration: %.3fs\n", summary.Duration.Seconds())

	for _, result := range summary.Results {
		label := titleCaser.String(string(result.Status))

		switch result.Status {
		case Passed:
			label = passedFmt(label)
		case Failed:
			label = failedFmt(label)
		default:
			label = skippedFmt(label)
		}

		fmt.Fprintf(r.out, "  %s %s", label, result.File)
		if result.Title != "" {
			fmt.Fprintf(r.out, " (%s)", result.Title)
		}

		fmt.Fprintln(r.out)

		for _, failure := range result.Failures {
			for _, line := range strings.Split(failure, "\n") {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}

	if summary.Failed == 0 {
		fmt.Fprintf(r.out, "\nAll literate programs passed! ✅\n")
	} else {
		fmt.Fprintf(r.out, "\nSome literate programs failed! ❌\n")
	}
}
