package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:"cursorlang.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Run     RunCmd     `cmd:"" help:"Run a program and write its drawing"`
	Check   CheckCmd   `cmd:"" help:"Parse and type check programs"`
	Dump    DumpCmd    `cmd:"" help:"Print the compiled bytecode of a program"`
	Tokens  TokensCmd  `cmd:"" help:"Print the tokens of a program"`
	Fmt     FormatCmd  `cmd:"" help:"Format program files"`
	Test    TestCmd    `cmd:"" help:"Run literate program documents"`
	Init    InitCmd    `cmd:"" help:"Initialize a new cursorlang project"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Stdout, "cursorlang v0.1.0")
	return nil
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("cursorlang"),
		kong.Description("Toolchain for the cursor drawing language"),
		kong.UsageOnError(),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	err := kctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
