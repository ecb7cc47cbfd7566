package typeinference

import (
	"errors"

	"github.com/shibukawa/cursorlang/parser"
	"github.com/shibukawa/cursorlang/types"
)

// commandArgs lists the accepted types per argument of each instruction.
var commandArgs = map[parser.CommandKind][]types.Set{
	parser.Forward:      {dimensions},
	parser.Backward:     {dimensions},
	parser.Turn:         {dimensions},
	parser.Pos:          {dimensions, dimensions},
	parser.Move:         {dimensions, dimensions},
	parser.Press:        {dimensions},
	parser.Color:        {{types.COLOR}},
	parser.ColorRGB:     {dimensions, dimensions, dimensions},
	parser.Thick:        {dimensions},
	parser.LookAtCursor: {cursorIDs},
	parser.LookAtPos:    {dimensions, dimensions},
	parser.CreateCursor: {cursorIDs},
	parser.SelectCursor: {cursorIDs},
	parser.RemoveCursor: {cursorIDs},
}

// Checker walks statements and records every typing fault it meets.
type Checker struct {
	errs []error
}

// CheckProgram types every expression of program in a fresh root context.
// All faults are returned joined; use AsTypeErrors to list them.
func CheckProgram(program *parser.Program) error {
	c := &Checker{}
	c.statements(NewTypingContext(nil), program.Statements)

	return errors.Join(c.errs...)
}

// CheckIn is CheckProgram against an existing context, which is updated with
// top level declarations.
func CheckIn(ctx *TypingContext, program *parser.Program) error {
	c := &Checker{}
	c.statements(ctx, program.Statements)

	return errors.Join(c.errs...)
}

func (c *Checker) fail(err error) {
	c.errs = append(c.errs, err)
}

func (c *Checker) infer(ctx *TypingContext, e parser.Expr) (types.Type, bool) {
	t, err := Infer(ctx, e)
	if err != nil {
		c.fail(err)
		return 0, false
	}

	return t, true
}

func (c *Checker) expect(ctx *TypingContext, e parser.Expr, accepted types.Set) (types.Type, bool) {
	t, err := expect(ctx, e, accepted...)
	if err != nil {
		c.fail(err)
		return 0, false
	}

	return t, true
}

func (c *Checker) statements(ctx *TypingContext, list []parser.Statement) {
	for _, s := range list {
		c.statement(ctx, s)
	}
}

func (c *Checker) block(ctx *TypingContext, b *parser.Block) {
	if b != nil {
		c.statements(ctx.Child(), b.Statements)
	}
}

func (c *Checker) statement(ctx *TypingContext, s parser.Statement) {
	switch n := s.(type) {
	case *parser.Command:
		for i, arg := range n.Args {
			c.expect(ctx, arg, commandArgs[n.Kind][i])
		}
	case *parser.Declare:
		c.declare(ctx, n)
	case *parser.Assign:
		declared, ok := ctx.Lookup(n.Name)
		if !ok {
			c.fail(&TypeError{Kind: ErrUndefinedVariable, At: n.Range(), Variable: n.Name})
			return
		}

		if t, ok := c.infer(ctx, n.Value); ok && !Assignable(declared, t) {
			c.fail(mismatch(n.Value.Range(), t, declared))
		}
	case *parser.Delete:
		if !ctx.Delete(n.Name) {
			c.fail(&TypeError{Kind: ErrUndefinedVariable, At: n.Range(), Variable: n.Name})
		}
	case *parser.Block:
		c.block(ctx, n)
	case *parser.While:
		c.infer(ctx, n.Cond)
		c.block(ctx, n.Body)
	case *parser.For:
		c.forLoop(ctx, n)
	case *parser.If:
		c.infer(ctx, n.Cond)
		c.block(ctx, n.Then)
		c.block(ctx, n.Else)
	case *parser.Mimic:
		c.expect(ctx, n.Target, cursorIDs)
		c.block(ctx, n.Body)
	case *parser.MirrorCentral:
		c.expect(ctx, n.X, dimensions)
		c.expect(ctx, n.Y, dimensions)
		c.block(ctx, n.Body)
	case *parser.MirrorAxial:
		for _, e := range []parser.Expr{n.X1, n.Y1, n.X2, n.Y2} {
			c.expect(ctx, e, dimensions)
		}
		c.block(ctx, n.Body)
	}
}

// forLoop checks the loop as it runs: the iterator takes the type of From,
// is compared with To and must be able to hold iterator + Step.
func (c *Checker) forLoop(ctx *TypingContext, n *parser.For) {
	loop := ctx.Child()
	iter, ok := c.expect(loop, n.From, dimensions)
	if ok {
		loop.Declare(n.Iterator, iter)
	}

	bound, bok := c.expect(loop, n.To, dimensions)
	if ok && bok && !orderable(iter, bound) {
		c.fail(mismatch(n.To.Range(), bound, orderableWith(iter)...))
	}

	var step parser.Expr = &parser.IntLiteral{Base: parser.Base{Span: n.From.Range()}, Value: 1}
	if n.Step != nil {
		step = n.Step
	}

	if _, sok := c.expect(loop, step, dimensions); ok && sok {
		next, err := Infer(loop, &parser.Binary{
			Base:  parser.Base{Span: step.Range()},
			Op:    parser.Add,
			Left:  &parser.Variable{Base: parser.Base{Span: n.From.Range()}, Name: n.Iterator},
			Right: step,
		})

		switch {
		case err != nil:
			c.fail(err)
		case !Assignable(iter, next):
			c.fail(mismatch(step.Range(), next, iter))
		}
	}

	c.block(loop, n.Body)
}

// orderable reports whether the runtime orders values of types a and b.
func orderable(a, b types.Type) bool {
	return (a.Numeric() && b.Numeric()) || a == b
}

func orderableWith(t types.Type) types.Set {
	if t.Numeric() {
		return numbers
	}

	return types.Set{t}
}

func (c *Checker) declare(ctx *TypingContext, n *parser.Declare) {
	declared := n.Type
	if n.Init != nil {
		t, ok := c.infer(ctx, n.Init)
		switch {
		case ok && n.Infer:
			declared = t
		case ok && !Assignable(declared, t):
			c.fail(mismatch(n.Init.Range(), t, declared))
		}
	}

	if !ctx.Declare(n.Name, declared) {
		c.fail(&TypeError{Kind: ErrDuplicateVariable, At: n.Range(), Variable: n.Name})
	}
}

// Assignable reports whether a value of type value may be stored in a
// variable of type declared. Integers widen to floats.
func Assignable(declared, value types.Type) bool {
	return declared == value || (declared == types.FLOAT && value == types.INT)
}
