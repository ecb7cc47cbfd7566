// Package typeinference computes static types for expressions and checks
// whole programs ahead of execution.
package typeinference

import (
	"github.com/shibukawa/cursorlang/parser"
	"github.com/shibukawa/cursorlang/source"
	"github.com/shibukawa/cursorlang/types"
)

var (
	numbers       = types.Set{types.INT, types.FLOAT}
	dimensions    = types.Set{types.INT, types.FLOAT, types.PERCENT}
	cursorIDs     = types.Set{types.INT, types.STRING}
	productLefts  = types.Set{types.STRING, types.INT, types.FLOAT, types.PERCENT}
	orderedValues = types.Set{types.INT, types.FLOAT, types.STRING, types.PERCENT, types.COLOR}
)

// Infer computes the type of e in ctx.
func Infer(ctx *TypingContext, e parser.Expr) (types.Type, error) {
	switch n := e.(type) {
	case *parser.BoolLiteral:
		return types.BOOLEAN, nil
	case *parser.StringLiteral:
		return types.STRING, nil
	case *parser.IntLiteral:
		return types.INT, nil
	case *parser.FloatLiteral:
		return types.FLOAT, nil
	case *parser.ColorLiteral:
		return types.COLOR, nil
	case *parser.Variable:
		t, ok := ctx.Lookup(n.Name)
		if !ok {
			return 0, &TypeError{Kind: ErrUndefinedVariable, At: n.Range(), Variable: n.Name}
		}

		return t, nil
	case *parser.PercentOf:
		if _, err := expect(ctx, n.Operand, numbers...); err != nil {
			return 0, err
		}

		return types.PERCENT, nil
	case *parser.Negation:
		return expect(ctx, n.Operand, numbers...)
	case *parser.Not:
		return expect(ctx, n.Operand, types.BOOLEAN)
	case *parser.Binary:
		return binary(ctx, n)
	}

	return 0, mismatch(e.Range(), 0)
}

// expect infers e and requires its type to be one of accepted.
func expect(ctx *TypingContext, e parser.Expr, accepted ...types.Type) (types.Type, error) {
	t, err := Infer(ctx, e)
	if err != nil {
		return 0, err
	}

	if !types.Set(accepted).Contains(t) {
		return 0, mismatch(e.Range(), t, accepted...)
	}

	return t, nil
}

func binary(ctx *TypingContext, n *parser.Binary) (types.Type, error) {
	left, err := Infer(ctx, n.Left)
	if err != nil {
		return 0, err
	}

	right, err := Infer(ctx, n.Right)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case parser.Add, parser.Sub:
		return additive(left, right, n.Right.Range())
	case parser.Mul:
		return multiplicative(left, right, n, true)
	case parser.Div:
		return multiplicative(left, right, n, false)
	}

	// Comparison and logical operators yield the left operand's type.
	if !orderedValues.Contains(left) {
		return 0, mismatch(n.Left.Range(), left, orderedValues...)
	}

	return left, nil
}

func additive(left, right types.Type, at source.Range) (types.Type, error) {
	if left == types.STRING || right == types.STRING {
		return types.STRING, nil
	}

	switch left {
	case types.INT, types.FLOAT:
		if right.Numeric() {
			return promote(left, right), nil
		}

		return 0, mismatch(at, right, types.INT, types.FLOAT, types.STRING)
	case types.COLOR, types.PERCENT:
		if right == left {
			return left, nil
		}

		return 0, mismatch(at, right, left, types.STRING)
	}

	return 0, mismatch(at, right, types.STRING)
}

func multiplicative(left, right types.Type, n *parser.Binary, product bool) (types.Type, error) {
	at := n.Right.Range()

	switch left {
	case types.STRING:
		if product && (right.Numeric() || right == types.PERCENT || right == types.BOOLEAN) {
			return types.STRING, nil
		}
		if !product && right.Numeric() {
			return types.STRING, nil
		}
		if product {
			return 0, mismatch(at, right, types.INT, types.FLOAT, types.PERCENT, types.BOOLEAN)
		}

		return 0, mismatch(at, right, numbers...)
	case types.INT, types.FLOAT:
		switch {
		case right.Numeric():
			return promote(left, right), nil
		case right == types.PERCENT:
			return types.FLOAT, nil
		case right == types.COLOR:
			return types.COLOR, nil
		}
	case types.PERCENT:
		switch {
		case right.Numeric():
			return types.PERCENT, nil
		case right == types.PERCENT && product:
			return types.PERCENT, nil
		case right == types.PERCENT:
			return types.FLOAT, nil
		case right == types.COLOR:
			return types.COLOR, nil
		}
	default:
		return 0, mismatch(n.Left.Range(), left, productLefts...)
	}

	return 0, mismatch(at, right, types.INT, types.FLOAT, types.PERCENT, types.COLOR)
}

func promote(left, right types.Type) types.Type {
	if left == types.INT && right == types.INT {
		return types.INT
	}

	return types.FLOAT
}
