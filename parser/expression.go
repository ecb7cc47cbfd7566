package parser

import (
	pc "github.com/shibukawa/cursorlang/combinator"
	"github.com/shibukawa/cursorlang/source"
	tok "github.com/shibukawa/cursorlang/tokenizer"
)

type (
	exprParser = pc.Parser[tok.Token, Expr]
	reducer    = func(Expr, Expr) Expr
)

// is matches a single token of type tt.
func is(tt tok.TokenType) pc.Parser[tok.Token, tok.Token] {
	return pc.Satisfy(tt.Spelling(), func(t tok.Token) bool { return t.Type == tt })
}

var expression = expressionGrammar()

// expressionGrammar builds the precedence tiers, lowest binding first. The
// local self reference closes the loop for parenthesized sub-expressions.
func expressionGrammar() exprParser {
	var self exprParser
	recurse := pc.Lazy(func() exprParser { return self })

	invokable := pc.Label(pc.FirstSucceeding(
		literal(),
		variable(),
		parenthesized(recurse),
	), "expression")

	unary := pc.MapWithRange(
		pc.Zip(pc.Repeat(prefixOperator()), pc.Zip(invokable, pc.Optional(is(tok.PERCENT_SIGN)))),
		func(p pc.Pair[[]tok.Token, pc.Pair[Expr, pc.Option[tok.Token]]], r source.Range) (Expr, error) {
			operand := p.Second.First
			for i := len(p.First) - 1; i >= 0; i-- {
				prefix := p.First[i]
				span := prefix.Range.Merge(operand.Range())
				switch prefix.Type {
				case tok.MINUS:
					operand = &Negation{Base: Base{span}, Operand: operand}
				case tok.NOT:
					operand = &Not{Base: Base{span}, Operand: operand}
				}
			}

			if p.Second.Second.Present {
				operand = &PercentOf{Base: Base{r}, Operand: operand}
			}

			return operand, nil
		})

	multiplicative := pc.RepeatReduce(unary, operator("'*' or '/' operator", map[tok.TokenType]BinaryOp{
		tok.MULTIPLY: Mul,
		tok.DIVIDE:   Div,
	}))

	additive := pc.RepeatReduce(multiplicative, operator("'+' or '-' operator", map[tok.TokenType]BinaryOp{
		tok.PLUS:  Add,
		tok.MINUS: Sub,
	}))

	comparison := pc.RepeatReduce(additive, operator("comparison operator", map[tok.TokenType]BinaryOp{
		tok.EQUAL:         Eq,
		tok.NOT_EQUAL:     Ne,
		tok.GREATER_THAN:  Gt,
		tok.LESS_THAN:     Lt,
		tok.GREATER_EQUAL: Ge,
		tok.LESS_EQUAL:    Le,
	}))

	self = pc.RepeatReduce(comparison, operator("'&&' or '||' operator", map[tok.TokenType]BinaryOp{
		tok.AND: And,
		tok.OR:  Or,
	}))

	return recurse
}

// operator recognizes one of the tokens in ops and yields the folding function
// for the matching binary node.
func operator(expected string, ops map[tok.TokenType]BinaryOp) pc.Parser[tok.Token, reducer] {
	match := pc.Satisfy(expected, func(t tok.Token) bool {
		_, ok := ops[t.Type]
		return ok
	})

	return pc.Map(match, func(t tok.Token) (reducer, error) {
		op := ops[t.Type]
		return func(left, right Expr) Expr {
			return &Binary{
				Base:  Base{left.Range().Merge(right.Range())},
				Op:    op,
				Left:  left,
				Right: right,
			}
		}, nil
	})
}

func prefixOperator() pc.Parser[tok.Token, tok.Token] {
	return pc.FirstSucceeding(is(tok.PLUS), is(tok.MINUS), is(tok.NOT))
}

func literal() exprParser {
	return pc.Map(pc.Satisfy("literal", func(t tok.Token) bool {
		switch t.Type {
		case tok.BOOL_LITERAL, tok.STRING_LITERAL, tok.INT_LITERAL, tok.FLOAT_LITERAL, tok.COLOR_LITERAL:
			return true
		}

		return false
	}), func(t tok.Token) (Expr, error) {
		base := Base{t.Range}
		switch t.Type {
		case tok.BOOL_LITERAL:
			return &BoolLiteral{Base: base, Value: t.Bool}, nil
		case tok.STRING_LITERAL:
			return &StringLiteral{Base: base, Value: t.Text()}, nil
		case tok.INT_LITERAL:
			return &IntLiteral{Base: base, Value: t.Int}, nil
		case tok.FLOAT_LITERAL:
			return &FloatLiteral{Base: base, Value: t.Float}, nil
		default:
			c := t.Color
			return &ColorLiteral{Base: base, Red: c.R, Green: c.G, Blue: c.B, Alpha: c.A}, nil
		}
	})
}

func variable() exprParser {
	return pc.Map(is(tok.IDENTIFIER), func(t tok.Token) (Expr, error) {
		return &Variable{Base: Base{t.Range}, Name: t.Value}, nil
	})
}

// parenthesized commits once '(' has been read.
func parenthesized(inner exprParser) exprParser {
	return pc.Prefixed(is(tok.OPENED_PARENS), pc.Fatal(pc.Suffixed(inner, is(tok.CLOSED_PARENS))))
}
