// Package parser turns cursor language source into a syntax tree.
package parser

import (
	pc "github.com/shibukawa/cursorlang/combinator"
	"github.com/shibukawa/cursorlang/source"
	tok "github.com/shibukawa/cursorlang/tokenizer"
)

var program = pc.MapWithRange(pc.RepeatUntil(statement, is(tok.EOF)), func(list []Statement, r source.Range) (*Program, error) {
	return &Program{Base: Base{r}, Statements: list}, nil
})

var expressionOnly = pc.Suffixed(expression, is(tok.EOF))

// ParseProgram tokenizes and parses a whole source file.
func ParseProgram(text string) (*Program, error) {
	tokens, err := tok.Tokenize(text)
	if err != nil {
		return nil, err
	}

	return ParseTokens(tokens)
}

// ParseTokens parses a token stream terminated by an EOF token.
func ParseTokens(tokens []tok.Token) (*Program, error) {
	r, err := pc.Parse(program, input(tokens))
	if err != nil {
		return nil, err
	}

	return r.Value, nil
}

// ParseExpression parses text holding a single expression.
func ParseExpression(text string) (Expr, error) {
	tokens, err := tok.Tokenize(text)
	if err != nil {
		return nil, err
	}

	r, err := pc.Parse(expressionOnly, input(tokens))
	if err != nil {
		return nil, err
	}

	return r.Value, nil
}

func input(tokens []tok.Token) *pc.Input[tok.Token] {
	spans := make([]source.Range, len(tokens))
	for i, t := range tokens {
		spans[i] = t.Range
	}

	var end source.Position
	if len(tokens) > 0 {
		end = tokens[len(tokens)-1].Range.To
	}

	return pc.NewInput(tokens, spans, end, tok.Token.Describe)
}
