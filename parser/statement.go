package parser

import (
	pc "github.com/shibukawa/cursorlang/combinator"
	"github.com/shibukawa/cursorlang/source"
	tok "github.com/shibukawa/cursorlang/tokenizer"
	"github.com/shibukawa/cursorlang/types"
)

type statementParser = pc.Parser[tok.Token, Statement]

// commandForms lists the instruction forms per keyword, widest arity first.
var commandForms = map[tok.TokenType][]CommandKind{
	tok.FWD:    {Forward},
	tok.BWD:    {Backward},
	tok.TURN:   {Turn},
	tok.POS:    {Pos},
	tok.MOVE:   {Move},
	tok.HIDE:   {Hide},
	tok.SHOW:   {Show},
	tok.PRESS:  {Press},
	tok.COLOR:  {ColorRGB, Color},
	tok.THICK:  {Thick},
	tok.LOOKAT: {LookAtPos, LookAtCursor},
	tok.CURSOR: {CreateCursor},
	tok.SELECT: {SelectCursor},
	tok.REMOVE: {RemoveCursor},
}

// commandOrder keeps alternation deterministic.
var commandOrder = []tok.TokenType{
	tok.FWD, tok.BWD, tok.TURN, tok.POS, tok.MOVE, tok.HIDE, tok.SHOW,
	tok.PRESS, tok.COLOR, tok.THICK, tok.LOOKAT, tok.CURSOR, tok.SELECT, tok.REMOVE,
}

// TypeKeywords maps declaration keywords to value types.
var TypeKeywords = map[tok.TokenType]types.Type{
	tok.BOOL:    types.BOOLEAN,
	tok.STR:     types.STRING,
	tok.INT:     types.INT,
	tok.FLOAT:   types.FLOAT,
	tok.RGBA:    types.COLOR,
	tok.PERCENT: types.PERCENT,
}

var statement = statementGrammar()

func statementGrammar() statementParser {
	var self statementParser
	recurse := pc.Lazy(func() statementParser { return self })

	body := blockBody(recurse)

	self = pc.Label(pc.FirstSucceeding(
		command(),
		declaration(),
		assignment(),
		deletion(),
		whileLoop(body),
		forLoop(body),
		ifElse(body),
		mimic(body),
		mirror(body),
		pc.Map(braced(recurse), func(b *Block) (Statement, error) { return b, nil }),
	), "statement")

	return recurse
}

// arguments parses exactly n comma separated expressions.
func arguments(n int) pc.Parser[tok.Token, []Expr] {
	if n == 0 {
		return pc.Succeed[tok.Token]([]Expr{})
	}

	parsers := make([]pc.Parser[tok.Token, Expr], n)
	parsers[0] = expression
	for i := 1; i < n; i++ {
		parsers[i] = pc.Prefixed(is(tok.COMMA), expression)
	}

	return pc.Sequence(parsers...)
}

func command() statementParser {
	alternatives := make([]statementParser, 0, len(commandOrder))
	for _, keyword := range commandOrder {
		forms := make([]statementParser, 0, 2)
		for _, kind := range commandForms[keyword] {
			forms = append(forms, pc.Map(arguments(kind.Arity()), func(args []Expr) (Statement, error) {
				return &Command{Kind: kind, Args: args}, nil
			}))
		}

		alternatives = append(alternatives, pc.MapWithRange(
			pc.Prefixed(is(keyword), pc.Fatal(pc.FirstSucceeding(forms...))),
			func(s Statement, r source.Range) (Statement, error) {
				s.(*Command).Span = r
				return s, nil
			}))
	}

	return pc.FirstSucceeding(alternatives...)
}

func typeName() pc.Parser[tok.Token, types.Type] {
	match := pc.Satisfy("type name", func(t tok.Token) bool {
		_, ok := TypeKeywords[t.Type]
		return ok
	})

	return pc.Map(match, func(t tok.Token) (types.Type, error) {
		return TypeKeywords[t.Type], nil
	})
}

func identifier() pc.Parser[tok.Token, string] {
	return pc.Map(is(tok.IDENTIFIER), func(t tok.Token) (string, error) { return t.Value, nil })
}

func declaration() statementParser {
	initializer := pc.Optional(pc.Prefixed(is(tok.ASSIGN), pc.Fatal(expression)))

	return pc.MapWithRange(
		pc.Zip(typeName(), pc.Fatal(pc.Zip(identifier(), initializer))),
		func(p pc.Pair[types.Type, pc.Pair[string, pc.Option[Expr]]], r source.Range) (Statement, error) {
			return &Declare{Base: Base{r}, Type: p.First, Name: p.Second.First, Init: p.Second.Second.Value}, nil
		})
}

func assignment() statementParser {
	return pc.MapWithRange(
		pc.Zip(identifier(), pc.Prefixed(is(tok.ASSIGN), pc.Fatal(expression))),
		func(p pc.Pair[string, Expr], r source.Range) (Statement, error) {
			return &Assign{Base: Base{r}, Name: p.First, Value: p.Second}, nil
		})
}

func deletion() statementParser {
	return pc.MapWithRange(
		pc.Prefixed(is(tok.DELETE), pc.Fatal(identifier())),
		func(name string, r source.Range) (Statement, error) {
			return &Delete{Base: Base{r}, Name: name}, nil
		})
}

// braced parses `{ statement* }`; an unclosed brace is fatal.
func braced(stmt statementParser) pc.Parser[tok.Token, *Block] {
	return pc.MapWithRange(
		pc.Prefixed(is(tok.OPENED_BRACE), pc.Fatal(pc.RepeatUntil(stmt, is(tok.CLOSED_BRACE)))),
		func(list []Statement, r source.Range) (*Block, error) {
			return &Block{Base: Base{r}, Statements: list}, nil
		})
}

// blockBody accepts both body forms and is fatal when neither is present.
func blockBody(stmt statementParser) pc.Parser[tok.Token, *Block] {
	arrow := pc.MapWithRange(
		pc.Prefixed(is(tok.ARROW), pc.Fatal(stmt)),
		func(s Statement, r source.Range) (*Block, error) {
			return &Block{Base: Base{r}, Statements: []Statement{s}}, nil
		})

	return pc.Fatal(pc.Label(pc.FirstSucceeding(braced(stmt), arrow), "body"))
}

func whileLoop(body pc.Parser[tok.Token, *Block]) statementParser {
	return pc.MapWithRange(
		pc.Prefixed(is(tok.WHILE), pc.Fatal(pc.Zip(expression, body))),
		func(p pc.Pair[Expr, *Block], r source.Range) (Statement, error) {
			return &While{Base: Base{r}, Cond: p.First, Body: p.Second}, nil
		})
}

type forHeader struct {
	iterator       string
	from, to, step Expr
}

func forLoop(body pc.Parser[tok.Token, *Block]) statementParser {
	header := pc.Map(
		pc.Zip(
			pc.Zip(identifier(), pc.Prefixed(is(tok.FROM), expression)),
			pc.Zip(pc.Prefixed(is(tok.TO), expression), pc.Optional(pc.Prefixed(is(tok.STEP), expression))),
		),
		func(p pc.Pair[pc.Pair[string, Expr], pc.Pair[Expr, pc.Option[Expr]]]) (forHeader, error) {
			return forHeader{
				iterator: p.First.First,
				from:     p.First.Second,
				to:       p.Second.First,
				step:     p.Second.Second.Value,
			}, nil
		})

	return pc.MapWithRange(
		pc.Prefixed(is(tok.FOR), pc.Fatal(pc.Zip(header, body))),
		func(p pc.Pair[forHeader, *Block], r source.Range) (Statement, error) {
			h := p.First
			return &For{Base: Base{r}, Iterator: h.iterator, From: h.from, To: h.to, Step: h.step, Body: p.Second}, nil
		})
}

func ifElse(body pc.Parser[tok.Token, *Block]) statementParser {
	otherwise := pc.Optional(pc.Prefixed(is(tok.ELSE), body))

	return pc.MapWithRange(
		pc.Prefixed(is(tok.IF), pc.Fatal(pc.Zip(expression, pc.Zip(body, otherwise)))),
		func(p pc.Pair[Expr, pc.Pair[*Block, pc.Option[*Block]]], r source.Range) (Statement, error) {
			return &If{Base: Base{r}, Cond: p.First, Then: p.Second.First, Else: p.Second.Second.Value}, nil
		})
}

func mimic(body pc.Parser[tok.Token, *Block]) statementParser {
	return pc.MapWithRange(
		pc.Prefixed(is(tok.MIMIC), pc.Fatal(pc.Zip(expression, body))),
		func(p pc.Pair[Expr, *Block], r source.Range) (Statement, error) {
			return &Mimic{Base: Base{r}, Target: p.First, Body: p.Second}, nil
		})
}

// mirror tries the axial form before the central one.
func mirror(body pc.Parser[tok.Token, *Block]) statementParser {
	axial := pc.Map(pc.Zip(arguments(4), body), func(p pc.Pair[[]Expr, *Block]) (Statement, error) {
		a := p.First
		return &MirrorAxial{X1: a[0], Y1: a[1], X2: a[2], Y2: a[3], Body: p.Second}, nil
	})
	central := pc.Map(pc.Zip(arguments(2), body), func(p pc.Pair[[]Expr, *Block]) (Statement, error) {
		a := p.First
		return &MirrorCentral{X: a[0], Y: a[1], Body: p.Second}, nil
	})

	return pc.MapWithRange(
		pc.Prefixed(is(tok.MIRROR), pc.Fatal(pc.FirstSucceeding(axial, central))),
		func(s Statement, r source.Range) (Statement, error) {
			switch m := s.(type) {
			case *MirrorAxial:
				m.Span = r
			case *MirrorCentral:
				m.Span = r
			}

			return s, nil
		})
}
