package tokenizer

import (
	"fmt"
	"regexp"
	"strconv"

	pc "github.com/shibukawa/cursorlang/combinator"
	"github.com/shibukawa/cursorlang/source"
)

type lexer = pc.Parser[rune, Token]

var (
	whitespacePattern = regexp.MustCompile(`^(?:\s|//[^\n]*)+`)
	wordPattern       = regexp.MustCompile(`^[\pL_][\pL\pN_]*`)
	floatPattern      = regexp.MustCompile(`^[0-9]+\.[0-9]+`)
	intPattern        = regexp.MustCompile(`^[0-9]+`)
	stringPattern     = regexp.MustCompile(`^[^"\n]*"`)
	hexPattern        = regexp.MustCompile(`^[0-9A-Za-z]+`)
)

// symbols are ordered longest first so that "&&" wins over "&".
var symbols = []struct {
	text string
	tt   TokenType
}{
	{"&&", AND},
	{"||", OR},
	{"==", EQUAL},
	{"!=", NOT_EQUAL},
	{">=", GREATER_EQUAL},
	{"<=", LESS_EQUAL},
	{"->", ARROW},
	{"+", PLUS},
	{"-", MINUS},
	{"*", MULTIPLY},
	{"/", DIVIDE},
	{"%", PERCENT_SIGN},
	{"!", NOT},
	{">", GREATER_THAN},
	{"<", LESS_THAN},
	{"=", ASSIGN},
	{"(", OPENED_PARENS},
	{")", CLOSED_PARENS},
	{"{", OPENED_BRACE},
	{"}", CLOSED_BRACE},
	{",", COMMA},
}

var (
	skipWhitespace = pc.Optional(pc.Regexp(whitespacePattern, "whitespace"))

	// token tries every recognizer in priority order after skipping blanks.
	token = pc.Prefixed(skipWhitespace, pc.Label(pc.FirstSucceeding(
		booleanLiteral(),
		stringLiteral(),
		floatLiteral(),
		intLiteral(),
		colorLiteral(),
		symbol(),
		keyword(),
		identifier(),
	), "token"))

	trailer = pc.Prefixed(skipWhitespace, pc.End[rune]("token"))

	tokens = pc.Repeat(token)
)

// Tokenize converts source text into tokens terminated by an EOF token.
func Tokenize(text string) ([]Token, error) {
	in := pc.Runes(text)

	r, err := pc.Parse(tokens, in)
	if err != nil {
		return nil, err
	}

	end, err := trailer(r.Next)
	if err != nil {
		// re-run the recognizers to report why nothing matched
		if _, terr := token(r.Next); terr != nil {
			return nil, terr
		}

		return nil, err
	}

	result := append(r.Value, Token{Type: EOF, Range: end.Range})

	return result, nil
}

func build(tt TokenType) func(string, source.Range) (Token, error) {
	return func(text string, r source.Range) (Token, error) {
		return Token{Type: tt, Value: text, Range: r}, nil
	}
}

func word() pc.Parser[rune, string] {
	return pc.Regexp(wordPattern, "word")
}

func booleanLiteral() lexer {
	return pc.MapWithRange(word(), func(w string, r source.Range) (Token, error) {
		switch w {
		case "true":
			return Token{Type: BOOL_LITERAL, Value: w, Range: r, Bool: true}, nil
		case "false":
			return Token{Type: BOOL_LITERAL, Value: w, Range: r}, nil
		}

		return Token{}, &pc.Error{At: r, Expected: []string{"boolean"}, Actual: "'" + w + "'"}
	})
}

func stringLiteral() lexer {
	body := pc.Fatal(pc.Regexp(stringPattern, "closing '\"'"))

	return pc.MapWithRange(pc.Prefixed(pc.Literal(`"`), body), func(rest string, r source.Range) (Token, error) {
		return Token{Type: STRING_LITERAL, Value: `"` + rest, Range: r}, nil
	})
}

func floatLiteral() lexer {
	return pc.MapWithRange(pc.Regexp(floatPattern, "float"), func(text string, r source.Range) (Token, error) {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, &pc.Error{Fatal: true, At: r, Reason: fmt.Sprintf("%v: %s", ErrInvalidNumber, text), Cause: ErrInvalidNumber}
		}

		return Token{Type: FLOAT_LITERAL, Value: text, Range: r, Float: v}, nil
	})
}

func intLiteral() lexer {
	return pc.MapWithRange(pc.Regexp(intPattern, "integer"), func(text string, r source.Range) (Token, error) {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Token{}, &pc.Error{Fatal: true, At: r, Reason: fmt.Sprintf("%v: %s is out of range", ErrInvalidNumber, text), Cause: ErrInvalidNumber}
		}

		return Token{Type: INT_LITERAL, Value: text, Range: r, Int: v}, nil
	})
}

func colorLiteral() lexer {
	digits := pc.Fatal(pc.Regexp(hexPattern, "hex digits"))

	return pc.MapWithRange(pc.Prefixed(pc.Literal("#"), digits), func(hex string, r source.Range) (Token, error) {
		c, err := ParseHex(hex)
		if err != nil {
			return Token{}, &pc.Error{Fatal: true, At: r, Reason: err.Error(), Cause: err}
		}

		return Token{Type: COLOR_LITERAL, Value: "#" + hex, Range: r, Color: c}, nil
	})
}

func symbol() lexer {
	alternatives := make([]lexer, 0, len(symbols))
	for _, s := range symbols {
		alternatives = append(alternatives, pc.MapWithRange(pc.Literal(s.text), build(s.tt)))
	}

	return pc.FirstSucceeding(alternatives...)
}

func keyword() lexer {
	return pc.MapWithRange(word(), func(w string, r source.Range) (Token, error) {
		if tt, ok := Keywords[w]; ok {
			return Token{Type: tt, Value: w, Range: r}, nil
		}

		return Token{}, &pc.Error{At: r, Expected: []string{"keyword"}, Actual: "'" + w + "'"}
	})
}

func identifier() lexer {
	return pc.MapWithRange(word(), build(IDENTIFIER))
}

// Text returns the payload of a string literal.
func (t Token) Text() string {
	if t.Type != STRING_LITERAL || len(t.Value) < 2 {
		return t.Value
	}

	return t.Value[1 : len(t.Value)-1]
}
