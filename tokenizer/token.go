package tokenizer

import (
	"errors"
	"strconv"

	"github.com/shibukawa/cursorlang/source"
)

// Sentinel errors
var (
	ErrInvalidColor  = errors.New("invalid color literal")
	ErrInvalidNumber = errors.New("invalid number format")
)

// TokenType represents the type of a token
type TokenType int

const (
	EOF TokenType = iota

	// Literals
	BOOL_LITERAL   // true, false
	STRING_LITERAL // "text"
	FLOAT_LITERAL  // 1.5
	INT_LITERAL    // 42
	COLOR_LITERAL  // #F00, #FF000080

	// Operators and punctuation
	PLUS           // +
	MINUS          // -
	MULTIPLY       // *
	DIVIDE         // /
	PERCENT_SIGN   // %
	NOT            // !
	AND            // &&
	OR             // ||
	EQUAL          // ==
	NOT_EQUAL      // !=
	GREATER_THAN   // >
	LESS_THAN      // <
	GREATER_EQUAL  // >=
	LESS_EQUAL     // <=
	ASSIGN         // =
	OPENED_PARENS  // (
	CLOSED_PARENS  // )
	OPENED_BRACE   // {
	CLOSED_BRACE   // }
	COMMA          // ,
	ARROW          // ->

	// Instruction keywords
	FWD
	BWD
	TURN
	POS
	MOVE
	HIDE
	SHOW
	PRESS
	COLOR
	THICK
	LOOKAT
	CURSOR
	SELECT
	REMOVE

	// Control keywords
	WHILE
	FOR
	FROM
	TO
	STEP
	IF
	ELSE
	MIMIC
	MIRROR
	DELETE

	// Type keywords
	BOOL
	STR
	INT
	FLOAT
	RGBA
	PERCENT

	IDENTIFIER
)

var tokenNames = map[TokenType]string{
	EOF:            "EOF",
	BOOL_LITERAL:   "BOOL_LITERAL",
	STRING_LITERAL: "STRING_LITERAL",
	FLOAT_LITERAL:  "FLOAT_LITERAL",
	INT_LITERAL:    "INT_LITERAL",
	COLOR_LITERAL:  "COLOR_LITERAL",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	MULTIPLY:       "MULTIPLY",
	DIVIDE:         "DIVIDE",
	PERCENT_SIGN:   "PERCENT_SIGN",
	NOT:            "NOT",
	AND:            "AND",
	OR:             "OR",
	EQUAL:          "EQUAL",
	NOT_EQUAL:      "NOT_EQUAL",
	GREATER_THAN:   "GREATER_THAN",
	LESS_THAN:      "LESS_THAN",
	GREATER_EQUAL:  "GREATER_EQUAL",
	LESS_EQUAL:     "LESS_EQUAL",
	ASSIGN:         "ASSIGN",
	OPENED_PARENS:  "OPENED_PARENS",
	CLOSED_PARENS:  "CLOSED_PARENS",
	OPENED_BRACE:   "OPENED_BRACE",
	CLOSED_BRACE:   "CLOSED_BRACE",
	COMMA:          "COMMA",
	ARROW:          "ARROW",
	IDENTIFIER:     "IDENTIFIER",
}

// Keywords maps reserved words to their token types.
var Keywords = map[string]TokenType{
	"FWD":     FWD,
	"BWD":     BWD,
	"TURN":    TURN,
	"POS":     POS,
	"MOVE":    MOVE,
	"HIDE":    HIDE,
	"SHOW":    SHOW,
	"PRESS":   PRESS,
	"COLOR":   COLOR,
	"THICK":   THICK,
	"LOOKAT":  LOOKAT,
	"CURSOR":  CURSOR,
	"SELECT":  SELECT,
	"REMOVE":  REMOVE,
	"WHILE":   WHILE,
	"FOR":     FOR,
	"FROM":    FROM,
	"TO":      TO,
	"STEP":    STEP,
	"IF":      IF,
	"ELSE":    ELSE,
	"MIMIC":   MIMIC,
	"MIRROR":  MIRROR,
	"DELETE":  DELETE,
	"BOOL":    BOOL,
	"STR":     STR,
	"INT":     INT,
	"FLOAT":   FLOAT,
	"RGBA":    RGBA,
	"PERCENT": PERCENT,
}

var literalNames = map[TokenType]string{
	EOF:            "end of file",
	BOOL_LITERAL:   "boolean",
	STRING_LITERAL: "string",
	FLOAT_LITERAL:  "float",
	INT_LITERAL:    "integer",
	COLOR_LITERAL:  "color",
	IDENTIFIER:     "identifier",
}

var spellings = map[TokenType]string{}

func init() {
	for word, tt := range Keywords {
		tokenNames[tt] = word
		spellings[tt] = word
	}

	for _, s := range symbols {
		spellings[s.tt] = s.text
	}
}

// String returns the string representation of TokenType
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return "UNKNOWN(" + strconv.Itoa(int(t)) + ")"
}

// Spelling returns what a parser expects to see for t, e.g. "'FWD'", "'+'"
// or "identifier".
func (t TokenType) Spelling() string {
	if name, ok := literalNames[t]; ok {
		return name
	}

	if text, ok := spellings[t]; ok {
		return "'" + text + "'"
	}

	return t.String()
}

// IsKeyword reports whether t is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t >= FWD && t <= PERCENT
}

// Token represents one lexeme. Literal payloads are decoded once.
type Token struct {
	Type  TokenType
	Value string
	Range source.Range

	Bool  bool
	Int   int64
	Float float64
	Color Color
}

// Describe renders the token for parser diagnostics.
func (t Token) Describe() string {
	if t.Type == EOF {
		return "end of file"
	}

	return "'" + t.Value + "'"
}

// Equivalent reports whether two tokens are equal apart from their ranges.
func (t Token) Equivalent(other Token) bool {
	t.Range = source.Range{}
	other.Range = source.Range{}

	return t == other
}
