package parser

import (
	"github.com/shibukawa/cursorlang/source"
	"github.com/shibukawa/cursorlang/types"
)

// Node is implemented by every syntax tree element.
type Node interface {
	Range() source.Range
}

// Expr is a closed set of expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Statement is a closed set of statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Base carries the source range shared by all nodes.
type Base struct {
	Span source.Range
}

// Range implements Node.
func (b Base) Range() source.Range {
	return b.Span
}

// Expressions

type BoolLiteral struct {
	Base
	Value bool
}

type StringLiteral struct {
	Base
	Value string
}

type IntLiteral struct {
	Base
	Value int64
}

type FloatLiteral struct {
	Base
	Value float64
}

// ColorLiteral channels are in [0, 1].
type ColorLiteral struct {
	Base
	Red, Green, Blue, Alpha float64
}

// PercentOf turns a number into a percentage: `50%`.
type PercentOf struct {
	Base
	Operand Expr
}

type Negation struct {
	Base
	Operand Expr
}

type Not struct {
	Base
	Operand Expr
}

// Variable reads an identifier.
type Variable struct {
	Base
	Name string
}

// BinaryOp enumerates every infix operator.
type BinaryOp int

const (
	Add BinaryOp = iota + 1
	Sub
	Mul
	Div
	And
	Or
	Eq
	Ne
	Gt
	Lt
	Ge
	Le
)

var binarySymbols = map[BinaryOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/",
	And: "&&", Or: "||",
	Eq: "==", Ne: "!=", Gt: ">", Lt: "<", Ge: ">=", Le: "<=",
}

func (op BinaryOp) String() string {
	return binarySymbols[op]
}

// Arithmetic reports whether op is one of + - * /.
func (op BinaryOp) Arithmetic() bool {
	return op >= Add && op <= Div
}

// Logical reports whether op is && or ||.
func (op BinaryOp) Logical() bool {
	return op == And || op == Or
}

// Comparison reports whether op compares its operands.
func (op BinaryOp) Comparison() bool {
	return op >= Eq && op <= Le
}

// Precedence is higher for tighter binding operators.
func (op BinaryOp) Precedence() int {
	switch {
	case op == Mul || op == Div:
		return 4
	case op == Add || op == Sub:
		return 3
	case op.Comparison():
		return 2
	default:
		return 1
	}
}

type Binary struct {
	Base
	Op          BinaryOp
	Left, Right Expr
}

func (*BoolLiteral) exprNode()   {}
func (*StringLiteral) exprNode() {}
func (*IntLiteral) exprNode()    {}
func (*FloatLiteral) exprNode()  {}
func (*ColorLiteral) exprNode()  {}
func (*PercentOf) exprNode()     {}
func (*Negation) exprNode()      {}
func (*Not) exprNode()           {}
func (*Variable) exprNode()      {}
func (*Binary) exprNode()        {}

// Statements

// CommandKind identifies a cursor instruction.
type CommandKind int

const (
	Forward CommandKind = iota + 1
	Backward
	Turn
	Pos
	Move
	Hide
	Show
	Press
	Color
	ColorRGB
	Thick
	LookAtCursor
	LookAtPos
	CreateCursor
	SelectCursor
	RemoveCursor
)

var commandNames = map[CommandKind]string{
	Forward:      "FWD",
	Backward:     "BWD",
	Turn:         "TURN",
	Pos:          "POS",
	Move:         "MOVE",
	Hide:         "HIDE",
	Show:         "SHOW",
	Press:        "PRESS",
	Color:        "COLOR",
	ColorRGB:     "COLOR",
	Thick:        "THICK",
	LookAtCursor: "LOOKAT",
	LookAtPos:    "LOOKAT",
	CreateCursor: "CURSOR",
	SelectCursor: "SELECT",
	RemoveCursor: "REMOVE",
}

// Keyword returns the source keyword of the instruction.
func (k CommandKind) Keyword() string {
	return commandNames[k]
}

// Arity is the number of arguments k takes.
func (k CommandKind) Arity() int {
	switch k {
	case Hide, Show:
		return 0
	case Pos, Move, LookAtPos:
		return 2
	case ColorRGB:
		return 3
	default:
		return 1
	}
}

// Command is a cursor instruction such as `FWD 10`.
type Command struct {
	Base
	Kind CommandKind
	Args []Expr
}

// Declare introduces a variable in the current scope. Infer is set for
// loop iterators whose type follows their initial value.
type Declare struct {
	Base
	Type  types.Type
	Name  string
	Init  Expr
	Infer bool
}

type Assign struct {
	Base
	Name  string
	Value Expr
}

type Delete struct {
	Base
	Name string
}

// Block is a nested scope: `{ ... }` or `-> statement`.
type Block struct {
	Base
	Statements []Statement
}

type While struct {
	Base
	Cond Expr
	Body *Block
}

// For iterates from From while the iterator is below To. Step is nil when
// omitted.
type For struct {
	Base
	Iterator       string
	From, To, Step Expr
	Body           *Block
}

type If struct {
	Base
	Cond Expr
	Then *Block
	Else *Block
}

// Mimic repeats the strokes of the cursor identified by Target.
type Mimic struct {
	Base
	Target Expr
	Body   *Block
}

// MirrorCentral mirrors strokes through the point (X, Y).
type MirrorCentral struct {
	Base
	X, Y Expr
	Body *Block
}

// MirrorAxial mirrors strokes across the line through two points.
type MirrorAxial struct {
	Base
	X1, Y1, X2, Y2 Expr
	Body           *Block
}

func (*Command) statementNode()       {}
func (*Declare) statementNode()       {}
func (*Assign) statementNode()        {}
func (*Delete) statementNode()        {}
func (*Block) statementNode()         {}
func (*While) statementNode()         {}
func (*For) statementNode()           {}
func (*If) statementNode()            {}
func (*Mimic) statementNode()         {}
func (*MirrorCentral) statementNode() {}
func (*MirrorAxial) statementNode()   {}

// Program is the root of a parsed source file.
type Program struct {
	Base
	Statements []Statement
}
