// Package formatter prints syntax trees back as canonical source text.
package formatter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shibukawa/cursorlang/parser"
	"github.com/shibukawa/cursorlang/tokenizer"
	"github.com/shibukawa/cursorlang/types"
)

var typeKeywords = map[types.Type]string{}

func init() {
	for tt, t := range parser.TypeKeywords {
		typeKeywords[t] = tt.String()
	}
}

// Formatter prints programs with gofmt-like layout. Comments are dropped.
type Formatter struct {
	indentSize int
}

// NewFormatter creates a formatter indenting blocks by four spaces.
func NewFormatter() *Formatter {
	return &Formatter{
		indentSize: 4,
	}
}

// Format parses source and prints it back canonically.
func (f *Formatter) Format(src string) (string, error) {
	program, err := parser.ParseProgram(src)
	if err != nil {
		return "", fmt.Errorf("failed to parse program: %w", err)
	}

	return f.FormatProgram(program), nil
}

// FormatProgram prints every top level statement on its own line.
func (f *Formatter) FormatProgram(program *parser.Program) string {
	var b strings.Builder
	for _, s := range program.Statements {
		f.statement(&b, s, 0)
		b.WriteString("\n")
	}

	return b.String()
}

func (f *Formatter) indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat(" ", depth*f.indentSize))
}

func (f *Formatter) statement(b *strings.Builder, s parser.Statement, depth int) {
	f.indent(b, depth)

	switch n := s.(type) {
	case *parser.Command:
		b.WriteString(n.Kind.Keyword())
		if len(n.Args) > 0 {
			b.WriteString(" ")
			b.WriteString(list(n.Args...))
		}
	case *parser.Declare:
		b.WriteString(typeKeywords[n.Type] + " " + n.Name)
		if n.Init != nil {
			b.WriteString(" = " + Expression(n.Init))
		}
	case *parser.Assign:
		b.WriteString(n.Name + " = " + Expression(n.Value))
	case *parser.Delete:
		b.WriteString("DELETE " + n.Name)
	case *parser.Block:
		f.block(b, n, depth)
	case *parser.While:
		b.WriteString("WHILE " + Expression(n.Cond) + " ")
		f.block(b, n.Body, depth)
	case *parser.For:
		fmt.Fprintf(b, "FOR %s FROM %s TO %s ", n.Iterator, Expression(n.From), Expression(n.To))
		if n.Step != nil {
			b.WriteString("STEP " + Expression(n.Step) + " ")
		}
		f.block(b, n.Body, depth)
	case *parser.If:
		b.WriteString("IF " + Expression(n.Cond) + " ")
		f.block(b, n.Then, depth)
		if n.Else != nil {
			b.WriteString(" ELSE ")
			f.block(b, n.Else, depth)
		}
	case *parser.Mimic:
		b.WriteString("MIMIC " + Expression(n.Target) + " ")
		f.block(b, n.Body, depth)
	case *parser.MirrorCentral:
		b.WriteString("MIRROR " + list(n.X, n.Y) + " ")
		f.block(b, n.Body, depth)
	case *parser.MirrorAxial:
		b.WriteString("MIRROR " + list(n.X1, n.Y1, n.X2, n.Y2) + " ")
		f.block(b, n.Body, depth)
	}
}

func (f *Formatter) block(b *strings.Builder, block *parser.Block, depth int) {
	if len(block.Statements) == 0 {
		b.WriteString("{}")
		return
	}

	b.WriteString("{\n")
	for _, s := range block.Statements {
		f.statement(b, s, depth+1)
		b.WriteString("\n")
	}
	f.indent(b, depth)
	b.WriteString("}")
}

func list(args ...parser.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Expression(a)
	}

	return strings.Join(parts, ", ")
}

// Expression prints e with the minimum parentheses needed to parse back to
// the same tree.
func Expression(e parser.Expr) string {
	switch n := e.(type) {
	case *parser.BoolLiteral:
		if n.Value {
			return "true"
		}
		return "false"
	case *parser.StringLiteral:
		return `"` + n.Value + `"`
	case *parser.IntLiteral:
		return fmt.Sprint(n.Value)
	case *parser.FloatLiteral:
		return Float(n.Value)
	case *parser.ColorLiteral:
		c := tokenizer.Color{R: n.Red, G: n.Green, B: n.Blue, A: n.Alpha}
		if n.Alpha == 1 {
			return c.RGB()
		}
		return c.Hex()
	case *parser.Variable:
		return n.Name
	case *parser.PercentOf:
		return operand(n.Operand, false) + "%"
	case *parser.Negation:
		return "-" + operand(n.Operand, true)
	case *parser.Not:
		return "!" + operand(n.Operand, true)
	case *parser.Binary:
		left := Expression(n.Left)
		if l, ok := n.Left.(*parser.Binary); ok && l.Op.Precedence() < n.Op.Precedence() {
			left = "(" + left + ")"
		}

		right := Expression(n.Right)
		if r, ok := n.Right.(*parser.Binary); ok && r.Op.Precedence() <= n.Op.Precedence() {
			right = "(" + right + ")"
		}

		return left + " " + n.Op.String() + " " + right
	}

	return ""
}

// operand wraps anything that is not an atom. Prefix operators may stack
// directly under a suffix `%`, never the reverse.
func operand(e parser.Expr, prefix bool) string {
	switch e.(type) {
	case *parser.Binary, *parser.PercentOf:
		return "(" + Expression(e) + ")"
	case *parser.Negation, *parser.Not:
		if prefix {
			return "(" + Expression(e) + ")"
		}
	}

	return Expression(e)
}

// Float prints v in the shortest exact decimal form that still lexes as a
// float literal.
func Float(v float64) string {
	s := decimal.NewFromFloat(v).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
