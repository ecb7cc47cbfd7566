package compiler

import (
	"github.com/shibukawa/cursorlang/parser"
	"github.com/shibukawa/cursorlang/source"
	"github.com/shibukawa/cursorlang/types"
	"github.com/shibukawa/cursorlang/value"
)

var commandOps = map[parser.CommandKind]Op{
	parser.Forward:      OpForward,
	parser.Backward:     OpBackward,
	parser.Turn:         OpTurn,
	parser.Pos:          OpPos,
	parser.Move:         OpMove,
	parser.Hide:         OpHide,
	parser.Show:         OpShow,
	parser.Press:        OpPress,
	parser.Color:        OpColor,
	parser.ColorRGB:     OpColorRGB,
	parser.Thick:        OpThick,
	parser.LookAtCursor: OpLookAtCursor,
	parser.LookAtPos:    OpLookAtPos,
	parser.CreateCursor: OpCreateCursor,
	parser.SelectCursor: OpSelectCursor,
	parser.RemoveCursor: OpRemoveCursor,
}

var binaryOps = map[parser.BinaryOp]Op{
	parser.Add: OpAdd,
	parser.Sub: OpSub,
	parser.Mul: OpMul,
	parser.Div: OpDiv,
	parser.And: OpAnd,
	parser.Or:  OpOr,
	parser.Eq:  OpEqual,
	parser.Ne:  OpNotEqual,
	parser.Gt:  OpGreater,
	parser.Ge:  OpGreaterEqual,
	parser.Lt:  OpLess,
	parser.Le:  OpLessEqual,
}

// Compile lowers program. The result always ends with a single END.
func Compile(program *parser.Program) Program {
	code := Statements(program.Statements, 0)

	var last source.Range
	if n := len(program.Statements); n > 0 {
		last = program.Statements[n-1].Range()
	}

	return append(code, Instruction{Op: OpEnd, Range: last})
}

// Statements compiles list as if its first instruction were placed at
// offset. Jump addresses in the result are absolute.
func Statements(list []parser.Statement, offset int) Program {
	var code Program
	for _, s := range list {
		code = append(code, Statement(s, offset+len(code))...)
	}

	return code
}

// Statement compiles a single statement placed at offset.
func Statement(s parser.Statement, offset int) Program {
	r := s.Range()

	switch n := s.(type) {
	case *parser.Command:
		var code Program
		for _, arg := range n.Args {
			code = append(code, Expression(arg)...)
		}

		return append(code, Instruction{Op: commandOps[n.Kind], Range: r})
	case *parser.Declare:
		var code Program
		if n.Init != nil {
			code = Expression(n.Init)
		} else {
			code = Program{{Op: OpPush, Value: value.Zero(n.Type), Range: r}}
		}

		return append(code, Instruction{Op: OpDeclare, Name: n.Name, Type: n.Type, Infer: n.Infer, Range: r})
	case *parser.Assign:
		return append(Expression(n.Value), Instruction{Op: OpStore, Name: n.Name, Range: r})
	case *parser.Delete:
		return Program{{Op: OpDelete, Name: n.Name, Range: r}}
	case *parser.Block:
		return scoped(n.Statements, offset, r)
	case *parser.While:
		return loop(n.Cond, n.Body, offset, r)
	case *parser.For:
		return Statement(desugarFor(n), offset)
	case *parser.If:
		return branch(n, offset)
	case *parser.Mimic:
		return duplicate(Expression(n.Target), OpMimic, n.Body, offset, r)
	case *parser.MirrorCentral:
		return duplicate(expressions(n.X, n.Y), OpMirrorCentral, n.Body, offset, r)
	case *parser.MirrorAxial:
		return duplicate(expressions(n.X1, n.Y1, n.X2, n.Y2), OpMirrorAxial, n.Body, offset, r)
	}

	return nil
}

// scoped wraps list in NEW_SCOPE/EXIT_SCOPE.
func scoped(list []parser.Statement, offset int, r source.Range) Program {
	code := Program{{Op: OpNewScope, Range: r}}
	code = append(code, Statements(list, offset+1)...)

	return append(code, Instruction{Op: OpExitScope, Range: r})
}

func loop(cond parser.Expr, body *parser.Block, offset int, r source.Range) Program {
	code := Expression(cond)
	check := offset + len(code)
	inner := scoped(body.Statements, check+1, body.Range())
	end := check + len(inner) + 2

	code = append(code, Instruction{Op: OpGotoIfFalse, Address: end, Range: cond.Range()})
	code = append(code, inner...)

	return append(code, Instruction{Op: OpGoto, Address: offset, Range: r})
}

func branch(n *parser.If, offset int) Program {
	code := Expression(n.Cond)
	check := offset + len(code)
	then := scoped(n.Then.Statements, check+1, n.Then.Range())
	otherwise := check + 1 + len(then)

	if n.Else == nil {
		code = append(code, Instruction{Op: OpGotoIfFalse, Address: otherwise, Range: n.Cond.Range()})
		return append(code, then...)
	}

	otherwise++
	alt := scoped(n.Else.Statements, otherwise, n.Else.Range())

	code = append(code, Instruction{Op: OpGotoIfFalse, Address: otherwise, Range: n.Cond.Range()})
	code = append(code, then...)
	code = append(code, Instruction{Op: OpGoto, Address: otherwise + len(alt), Range: n.Range()})

	return append(code, alt...)
}

// duplicate emits the cursor duplication op inside its own scope, followed
// by the body in place.
func duplicate(args Program, op Op, body *parser.Block, offset int, r source.Range) Program {
	code := append(args, Instruction{Op: OpNewScope, Range: r}, Instruction{Op: op, Range: r})
	code = append(code, Statements(body.Statements, offset+len(code))...)

	return append(code, Instruction{Op: OpExitScope, Range: r})
}

// desugarFor rewrites the loop as
//
//	{ i := from; WHILE i < to { { body } i = i + step } }
func desugarFor(n *parser.For) parser.Statement {
	r := n.Range()
	base := parser.Base{Span: r}
	iterator := func() parser.Expr { return &parser.Variable{Base: base, Name: n.Iterator} }

	step := n.Step
	if step == nil {
		step = &parser.IntLiteral{Base: base, Value: 1}
	}

	return &parser.Block{Base: base, Statements: []parser.Statement{
		&parser.Declare{Base: parser.Base{Span: n.From.Range()}, Type: types.INT, Name: n.Iterator, Init: n.From, Infer: true},
		&parser.While{
			Base: base,
			Cond: &parser.Binary{Base: parser.Base{Span: n.To.Range()}, Op: parser.Lt, Left: iterator(), Right: n.To},
			Body: &parser.Block{Base: n.Body.Base, Statements: []parser.Statement{
				n.Body,
				&parser.Assign{Base: parser.Base{Span: step.Range()}, Name: n.Iterator, Value: &parser.Binary{
					Base:  parser.Base{Span: step.Range()},
					Op:    parser.Add,
					Left:  iterator(),
					Right: step,
				}},
			}},
		},
	}}
}

func expressions(list ...parser.Expr) Program {
	var code Program
	for _, e := range list {
		code = append(code, Expression(e)...)
	}

	return code
}

// Expression emits e in post-order.
func Expression(e parser.Expr) Program {
	r := e.Range()

	switch n := e.(type) {
	case *parser.BoolLiteral:
		return Program{{Op: OpPush, Value: value.Bool(n.Value), Range: r}}
	case *parser.StringLiteral:
		return Program{{Op: OpPush, Value: value.Str(n.Value), Range: r}}
	case *parser.IntLiteral:
		return Program{{Op: OpPush, Value: value.Int(n.Value), Range: r}}
	case *parser.FloatLiteral:
		return Program{{Op: OpPush, Value: value.Float(n.Value), Range: r}}
	case *parser.ColorLiteral:
		return Program{{Op: OpPush, Value: value.RGBA(n.Red, n.Green, n.Blue, n.Alpha), Range: r}}
	case *parser.Variable:
		return Program{{Op: OpLoad, Name: n.Name, Range: r}}
	case *parser.PercentOf:
		return append(Expression(n.Operand), Instruction{Op: OpPercent, Range: r})
	case *parser.Negation:
		return append(Expression(n.Operand), Instruction{Op: OpNegate, Range: r})
	case *parser.Not:
		return append(Expression(n.Operand), Instruction{Op: OpNot, Range: r})
	case *parser.Binary:
		code := append(Expression(n.Left), Expression(n.Right)...)
		return append(code, Instruction{Op: binaryOps[n.Op], Range: r})
	}

	return nil
}
