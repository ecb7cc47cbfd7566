// Package compiler lowers syntax trees to a flat stack machine program.
package compiler

import (
	"github.com/shibukawa/cursorlang/source"
	"github.com/shibukawa/cursorlang/types"
	"github.com/shibukawa/cursorlang/value"
)

// Op names a bytecode operation.
type Op string

const (
	OpPush        Op = "PUSH"          // Push Value
	OpLoad        Op = "LOAD"          // Push the variable Name
	OpStore       Op = "STORE"         // Pop into the existing variable Name
	OpDeclare     Op = "DECLARE"       // Pop into a new variable Name of Type
	OpDelete      Op = "DELETE"        // Remove the variable Name
	OpGoto        Op = "GOTO"          // Jump to Address
	OpGotoIfFalse Op = "GOTO_IF_FALSE" // Pop a bool and jump to Address when false
	OpNewScope    Op = "NEW_SCOPE"
	OpExitScope   Op = "EXIT_SCOPE"

	OpPercent Op = "PERCENT"
	OpNegate  Op = "NEGATE"
	OpNot     Op = "NOT"

	OpAdd          Op = "ADD"
	OpSub          Op = "SUB"
	OpMul          Op = "MUL"
	OpDiv          Op = "DIV"
	OpAnd          Op = "AND"
	OpOr           Op = "OR"
	OpEqual        Op = "EQUAL"
	OpNotEqual     Op = "NOT_EQUAL"
	OpGreater      Op = "GREATER"
	OpGreaterEqual Op = "GREATER_EQUAL"
	OpLess         Op = "LESS"
	OpLessEqual    Op = "LESS_EQUAL"

	OpForward       Op = "FORWARD"
	OpBackward      Op = "BACKWARD"
	OpTurn          Op = "TURN"
	OpPos           Op = "POS"
	OpMove          Op = "MOVE"
	OpHide          Op = "HIDE"
	OpShow          Op = "SHOW"
	OpPress         Op = "PRESS"
	OpColor         Op = "COLOR"
	OpColorRGB      Op = "COLOR_RGB"
	OpThick         Op = "THICK"
	OpLookAtCursor  Op = "LOOK_AT_CURSOR"
	OpLookAtPos     Op = "LOOK_AT_POS"
	OpCreateCursor  Op = "CREATE_CURSOR"
	OpSelectCursor  Op = "SELECT_CURSOR"
	OpRemoveCursor  Op = "REMOVE_CURSOR"
	OpMimic         Op = "MIMIC"
	OpMirrorCentral Op = "MIRROR_CENTRAL"
	OpMirrorAxial   Op = "MIRROR_AXIAL"
	OpEnd           Op = "END"
)

var effectful = map[Op]bool{
	OpForward: true, OpBackward: true, OpTurn: true, OpPos: true, OpMove: true,
	OpHide: true, OpShow: true, OpPress: true, OpColor: true, OpColorRGB: true,
	OpThick: true, OpLookAtCursor: true, OpLookAtPos: true,
	OpCreateCursor: true, OpSelectCursor: true, OpRemoveCursor: true,
	OpMimic: true, OpMirrorCentral: true, OpMirrorAxial: true,
}

// Effectful reports whether op acts on cursors or the canvas.
func (op Op) Effectful() bool {
	return effectful[op]
}

// Jumps reports whether op carries an Address.
func (op Op) Jumps() bool {
	return op == OpGoto || op == OpGotoIfFalse
}

// Instruction is one bytecode entry. Only the fields relevant to Op are set.
type Instruction struct {
	Op      Op
	Value   value.Value  // PUSH
	Name    string       // LOAD, STORE, DECLARE, DELETE
	Type    types.Type   // DECLARE
	Infer   bool         // DECLARE: take the type of the popped value
	Address int          // GOTO, GOTO_IF_FALSE
	Range   source.Range // source of the instruction, for diagnostics
}

// Program is a compiled instruction sequence. Addresses index into it.
type Program []Instruction
