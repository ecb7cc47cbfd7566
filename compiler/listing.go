package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shibukawa/cursorlang/value"
)

// Entry is one row of a listing, suitable for YAML or JSON output.
type Entry struct {
	Address int    `json:"address" yaml:"address"`
	Op      Op     `json:"op" yaml:"op"`
	Operand string `json:"operand,omitempty" yaml:"operand,omitempty"`
	Pos     string `json:"pos,omitempty" yaml:"pos,omitempty"` // "line:column" in the source
}

// Operand renders the payload of in, or "" when Op takes none.
func (in Instruction) Operand() string {
	switch in.Op {
	case OpPush:
		if s, ok := in.Value.(value.Str); ok {
			return strconv.Quote(string(s))
		}
		return in.Value.String()
	case OpLoad, OpStore, OpDelete:
		return in.Name
	case OpDeclare:
		if in.Infer {
			return "auto " + in.Name
		}
		return in.Type.String() + " " + in.Name
	case OpGoto, OpGotoIfFalse:
		return strconv.Itoa(in.Address)
	}

	return ""
}

// Listing describes every instruction of p.
func (p Program) Listing() []Entry {
	entries := make([]Entry, len(p))
	for i, in := range p {
		entries[i] = Entry{Address: i, Op: in.Op, Operand: in.Operand(), Pos: in.Range.From.String()}
	}

	return entries
}

// Disassemble renders p one instruction per line.
func Disassemble(p Program) string {
	var b strings.Builder
	for _, e := range p.Listing() {
		line := fmt.Sprintf("%04d  %-14s %s", e.Address, e.Op, e.Operand)
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}

	return b.String()
}
