package interpreter

import (
	"github.com/shibukawa/cursorlang/compiler"
	"github.com/shibukawa/cursorlang/value"
)

var binaries = map[compiler.Op]func(l, r value.Value) (value.Value, error){
	compiler.OpAdd: value.Add,
	compiler.OpSub: value.Sub,
	compiler.OpMul: value.Mul,
	compiler.OpDiv: value.Div,
	compiler.OpAnd: func(l, r value.Value) (value.Value, error) { return value.Logical(true, l, r) },
	compiler.OpOr:  func(l, r value.Value) (value.Value, error) { return value.Logical(false, l, r) },
	compiler.OpEqual: func(l, r value.Value) (value.Value, error) {
		eq, err := value.Equal(l, r)
		return value.Bool(eq), err
	},
	compiler.OpNotEqual: func(l, r value.Value) (value.Value, error) {
		eq, err := value.Equal(l, r)
		return value.Bool(!eq), err
	},
	compiler.OpGreater:      ordering(func(c int) bool { return c > 0 }),
	compiler.OpGreaterEqual: ordering(func(c int) bool { return c >= 0 }),
	compiler.OpLess:         ordering(func(c int) bool { return c < 0 }),
	compiler.OpLessEqual:    ordering(func(c int) bool { return c <= 0 }),
}

var unaries = map[compiler.Op]func(v value.Value) (value.Value, error){
	compiler.OpPercent: value.PercentOf,
	compiler.OpNegate:  value.Negate,
	compiler.OpNot:     value.Not,
}

func ordering(accept func(int) bool) func(l, r value.Value) (value.Value, error) {
	return func(l, r value.Value) (value.Value, error) {
		c, err := value.Compare(l, r)
		if err != nil {
			return nil, err
		}

		return value.Bool(accept(c)), nil
	}
}

// Evaluate executes the instruction at PC. On a fault the stack is restored
// to its state before the instruction and PC keeps pointing at it.
func (c *EvalContext) Evaluate() error {
	if !c.HasNext() {
		return c.fault
	}

	in := c.Program[c.PC]
	depth := len(c.Stack)

	if in.Op.Effectful() {
		c.logger.Debug().Str("run", c.runID).Int("pc", c.PC).Str("op", string(in.Op)).Msg("execute")
	}

	next, err := c.execute(in)
	if err != nil {
		// pops only reslice, so the popped values are still in place
		c.Stack = c.Stack[:depth]
		c.fault = &EvalError{At: in.Range, Op: in.Op, Err: err}
		c.status = Faulted

		return c.fault
	}

	c.PC = next

	return nil
}

// execute returns the address of the next instruction.
func (c *EvalContext) execute(in compiler.Instruction) (int, error) {
	next := c.PC + 1

	if f, ok := binaries[in.Op]; ok {
		r, l, err := c.pop2()
		if err != nil {
			return 0, err
		}

		v, err := f(l, r)
		if err != nil {
			return 0, err
		}

		c.push(v)

		return next, nil
	}

	if f, ok := unaries[in.Op]; ok {
		operand, err := c.pop()
		if err != nil {
			return 0, err
		}

		v, err := f(operand)
		if err != nil {
			return 0, err
		}

		c.push(v)

		return next, nil
	}

	switch in.Op {
	case compiler.OpPush:
		c.push(in.Value)
	case compiler.OpLoad:
		v, ok := c.scope.Lookup(in.Name)
		if !ok {
			return 0, faultf(ErrUndefinedVariable, "variable '%s' is not declared", in.Name)
		}

		c.push(v.Value)
	case compiler.OpStore:
		return next, c.store(in.Name)
	case compiler.OpDeclare:
		return next, c.declare(in)
	case compiler.OpDelete:
		if !c.scope.Delete(in.Name) {
			return 0, faultf(ErrUndefinedVariable, "variable '%s' is not declared", in.Name)
		}
	case compiler.OpGoto:
		return c.jump(in.Address)
	case compiler.OpGotoIfFalse:
		v, err := c.pop()
		if err != nil {
			return 0, err
		}

		cond, err := value.Truthy(v)
		if err != nil {
			return 0, err
		}

		if !cond {
			return c.jump(in.Address)
		}
	case compiler.OpNewScope:
		c.scope = NewScope(c.scope)
	case compiler.OpExitScope:
		if c.scope.parent == nil {
			return 0, ErrScopeUnderflow
		}

		c.scope = c.scope.parent
	case compiler.OpEnd:
		c.status = Finished
		return len(c.Program), nil
	default:
		command, ok := commands[in.Op]
		if !ok {
			return 0, faultf(ErrUnknownOperation, "%s", in.Op)
		}

		return next, command(c)
	}

	return next, nil
}

func (c *EvalContext) jump(address int) (int, error) {
	if address < 0 || address >= len(c.Program) {
		return 0, faultf(ErrInvalidAddress, "%d is outside of [0, %d)", address, len(c.Program))
	}

	return address, nil
}

func (c *EvalContext) declare(in compiler.Instruction) error {
	v, err := c.pop()
	if err != nil {
		return err
	}

	t := in.Type
	if in.Infer {
		t = v.Type()
	}

	v, err = value.Coerce(t, v)
	if err != nil {
		return err
	}

	if !c.scope.Declare(in.Name, t, v) {
		return faultf(ErrDuplicateVariable, "variable '%s' is already declared in this scope", in.Name)
	}

	return nil
}

func (c *EvalContext) store(name string) error {
	v, err := c.pop()
	if err != nil {
		return err
	}

	variable, ok := c.scope.Lookup(name)
	if !ok {
		return faultf(ErrUndefinedVariable, "variable '%s' is not declared", name)
	}

	v, err = value.Coerce(variable.Type, v)
	if err != nil {
		return err
	}

	variable.Value = v

	return nil
}

func (c *EvalContext) push(v value.Value) {
	c.Stack = append(c.Stack, v)
}

func (c *EvalContext) pop() (value.Value, error) {
	if len(c.Stack) == 0 {
		return nil, ErrStackUnderflow
	}

	v := c.Stack[len(c.Stack)-1]
	c.Stack = c.Stack[:len(c.Stack)-1]

	return v, nil
}

// pop2 returns the top value first.
func (c *EvalContext) pop2() (value.Value, value.Value, error) {
	values, err := c.popN(2)
	if err != nil {
		return nil, nil, err
	}

	return values[1], values[0], nil
}

// popN returns the top n values in push order.
func (c *EvalContext) popN(n int) ([]value.Value, error) {
	if len(c.Stack) < n {
		return nil, ErrStackUnderflow
	}

	values := c.Stack[len(c.Stack)-n:]
	c.Stack = c.Stack[:len(c.Stack)-n]

	return values, nil
}
