package typeinference

import "github.com/shibukawa/cursorlang/types"

// TypingContext is one level of the chained name to type environment.
type TypingContext struct {
	parent *TypingContext
	vars   map[string]types.Type
}

// NewTypingContext creates a context nested in parent, which may be nil.
func NewTypingContext(parent *TypingContext) *TypingContext {
	return &TypingContext{parent: parent, vars: map[string]types.Type{}}
}

// Child opens a nested context.
func (c *TypingContext) Child() *TypingContext {
	return NewTypingContext(c)
}

// Parent returns the enclosing context or nil for the root.
func (c *TypingContext) Parent() *TypingContext {
	return c.parent
}

// Declare binds name locally. It reports false if name is already bound in
// this very context.
func (c *TypingContext) Declare(name string, t types.Type) bool {
	if _, ok := c.vars[name]; ok {
		return false
	}

	c.vars[name] = t

	return true
}

// Lookup walks up the chain.
func (c *TypingContext) Lookup(name string) (types.Type, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}

	return 0, false
}

// Delete unbinds name from the nearest context owning it.
func (c *TypingContext) Delete(name string) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			delete(cur.vars, name)
			return true
		}
	}

	return false
}
