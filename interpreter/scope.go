package interpreter

import (
	"cmp"
	"maps"
	"slices"

	"github.com/shibukawa/cursorlang/types"
	"github.com/shibukawa/cursorlang/value"
)

// Variable is a typed mutable slot.
type Variable struct {
	Type  types.Type
	Value value.Value
}

// Scope is one level of the environment. Lookups walk the parent chain,
// declarations stay local.
type Scope struct {
	parent  *Scope
	vars    map[string]*Variable
	cursors map[CursorID]Cursor
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: map[string]*Variable{}, cursors: map[CursorID]Cursor{}}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

// Declare adds a variable to this scope. It fails if the name is taken here.
func (s *Scope) Declare(name string, t types.Type, v value.Value) bool {
	if _, ok := s.vars[name]; ok {
		return false
	}

	s.vars[name] = &Variable{Type: t, Value: v}

	return true
}

func (s *Scope) Lookup(name string) (*Variable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Delete removes name from the nearest scope that declares it.
func (s *Scope) Delete(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			delete(cur.vars, name)
			return true
		}
	}

	return false
}

// Variables returns the visible values, inner declarations shadowing outer ones.
func (s *Scope) Variables() map[string]value.Value {
	result := map[string]value.Value{}
	for cur := s; cur != nil; cur = cur.parent {
		for name, v := range cur.vars {
			if _, ok := result[name]; !ok {
				result[name] = v.Value
			}
		}
	}

	return result
}

func (s *Scope) DeclareCursor(id CursorID, c Cursor) bool {
	if _, ok := s.cursors[id]; ok {
		return false
	}

	s.cursors[id] = c

	return true
}

func (s *Scope) Cursor(id CursorID) (Cursor, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if c, ok := cur.cursors[id]; ok {
			return c, true
		}
	}

	return nil, false
}

func (s *Scope) RemoveCursor(id CursorID) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.cursors[id]; ok {
			delete(cur.cursors, id)
			return true
		}
	}

	return false
}

// CursorIDs lists the visible cursor ids, integers first.
func (s *Scope) CursorIDs() []CursorID {
	seen := map[CursorID]bool{}
	for cur := s; cur != nil; cur = cur.parent {
		for id := range maps.Keys(cur.cursors) {
			seen[id] = true
		}
	}

	return slices.SortedFunc(maps.Keys(seen), func(a, b CursorID) int {
		switch {
		case a.Named != b.Named:
			if a.Named {
				return 1
			}
			return -1
		case a.Named:
			return cmp.Compare(a.Name, b.Name)
		default:
			return cmp.Compare(a.Number, b.Number)
		}
	})
}
