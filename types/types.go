// Package types holds the closed set of value types of the language.
package types

import "strings"

// Type is one of the six value types.
type Type int

const (
	BOOLEAN Type = iota + 1
	STRING
	INT
	FLOAT
	COLOR
	PERCENT
)

// All lists every type in declaration order.
var All = []Type{BOOLEAN, STRING, INT, FLOAT, COLOR, PERCENT}

var names = map[Type]string{
	BOOLEAN: "bool",
	STRING:  "str",
	INT:     "int",
	FLOAT:   "float",
	COLOR:   "color",
	PERCENT: "percent",
}

// String returns the canonical short name used in diagnostics.
func (t Type) String() string {
	if name, ok := names[t]; ok {
		return name
	}

	return "unknown"
}

// Numeric reports whether t is INT or FLOAT.
func (t Type) Numeric() bool {
	return t == INT || t == FLOAT
}

// Set is an ordered list of acceptable types.
type Set []Type

// Contains reports whether t is part of the set.
func (s Set) Contains(t Type) bool {
	for _, candidate := range s {
		if candidate == t {
			return true
		}
	}

	return false
}

func (s Set) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}

	return strings.Join(parts, ", ")
}
