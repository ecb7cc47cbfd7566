// Package value implements the runtime values of the language and the
// coercion rules between them.
package value

import (
	"fmt"
	"strconv"

	"github.com/shibukawa/cursorlang/tokenizer"
	"github.com/shibukawa/cursorlang/types"
)

// Value is one of Bool, Int, Float, Str, Color or Percentage.
type Value interface {
	Type() types.Type
	String() string
	value()
}

type (
	Bool       bool
	Int        int64
	Float      float64
	Str        string
	Percentage float64
)

// Color channels are normalized to [0, 1].
type Color tokenizer.Color

func (Bool) Type() types.Type       { return types.BOOLEAN }
func (Int) Type() types.Type        { return types.INT }
func (Float) Type() types.Type      { return types.FLOAT }
func (Str) Type() types.Type        { return types.STRING }
func (Color) Type() types.Type      { return types.COLOR }
func (Percentage) Type() types.Type { return types.PERCENT }

func (Bool) value()       {}
func (Int) value()        {}
func (Float) value()      {}
func (Str) value()        {}
func (Color) value()      {}
func (Percentage) value() {}

func (v Bool) String() string {
	return strconv.FormatBool(bool(v))
}

func (v Int) String() string {
	return strconv.FormatInt(int64(v), 10)
}

func (v Float) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

func (v Str) String() string {
	return string(v)
}

func (v Color) String() string {
	return tokenizer.Color(v).Hex()
}

func (v Percentage) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64) + "%"
}

// RGBA builds a color clamping every channel.
func RGBA(r, g, b, a float64) Color {
	return Color{R: tokenizer.Clamp(r), G: tokenizer.Clamp(g), B: tokenizer.Clamp(b), A: tokenizer.Clamp(a)}
}

// Zero is the default value of a declared variable without initializer.
func Zero(t types.Type) Value {
	switch t {
	case types.BOOLEAN:
		return Bool(false)
	case types.STRING:
		return Str("")
	case types.INT:
		return Int(0)
	case types.FLOAT:
		return Float(0)
	case types.COLOR:
		return Color(tokenizer.Black)
	default:
		return Percentage(0)
	}
}

// Coerce adapts v for storage in a variable of type t. Integers widen to
// floats; every other combination must match exactly.
func Coerce(t types.Type, v Value) (Value, error) {
	if v.Type() == t {
		return v, nil
	}

	if i, ok := v.(Int); ok && t == types.FLOAT {
		return Float(i), nil
	}

	return nil, fmt.Errorf("%w: cannot store %s in a %s variable", ErrTypeMismatch, v.Type(), t)
}

// Number reports v as a float64 if it is an Int or a Float.
func Number(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	}

	return 0, false
}

// Scalar resolves a number, or a percentage of dimension.
func Scalar(v Value, dimension float64) (float64, error) {
	if n, ok := Number(v); ok {
		return n, nil
	}

	if p, ok := v.(Percentage); ok {
		return dimension * float64(p) / 100, nil
	}

	return 0, fmt.Errorf("%w: expected a number or a percentage, got %s", ErrTypeMismatch, v.Type())
}

// Truthy requires v to be a Bool.
func Truthy(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, fmt.Errorf("%w: expected bool, got %s", ErrTypeMismatch, v.Type())
	}

	return bool(b), nil
}
