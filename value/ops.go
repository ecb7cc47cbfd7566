package value

import (
	"fmt"
	"math"
	"strings"
)

func mismatch(op string, l, r Value) error {
	return fmt.Errorf("%w: cannot apply '%s' to %s and %s", ErrTypeMismatch, op, l.Type(), r.Type())
}

// numeric applies one of two functions depending on integer promotion.
func numeric(l, r Value, ints func(a, b int64) (Value, error), floats func(a, b float64) (Value, error)) (Value, bool, error) {
	li, lok := l.(Int)
	ri, rok := r.(Int)
	if lok && rok {
		v, err := ints(int64(li), int64(ri))
		return v, true, err
	}

	lf, lok := Number(l)
	rf, rok := Number(r)
	if lok && rok {
		v, err := floats(lf, rf)
		return v, true, err
	}

	return nil, false, nil
}

func channels(l, r Color, f func(a, b float64) float64) Color {
	return RGBA(f(l.R, r.R), f(l.G, r.G), f(l.B, r.B), f(l.A, r.A))
}

// Add concatenates when either side is a string; numbers promote to float
// unless both are integers; colors add per channel with clamping.
func Add(l, r Value) (Value, error) {
	if isStr(l) || isStr(r) {
		return Str(l.String() + r.String()), nil
	}

	if v, ok, err := numeric(l, r,
		func(a, b int64) (Value, error) { return Int(a + b), nil },
		func(a, b float64) (Value, error) { return Float(a + b), nil }); ok {
		return v, err
	}

	switch lv := l.(type) {
	case Color:
		if rv, ok := r.(Color); ok {
			return channels(lv, rv, func(a, b float64) float64 { return a + b }), nil
		}
	case Percentage:
		if rv, ok := r.(Percentage); ok {
			return lv + rv, nil
		}
	}

	return nil, mismatch("+", l, r)
}

// Sub removes every occurrence of the right side when strings are involved.
func Sub(l, r Value) (Value, error) {
	if isStr(l) || isStr(r) {
		return Str(strings.ReplaceAll(l.String(), r.String(), "")), nil
	}

	if v, ok, err := numeric(l, r,
		func(a, b int64) (Value, error) { return Int(a - b), nil },
		func(a, b float64) (Value, error) { return Float(a - b), nil }); ok {
		return v, err
	}

	switch lv := l.(type) {
	case Color:
		if rv, ok := r.(Color); ok {
			return channels(lv, rv, func(a, b float64) float64 { return a - b }), nil
		}
	case Percentage:
		if rv, ok := r.(Percentage); ok {
			return lv - rv, nil
		}
	}

	return nil, mismatch("-", l, r)
}

// Mul follows the multiplication matrix: strings repeat or truncate, numbers
// promote, percentages scale, colors scale when on the right.
func Mul(l, r Value) (Value, error) {
	switch lv := l.(type) {
	case Str:
		return repeat(lv, r)
	case Int, Float:
		if v, ok, err := numeric(l, r,
			func(a, b int64) (Value, error) { return Int(a * b), nil },
			func(a, b float64) (Value, error) { return Float(a * b), nil }); ok {
			return v, err
		}

		n, _ := Number(l)
		switch rv := r.(type) {
		case Percentage:
			return Float(n * float64(rv) / 100), nil
		case Color:
			return scale(rv, n), nil
		}
	case Percentage:
		if n, ok := Number(r); ok {
			return lv * Percentage(n), nil
		}

		switch rv := r.(type) {
		case Percentage:
			return lv * rv / 100, nil
		case Color:
			return scale(rv, float64(lv)/100), nil
		}
	}

	return nil, mismatch("*", l, r)
}

// Div mirrors Mul. Any zero divisor is an error, including a zero channel of
// a color divisor.
func Div(l, r Value) (Value, error) {
	switch lv := l.(type) {
	case Str:
		return split(lv, r)
	case Int, Float:
		if v, ok, err := numeric(l, r,
			func(a, b int64) (Value, error) {
				if b == 0 {
					return nil, ErrDivisionByZero
				}
				return Int(a / b), nil
			},
			func(a, b float64) (Value, error) {
				if b == 0 {
					return nil, ErrDivisionByZero
				}
				return Float(a / b), nil
			}); ok {
			return v, err
		}

		n, _ := Number(l)
		switch rv := r.(type) {
		case Percentage:
			if rv == 0 {
				return nil, ErrDivisionByZero
			}
			return Float(n / (float64(rv) / 100)), nil
		case Color:
			return divide(n, rv)
		}
	case Percentage:
		if n, ok := Number(r); ok {
			if n == 0 {
				return nil, ErrDivisionByZero
			}
			return lv / Percentage(n), nil
		}

		switch rv := r.(type) {
		case Percentage:
			if rv == 0 {
				return nil, ErrDivisionByZero
			}
			return Float(lv / rv), nil
		case Color:
			return divide(float64(lv)/100, rv)
		}
	}

	return nil, mismatch("/", l, r)
}

func scale(c Color, n float64) Color {
	return RGBA(c.R*n, c.G*n, c.B*n, c.A)
}

func divide(n float64, c Color) (Value, error) {
	if c.R == 0 || c.G == 0 || c.B == 0 {
		return nil, fmt.Errorf("%w: color %s has a zero channel", ErrDivisionByZero, c)
	}

	return RGBA(n/c.R, n/c.G, n/c.B, c.A), nil
}

// maxStringLength bounds the byte length of a repeated string.
const maxStringLength = 1 << 20

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func repeat(s Str, r Value) (Value, error) {
	switch rv := r.(type) {
	case Int, Float:
		n, _ := Number(rv)
		if n < 0 || !finite(n) {
			return nil, fmt.Errorf("%w: cannot repeat a string %v times", ErrInvalidExpression, n)
		}
		if len(s) > 0 && n > float64(maxStringLength/len(s)) {
			return nil, fmt.Errorf("%w: repeating a string %v times exceeds %d bytes", ErrInvalidExpression, n, maxStringLength)
		}
		return Str(strings.Repeat(string(s), int(n))), nil
	case Percentage:
		if !finite(float64(rv)) {
			return nil, fmt.Errorf("%w: cannot keep %v%% of a string", ErrInvalidExpression, float64(rv))
		}
		runes := []rune(string(s))
		keep := math.Round(float64(len(runes)) * float64(rv) / 100)
		keep = max(0, min(float64(len(runes)), keep))
		return Str(runes[:int(keep)]), nil
	case Bool:
		if rv {
			return s, nil
		}
		return Str(""), nil
	}

	return nil, mismatch("*", s, r)
}

func split(s Str, r Value) (Value, error) {
	n, ok := Number(r)
	if !ok {
		return nil, mismatch("/", s, r)
	}

	switch {
	case n == 0:
		return nil, ErrDivisionByZero
	case n < 0 || math.IsNaN(n):
		return nil, fmt.Errorf("%w: cannot split a string in %v parts", ErrInvalidExpression, n)
	}

	runes := []rune(string(s))
	keep := min(float64(len(runes)), float64(len(runes))/n)

	return Str(runes[:int(keep)]), nil
}

func isStr(v Value) bool {
	_, ok := v.(Str)
	return ok
}

// Compare orders numbers, strings and percentages. It returns -1, 0 or 1.
func Compare(l, r Value) (int, error) {
	if a, ok := Number(l); ok {
		if b, ok := Number(r); ok {
			return cmp(a, b), nil
		}
	}

	switch lv := l.(type) {
	case Str:
		if rv, ok := r.(Str); ok {
			return strings.Compare(string(lv), string(rv)), nil
		}
	case Percentage:
		if rv, ok := r.(Percentage); ok {
			return cmp(float64(lv), float64(rv)), nil
		}
	}

	return 0, mismatch("compare", l, r)
}

func cmp(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

// Equal extends Compare to booleans and colors.
func Equal(l, r Value) (bool, error) {
	switch lv := l.(type) {
	case Bool:
		if rv, ok := r.(Bool); ok {
			return lv == rv, nil
		}
		return false, mismatch("==", l, r)
	case Color:
		if rv, ok := r.(Color); ok {
			return lv == rv, nil
		}
		return false, mismatch("==", l, r)
	}

	c, err := Compare(l, r)

	return c == 0, err
}

// Logical applies && or || to two booleans.
func Logical(and bool, l, r Value) (Value, error) {
	lb, lok := l.(Bool)
	rb, rok := r.(Bool)
	if !lok || !rok {
		op := "||"
		if and {
			op = "&&"
		}
		return nil, mismatch(op, l, r)
	}

	if and {
		return lb && rb, nil
	}

	return lb || rb, nil
}

// Not negates a boolean.
func Not(v Value) (Value, error) {
	b, ok := v.(Bool)
	if !ok {
		return nil, fmt.Errorf("%w: cannot apply '!' to %s", ErrTypeMismatch, v.Type())
	}

	return !b, nil
}

// Negate flips the sign of a number keeping its type.
func Negate(v Value) (Value, error) {
	switch n := v.(type) {
	case Int:
		return -n, nil
	case Float:
		return -n, nil
	}

	return nil, fmt.Errorf("%w: cannot negate %s", ErrTypeMismatch, v.Type())
}

// PercentOf turns a number into a percentage.
func PercentOf(v Value) (Value, error) {
	n, ok := Number(v)
	if !ok {
		return nil, fmt.Errorf("%w: cannot take a percentage of %s", ErrTypeMismatch, v.Type())
	}

	return Percentage(n), nil
}
