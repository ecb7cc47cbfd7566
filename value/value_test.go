package value

import (
	"errors"
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/cursorlang/types"
)

var (
	red   = RGBA(1, 0, 0, 1)
	grey  = RGBA(0.5, 0.5, 0.5, 1)
	white = RGBA(1, 1, 1, 1)
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func(l, r Value) (Value, error)
		l, r     Value
		expected Value
	}{
		{"int add", Add, Int(2), Int(3), Int(5)},
		{"mixed add", Add, Int(2), Float(0.5), Float(2.5)},
		{"string absorbs right", Add, Str("n="), Int(3), Str("n=3")},
		{"string absorbs left", Add, Bool(true), Str("!"), Str("true!")},
		{"percent add", Add, Percentage(10), Percentage(5), Percentage(15)},
		{"color add clamps", Add, red, grey, RGBA(1, 0.5, 0.5, 1)},
		{"string sub removes", Sub, Str("banana"), Str("an"), Str("ba")},
		{"int sub", Sub, Int(2), Int(5), Int(-3)},
		{"color sub clamps", Sub, grey, white, RGBA(0, 0, 0, 0)},
		{"string repeat", Mul, Str("ab"), Int(3), Str("ababab")},
		{"string prefix", Mul, Str("abcd"), Percentage(50), Str("ab")},
		{"string gate", Mul, Str("abcd"), Bool(false), Str("")},
		{"int mul", Mul, Int(4), Int(3), Int(12)},
		{"number of percent", Mul, Int(200), Percentage(25), Float(50)},
		{"percent scale", Mul, Percentage(20), Int(3), Percentage(60)},
		{"percent of percent", Mul, Percentage(50), Percentage(50), Percentage(25)},
		{"scale color", Mul, Float(0.5), white, grey},
		{"int div truncates", Div, Int(7), Int(2), Int(3)},
		{"float div", Div, Float(7), Int(2), Float(3.5)},
		{"percent ratio", Div, Percentage(50), Percentage(25), Float(2)},
		{"number by percent", Div, Int(10), Percentage(50), Float(20)},
		{"string split", Div, Str("abcdef"), Int(2), Str("abc")},
		{"string split by tiny", Div, Str("abc"), Float(1e-19), Str("abc")},
		{"string split by infinity", Div, Str("abc"), Float(math.Inf(1)), Str("")},
		{"string split by huge int", Div, Str("abc"), Int(math.MaxInt64), Str("")},
		{"string huge prefix", Mul, Str("abc"), Percentage(1e300), Str("abc")},
		{"empty string huge repeat", Mul, Str(""), Int(math.MaxInt64), Str("")},
		{"divide by color", Div, Float(0.5), white, grey},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.op(test.l, test.r)
			assert.NoError(t, err)
			assert.Equal(t, test.expected, got)
		})
	}
}

func TestArithmeticFaults(t *testing.T) {
	tests := []struct {
		name string
		op   func(l, r Value) (Value, error)
		l, r Value
		kind error
	}{
		{"int by zero", Div, Int(5), Int(0), ErrDivisionByZero},
		{"float by zero", Div, Float(5), Float(0), ErrDivisionByZero},
		{"by zero percent", Div, Int(5), Percentage(0), ErrDivisionByZero},
		{"by dark color", Div, Int(1), red, ErrDivisionByZero},
		{"string by zero", Div, Str("x"), Int(0), ErrDivisionByZero},
		{"string times string", Mul, Str("x"), Str("y"), ErrTypeMismatch},
		{"negative repeat", Mul, Str("x"), Int(-1), ErrInvalidExpression},
		{"huge repeat", Mul, Str("x"), Int(math.MaxInt64), ErrInvalidExpression},
		{"oversized repeat", Mul, Str("abcd"), Int(1 << 19), ErrInvalidExpression},
		{"infinite repeat", Mul, Str("x"), Float(math.Inf(1)), ErrInvalidExpression},
		{"NaN repeat", Mul, Str("x"), Float(math.NaN()), ErrInvalidExpression},
		{"NaN prefix", Mul, Str("x"), Percentage(math.NaN()), ErrInvalidExpression},
		{"NaN split", Div, Str("x"), Float(math.NaN()), ErrInvalidExpression},
		{"bool left", Mul, Bool(true), Int(2), ErrTypeMismatch},
		{"color left", Div, red, Int(2), ErrTypeMismatch},
		{"percent plus int", Add, Percentage(1), Int(2), ErrTypeMismatch},
		{"color minus int", Sub, red, Int(1), ErrTypeMismatch},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.op(test.l, test.r)
			assert.True(t, errors.Is(err, test.kind), "got %v", err)
		})
	}
}

func TestComparison(t *testing.T) {
	c, err := Compare(Int(1), Float(1.5))
	assert.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(Str("b"), Str("a"))
	assert.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = Compare(Percentage(3), Percentage(3))
	assert.NoError(t, err)
	assert.Equal(t, 0, c)

	_, err = Compare(Percentage(3), Int(3))
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	eq, err := Equal(red, RGBA(1, 0, 0, 1))
	assert.NoError(t, err)
	assert.True(t, eq)

	eq, err = Equal(Bool(true), Bool(false))
	assert.NoError(t, err)
	assert.False(t, eq)

	_, err = Equal(Bool(true), Int(1))
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestUnaryAndLogic(t *testing.T) {
	v, err := Negate(Int(3))
	assert.NoError(t, err)
	assert.Equal(t, Value(Int(-3)), v)

	v, err = PercentOf(Float(12.5))
	assert.NoError(t, err)
	assert.Equal(t, Value(Percentage(12.5)), v)

	_, err = Negate(Str("x"))
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	v, err = Logical(true, Bool(true), Bool(false))
	assert.NoError(t, err)
	assert.Equal(t, Value(Bool(false)), v)

	v, err = Logical(false, Bool(true), Bool(false))
	assert.NoError(t, err)
	assert.Equal(t, Value(Bool(true)), v)

	_, err = Logical(true, Int(1), Bool(true))
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	v, err = Not(Bool(false))
	assert.NoError(t, err)
	assert.Equal(t, Value(Bool(true)), v)
}

func TestCoerceAndDefaults(t *testing.T) {
	v, err := Coerce(types.FLOAT, Int(2))
	assert.NoError(t, err)
	assert.Equal(t, Value(Float(2)), v)

	_, err = Coerce(types.INT, Float(2))
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	for _, ty := range types.All {
		assert.Equal(t, ty, Zero(ty).Type())
	}

	n, err := Scalar(Percentage(50), 640)
	assert.NoError(t, err)
	assert.Equal(t, 320.0, n)

	_, err = Scalar(Str("x"), 1)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestString(t *testing.T) {
	assert.Equal(t, "1.5", Float(1.5).String())
	assert.Equal(t, "50%", Percentage(50).String())
	assert.Equal(t, "#FF0000FF", red.String())
	assert.Equal(t, "false", Bool(false).String())
}
