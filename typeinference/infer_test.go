package typeinference

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/cursorlang/parser"
	"github.com/shibukawa/cursorlang/types"
)

func inferText(t *testing.T, ctx *TypingContext, text string) (types.Type, error) {
	t.Helper()

	e, err := parser.ParseExpression(text)
	assert.NoError(t, err)

	return Infer(ctx, e)
}

func TestInfer(t *testing.T) {
	ctx := NewTypingContext(nil)
	ctx.Declare("i", types.INT)
	ctx.Declare("f", types.FLOAT)
	ctx.Declare("s", types.STRING)
	ctx.Declare("c", types.COLOR)
	ctx.Declare("p", types.PERCENT)
	ctx.Declare("b", types.BOOLEAN)

	tests := []struct {
		input    string
		expected types.Type
	}{
		{"1", types.INT},
		{"1.5", types.FLOAT},
		{`"x"`, types.STRING},
		{"#fff", types.COLOR},
		{"true", types.BOOLEAN},
		{"5%", types.PERCENT},
		{"f%", types.PERCENT},
		{"-i", types.INT},
		{"-f", types.FLOAT},
		{"!b", types.BOOLEAN},
		{"i + i", types.INT},
		{"i + f", types.FLOAT},
		{"f - i", types.FLOAT},
		{"s + i", types.STRING},
		{"b + s", types.STRING},
		{"c + s", types.STRING},
		{"p + s", types.STRING},
		{"c + c", types.COLOR},
		{"p - p", types.PERCENT},
		{"s * 3", types.STRING},
		{"s * p", types.STRING},
		{"s * b", types.STRING},
		{"s / 2", types.STRING},
		{"i * i", types.INT},
		{"i / i", types.INT},
		{"i * f", types.FLOAT},
		{"i * p", types.FLOAT},
		{"f / p", types.FLOAT},
		{"2 * c", types.COLOR},
		{"p * c", types.COLOR},
		{"p * 2", types.PERCENT},
		{"p * p", types.PERCENT},
		{"p / p", types.FLOAT},
		{"i < 3", types.INT},
		{"s == s", types.STRING},
		{"p >= 1", types.PERCENT},
		{"c != c", types.COLOR},
		{"f && b", types.FLOAT},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := inferText(t, ctx, test.input)
			assert.NoError(t, err)
			assert.Equal(t, test.expected, got)
		})
	}
}

func TestInferErrors(t *testing.T) {
	ctx := NewTypingContext(nil)
	ctx.Declare("b", types.BOOLEAN)
	ctx.Declare("c", types.COLOR)
	ctx.Declare("s", types.STRING)

	tests := []struct {
		input   string
		kind    error
		message string
		column  int
	}{
		{"x + 1", ErrUndefinedVariable, "undefined variable 'x'", 0},
		{`"a"%`, ErrTypeMismatch, "type mismatch: expected one of [int, float], got str", 0},
		{"-b", ErrTypeMismatch, "type mismatch: expected one of [int, float], got bool", 1},
		{"!1", ErrTypeMismatch, "type mismatch: expected one of [bool], got int", 1},
		{"1 + c", ErrTypeMismatch, "type mismatch: expected one of [int, float, str], got color", 4},
		{"c + 1", ErrTypeMismatch, "type mismatch: expected one of [color, str], got int", 4},
		{"b + b", ErrTypeMismatch, "type mismatch: expected one of [str], got bool", 4},
		{"b * 2", ErrTypeMismatch, "type mismatch: expected one of [str, int, float, percent], got bool", 0},
		{"c / 2", ErrTypeMismatch, "type mismatch: expected one of [str, int, float, percent], got color", 0},
		{"s * s", ErrTypeMismatch, "type mismatch: expected one of [int, float, percent, bool], got str", 4},
		{"s / 5%", ErrTypeMismatch, "type mismatch: expected one of [int, float], got percent", 4},
		{"1 * b", ErrTypeMismatch, "type mismatch: expected one of [int, float, percent, color], got bool", 4},
		{"b == b", ErrTypeMismatch, "type mismatch: expected one of [int, float, str, percent, color], got bool", 0},
		{"b && b", ErrTypeMismatch, "type mismatch: expected one of [int, float, str, percent, color], got bool", 0},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			_, err := inferText(t, ctx, test.input)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, test.kind))

			var terr *TypeError
			assert.True(t, errors.As(err, &terr))
			assert.Equal(t, test.message, terr.Message())
			assert.Equal(t, test.column, terr.Range().From.Column)
			assert.Equal(t, "TYPING ERROR", terr.Header())
		})
	}
}

func TestTypingContextChain(t *testing.T) {
	root := NewTypingContext(nil)
	assert.True(t, root.Declare("x", types.INT))
	assert.False(t, root.Declare("x", types.FLOAT))

	child := root.Child()
	assert.True(t, child.Declare("x", types.STRING))

	got, ok := child.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, types.STRING, got)

	assert.True(t, child.Delete("x"))
	got, _ = child.Lookup("x")
	assert.Equal(t, types.INT, got)

	assert.True(t, child.Delete("x"))
	_, ok = root.Lookup("x")
	assert.False(t, ok)
	assert.False(t, child.Delete("x"))
	assert.Equal(t, root, child.Parent())
}
