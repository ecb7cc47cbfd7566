package combinator

import (
	"errors"
	"regexp"
	"strconv"
	"testing"
	"unicode"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/cursorlang/source"
)

var digit = Satisfy("digit", unicode.IsDigit)

var number = Map(Regexp(regexp.MustCompile(`^[0-9]+`), "number"), func(s string) (int, error) {
	return strconv.Atoi(s)
})

func pos(col int) source.Position {
	return source.Position{Column: col}
}

func TestSatisfy(t *testing.T) {
	r, err := Parse(digit, Runes("7x"))
	assert.NoError(t, err)
	assert.Equal(t, '7', r.Value)
	assert.Equal(t, source.Range{From: pos(0), To: pos(1)}, r.Range)
	assert.Equal(t, 1, r.Next.Index())

	_, err = Parse(digit, Runes("x"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotMatch))
	assert.False(t, IsFatal(err))
	assert.Equal(t, "expected digit, got 'x'", err.Error())
}

func TestRegexpReportsRemainder(t *testing.T) {
	_, err := Parse(number, Runes("abc def\nnext"))
	assert.Error(t, err)

	var perr *Error
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, "'abc def'", perr.Actual)
}

func TestOptionalRewinds(t *testing.T) {
	p := Zip(Optional(Literal("-")), number)

	r, err := Parse(p, Runes("-12"))
	assert.NoError(t, err)
	assert.True(t, r.Value.First.Present)
	assert.Equal(t, 12, r.Value.Second)

	r, err = Parse(p, Runes("12"))
	assert.NoError(t, err)
	assert.False(t, r.Value.First.Present)
	assert.Equal(t, 12, r.Value.Second)
	assert.Equal(t, source.Range{From: pos(0), To: pos(2)}, r.Range)
}

func TestRepeat(t *testing.T) {
	r, err := Parse(Repeat(digit), Runes("123a"))
	assert.NoError(t, err)
	assert.Equal(t, []rune{'1', '2', '3'}, r.Value)
	assert.Equal(t, source.Range{From: pos(0), To: pos(3)}, r.Range)
	assert.Equal(t, 3, r.Next.Index())

	r, err = Parse(Repeat(digit), Runes("abc"))
	assert.NoError(t, err)
	assert.Equal(t, 0, len(r.Value))
	assert.Equal(t, source.At(pos(0)), r.Range)
}

func TestRepeatUntil(t *testing.T) {
	p := RepeatUntil(digit, Literal(";"))

	r, err := Parse(p, Runes("12;3"))
	assert.NoError(t, err)
	assert.Equal(t, []rune{'1', '2'}, r.Value)
	assert.Equal(t, 3, r.Next.Index())
	assert.Equal(t, source.Range{From: pos(0), To: pos(3)}, r.Range)

	_, err = Parse(p, Runes("12"))
	assert.Error(t, err)
	assert.Equal(t, "expected ';' or digit, got end of input", err.Error())
}

func TestRepeatReduceIsLeftAssociative(t *testing.T) {
	minus := Map(Literal("-"), func(string) (func(int, int) int, error) {
		return func(l, r int) int { return l - r }, nil
	})

	r, err := Parse(RepeatReduce(number, minus), Runes("10-3-2"))
	assert.NoError(t, err)
	assert.Equal(t, 5, r.Value)
	assert.Equal(t, source.Range{From: pos(0), To: pos(6)}, r.Range)
}

func TestFirstSucceedingBacktracks(t *testing.T) {
	ab := Map(Sequence(Literal("a"), Literal("b")), func([]string) (string, error) { return "ab", nil })
	ac := Map(Sequence(Literal("a"), Literal("c")), func([]string) (string, error) { return "ac", nil })

	r, err := Parse(FirstSucceeding(ab, ac), Runes("ac"))
	assert.NoError(t, err)
	assert.Equal(t, "ac", r.Value)

	_, err = Parse(FirstSucceeding(ab, ac), Runes("ad"))
	assert.Error(t, err)
	assert.False(t, IsFatal(err))
	assert.Equal(t, "expected 'b' or 'c', got 'd'", err.Error())
}

func TestFatalStopsAlternatives(t *testing.T) {
	committed := Prefixed(Literal("("), Fatal(Suffixed(number, Literal(")"))))
	fallback := Map(Literal("("), func(string) (int, error) { return -1, nil })

	_, err := Parse(FirstSucceeding(committed, fallback), Runes("(1"))
	assert.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.True(t, errors.Is(err, ErrFatal))

	_, err = Parse(Optional(committed), Runes("(x"))
	assert.True(t, IsFatal(err))
}

func TestLazyRecursion(t *testing.T) {
	var nested Parser[rune, int]
	nested = FirstSucceeding(
		Map(Prefixed(Literal("("), Suffixed(Lazy(func() Parser[rune, int] { return nested }), Literal(")"))), func(v int) (int, error) {
			return v + 1, nil
		}),
		Succeed[rune](0),
	)

	r, err := Parse(nested, Runes("((()))"))
	assert.NoError(t, err)
	assert.Equal(t, 3, r.Value)
}

func TestMapFailureIsPropagated(t *testing.T) {
	failing := Map(number, func(int) (int, error) { return 0, errors.New("too large") })

	_, err := Parse(failing, Runes("99"))
	assert.Error(t, err)

	var perr *Error
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, "too large", perr.Message())
	assert.Equal(t, source.Range{From: pos(0), To: pos(2)}, perr.Range())
}

func TestLabel(t *testing.T) {
	op := Label(FirstSucceeding(Literal("+"), Literal("-")), "additive operator")

	_, err := Parse(op, Runes("*"))
	assert.Equal(t, "expected additive operator, got '*'", err.Error())
}

func TestEnd(t *testing.T) {
	p := Suffixed(number, End[rune]("end of input"))

	_, err := Parse(p, Runes("12"))
	assert.NoError(t, err)

	_, err = Parse(p, Runes("12x"))
	assert.Error(t, err)
}
