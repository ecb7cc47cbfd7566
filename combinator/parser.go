// Package combinator is a generic backtracking parser-combinator engine.
//
// A Parser is a pure function from a State to a Result. Every combinator works
// on the State it was handed and only returns an advanced State on success, so
// alternatives and optional parts never need explicit save/restore.
//
// Combinator names and the split between not-matched and critical errors
// follow github.com/shibukawa/parsercombinator.
package combinator

import (
	"errors"
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/shibukawa/cursorlang/source"
)

// Result is a successful parse.
type Result[E, T any] struct {
	Value T
	Range source.Range
	Next  State[E]
}

// Parser consumes a prefix of the input starting at a State.
type Parser[E, T any] func(s State[E]) (Result[E, T], error)

// Option is the value produced by Optional.
type Option[T any] struct {
	Value   T
	Present bool
}

// Pair is the value produced by Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Parse runs p from the beginning of in.
func Parse[E, T any](p Parser[E, T], in *Input[E]) (Result[E, T], error) {
	return p(Start(in))
}

// Satisfy consumes one element accepted by pred.
func Satisfy[E any](expected string, pred func(E) bool) Parser[E, E] {
	return func(s State[E]) (Result[E, E], error) {
		e, ok := s.Peek()
		if !ok || !pred(e) {
			return Result[E, E]{}, Failure(s, expected)
		}

		return Result[E, E]{Value: e, Range: s.Span(), Next: s.Next()}, nil
	}
}

// Succeed consumes nothing and returns v.
func Succeed[E, T any](v T) Parser[E, T] {
	return func(s State[E]) (Result[E, T], error) {
		return Result[E, T]{Value: v, Range: source.At(s.Position()), Next: s}, nil
	}
}

// End matches the end of the input.
func End[E any](expected string) Parser[E, struct{}] {
	return func(s State[E]) (Result[E, struct{}], error) {
		if !s.Done() {
			return Result[E, struct{}]{}, Failure(s, expected)
		}

		return Result[E, struct{}]{Range: s.Span(), Next: s}, nil
	}
}

// Literal matches the exact text lit.
func Literal(lit string) Parser[rune, string] {
	want := []rune(lit)
	expected := "'" + lit + "'"

	return func(s State[rune]) (Result[rune, string], error) {
		cur := s
		for _, w := range want {
			r, ok := cur.Peek()
			if !ok || r != w {
				return Result[rune, string]{}, Failure(s, expected)
			}

			cur = cur.Next()
		}

		return Result[rune, string]{Value: lit, Range: s.rangeTo(cur), Next: cur}, nil
	}
}

// Regexp matches re at the current position of a rune input. re should be
// anchored with ^. On failure the unconsumed remainder of the line is
// reported as the actual text.
func Regexp(re *regexp.Regexp, expected string) Parser[rune, string] {
	return func(s State[rune]) (Result[rune, string], error) {
		var matched string
		if !s.Done() && s.input.text != "" {
			rest := s.input.text[s.input.offsets[s.index]:]
			if loc := re.FindStringIndex(rest); loc != nil && loc[0] == 0 && loc[1] > 0 {
				matched = rest[:loc[1]]
			}
		}

		if matched == "" {
			err := Failure(s, expected)
			if remainder := s.Remainder(); remainder != "" {
				err.Actual = "'" + remainder + "'"
			}

			return Result[rune, string]{}, err
		}

		next := State[rune]{input: s.input, index: s.index + utf8.RuneCountInString(matched)}

		return Result[rune, string]{Value: matched, Range: s.rangeTo(next), Next: next}, nil
	}
}

// Map transforms a successful result. A failing transformation is propagated.
func Map[E, T, U any](p Parser[E, T], f func(T) (U, error)) Parser[E, U] {
	return MapWithRange(p, func(v T, _ source.Range) (U, error) {
		return f(v)
	})
}

// MapWithRange transforms a successful result using the range it covers.
func MapWithRange[E, T, U any](p Parser[E, T], f func(T, source.Range) (U, error)) Parser[E, U] {
	return func(s State[E]) (Result[E, U], error) {
		r, err := p(s)
		if err != nil {
			return Result[E, U]{}, err
		}

		v, err := f(r.Value, r.Range)
		if err != nil {
			var perr *Error
			if !errors.As(err, &perr) {
				perr = &Error{At: r.Range, Reason: err.Error(), Cause: err}
			}

			return Result[E, U]{}, perr
		}

		return Result[E, U]{Value: v, Range: r.Range, Next: r.Next}, nil
	}
}

// Optional never fails recoverably: an absent match leaves the input untouched.
func Optional[E, T any](p Parser[E, T]) Parser[E, Option[T]] {
	return func(s State[E]) (Result[E, Option[T]], error) {
		r, err := p(s)
		if err != nil {
			if IsFatal(err) {
				return Result[E, Option[T]]{}, err
			}

			return Result[E, Option[T]]{Range: source.At(s.Position()), Next: s}, nil
		}

		return Result[E, Option[T]]{Value: Option[T]{Value: r.Value, Present: true}, Range: r.Range, Next: r.Next}, nil
	}
}

// Repeat greedily collects results until the first recoverable failure.
func Repeat[E, T any](p Parser[E, T]) Parser[E, []T] {
	return func(s State[E]) (Result[E, []T], error) {
		var (
			items  []T
			ranges []source.Range
		)

		cur := s
		for {
			r, err := p(cur)
			if err != nil {
				if IsFatal(err) {
					return Result[E, []T]{}, err
				}

				break
			}

			if r.Next.index == cur.index {
				break
			}

			items = append(items, r.Value)
			ranges = append(ranges, r.Range)
			cur = r.Next
		}

		return Result[E, []T]{Value: items, Range: collected(s, ranges), Next: cur}, nil
	}
}

// RepeatUntil repeats p as long as terminator does not match. The terminator
// is consumed once and its range is part of the result.
func RepeatUntil[E, T, X any](p Parser[E, T], terminator Parser[E, X]) Parser[E, []T] {
	return func(s State[E]) (Result[E, []T], error) {
		var (
			items  []T
			ranges []source.Range
		)

		cur := s
		for {
			t, terr := terminator(cur)
			if terr == nil {
				ranges = append(ranges, t.Range)
				return Result[E, []T]{Value: items, Range: collected(s, ranges), Next: t.Next}, nil
			}

			if IsFatal(terr) {
				return Result[E, []T]{}, terr
			}

			r, err := p(cur)
			if err != nil {
				if IsFatal(err) {
					return Result[E, []T]{}, err
				}

				return Result[E, []T]{}, furthest(AsError(terr, cur.Span()), AsError(err, cur.Span()))
			}

			if r.Next.index == cur.index {
				return Result[E, []T]{}, terr
			}

			items = append(items, r.Value)
			ranges = append(ranges, r.Range)
			cur = r.Next
		}
	}
}

// RepeatReduce parses operand (operator operand)* and folds to the left with
// the function produced by each operator.
func RepeatReduce[E, T any](operand Parser[E, T], operator Parser[E, func(T, T) T]) Parser[E, T] {
	return func(s State[E]) (Result[E, T], error) {
		first, err := operand(s)
		if err != nil {
			return Result[E, T]{}, err
		}

		acc := first
		for {
			op, err := operator(acc.Next)
			if err != nil {
				if IsFatal(err) {
					return Result[E, T]{}, err
				}

				return acc, nil
			}

			rhs, err := operand(op.Next)
			if err != nil {
				return Result[E, T]{}, err
			}

			acc = Result[E, T]{
				Value: op.Value(acc.Value, rhs.Value),
				Range: acc.Range.Merge(rhs.Range),
				Next:  rhs.Next,
			}
		}
	}
}

// Zip sequences two parsers and keeps both results.
func Zip[E, A, B any](a Parser[E, A], b Parser[E, B]) Parser[E, Pair[A, B]] {
	return func(s State[E]) (Result[E, Pair[A, B]], error) {
		ra, err := a(s)
		if err != nil {
			return Result[E, Pair[A, B]]{}, err
		}

		rb, err := b(ra.Next)
		if err != nil {
			return Result[E, Pair[A, B]]{}, err
		}

		return Result[E, Pair[A, B]]{
			Value: Pair[A, B]{First: ra.Value, Second: rb.Value},
			Range: spanning(s, ra, rb),
			Next:  rb.Next,
		}, nil
	}
}

// Prefixed sequences two parsers and keeps the second result.
func Prefixed[E, A, B any](a Parser[E, A], b Parser[E, B]) Parser[E, B] {
	return Map(Zip(a, b), func(p Pair[A, B]) (B, error) { return p.Second, nil })
}

// Suffixed sequences two parsers and keeps the first result.
func Suffixed[E, A, B any](a Parser[E, A], b Parser[E, B]) Parser[E, A] {
	return Map(Zip(a, b), func(p Pair[A, B]) (A, error) { return p.First, nil })
}

// Sequence runs parsers of the same type one after another.
func Sequence[E, T any](parsers ...Parser[E, T]) Parser[E, []T] {
	return func(s State[E]) (Result[E, []T], error) {
		values := make([]T, 0, len(parsers))
		ranges := make([]source.Range, 0, len(parsers))

		cur := s
		for _, p := range parsers {
			r, err := p(cur)
			if err != nil {
				return Result[E, []T]{}, err
			}

			values = append(values, r.Value)
			if r.Next.index != cur.index {
				ranges = append(ranges, r.Range)
			}
			cur = r.Next
		}

		return Result[E, []T]{Value: values, Range: collected(s, ranges), Next: cur}, nil
	}
}

// FirstSucceeding commits to the first parser that succeeds. When all of them
// fail recoverably, the failure that progressed the most is returned.
func FirstSucceeding[E, T any](parsers ...Parser[E, T]) Parser[E, T] {
	return func(s State[E]) (Result[E, T], error) {
		var failure *Error

		for _, p := range parsers {
			r, err := p(s)
			if err == nil {
				return r, nil
			}

			if IsFatal(err) {
				return Result[E, T]{}, err
			}

			failure = furthest(failure, AsError(err, s.Span()))
		}

		if failure == nil {
			failure = Failure(s)
		}

		return Result[E, T]{}, failure
	}
}

// Fatal escalates recoverable failures of p.
func Fatal[E, T any](p Parser[E, T]) Parser[E, T] {
	return func(s State[E]) (Result[E, T], error) {
		r, err := p(s)
		if err != nil {
			return Result[E, T]{}, AsError(err, s.Span()).escalate()
		}

		return r, nil
	}
}

// Label replaces the expectation of a failure that did not get past the
// starting element.
func Label[E, T any](p Parser[E, T], expected ...string) Parser[E, T] {
	return func(s State[E]) (Result[E, T], error) {
		r, err := p(s)
		if err == nil {
			return r, nil
		}

		perr := AsError(err, s.Span())
		if perr.Fatal || perr.At.From != s.Position() {
			return Result[E, T]{}, perr
		}

		actual := perr.Actual
		if actual == "" {
			actual = s.Describe()
		}

		return Result[E, T]{}, &Error{At: s.Span(), Expected: expected, Actual: actual}
	}
}

// Lazy builds the parser on first use, which allows recursive grammars.
func Lazy[E, T any](supplier func() Parser[E, T]) Parser[E, T] {
	var (
		once sync.Once
		p    Parser[E, T]
	)

	return func(s State[E]) (Result[E, T], error) {
		once.Do(func() { p = supplier() })
		return p(s)
	}
}

// spanning merges the ranges of two consecutive results, ignoring a side
// that consumed nothing.
func spanning[E, A, B any](s State[E], a Result[E, A], b Result[E, B]) source.Range {
	switch {
	case a.Next.index == s.index:
		return b.Range
	case b.Next.index == a.Next.index:
		return a.Range
	default:
		return a.Range.Merge(b.Range)
	}
}

func collected[E any](s State[E], ranges []source.Range) source.Range {
	if len(ranges) == 0 {
		return source.At(s.Position())
	}

	return source.MergeAll(ranges...)
}
