package combinator

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shibukawa/cursorlang/source"
)

// Input is an immutable indexed sequence. Each element owns a span so that
// results can report the Range they consumed.
type Input[E any] struct {
	items    []E
	spans    []source.Range
	end      source.Position
	describe func(E) string

	// rune inputs keep the original text for regexp matching
	text    string
	offsets []int
}

// NewInput builds an input from elements and their spans. end is the position
// reported once every element has been consumed.
func NewInput[E any](items []E, spans []source.Range, end source.Position, describe func(E) string) *Input[E] {
	if describe == nil {
		describe = func(E) string { return "element" }
	}

	return &Input[E]{items: items, spans: spans, end: end, describe: describe}
}

// Runes builds a character input with row/column tracking.
func Runes(text string) *Input[rune] {
	items := make([]rune, 0, utf8.RuneCountInString(text))
	spans := make([]source.Range, 0, cap(items))
	offsets := make([]int, 0, cap(items)+1)

	pos := source.Position{}
	for offset, r := range text {
		next := pos.Advance(r)
		items = append(items, r)
		spans = append(spans, source.Range{From: pos, To: next})
		offsets = append(offsets, offset)
		pos = next
	}

	offsets = append(offsets, len(text))

	return &Input[rune]{
		items:    items,
		spans:    spans,
		end:      pos,
		describe: describeRune,
		text:     text,
		offsets:  offsets,
	}
}

func describeRune(r rune) string {
	return strconv.QuoteRune(r)
}

// Len returns the number of elements.
func (in *Input[E]) Len() int {
	return len(in.items)
}

// State is a cheap, copyable snapshot of a position within an Input.
type State[E any] struct {
	input *Input[E]
	index int
}

// Start returns the state before the first element of in.
func Start[E any](in *Input[E]) State[E] {
	return State[E]{input: in}
}

// Index returns the number of elements consumed so far.
func (s State[E]) Index() int {
	return s.index
}

// Done reports whether every element has been consumed.
func (s State[E]) Done() bool {
	return s.index >= len(s.input.items)
}

// Peek returns the current element.
func (s State[E]) Peek() (E, bool) {
	if s.Done() {
		var zero E
		return zero, false
	}

	return s.input.items[s.index], true
}

// Next returns the state after the current element.
func (s State[E]) Next() State[E] {
	if s.Done() {
		return s
	}

	return State[E]{input: s.input, index: s.index + 1}
}

// Position returns where the current element starts.
func (s State[E]) Position() source.Position {
	if s.Done() {
		return s.input.end
	}

	return s.input.spans[s.index].From
}

// Span returns the range of the current element, or an empty range at the end.
func (s State[E]) Span() source.Range {
	if s.Done() {
		return source.At(s.input.end)
	}

	return s.input.spans[s.index]
}

// Describe renders the current element for error messages.
func (s State[E]) Describe() string {
	e, ok := s.Peek()
	if !ok {
		return "end of input"
	}

	return s.input.describe(e)
}

// Remainder returns the unconsumed text up to the end of the current line.
// It is only meaningful for inputs built with Runes.
func (s State[E]) Remainder() string {
	if s.input.text == "" || s.Done() {
		return ""
	}

	rest := s.input.text[s.input.offsets[s.index]:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}

	return strings.TrimRight(rest, "\r")
}

func (s State[E]) rangeTo(next State[E]) source.Range {
	if next.index <= s.index {
		return source.At(s.Position())
	}

	return s.input.spans[s.index].Merge(s.input.spans[next.index-1])
}
