package source

import "fmt"

// Position is a zero-based location in a source text.
type Position struct {
	Column int
	Row    int
}

// Advance returns the position following r.
func (p Position) Advance(r rune) Position {
	if r == '\n' {
		return Position{Column: 0, Row: p.Row + 1}
	}

	return Position{Column: p.Column + 1, Row: p.Row}
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}

	return p.Column < other.Column
}

// String renders the position as 1-based "row:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row+1, p.Column+1)
}

// Range is the half-open span [From, To).
type Range struct {
	From Position
	To   Position
}

// At returns an empty range at p.
func At(p Position) Range {
	return Range{From: p, To: p}
}

// Empty reports whether the range covers nothing.
func (r Range) Empty() bool {
	return r.From == r.To
}

// SingleLine reports whether both ends are on the same row.
func (r Range) SingleLine() bool {
	return r.From.Row == r.To.Row
}

// Merge returns the smallest range covering r and other.
func (r Range) Merge(other Range) Range {
	merged := r
	if other.From.Before(merged.From) {
		merged.From = other.From
	}

	if merged.To.Before(other.To) {
		merged.To = other.To
	}

	return merged
}

// MergeAll folds Merge over ranges. It returns the zero Range for no input.
func MergeAll(ranges ...Range) Range {
	if len(ranges) == 0 {
		return Range{}
	}

	merged := ranges[0]
	for _, r := range ranges[1:] {
		merged = merged.Merge(r)
	}

	return merged
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.From, r.To)
}
