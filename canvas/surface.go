// Package canvas defines the drawing surface driven by the interpreter and
// a few implementations of it.
package canvas

import (
	"math"

	"github.com/shibukawa/cursorlang/tokenizer"
)

// Line is a single stroke.
type Line struct {
	FromX, FromY float64
	ToX, ToY     float64
	Color        tokenizer.Color
	Opacity      float64
	Thickness    float64
}

// Length is the euclidean length of the stroke.
func (l Line) Length() float64 {
	return math.Hypot(l.ToX-l.FromX, l.ToY-l.FromY)
}

// Surface receives strokes. Implementations are not required to be safe for
// concurrent use.
type Surface interface {
	DrawLine(l Line)
	Width() float64
	Height() float64
}

// Largest returns the larger dimension of s.
func Largest(s Surface) float64 {
	return math.Max(s.Width(), s.Height())
}
