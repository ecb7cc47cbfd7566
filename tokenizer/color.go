package tokenizer

import (
	"fmt"
	"math"
	"strconv"
)

// Color is a normalized RGBA color. Every component is in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Black is the default stroke color.
var Black = Color{A: 1}

// ParseHex decodes 3, 4, 6 or 8 hexadecimal digits (without '#'). Short
// forms use a 0-15 scale per component, long forms use 0-255.
func ParseHex(digits string) (Color, error) {
	var (
		width int
		scale float64
	)

	switch len(digits) {
	case 3, 4:
		width, scale = 1, 15
	case 6, 8:
		width, scale = 2, 255
	default:
		return Color{}, fmt.Errorf("%w: '#%s' must have 3, 4, 6 or 8 hex digits", ErrInvalidColor, digits)
	}

	components := []float64{0, 0, 0, 1}
	for i := 0; i*width < len(digits); i++ {
		part := digits[i*width : (i+1)*width]

		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: '%s' is not hexadecimal in '#%s'", ErrInvalidColor, part, digits)
		}

		components[i] = float64(v) / scale
	}

	return Color{R: components[0], G: components[1], B: components[2], A: components[3]}, nil
}

// Hex renders the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B), channel(c.A))
}

// RGB renders the color channels as #RRGGBB.
func (c Color) RGB() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	return int(math.Round(Clamp(v) * 255))
}

// Clamp limits v to [0, 1].
func Clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
