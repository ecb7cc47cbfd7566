package interpreter

import (
	"math"
	"strconv"

	"github.com/shibukawa/cursorlang/canvas"
	"github.com/shibukawa/cursorlang/tokenizer"
	"github.com/shibukawa/cursorlang/value"
)

// CursorID identifies a cursor by an integer or a name.
type CursorID struct {
	Name   string
	Number int64
	Named  bool
}

// NewCursorID accepts an Int or a Str value.
func NewCursorID(v value.Value) (CursorID, error) {
	switch id := v.(type) {
	case value.Int:
		return CursorID{Number: int64(id)}, nil
	case value.Str:
		return CursorID{Name: string(id), Named: true}, nil
	}

	return CursorID{}, faultf(ErrTypeMismatch, "cursor id must be int or str, got %s", v.Type())
}

func (id CursorID) String() string {
	if id.Named {
		return strconv.Quote(id.Name)
	}

	return strconv.FormatInt(id.Number, 10)
}

// Pen is the state the cursor commands act on.
type Pen struct {
	X, Y      float64
	DX, DY    float64
	Color     tokenizer.Color
	Opacity   float64
	Thickness float64
	Visible   bool
}

// Cursor is a Tangible cursor or one of the duplicating wrappers.
type Cursor interface {
	// Pen returns the state moved and styled by commands.
	Pen() (*Pen, error)
	// Stroke draws a segment from (x, y) by (dx, dy).
	Stroke(surface canvas.Surface, x, y, dx, dy float64) error
}

// Tangible owns its pen.
type Tangible struct {
	pen Pen
}

// NewTangible creates a visible black cursor at (x, y) heading up.
func NewTangible(x, y float64) *Tangible {
	return &Tangible{pen: Pen{X: x, Y: y, DY: -1, Color: tokenizer.Black, Opacity: 1, Thickness: 1, Visible: true}}
}

func (t *Tangible) Pen() (*Pen, error) {
	return &t.pen, nil
}

func (t *Tangible) Stroke(surface canvas.Surface, x, y, dx, dy float64) error {
	if !t.pen.Visible {
		return nil
	}

	surface.DrawLine(canvas.Line{
		FromX: x, FromY: y, ToX: x + dx, ToY: y + dy,
		Color: t.pen.Color, Opacity: t.pen.Opacity, Thickness: t.pen.Thickness,
	})

	return nil
}

// wrapped resolves another cursor starting at the scope below the one the
// wrapper lives in.
type wrapped struct {
	scope *Scope
	id    CursorID
}

func (w wrapped) resolve() (Cursor, error) {
	if w.scope != nil {
		if c, ok := w.scope.Cursor(w.id); ok {
			return c, nil
		}
	}

	return nil, faultf(ErrUndefinedCursor, "cursor %s does not exist", w.id)
}

func (w wrapped) Pen() (*Pen, error) {
	c, err := w.resolve()
	if err != nil {
		return nil, err
	}

	return c.Pen()
}

// CentralMirror draws every stroke twice: as is and reflected through a point.
type CentralMirror struct {
	wrapped
	CX, CY float64
}

func (m *CentralMirror) Stroke(surface canvas.Surface, x, y, dx, dy float64) error {
	c, err := m.resolve()
	if err != nil {
		return err
	}

	if err := c.Stroke(surface, x, y, dx, dy); err != nil {
		return err
	}

	return c.Stroke(surface, 2*m.CX-x, 2*m.CY-y, -dx, -dy)
}

// AxialMirror draws every stroke twice: as is and reflected across the line
// through two points.
type AxialMirror struct {
	wrapped
	X1, Y1 float64
	// unit vector along the axis
	UX, UY float64
}

func (m *AxialMirror) reflect(x, y float64) (float64, float64) {
	dot := x*m.UX + y*m.UY
	return 2*dot*m.UX - x, 2*dot*m.UY - y
}

func (m *AxialMirror) Stroke(surface canvas.Surface, x, y, dx, dy float64) error {
	c, err := m.resolve()
	if err != nil {
		return err
	}

	if err := c.Stroke(surface, x, y, dx, dy); err != nil {
		return err
	}

	rx, ry := m.reflect(x-m.X1, y-m.Y1)
	rdx, rdy := m.reflect(dx, dy)

	return c.Stroke(surface, m.X1+rx, m.Y1+ry, rdx, rdy)
}

// Mimic is installed under the id of the mimicked cursor. Strokes of the
// mimicked cursor are repeated by the follower from its own position.
// Installing it does not change the selection, so a MIMIC body that should
// drive both cursors has to SELECT the mimicked id first.
type Mimic struct {
	wrapped
	follower wrapped
}

func (m *Mimic) Stroke(surface canvas.Surface, x, y, dx, dy float64) error {
	c, err := m.resolve()
	if err != nil {
		return err
	}

	if err := c.Stroke(surface, x, y, dx, dy); err != nil {
		return err
	}

	f, err := m.follower.resolve()
	if err != nil {
		return err
	}

	pen, err := f.Pen()
	if err != nil {
		return err
	}

	if err := f.Stroke(surface, pen.X, pen.Y, dx, dy); err != nil {
		return err
	}

	pen.X += dx
	pen.Y += dy

	return nil
}

func axis(x1, y1, x2, y2 float64) (float64, float64, bool) {
	length := math.Hypot(x2-x1, y2-y1)
	if length == 0 {
		return 0, 0, false
	}

	return (x2 - x1) / length, (y2 - y1) / length, true
}
