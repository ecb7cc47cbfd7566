package interpreter

import (
	"math"

	"github.com/shibukawa/cursorlang/canvas"
	"github.com/shibukawa/cursorlang/compiler"
	"github.com/shibukawa/cursorlang/tokenizer"
	"github.com/shibukawa/cursorlang/value"
)

var commands = map[compiler.Op]func(c *EvalContext) error{
	compiler.OpForward:       func(c *EvalContext) error { return c.advance(1) },
	compiler.OpBackward:      func(c *EvalContext) error { return c.advance(-1) },
	compiler.OpTurn:          (*EvalContext).turn,
	compiler.OpPos:           (*EvalContext).pos,
	compiler.OpMove:          (*EvalContext).move,
	compiler.OpHide:          func(c *EvalContext) error { return c.visible(false) },
	compiler.OpShow:          func(c *EvalContext) error { return c.visible(true) },
	compiler.OpPress:         (*EvalContext).press,
	compiler.OpColor:         (*EvalContext).color,
	compiler.OpColorRGB:      (*EvalContext).colorRGB,
	compiler.OpThick:         (*EvalContext).thick,
	compiler.OpLookAtCursor:  (*EvalContext).lookAtCursor,
	compiler.OpLookAtPos:     (*EvalContext).lookAtPos,
	compiler.OpCreateCursor:  (*EvalContext).createCursor,
	compiler.OpSelectCursor:  (*EvalContext).selectCursor,
	compiler.OpRemoveCursor:  (*EvalContext).removeCursor,
	compiler.OpMimic:         (*EvalContext).mimic,
	compiler.OpMirrorCentral: (*EvalContext).mirrorCentral,
	compiler.OpMirrorAxial:   (*EvalContext).mirrorAxial,
}

// selected resolves the cursor commands apply to and its pen.
func (c *EvalContext) selected() (Cursor, *Pen, error) {
	cursor, ok := c.scope.Cursor(c.Selected)
	if !ok {
		return nil, nil, faultf(ErrUndefinedCursor, "selected cursor %s does not exist", c.Selected)
	}

	pen, err := cursor.Pen()
	if err != nil {
		return nil, nil, err
	}

	return cursor, pen, nil
}

// scalars pops len(dimensions) numbers or percentages in push order.
func (c *EvalContext) scalars(dimensions ...float64) ([]float64, error) {
	values, err := c.popN(len(dimensions))
	if err != nil {
		return nil, err
	}

	result := make([]float64, len(values))
	for i, v := range values {
		if result[i], err = value.Scalar(v, dimensions[i]); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (c *EvalContext) cursorID() (CursorID, error) {
	v, err := c.pop()
	if err != nil {
		return CursorID{}, err
	}

	return NewCursorID(v)
}

func (c *EvalContext) stroke(dx, dy float64) error {
	cursor, pen, err := c.selected()
	if err != nil {
		return err
	}

	x, y := pen.X, pen.Y
	if err := cursor.Stroke(c.surface, x, y, dx, dy); err != nil {
		return err
	}

	pen.X = x + dx
	pen.Y = y + dy

	return nil
}

func (c *EvalContext) advance(sign float64) error {
	args, err := c.scalars(canvas.Largest(c.surface))
	if err != nil {
		return err
	}

	_, pen, err := c.selected()
	if err != nil {
		return err
	}

	distance := sign * args[0]

	return c.stroke(pen.DX*distance, pen.DY*distance)
}

func (c *EvalContext) move() error {
	args, err := c.scalars(c.surface.Width(), c.surface.Height())
	if err != nil {
		return err
	}

	return c.stroke(args[0], args[1])
}

// turn rotates clockwise on a canvas whose y axis points down.
func (c *EvalContext) turn() error {
	args, err := c.scalars(360)
	if err != nil {
		return err
	}

	_, pen, err := c.selected()
	if err != nil {
		return err
	}

	sin, cos := math.Sincos(args[0] * math.Pi / 180)
	pen.DX, pen.DY = pen.DX*cos-pen.DY*sin, pen.DX*sin+pen.DY*cos

	return nil
}

func (c *EvalContext) pos() error {
	args, err := c.scalars(c.surface.Width(), c.surface.Height())
	if err != nil {
		return err
	}

	_, pen, err := c.selected()
	if err != nil {
		return err
	}

	pen.X, pen.Y = args[0], args[1]

	return nil
}

func (c *EvalContext) visible(visible bool) error {
	_, pen, err := c.selected()
	if err != nil {
		return err
	}

	pen.Visible = visible

	return nil
}

func (c *EvalContext) press() error {
	args, err := c.scalars(1)
	if err != nil {
		return err
	}

	if args[0] < 0 || args[0] > 1 {
		return faultf(ErrInvalidExpression, "opacity must be in [0, 1], got %g", args[0])
	}

	_, pen, err := c.selected()
	if err != nil {
		return err
	}

	pen.Opacity = args[0]

	return nil
}

func (c *EvalContext) thick() error {
	args, err := c.scalars(canvas.Largest(c.surface))
	if err != nil {
		return err
	}

	if args[0] < 0 {
		return faultf(ErrInvalidExpression, "thickness must not be negative, got %g", args[0])
	}

	_, pen, err := c.selected()
	if err != nil {
		return err
	}

	pen.Thickness = args[0]

	return nil
}

func (c *EvalContext) color() error {
	v, err := c.pop()
	if err != nil {
		return err
	}

	color, ok := v.(value.Color)
	if !ok {
		return faultf(ErrTypeMismatch, "COLOR expects a color, got %s", v.Type())
	}

	_, pen, err := c.selected()
	if err != nil {
		return err
	}

	pen.Color = tokenizer.Color(color)

	return nil
}

func (c *EvalContext) colorRGB() error {
	values, err := c.popN(3)
	if err != nil {
		return err
	}

	rgb, ok := components(values)
	if !ok {
		return faultf(ErrInvalidExpression,
			"COLOR expects three percentages in [0%%, 100%%], three integers in [0, 255] or three numbers in [0, 1], got %s, %s, %s",
			values[0], values[1], values[2])
	}

	_, pen, err := c.selected()
	if err != nil {
		return err
	}

	pen.Color = tokenizer.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}

	return nil
}

// components normalizes a color triple. Percentages are tried first, then
// integers, then plain numbers.
func components(values []value.Value) ([3]float64, bool) {
	forms := []func(v value.Value) (float64, bool){
		func(v value.Value) (float64, bool) {
			p, ok := v.(value.Percentage)
			return float64(p) / 100, ok && p >= 0 && p <= 100
		},
		func(v value.Value) (float64, bool) {
			i, ok := v.(value.Int)
			return float64(i) / 255, ok && i >= 0 && i <= 255
		},
		func(v value.Value) (float64, bool) {
			n, ok := value.Number(v)
			return n, ok && n >= 0 && n <= 1
		},
	}

next:
	for _, form := range forms {
		var rgb [3]float64
		for i, v := range values {
			n, ok := form(v)
			if !ok {
				continue next
			}

			rgb[i] = n
		}

		return rgb, true
	}

	return [3]float64{}, false
}

func (c *EvalContext) look(x, y float64) error {
	_, pen, err := c.selected()
	if err != nil {
		return err
	}

	// a target at the current position leaves NaN components
	dx, dy := x-pen.X, y-pen.Y
	length := math.Hypot(dx, dy)
	pen.DX, pen.DY = dx/length, dy/length

	return nil
}

func (c *EvalContext) lookAtCursor() error {
	id, err := c.cursorID()
	if err != nil {
		return err
	}

	target, ok := c.scope.Cursor(id)
	if !ok {
		return faultf(ErrUndefinedCursor, "cursor %s does not exist", id)
	}

	pen, err := target.Pen()
	if err != nil {
		return err
	}

	return c.look(pen.X, pen.Y)
}

func (c *EvalContext) lookAtPos() error {
	args, err := c.scalars(c.surface.Width(), c.surface.Height())
	if err != nil {
		return err
	}

	return c.look(args[0], args[1])
}

func (c *EvalContext) createCursor() error {
	id, err := c.cursorID()
	if err != nil {
		return err
	}

	return c.install(id, c.newCursor())
}

func (c *EvalContext) selectCursor() error {
	id, err := c.cursorID()
	if err != nil {
		return err
	}

	if _, ok := c.scope.Cursor(id); !ok {
		return faultf(ErrUndefinedCursor, "cursor %s does not exist", id)
	}

	c.Selected = id

	return nil
}

func (c *EvalContext) removeCursor() error {
	id, err := c.cursorID()
	if err != nil {
		return err
	}

	if !c.scope.RemoveCursor(id) {
		return faultf(ErrUndefinedCursor, "cursor %s does not exist", id)
	}

	return nil
}

func (c *EvalContext) install(id CursorID, cursor Cursor) error {
	if !c.scope.DeclareCursor(id, cursor) {
		return faultf(ErrDuplicateCursor, "cursor %s is already declared in this scope", id)
	}

	c.logger.Debug().Str("run", c.runID).Stringer("cursor", id).Msg("install cursor")

	return nil
}

// below refers to id as seen from outside the current scope.
func (c *EvalContext) below(id CursorID) (wrapped, error) {
	w := wrapped{scope: c.scope.parent, id: id}
	if _, err := w.resolve(); err != nil {
		return wrapped{}, err
	}

	return w, nil
}

func (c *EvalContext) mimic() error {
	id, err := c.cursorID()
	if err != nil {
		return err
	}

	if id == c.Selected {
		return faultf(ErrInvalidExpression, "cursor %s cannot mimic itself", id)
	}

	target, err := c.below(id)
	if err != nil {
		return err
	}

	follower, err := c.below(c.Selected)
	if err != nil {
		return err
	}

	return c.install(id, &Mimic{wrapped: target, follower: follower})
}

func (c *EvalContext) mirrorCentral() error {
	args, err := c.scalars(c.surface.Width(), c.surface.Height())
	if err != nil {
		return err
	}

	target, err := c.below(c.Selected)
	if err != nil {
		return err
	}

	return c.install(c.Selected, &CentralMirror{wrapped: target, CX: args[0], CY: args[1]})
}

func (c *EvalContext) mirrorAxial() error {
	w, h := c.surface.Width(), c.surface.Height()

	args, err := c.scalars(w, h, w, h)
	if err != nil {
		return err
	}

	ux, uy, ok := axis(args[0], args[1], args[2], args[3])
	if !ok {
		return faultf(ErrInvalidExpression, "mirror axis needs two distinct points")
	}

	target, err := c.below(c.Selected)
	if err != nil {
		return err
	}

	return c.install(c.Selected, &AxialMirror{wrapped: target, X1: args[0], Y1: args[1], UX: ux, UY: uy})
}
