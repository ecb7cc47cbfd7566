package canvas

import (
	"fmt"
	"io"
	"strconv"
)

// Recorder keeps every stroke in memory.
type Recorder struct {
	width, height float64
	Lines         []Line
}

func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) DrawLine(l Line) {
	r.Lines = append(r.Lines, l)
}

func (r *Recorder) Width() float64 {
	return r.width
}

func (r *Recorder) Height() float64 {
	return r.height
}

// Reset drops the recorded strokes.
func (r *Recorder) Reset() {
	r.Lines = nil
}

// WriteText prints one stroke per line:
//
//	x1,y1 -> x2,y2 #RRGGBBAA opacity thickness
func (r *Recorder) WriteText(w io.Writer) error {
	for _, l := range r.Lines {
		_, err := fmt.Fprintf(w, "%s,%s -> %s,%s %s %s %s\n",
			number(l.FromX), number(l.FromY), number(l.ToX), number(l.ToY),
			l.Color.Hex(), number(l.Opacity), number(l.Thickness))
		if err != nil {
			return err
		}
	}

	return nil
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
