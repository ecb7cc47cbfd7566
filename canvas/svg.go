package canvas

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/shibukawa/cursorlang/tokenizer"
)

var ErrNoSVGElement = errors.New("no svg element")

// SVG accumulates strokes in an SVG document.
type SVG struct {
	width, height float64
	doc           *etree.Document
	root          *etree.Element
}

// NewSVG creates an empty drawing. background may be empty for a transparent
// canvas; runID, when set, is stored in the document metadata.
func NewSVG(width, height float64, background, runID string) *SVG {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	root.CreateAttr("width", number(width))
	root.CreateAttr("height", number(height))
	root.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s", number(width), number(height)))

	if runID != "" {
		root.CreateElement("metadata").CreateAttr("data-run-id", runID)
	}

	if background != "" {
		rect := root.CreateElement("rect")
		rect.CreateAttr("width", "100%")
		rect.CreateAttr("height", "100%")
		rect.CreateAttr("fill", background)
	}

	return &SVG{width: width, height: height, doc: doc, root: root}
}

func (s *SVG) DrawLine(l Line) {
	el := s.root.CreateElement("line")
	el.CreateAttr("x1", number(l.FromX))
	el.CreateAttr("y1", number(l.FromY))
	el.CreateAttr("x2", number(l.ToX))
	el.CreateAttr("y2", number(l.ToY))
	el.CreateAttr("stroke", l.Color.RGB())
	el.CreateAttr("stroke-opacity", number(l.Opacity*l.Color.A))
	el.CreateAttr("stroke-width", number(l.Thickness))
	el.CreateAttr("stroke-linecap", "round")
}

func (s *SVG) Width() float64 {
	return s.width
}

func (s *SVG) Height() float64 {
	return s.height
}

// WriteTo writes the indented document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	s.doc.Indent(2)
	return s.doc.WriteTo(w)
}

// String renders the indented document.
func (s *SVG) String() string {
	s.doc.Indent(2)

	text, err := s.doc.WriteToString()
	if err != nil {
		return ""
	}

	return text
}

// ParseSVG reads back the strokes of a document written by SVG. The color
// alpha is folded into the opacity.
func ParseSVG(text string) ([]Line, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, err
	}

	root := doc.SelectElement("svg")
	if root == nil {
		return nil, ErrNoSVGElement
	}

	var lines []Line
	for _, el := range root.SelectElements("line") {
		var (
			l   Line
			err error
		)

		fields := []struct {
			key    string
			target *float64
		}{
			{"x1", &l.FromX}, {"y1", &l.FromY}, {"x2", &l.ToX}, {"y2", &l.ToY},
			{"stroke-opacity", &l.Opacity}, {"stroke-width", &l.Thickness},
		}
		for _, f := range fields {
			*f.target, err = strconv.ParseFloat(el.SelectAttrValue(f.key, "0"), 64)
			if err != nil {
				return nil, fmt.Errorf("line attribute %s: %w", f.key, err)
			}
		}

		stroke := el.SelectAttrValue("stroke", "#000000")
		l.Color, err = tokenizer.ParseHex(stroke[1:])
		if err != nil {
			return nil, err
		}

		lines = append(lines, l)
	}

	return lines, nil
}
