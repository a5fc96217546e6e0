// Package scene turns a viewport state, a bin and its placed rectangles into
// an ordered list of screen-space drawing primitives.
package scene

import "image/color"

// Layer tags what a primitive depicts. Renderers may style by layer; the
// draw order is always the order of Scene.Primitives.
type Layer int

const (
	LayerBackground Layer = iota
	LayerGridMinor
	LayerGridMajor
	LayerBinOutline
	LayerRect
	LayerLabelBackdrop
	LayerLabel
	LayerAxisTick
	LayerAxisLabel
)

var layerNames = map[Layer]string{
	LayerBackground:    "background",
	LayerGridMinor:     "grid-minor",
	LayerGridMajor:     "grid-major",
	LayerBinOutline:    "bin-outline",
	LayerRect:          "rect",
	LayerLabelBackdrop: "label-backdrop",
	LayerLabel:         "label",
	LayerAxisTick:      "axis-tick",
	LayerAxisLabel:     "axis-label",
}

func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return "unknown"
}

// Anchor is the horizontal alignment of a Text relative to its X.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// String returns the SVG text-anchor keyword.
func (a Anchor) String() string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "start"
	}
}

// Primitive is one drawable element of a Scene: a Rect, Line or Text.
type Primitive interface {
	Layer() Layer
}

// Rect is an axis-aligned rectangle with its top-left corner at (X, Y).
// A zero Fill or Stroke colour is not painted.
type Rect struct {
	Kind        Layer
	X, Y, W, H  float64
	Radius      float64
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
	RectID      string // placed rectangle ID, empty for non-part rects
}

func (r Rect) Layer() Layer { return r.Kind }

// Line is a straight stroke from (X1, Y1) to (X2, Y2).
type Line struct {
	Kind           Layer
	X1, Y1, X2, Y2 float64
	Stroke         color.NRGBA
	StrokeWidth    float64
}

func (l Line) Layer() Layer { return l.Kind }

// Text is a single line of text whose baseline starts, centres or ends at
// (X, Y) depending on Anchor.
type Text struct {
	Kind    Layer
	X, Y    float64
	Content string
	Size    float64 // font size in px
	Anchor  Anchor
	Fill    color.NRGBA
}

func (t Text) Layer() Layer { return t.Kind }

// Scene is an immutable screen-space drawing of Width x Height pixels.
type Scene struct {
	Width      float64
	Height     float64
	Primitives []Primitive
}

// ByLayer returns the primitives tagged l, in draw order.
func (s Scene) ByLayer(l Layer) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if p.Layer() == l {
			out = append(out, p)
		}
	}
	return out
}

// Texts returns every Text primitive in draw order.
func (s Scene) Texts() []Text {
	var out []Text
	for _, p := range s.Primitives {
		if t, ok := p.(Text); ok {
			out = append(out, t)
		}
	}
	return out
}
