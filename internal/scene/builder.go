package scene

import (
	"math"

	"github.com/piwi3910/PackView/internal/model"
	"github.com/piwi3910/PackView/internal/viewport"
)

const (
	// maxGridLines caps the gridlines emitted per axis.
	maxGridLines = 2000
	// maxAxisTicks caps the tick marks emitted per axis.
	maxAxisTicks = 1000

	tickLength   = 16
	tickLabelGap = 4

	backdropW      = 72
	backdropH      = 24
	backdropRadius = 4
	labelBaseline  = 5

	rotatedMarker = " ↻"
)

// Options controls presentation choices that do not affect geometry.
type Options struct {
	RTL   bool  // right-to-left text anchoring and axis label side
	Theme Theme // zero value means DefaultTheme
}

// OptionsFromApp derives scene options from the application settings.
func OptionsFromApp(app model.AppConfig) Options {
	opts := Options{RTL: app.RTLLabels, Theme: DefaultTheme()}
	if app.Theme == "dark" {
		opts.Theme = DarkTheme()
	}
	return opts
}

// Build lays out the diagram for state. It is a pure function of its
// arguments; the primitives are emitted back to front: background, vertical
// then horizontal gridlines, bin outline, each rectangle with its label
// backdrop and label, then the axis ticks along the bottom and left edges.
// An invalid bin yields only the background and grid.
func Build(state viewport.State, bin model.Bin, rects []model.PlacedRectangle, opts Options) Scene {
	s := state.Normalized()
	th := opts.Theme
	if th == (Theme{}) {
		th = DefaultTheme()
	}
	w, h := s.Viewport.W, s.Viewport.H

	b := builder{state: s, theme: th, rtl: opts.RTL}
	// The background covers the whole surface and is not snapped.
	b.add(Rect{Kind: LayerBackground, W: w, H: h, Fill: th.Background})
	b.grid()

	if bin.Validate() == nil {
		b.binOutline(bin)
		for _, r := range rects {
			b.rect(r)
		}
		b.axes(bin)
	}

	return Scene{Width: w, Height: h, Primitives: b.prims}
}

type builder struct {
	state viewport.State
	theme Theme
	rtl   bool
	prims []Primitive
}

func (b *builder) add(p Primitive) {
	b.prims = append(b.prims, p)
}

func crisp(n float64) float64 {
	return viewport.Crisp(n, 1)
}

func (b *builder) grid() {
	s := b.state
	g := viewport.Grid(s.Scale)
	vis := s.VisibleWorld()
	w, h := s.Viewport.W, s.Viewport.H

	for _, l := range g.Lines(vis.X, vis.X+vis.W, maxGridLines) {
		sx := crisp(s.WorldToScreenX(l.Pos))
		b.add(b.gridLine(l.Major, sx, crisp(0), sx, crisp(h)))
	}
	for _, l := range g.Lines(vis.Y, vis.Y+vis.H, maxGridLines) {
		sy := crisp(s.WorldToScreenY(l.Pos))
		b.add(b.gridLine(l.Major, crisp(0), sy, crisp(w), sy))
	}
}

func (b *builder) gridLine(major bool, x1, y1, x2, y2 float64) Line {
	l := Line{Kind: LayerGridMinor, X1: x1, Y1: y1, X2: x2, Y2: y2, Stroke: b.theme.GridMinor, StrokeWidth: 1}
	if major {
		l.Kind = LayerGridMajor
		l.Stroke = b.theme.GridMajor
	}
	return l
}

func (b *builder) binOutline(bin model.Bin) {
	s := b.state
	x0 := s.WorldToScreenX(0)
	x1 := s.WorldToScreenX(bin.Width)
	y0 := s.WorldToScreenY(0)
	y1 := s.WorldToScreenY(bin.Height)

	b.add(Rect{
		Kind:        LayerBinOutline,
		X:           crisp(x0),
		Y:           crisp(y1),
		W:           math.Max(0, crisp(x1)-crisp(x0)-1),
		H:           math.Max(0, crisp(y0)-crisp(y1)-1),
		Fill:        b.theme.BinFill,
		Stroke:      b.theme.BinStroke,
		StrokeWidth: 1,
	})
}

func (b *builder) rect(r model.PlacedRectangle) {
	sr := b.state.ScreenRect(r.X, r.Y, r.W, r.H)
	if !finite(sr.X, sr.Y, sr.W, sr.H) {
		return
	}
	b.add(Rect{
		Kind:        LayerRect,
		X:           crisp(sr.X),
		Y:           crisp(sr.Y),
		W:           math.Max(0, crisp(sr.X+sr.W)-crisp(sr.X)-1),
		H:           math.Max(0, crisp(sr.Y+sr.H)-crisp(sr.Y)-1),
		Fill:        b.theme.RectFill,
		Stroke:      b.theme.RectStroke,
		StrokeWidth: 1,
		RectID:      r.ID,
	})

	cx := sr.X + sr.W/2
	cy := sr.Y + sr.H/2
	b.add(Rect{
		Kind:   LayerLabelBackdrop,
		X:      crisp(cx - backdropW/2),
		Y:      crisp(cy - backdropH/2),
		W:      backdropW,
		H:      backdropH,
		Radius: backdropRadius,
		Fill:   b.theme.LabelBackdrop,
		RectID: r.ID,
	})

	label := r.Label()
	if r.Rotated {
		label += rotatedMarker
	}
	b.add(Text{
		Kind:    LayerLabel,
		X:       crisp(cx),
		Y:       crisp(cy + labelBaseline),
		Content: label,
		Size:    b.theme.LabelSize,
		Anchor:  AnchorMiddle,
		Fill:    b.theme.LabelText,
	})
}

func (b *builder) axes(bin model.Bin) {
	s := b.state
	g := viewport.Grid(s.Scale)
	w, h := s.Viewport.W, s.Viewport.H

	anchor := AnchorStart
	dx := float64(tickLabelGap)
	if b.rtl {
		anchor = AnchorEnd
		dx = -tickLabelGap
	}

	for _, x := range g.Ticks(bin.Width, maxAxisTicks) {
		sx := s.WorldToScreenX(x)
		b.add(b.tick(crisp(sx), crisp(h-tickLength), crisp(sx), crisp(h)))
		b.add(Text{
			Kind:    LayerAxisLabel,
			X:       crisp(sx + dx),
			Y:       crisp(h - tickLength - tickLabelGap),
			Content: model.FormatNumber(x),
			Size:    b.theme.AxisSize,
			Anchor:  anchor,
			Fill:    b.theme.AxisLabel,
		})
	}

	labelX := float64(tickLength + tickLabelGap)
	if b.rtl {
		labelX = w - tickLabelGap
	}
	for _, y := range g.Ticks(bin.Height, maxAxisTicks) {
		sy := s.WorldToScreenY(y)
		b.add(b.tick(crisp(0), crisp(sy), crisp(tickLength), crisp(sy)))
		b.add(Text{
			Kind:    LayerAxisLabel,
			X:       crisp(labelX),
			Y:       crisp(sy - tickLabelGap),
			Content: model.FormatNumber(y),
			Size:    b.theme.AxisSize,
			Anchor:  anchor,
			Fill:    b.theme.AxisLabel,
		})
	}
}

func (b *builder) tick(x1, y1, x2, y2 float64) Line {
	return Line{Kind: LayerAxisTick, X1: x1, Y1: y1, X2: x2, Y2: y2, Stroke: b.theme.AxisTick, StrokeWidth: 1}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
