// Package viewport maps between the bin's world space and screen pixels and
// owns the pan/zoom state of a diagram.
//
// World space has its origin at the bottom-left corner of the bin with y
// pointing up. Screen space has its origin at the top-left corner of the
// viewport with y pointing down.
package viewport

import "math"

// minScale is the smallest scale a State is normalised to.
const minScale = 1e-6

// Point is a 2D coordinate, in world units or screen pixels depending on use.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) finite() bool { return isFinite(p.X) && isFinite(p.Y) }

// Size is a viewport extent in screen pixels.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle. X and Y are the top-left corner in
// screen space or the bottom-left corner in world space.
type Rect struct {
	X, Y, W, H float64
}

// State is the view-session transform: Scale is screen pixels per world
// unit and Pan is the world coordinate of the viewport's bottom-left corner.
type State struct {
	Scale    float64
	Pan      Point
	Viewport Size
}

// Normalized returns a copy that is safe to map with: a non-positive or
// non-finite scale becomes a tiny positive one, a degenerate viewport side
// becomes one pixel and a non-finite pan becomes zero.
func (s State) Normalized() State {
	if !(s.Scale > 0) || math.IsInf(s.Scale, 0) {
		s.Scale = minScale
	}
	if !(s.Viewport.W > 0) || math.IsInf(s.Viewport.W, 0) {
		s.Viewport.W = 1
	}
	if !(s.Viewport.H > 0) || math.IsInf(s.Viewport.H, 0) {
		s.Viewport.H = 1
	}
	if !isFinite(s.Pan.X) {
		s.Pan.X = 0
	}
	if !isFinite(s.Pan.Y) {
		s.Pan.Y = 0
	}
	return s
}

// WorldToScreenX maps a world x coordinate to a screen column.
func (s State) WorldToScreenX(x float64) float64 {
	s = s.Normalized()
	return (x - s.Pan.X) * s.Scale
}

// WorldToScreenY maps a world y coordinate to a screen row.
func (s State) WorldToScreenY(y float64) float64 {
	s = s.Normalized()
	return s.Viewport.H - (y-s.Pan.Y)*s.Scale
}

// ScreenToWorldX maps a screen column to a world x coordinate.
func (s State) ScreenToWorldX(sx float64) float64 {
	s = s.Normalized()
	return s.Pan.X + sx/s.Scale
}

// ScreenToWorldY maps a screen row to a world y coordinate.
func (s State) ScreenToWorldY(sy float64) float64 {
	s = s.Normalized()
	return s.Pan.Y + (s.Viewport.H-sy)/s.Scale
}

// WorldToScreen maps a world point to screen pixels.
func (s State) WorldToScreen(p Point) Point {
	return Point{s.WorldToScreenX(p.X), s.WorldToScreenY(p.Y)}
}

// ScreenToWorld maps a screen point to world units.
func (s State) ScreenToWorld(p Point) Point {
	return Point{s.ScreenToWorldX(p.X), s.ScreenToWorldY(p.Y)}
}

// ScreenRect maps the world rectangle with bottom-left corner (x, y) to
// its screen top-left corner and pixel size.
func (s State) ScreenRect(x, y, w, h float64) Rect {
	n := s.Normalized()
	return Rect{
		X: n.WorldToScreenX(x),
		Y: n.WorldToScreenY(y + h),
		W: w * n.Scale,
		H: h * n.Scale,
	}
}

// VisibleWorld returns the world rectangle currently covered by the viewport.
func (s State) VisibleWorld() Rect {
	s = s.Normalized()
	return Rect{
		X: s.Pan.X,
		Y: s.Pan.Y,
		W: s.Viewport.W / s.Scale,
		H: s.Viewport.H / s.Scale,
	}
}

// Crisp snaps n to the centre of a device pixel so 1px strokes render
// sharp: round(n*scale)/scale + 0.5/scale.
func Crisp(n, scale float64) float64 {
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	return math.Round(n*scale)/scale + 0.5/scale
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
