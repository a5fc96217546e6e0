package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// ErrInvalidBin is returned when a bin has a non-positive or non-finite side.
var ErrInvalidBin = errors.New("invalid bin dimensions")

// Bin is the rectangular container being visualised. World space spans
// [0,Width] x [0,Height] with the origin at the bottom-left corner, y up.
type Bin struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate reports whether the bin can be used as a world space.
func (b Bin) Validate() error {
	if !isPositiveFinite(b.Width) || !isPositiveFinite(b.Height) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidBin, b.Width, b.Height)
	}
	return nil
}

// Area returns Width*Height.
func (b Bin) Area() float64 {
	return b.Width * b.Height
}

// LongestSide returns max(Width, Height).
func (b Bin) LongestSide() float64 {
	return math.Max(b.Width, b.Height)
}

// PlacedRectangle is one rectangle returned by the packing service.
// (X, Y) is the bottom-left corner in world units. W and H are the placed
// (post-rotation) extents.
type PlacedRectangle struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"width"`
	H       float64 `json:"height"`
	Rotated bool    `json:"rotated"`
}

// Label returns the diagram caption, e.g. "3 • 50×30".
func (r PlacedRectangle) Label() string {
	return fmt.Sprintf("%s • %s×%s", r.ID, FormatNumber(r.W), FormatNumber(r.H))
}

// Area returns W*H.
func (r PlacedRectangle) Area() float64 {
	return r.W * r.H
}

// Center returns the world-space centroid.
func (r PlacedRectangle) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// InBin reports whether the rectangle lies entirely inside the bin.
// Rectangles outside are still drawn; this is informational only.
func (r PlacedRectangle) InBin(b Bin) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= b.Width && r.Y+r.H <= b.Height
}

// RectSize is an unplaced width/height pair.
type RectSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout is an already-computed packing: the bin, the placed rectangles
// and the density reported by the packing service.
type Layout struct {
	Name       string            `json:"name,omitempty"`
	Bin        Bin               `json:"bin"`
	Rectangles []PlacedRectangle `json:"rectangles"`
	Unplaced   []RectSize        `json:"unplaced,omitempty"`
	Density    float64           `json:"density"` // 0..1, 0 when the service did not report one
}

// NewLayout creates a layout with an empty, non-nil rectangle list.
func NewLayout(bin Bin) Layout {
	return Layout{
		Name:       "Untitled",
		Bin:        bin,
		Rectangles: []PlacedRectangle{},
	}
}

// UsedArea returns the summed area of all placed rectangles.
func (l Layout) UsedArea() float64 {
	var total float64
	for _, r := range l.Rectangles {
		total += r.Area()
	}
	return total
}

// Utilization returns the packing density in [0,1]. The service value is
// preferred; otherwise it is computed from the placed area.
func (l Layout) Utilization() float64 {
	if l.Density > 0 {
		return l.Density
	}
	area := l.Bin.Area()
	if area <= 0 {
		return 0
	}
	return l.UsedArea() / area
}

// OutOfBin returns the IDs of rectangles that extend past the bin.
func (l Layout) OutOfBin() []string {
	var ids []string
	for _, r := range l.Rectangles {
		if !r.InBin(l.Bin) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// EnsureIDs assigns a short random identifier to every rectangle without one.
func (l *Layout) EnsureIDs() {
	for i := range l.Rectangles {
		if l.Rectangles[i].ID == "" {
			l.Rectangles[i].ID = uuid.New().String()[:8]
		}
	}
}

// FormatNumber renders a dimension with the fewest digits that round-trip,
// so 50 prints as "50" and 12.5 as "12.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
