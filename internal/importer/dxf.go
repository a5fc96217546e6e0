package importer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PackView/internal/model"
)

// point is a drawing-space vertex.
type point struct {
	x, y float64
}

// outline is a closed polygon in drawing space.
type outline []point

// bounds returns the axis-aligned bounding box of the outline.
func (o outline) bounds() (min, max point) {
	min = point{math.Inf(1), math.Inf(1)}
	max = point{math.Inf(-1), math.Inf(-1)}
	for _, p := range o {
		min.x = math.Min(min.x, p.x)
		min.y = math.Min(min.y, p.y)
		max.x = math.Max(max.x, p.x)
		max.y = math.Max(max.y, p.y)
	}
	return min, max
}

// segment represents a line segment between two points, used for chaining
// disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

const (
	chainTolerance = 0.01
	minExtent      = 0.01
)

// ImportDXF imports a layout from a DXF drawing. Each closed shape
// (LWPOLYLINE, CIRCLE, or chain of connected LINEs/ARCs) is reduced to its
// bounding box. The largest box becomes the bin when it encloses all the
// others; the rest become placed rectangles relative to the bin origin.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}

	outlines = append(outlines, chainSegments(segments, chainTolerance)...)

	var boxes []box
	for _, o := range outlines {
		min, max := o.bounds()
		b := box{min: min, max: max}
		if b.width() < minExtent || b.height() < minExtent {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", b.width(), b.height()))
			continue
		}
		boxes = append(boxes, b)
	}

	if len(boxes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	binBox, parts := splitBin(boxes)
	if len(parts) == len(boxes) {
		result.Warnings = append(result.Warnings,
			"No enclosing outline found, using the drawing extents as the bin")
	}

	result.Layout = model.NewLayout(model.Bin{Width: binBox.width(), Height: binBox.height()})
	for i, b := range parts {
		result.Layout.Rectangles = append(result.Layout.Rectangles, model.PlacedRectangle{
			ID: strconv.Itoa(i + 1),
			X:  b.min.x - binBox.min.x,
			Y:  b.min.y - binBox.min.y,
			W:  b.width(),
			H:  b.height(),
		})
	}
	if len(parts) == 0 {
		result.Warnings = append(result.Warnings, "Drawing contains only the bin outline")
	}

	return result
}

type box struct {
	min, max point
}

func (b box) width() float64  { return b.max.x - b.min.x }
func (b box) height() float64 { return b.max.y - b.min.y }
func (b box) area() float64   { return b.width() * b.height() }

func (b box) contains(o box) bool {
	const tol = chainTolerance
	return o.min.x >= b.min.x-tol && o.min.y >= b.min.y-tol &&
		o.max.x <= b.max.x+tol && o.max.y <= b.max.y+tol
}

// splitBin picks the bin box and returns it with the remaining boxes in
// drawing order. Without an enclosing box the bin is the union of all boxes
// and every box is a part.
func splitBin(boxes []box) (box, []box) {
	largest := 0
	for i, b := range boxes {
		if b.area() > boxes[largest].area() {
			largest = i
		}
	}

	encloses := true
	for i, b := range boxes {
		if i != largest && !boxes[largest].contains(b) {
			encloses = false
			break
		}
	}
	if encloses {
		parts := make([]box, 0, len(boxes)-1)
		parts = append(parts, boxes[:largest]...)
		parts = append(parts, boxes[largest+1:]...)
		return boxes[largest], parts
	}

	union := boxes[0]
	for _, b := range boxes[1:] {
		union.min.x = math.Min(union.min.x, b.min.x)
		union.min.y = math.Min(union.min.y, b.min.y)
		union.max.x = math.Max(union.max.x, b.max.x)
		union.max.y = math.Max(union.max.y, b.max.y)
	}
	return union, boxes
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	var o outline

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := point{v[0], v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := point{lw.Vertices[nextIdx][0], lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			// The next vertex is added by the following iteration.
			o = append(o, arcPts[:len(arcPts)-1]...)
		} else {
			o = append(o, current)
		}
	}

	return o
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 point, bulge float64, numSegments int) outline {
	mx := (p1.x + p2.x) / 2
	my := (p1.y + p2.y) / 2
	dx := p2.x - p1.x
	dy := p2.y - p1.y
	chordLen := math.Hypot(dx, dy)
	if chordLen < 1e-9 {
		return outline{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.y-cy, p1.x-cx)
	endAngle := math.Atan2(p2.y-cy, p2.x-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make(outline, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, point{cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)})
	}
	return pts
}

// circleToOutline approximates a circle as a regular polygon.
func circleToOutline(c *entity.Circle, numSegments int) outline {
	o := make(outline, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		o[i] = point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return o
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return pts
}

// pointsToSegments converts a point sequence to a slice of connected segments.
func pointsToSegments(pts []point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) []outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []outline

	for start := range segs {
		if used[start] {
			continue
		}
		chain := outline{segs[start].start, segs[start].end}
		used[start] = true

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
				} else if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
				} else {
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}
		if len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= tolerance
}
