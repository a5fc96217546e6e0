package viewport

import "math"

// targetWorldPer100px is the world extent aimed for per 100 screen pixels.
const targetWorldPer100px = 50

// majorEvery is the number of minor steps between major gridlines.
const majorEvery = 5

// raw step bounds; NaN and non-positive scales map to the upper one.
const (
	minRawStep = 1e-6
	maxRawStep = 1e12
)

var stepLadder = [...]float64{1, 2, 5, 10, 20, 25, 50, 100, 200, 250, 500, 1000}

// NiceStep returns the minor gridline spacing in world units for scale.
// Between 1 and 1000 world units it picks the smallest ladder value not
// below 50/scale; outside that range the ladder is shifted by powers of ten.
func NiceStep(scale float64) float64 {
	raw := maxRawStep
	if scale > 0 {
		raw = targetWorldPer100px / scale
	}
	raw = math.Min(math.Max(raw, minRawStep), maxRawStep)

	k := 0
	switch {
	case raw > stepLadder[len(stepLadder)-1]:
		k = int(math.Ceil(math.Log10(raw / stepLadder[len(stepLadder)-1])))
	case raw < stepLadder[0]:
		k = int(math.Floor(math.Log10(raw)))
	}
	// Log10 can be off by one ulp at decade boundaries.
	for math.Pow10(k) > raw {
		k--
	}
	for 1000*math.Pow10(k) < raw {
		k++
	}

	decade := math.Pow10(k)
	for _, b := range stepLadder {
		if step := b * decade; step >= raw {
			return step
		}
	}
	return stepLadder[len(stepLadder)-1] * decade
}

// GridSpec is the gridline spacing derived from a scale.
type GridSpec struct {
	Minor float64
	Major float64
}

// Grid returns the minor and major spacing for scale.
func Grid(scale float64) GridSpec {
	minor := NiceStep(scale)
	return GridSpec{Minor: minor, Major: majorEvery * minor}
}

// GridLine is one gridline position along an axis.
type GridLine struct {
	Pos   float64
	Major bool
}

// Lines returns the gridlines at multiples of the minor step within
// [lo, hi], at most limit of them. Every fifth multiple is major.
func (g GridSpec) Lines(lo, hi float64, limit int) []GridLine {
	if !(g.Minor > 0) || !isFinite(lo) || !isFinite(hi) || hi < lo || limit <= 0 {
		return nil
	}
	first := math.Ceil(lo / g.Minor)
	last := math.Floor(hi / g.Minor)
	if n := last - first + 1; n > float64(limit) {
		last = first + float64(limit) - 1
	}

	var lines []GridLine
	for i := first; i <= last; i++ {
		idx := int64(i)
		lines = append(lines, GridLine{
			Pos:   i * g.Minor,
			Major: idx%majorEvery == 0,
		})
	}
	return lines
}

// Ticks returns the multiples of the major step within [0, extent].
func (g GridSpec) Ticks(extent float64, limit int) []float64 {
	if !(g.Major > 0) || !isFinite(extent) || extent < 0 || limit <= 0 {
		return nil
	}
	var ticks []float64
	for i := 0; i < limit; i++ {
		v := float64(i) * g.Major
		if v > extent {
			break
		}
		ticks = append(ticks, v)
	}
	return ticks
}
