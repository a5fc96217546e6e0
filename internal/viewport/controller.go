package viewport

import (
	"fmt"
	"math"

	"github.com/piwi3910/PackView/internal/logging"
	"github.com/piwi3910/PackView/internal/model"
)

// PointerCapture is implemented by hosts that can route all events of a
// pointer to the diagram while a drag is active.
type PointerCapture interface {
	SetPointerCapture(id int)
	ReleasePointerCapture(id int)
}

// gesture is an in-progress drag. It exists from pointer down until
// pointer up, cancel or resize.
type gesture struct {
	pointer int
	last    Point
}

// Controller applies fit, zoom, drag and resize transitions to a State and
// keeps the pan within the bin's overscroll bounds. Every transition clamps
// before returning. A Controller is not safe for concurrent use; drive it
// from the UI goroutine.
type Controller struct {
	cfg     Config
	bin     model.Bin
	state   State
	gesture *gesture
	capture PointerCapture
}

// NewController creates a controller fitted to bin inside a viewport of
// the given size.
func NewController(cfg Config, bin model.Bin, viewport Size) (*Controller, error) {
	if err := bin.Validate(); err != nil {
		logging.Logger().Warn("viewport: rejected bin", "width", bin.Width, "height", bin.Height)
		return nil, fmt.Errorf("failed to create viewport: %w", err)
	}
	c := &Controller{
		cfg:   cfg.normalized(),
		bin:   bin,
		state: State{Scale: 1, Viewport: viewport},
	}
	c.Fit()
	return c, nil
}

// SetPointerCapture installs the host's capture hook. nil disables capture.
func (c *Controller) SetPointerCapture(pc PointerCapture) {
	c.capture = pc
}

// State returns a copy of the current view state.
func (c *Controller) State() State {
	return c.state
}

// Bin returns the bin the controller is fitted to.
func (c *Controller) Bin() model.Bin {
	return c.bin
}

// Config returns the normalised configuration in use.
func (c *Controller) Config() Config {
	return c.cfg
}

// Dragging reports whether a drag gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.gesture != nil
}

// SetBin replaces the bin and refits. An invalid bin is rejected and the
// current state is kept.
func (c *Controller) SetBin(bin model.Bin) error {
	if err := bin.Validate(); err != nil {
		logging.Logger().Warn("viewport: rejected bin", "width", bin.Width, "height", bin.Height)
		return fmt.Errorf("failed to set bin: %w", err)
	}
	c.bin = bin
	c.Fit()
	return nil
}

// Fit scales the bin to fill the viewport less the fit margin and centres
// it. Only MinScale bounds the fit, so a small bin still fills the view.
func (c *Controller) Fit() {
	vp := c.state.Viewport
	m := c.cfg.FitMargin
	fit := math.Min((vp.W-2*m)/c.bin.Width, (vp.H-2*m)/c.bin.Height)
	if math.IsNaN(fit) {
		fit = c.cfg.MinScale
	}
	scale := math.Max(c.cfg.MinScale, fit)

	c.state.Scale = scale
	c.state.Pan = Point{
		X: (c.bin.Width - vp.W/scale) / 2,
		Y: (c.bin.Height - vp.H/scale) / 2,
	}
	c.Clamp()
	logging.Logger().Debug("viewport: fit", "scale", c.state.Scale, "pan_x", c.state.Pan.X, "pan_y", c.state.Pan.Y)
}

// Reset returns to the fitted view.
func (c *Controller) Reset() {
	c.Fit()
}

// Resize records a new viewport size and refits. A drag in progress is
// discarded and its pointer capture released.
func (c *Controller) Resize(w, h float64) {
	if !isFinite(w) || !isFinite(h) {
		logging.Logger().Warn("viewport: ignored non-finite resize", "width", w, "height", h)
		return
	}
	c.CancelGesture()
	c.state.Viewport = Size{W: w, H: h}
	c.Fit()
}

// Wheel zooms by exp(-delta*ZoomDamping) about the screen point at, so the
// world point under the cursor stays under the cursor.
func (c *Controller) Wheel(delta float64, at Point) {
	if !isFinite(delta) || !at.finite() {
		return
	}
	factor := math.Exp(-delta * c.cfg.ZoomDamping)
	newScale := math.Min(c.cfg.MaxScale, math.Max(c.cfg.MinScale, c.state.Scale*factor))

	before := c.state.ScreenToWorld(at)
	next := c.state
	next.Scale = newScale
	after := next.ScreenToWorld(at)

	next.Pan = c.state.Pan.Add(before.Sub(after))
	c.state = next
	c.Clamp()
	logging.Logger().Debug("viewport: zoom", "delta", delta, "scale", c.state.Scale)
}

// ZoomAtCenter zooms about the viewport centre.
func (c *Controller) ZoomAtCenter(delta float64) {
	vp := c.state.Normalized().Viewport
	c.Wheel(delta, Point{X: vp.W / 2, Y: vp.H / 2})
}

// ZoomIn zooms in by one keyboard step.
func (c *Controller) ZoomIn() {
	c.ZoomAtCenter(-c.cfg.KeyZoomDelta)
}

// ZoomOut zooms out by one keyboard step.
func (c *Controller) ZoomOut() {
	c.ZoomAtCenter(c.cfg.KeyZoomDelta)
}

// PointerDown starts a drag for pointer id at screen point at. It is
// ignored while another drag is active.
func (c *Controller) PointerDown(id int, at Point) {
	if c.gesture != nil || !at.finite() {
		return
	}
	c.gesture = &gesture{pointer: id, last: at}
	if c.capture != nil {
		c.capture.SetPointerCapture(id)
	}
}

// PointerMove pans by the screen delta since the previous event of the
// dragging pointer. Moves of other pointers are ignored.
func (c *Controller) PointerMove(id int, at Point) {
	g := c.gesture
	if g == nil || g.pointer != id || !at.finite() {
		return
	}
	d := at.Sub(g.last)
	g.last = at

	scale := c.state.Normalized().Scale
	c.state.Pan.X -= d.X / scale
	c.state.Pan.Y += d.Y / scale
	c.Clamp()
}

// PointerUp ends the drag of pointer id.
func (c *Controller) PointerUp(id int) {
	if c.gesture == nil || c.gesture.pointer != id {
		return
	}
	c.CancelGesture()
}

// CancelGesture ends any drag and releases its capture.
func (c *Controller) CancelGesture() {
	g := c.gesture
	if g == nil {
		return
	}
	c.gesture = nil
	if c.capture != nil {
		c.capture.ReleasePointerCapture(g.pointer)
	}
}

// Clamp keeps the visible world within the bin plus an overscroll margin
// of Overscroll times the longest bin side. When the view is wider than
// the allowed range the lower bound wins.
func (c *Controller) Clamp() {
	c.state = clampPan(c.state, c.bin, c.cfg.Overscroll)
}

func clampPan(s State, bin model.Bin, overscroll float64) State {
	n := s.Normalized()
	worldW := n.Viewport.W / n.Scale
	worldH := n.Viewport.H / n.Scale
	margin := overscroll * bin.LongestSide()

	s.Pan.X = clamp(n.Pan.X, -margin, bin.Width-worldW+margin)
	s.Pan.Y = clamp(n.Pan.Y, -margin, bin.Height-worldH+margin)
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
