package viewport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PackView/internal/model"
)

type fakeCapture struct {
	captured []int
	released []int
}

func (f *fakeCapture) SetPointerCapture(id int)     { f.captured = append(f.captured, id) }
func (f *fakeCapture) ReleasePointerCapture(id int) { f.released = append(f.released, id) }

func newTestController(t *testing.T, cfg Config, bin model.Bin, vp Size) *Controller {
	t.Helper()
	c, err := NewController(cfg, bin, vp)
	require.NoError(t, err)
	return c
}

func TestController_FitIsWidthBound(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 500, Height: 250}, Size{W: 600, H: 400})

	s := c.State()
	assert.InDelta(t, 1.104, s.Scale, 1e-9)

	centre := s.WorldToScreen(Point{250, 125})
	assert.InDelta(t, 300, centre.X, 1e-9, "bin centroid is centred horizontally")
	assert.InDelta(t, 200, centre.Y, 1e-9, "bin centroid is centred vertically")
}

func TestController_FitRespectsScaleBounds(t *testing.T) {
	tiny := newTestController(t, DefaultConfig(), model.Bin{Width: 1, Height: 1}, Size{W: 600, H: 400})
	assert.Equal(t, 352.0, tiny.State().Scale, "fit is not capped by MaxScale")

	huge := newTestController(t, DefaultConfig(), model.Bin{Width: 1e6, Height: 1e6}, Size{W: 600, H: 400})
	assert.Equal(t, 0.1, huge.State().Scale)

	unsized := newTestController(t, DefaultConfig(), model.Bin{Width: 500, Height: 250}, Size{})
	assert.Equal(t, 0.1, unsized.State().Scale, "viewport smaller than the margins falls back to MinScale")
}

func TestController_FitFillsViewportForSmallBin(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 20, Height: 10}, Size{W: 600, H: 400})

	s := c.State()
	assert.InDelta(t, 27.6, s.Scale, 1e-9)

	left := s.WorldToScreen(Point{0, 0})
	right := s.WorldToScreen(Point{20, 10})
	assert.InDelta(t, 24, left.X, 1e-9, "bin starts at the fit margin")
	assert.InDelta(t, 576, right.X, 1e-9, "bin ends at the fit margin")
	assert.InDelta(t, 200, (left.Y+right.Y)/2, 1e-9, "bin is centred vertically")
}

func TestController_RejectsInvalidBin(t *testing.T) {
	for _, bin := range []model.Bin{{}, {Width: -1, Height: 5}, {Width: math.NaN(), Height: 5}} {
		c, err := NewController(DefaultConfig(), bin, Size{W: 600, H: 400})
		assert.ErrorIs(t, err, model.ErrInvalidBin)
		assert.Nil(t, c)
	}
}

func TestController_SetBinRefitsAndRejectsInvalid(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 500, Height: 250}, Size{W: 600, H: 400})
	before := c.State()

	err := c.SetBin(model.Bin{Width: 0, Height: 10})
	assert.ErrorIs(t, err, model.ErrInvalidBin)
	assert.Equal(t, before, c.State(), "rejected bin keeps the state")

	require.NoError(t, c.SetBin(model.Bin{Width: 100, Height: 100}))
	assert.InDelta(t, (400.0-48)/100, c.State().Scale, 1e-9)
	assert.Equal(t, model.Bin{Width: 100, Height: 100}, c.Bin())
}

func TestController_WheelZoomFactor(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 500, Height: 250}, Size{W: 600, H: 400})
	c.state.Scale = 1
	c.state.Pan = Point{-50, -50}
	at := Point{300, 350}
	world := c.State().ScreenToWorld(at)

	c.Wheel(-100, at)

	s := c.State()
	assert.InDelta(t, math.Exp(0.15), s.Scale, 1e-12)
	assert.InDelta(t, 1.1618, s.Scale, 1e-4)
	got := s.WorldToScreen(world)
	assert.InDelta(t, at.X, got.X, 1e-6)
	assert.InDelta(t, at.Y, got.Y, 1e-6)
}

func TestController_WheelKeepsCursorAnchored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overscroll = 1000 // the clamp never engages
	bin := model.Bin{Width: 500, Height: 250}

	scales := []float64{0.1, 0.5, 1, 3, 10}
	cursors := []Point{{0, 0}, {123.5, 77}, {600, 400}, {300, 200}, {-40, 450}}
	deltas := []float64{-500, -100, -1, 1, 100, 500}

	for _, scale := range scales {
		for _, at := range cursors {
			for _, delta := range deltas {
				c := newTestController(t, cfg, bin, Size{W: 600, H: 400})
				c.state.Scale = scale
				c.state.Pan = Point{13, -7}
				world := c.State().ScreenToWorld(at)

				c.Wheel(delta, at)

				s := c.State()
				assert.GreaterOrEqual(t, s.Scale, cfg.MinScale)
				assert.LessOrEqual(t, s.Scale, cfg.MaxScale)
				got := s.WorldToScreen(world)
				assert.InDelta(t, at.X, got.X, 1e-6, "scale=%v at=%v delta=%v", scale, at, delta)
				assert.InDelta(t, at.Y, got.Y, 1e-6, "scale=%v at=%v delta=%v", scale, at, delta)
			}
		}
	}
}

func TestController_WheelClampsScale(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 500, Height: 250}, Size{W: 600, H: 400})

	for i := 0; i < 50; i++ {
		c.Wheel(-1000, Point{300, 200})
	}
	assert.Equal(t, 10.0, c.State().Scale)

	for i := 0; i < 50; i++ {
		c.Wheel(1000, Point{300, 200})
	}
	assert.Equal(t, 0.1, c.State().Scale)
}

func TestController_WheelIgnoresNonFiniteInput(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 500, Height: 250}, Size{W: 600, H: 400})
	before := c.State()

	c.Wheel(math.NaN(), Point{1, 1})
	c.Wheel(math.Inf(-1), Point{1, 1})
	c.Wheel(-100, Point{math.NaN(), 1})

	assert.Equal(t, before, c.State())
}

func TestController_ZoomInOut(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 500, Height: 250}, Size{W: 600, H: 400})
	start := c.State().Scale

	c.ZoomIn()
	assert.InDelta(t, start*math.Exp(0.15), c.State().Scale, 1e-9)

	c.ZoomOut()
	assert.InDelta(t, start, c.State().Scale, 1e-9)
}

func TestController_DragPanDelta(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 1000, Height: 1000}, Size{W: 600, H: 400})
	c.state.Scale = 2
	c.state.Pan = Point{300, 300}

	c.PointerDown(1, Point{100, 100})
	require.True(t, c.Dragging())
	c.PointerMove(1, Point{140, 80})

	assert.Equal(t, Point{280, 290}, c.State().Pan)

	c.PointerUp(1)
	assert.False(t, c.Dragging())
}

func TestController_DragCaptureLifecycle(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 1000, Height: 1000}, Size{W: 600, H: 400})
	capture := &fakeCapture{}
	c.SetPointerCapture(capture)

	c.PointerDown(7, Point{10, 10})
	c.PointerDown(8, Point{20, 20})
	c.PointerUp(8)
	assert.True(t, c.Dragging(), "a second pointer neither starts nor ends the drag")

	c.PointerUp(7)
	assert.False(t, c.Dragging())
	assert.Equal(t, []int{7}, capture.captured)
	assert.Equal(t, []int{7}, capture.released)
}

func TestController_ForeignPointerMovesIgnored(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 1000, Height: 1000}, Size{W: 600, H: 400})
	before := c.State()

	c.PointerMove(1, Point{50, 50})
	assert.Equal(t, before, c.State(), "move without a drag is ignored")

	c.PointerDown(1, Point{0, 0})
	c.PointerMove(2, Point{50, 50})
	assert.Equal(t, before, c.State(), "move of another pointer is ignored")
}

func TestController_ResizeMidDragReleasesCapture(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 500, Height: 250}, Size{W: 600, H: 400})
	capture := &fakeCapture{}
	c.SetPointerCapture(capture)

	c.PointerDown(3, Point{100, 100})
	c.Resize(800, 600)

	assert.False(t, c.Dragging())
	assert.Equal(t, []int{3}, capture.released)
	assert.Equal(t, Size{W: 800, H: 600}, c.State().Viewport)
	assert.InDelta(t, math.Min((800.0-48)/500, (600.0-48)/250), c.State().Scale, 1e-9, "resize refits")

	fitted := c.State()
	c.PointerMove(3, Point{200, 200})
	assert.Equal(t, fitted, c.State(), "moves after the resize are ignored")
}

func TestController_ResetRestoresFit(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 500, Height: 250}, Size{W: 600, H: 400})
	fitted := c.State()

	c.Wheel(-300, Point{10, 10})
	c.PointerDown(1, Point{0, 0})
	c.PointerMove(1, Point{30, 30})
	c.PointerUp(1)
	require.NotEqual(t, fitted, c.State())

	c.Reset()
	assert.Equal(t, fitted, c.State())
}

func TestController_ClampIdempotent(t *testing.T) {
	bins := []model.Bin{{Width: 500, Height: 250}, {Width: 10, Height: 10}, {Width: 1e4, Height: 20}}
	scales := []float64{0.1, 1, 4, 10}
	pans := []Point{{-1e6, -1e6}, {0, 0}, {120, -30}, {1e6, 1e6}}

	for _, bin := range bins {
		for _, scale := range scales {
			for _, pan := range pans {
				s := State{Scale: scale, Pan: pan, Viewport: Size{W: 600, H: 400}}
				once := clampPan(s, bin, 0.2)
				twice := clampPan(once, bin, 0.2)
				assert.Equal(t, once, twice)
			}
		}
	}
}

func TestController_ClampInvertedRangeLowerBoundWins(t *testing.T) {
	s := State{Scale: 1, Pan: Point{50, 50}, Viewport: Size{W: 600, H: 400}}

	got := clampPan(s, model.Bin{Width: 10, Height: 10}, 0.2)

	assert.Equal(t, Point{-2, -2}, got.Pan)
}

func TestController_DragClampsToOverscroll(t *testing.T) {
	c := newTestController(t, DefaultConfig(), model.Bin{Width: 500, Height: 250}, Size{W: 600, H: 400})

	c.PointerDown(1, Point{0, 0})
	c.PointerMove(1, Point{1e6, -1e6})

	s := c.State()
	margin := 0.2 * 500
	assert.InDelta(t, -margin, s.Pan.X, 1e-9)
	assert.InDelta(t, -margin, s.Pan.Y, 1e-9)
}

func TestConfigFromApp(t *testing.T) {
	app := model.DefaultAppConfig()
	app.MinScale = -1
	app.MaxScale = 4
	app.ZoomDamping = math.NaN()

	cfg := ConfigFromApp(app)

	assert.Equal(t, 0.1, cfg.MinScale)
	assert.Equal(t, 4.0, cfg.MaxScale)
	assert.Equal(t, 0.0015, cfg.ZoomDamping)
	assert.Equal(t, 100.0, cfg.KeyZoomDelta)
}
