package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PackView/internal/logging"
	"github.com/piwi3910/PackView/internal/model"
	"github.com/piwi3910/PackView/internal/scene"
	"github.com/piwi3910/PackView/internal/viewport"
)

// Fyne reports wheel movement in pixels of scroll; one notch is about a
// tenth of a browser wheel delta.
const scrollToWheel = 10

// dragPointer identifies the mouse in controller gestures.
const dragPointer = 1

// textAscent approximates the baseline offset of the theme font as a
// fraction of the text size.
const textAscent = 0.8

var (
	_ fyne.Scrollable    = (*DiagramCanvas)(nil)
	_ fyne.Draggable     = (*DiagramCanvas)(nil)
	_ desktop.Cursorable = (*DiagramCanvas)(nil)
	_ desktop.Mouseable  = (*DiagramCanvas)(nil)
)

// DiagramCanvas is the interactive packing diagram. It owns a viewport
// controller, forwards resize, wheel and drag events to it, and draws the
// scene built from the resulting state.
type DiagramCanvas struct {
	widget.BaseWidget

	cfg      viewport.Config
	layout   model.Layout
	opts     scene.Options
	ctrl     *viewport.Controller
	size     viewport.Size
	captured bool

	// OnChanged is called after every state change with the new state.
	OnChanged func(viewport.State)
}

// NewDiagramCanvas creates an empty diagram. Call SetLayout to show a bin.
func NewDiagramCanvas(cfg viewport.Config, opts scene.Options) *DiagramCanvas {
	d := &DiagramCanvas{cfg: cfg, opts: opts}
	d.ExtendBaseWidget(d)
	return d
}

// SetLayout replaces the diagram content and fits the new bin. An invalid
// bin leaves the diagram empty and returns the error.
func (d *DiagramCanvas) SetLayout(l model.Layout) error {
	ctrl, err := viewport.NewController(d.cfg, l.Bin, d.viewportSize())
	if err != nil {
		d.layout = model.Layout{}
		d.setController(nil)
		return err
	}
	d.layout = l
	d.setController(ctrl)
	return nil
}

// CurrentLayout returns the displayed layout.
func (d *DiagramCanvas) CurrentLayout() model.Layout {
	return d.layout
}

// SetOptions changes text direction and colours.
func (d *DiagramCanvas) SetOptions(opts scene.Options) {
	d.opts = opts
	d.Refresh()
}

// Options returns the current scene options.
func (d *DiagramCanvas) Options() scene.Options {
	return d.opts
}

// Controller returns the viewport controller, or nil when no layout is shown.
func (d *DiagramCanvas) Controller() *viewport.Controller {
	return d.ctrl
}

// State returns the current view state.
func (d *DiagramCanvas) State() viewport.State {
	if d.ctrl == nil {
		return viewport.State{Scale: 1, Viewport: d.viewportSize()}
	}
	return d.ctrl.State()
}

// Scene builds the scene for the current state, as drawn on screen.
func (d *DiagramCanvas) Scene() scene.Scene {
	return scene.Build(d.State(), d.layout.Bin, d.layout.Rectangles, d.opts)
}

// Fit resets the view to show the whole bin.
func (d *DiagramCanvas) Fit() {
	d.apply(func(c *viewport.Controller) { c.Reset() })
}

// ZoomIn zooms in around the viewport centre.
func (d *DiagramCanvas) ZoomIn() {
	d.apply(func(c *viewport.Controller) { c.ZoomIn() })
}

// ZoomOut zooms out around the viewport centre.
func (d *DiagramCanvas) ZoomOut() {
	d.apply(func(c *viewport.Controller) { c.ZoomOut() })
}

// Resize refits the diagram to the new size.
func (d *DiagramCanvas) Resize(size fyne.Size) {
	d.BaseWidget.Resize(size)
	d.size = viewport.Size{W: float64(size.Width), H: float64(size.Height)}
	d.apply(func(c *viewport.Controller) { c.Resize(d.size.W, d.size.H) })
}

// Scrolled zooms around the cursor.
func (d *DiagramCanvas) Scrolled(ev *fyne.ScrollEvent) {
	at := toPoint(ev.Position)
	delta := -float64(ev.Scrolled.DY) * scrollToWheel
	d.apply(func(c *viewport.Controller) { c.Wheel(delta, at) })
}

// Dragged pans the view. The first event of a drag starts the gesture at
// the position where the drag began.
func (d *DiagramCanvas) Dragged(ev *fyne.DragEvent) {
	at := toPoint(ev.Position)
	d.apply(func(c *viewport.Controller) {
		if !c.Dragging() {
			start := at.Sub(viewport.Point{X: float64(ev.Dragged.DX), Y: float64(ev.Dragged.DY)})
			c.PointerDown(dragPointer, start)
		}
		c.PointerMove(dragPointer, at)
	})
}

// MouseDown starts a pan with the primary button so the first drag event
// already moves the view.
func (d *DiagramCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	at := toPoint(ev.Position)
	d.apply(func(c *viewport.Controller) { c.PointerDown(dragPointer, at) })
}

// MouseUp ends a pan that never produced a drag event.
func (d *DiagramCanvas) MouseUp(ev *desktop.MouseEvent) {
	d.apply(func(c *viewport.Controller) { c.PointerUp(dragPointer) })
}

// DragEnd finishes the pan.
func (d *DiagramCanvas) DragEnd() {
	d.apply(func(c *viewport.Controller) { c.PointerUp(dragPointer) })
}

// Cursor shows a crosshair while the pointer is captured by a drag.
func (d *DiagramCanvas) Cursor() desktop.Cursor {
	if d.captured {
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

// SetPointerCapture implements viewport.PointerCapture.
func (d *DiagramCanvas) SetPointerCapture(id int) {
	d.captured = true
	logging.Logger().Debug("diagram: pointer captured", "pointer", id)
}

// ReleasePointerCapture implements viewport.PointerCapture.
func (d *DiagramCanvas) ReleasePointerCapture(id int) {
	d.captured = false
	logging.Logger().Debug("diagram: pointer released", "pointer", id)
}

// Captured reports whether a drag currently holds the pointer.
func (d *DiagramCanvas) Captured() bool {
	return d.captured
}

func (d *DiagramCanvas) setController(c *viewport.Controller) {
	if d.ctrl != nil {
		d.ctrl.CancelGesture()
	}
	d.ctrl = c
	if c != nil {
		c.SetPointerCapture(d)
	}
	d.changed()
}

func (d *DiagramCanvas) apply(fn func(*viewport.Controller)) {
	if d.ctrl == nil {
		d.Refresh()
		return
	}
	fn(d.ctrl)
	d.changed()
}

func (d *DiagramCanvas) changed() {
	if d.OnChanged != nil {
		d.OnChanged(d.State())
	}
	d.Refresh()
}

func (d *DiagramCanvas) viewportSize() viewport.Size {
	if d.size.W > 0 && d.size.H > 0 {
		return d.size
	}
	s := d.Size()
	return viewport.Size{W: float64(s.Width), H: float64(s.Height)}
}

func toPoint(p fyne.Position) viewport.Point {
	return viewport.Point{X: float64(p.X), Y: float64(p.Y)}
}

// CreateRenderer implements fyne.Widget.
func (d *DiagramCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &diagramRenderer{d: d}
	r.rebuild()
	return r
}

type diagramRenderer struct {
	d       *DiagramCanvas
	objects []fyne.CanvasObject
}

func (r *diagramRenderer) rebuild() {
	r.objects = CanvasObjects(r.d.Scene())
}

func (r *diagramRenderer) Layout(size fyne.Size)        {}
func (r *diagramRenderer) Refresh()                     { r.rebuild() }
func (r *diagramRenderer) Destroy()                     {}
func (r *diagramRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *diagramRenderer) MinSize() fyne.Size           { return fyne.NewSize(120, 80) }

// CanvasObjects converts scene primitives to positioned fyne canvas
// objects in drawing order.
func CanvasObjects(sc scene.Scene) []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, len(sc.Primitives))
	for _, p := range sc.Primitives {
		switch v := p.(type) {
		case scene.Rect:
			objects = append(objects, rectObject(v))
		case scene.Line:
			objects = append(objects, lineObject(v))
		case scene.Text:
			objects = append(objects, textObject(v))
		}
	}
	return objects
}

func rectObject(v scene.Rect) fyne.CanvasObject {
	rect := canvas.NewRectangle(paint(v.Fill))
	if v.Stroke.A > 0 && v.StrokeWidth > 0 {
		rect.StrokeColor = v.Stroke
		rect.StrokeWidth = float32(v.StrokeWidth)
	}
	rect.CornerRadius = float32(v.Radius)
	rect.Move(fyne.NewPos(float32(v.X), float32(v.Y)))
	rect.Resize(fyne.NewSize(float32(v.W), float32(v.H)))
	return rect
}

func lineObject(v scene.Line) fyne.CanvasObject {
	line := canvas.NewLine(v.Stroke)
	line.StrokeWidth = float32(v.StrokeWidth)
	line.Position1 = fyne.NewPos(float32(v.X1), float32(v.Y1))
	line.Position2 = fyne.NewPos(float32(v.X2), float32(v.Y2))
	return line
}

func textObject(v scene.Text) fyne.CanvasObject {
	text := canvas.NewText(v.Content, v.Fill)
	text.TextSize = float32(v.Size)
	size := fyne.MeasureText(v.Content, text.TextSize, text.TextStyle)

	x := float32(v.X)
	switch v.Anchor {
	case scene.AnchorMiddle:
		x -= size.Width / 2
	case scene.AnchorEnd:
		x -= size.Width
	}
	text.Move(fyne.NewPos(x, float32(v.Y)-text.TextSize*textAscent))
	text.Resize(size)
	return text
}

func paint(c color.NRGBA) color.Color {
	if c.A == 0 {
		return color.Transparent
	}
	return c
}
