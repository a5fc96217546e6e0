package widgets

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PackView/internal/model"
	"github.com/piwi3910/PackView/internal/scene"
	"github.com/piwi3910/PackView/internal/viewport"
)

func testLayout() model.Layout {
	return model.Layout{
		Bin: model.Bin{Width: 500, Height: 250},
		Rectangles: []model.PlacedRectangle{
			{ID: "1", X: 0, Y: 0, W: 50, H: 30},
		},
	}
}

func newTestDiagram(t *testing.T) *DiagramCanvas {
	t.Helper()
	test.NewApp()
	d := NewDiagramCanvas(viewport.DefaultConfig(), scene.Options{})
	d.Resize(fyne.NewSize(600, 400))
	require.NoError(t, d.SetLayout(testLayout()))
	return d
}

func TestDiagramCanvas_FitsOnSetLayout(t *testing.T) {
	d := newTestDiagram(t)

	s := d.State()
	assert.InDelta(t, 1.104, s.Scale, 1e-9)
	assert.Equal(t, viewport.Size{W: 600, H: 400}, s.Viewport)
	require.NotNil(t, d.Controller())
}

func TestDiagramCanvas_EmptyAndInvalid(t *testing.T) {
	test.NewApp()
	d := NewDiagramCanvas(viewport.DefaultConfig(), scene.Options{})
	d.Resize(fyne.NewSize(300, 200))

	assert.Nil(t, d.Controller())
	sc := d.Scene()
	assert.Equal(t, 300.0, sc.Width)
	assert.Empty(t, sc.ByLayer(scene.LayerBinOutline))

	err := d.SetLayout(model.Layout{Bin: model.Bin{Width: 0, Height: 10}})
	assert.ErrorIs(t, err, model.ErrInvalidBin)
	assert.Nil(t, d.Controller())
}

func TestDiagramCanvas_ScrollKeepsCursorPoint(t *testing.T) {
	d := newTestDiagram(t)
	before := d.State()
	cursor := viewport.Point{X: 300, Y: 200}
	world := before.ScreenToWorld(cursor)

	ev := &fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 10)}
	ev.Position = fyne.NewPos(300, 200)
	d.Scrolled(ev)

	after := d.State()
	assert.Greater(t, after.Scale, before.Scale)
	got := after.WorldToScreen(world)
	assert.InDelta(t, cursor.X, got.X, 1e-6)
	assert.InDelta(t, cursor.Y, got.Y, 1e-6)
}

func TestDiagramCanvas_DragPansAndCaptures(t *testing.T) {
	d := newTestDiagram(t)
	before := d.State()

	ev := &fyne.DragEvent{Dragged: fyne.NewDelta(10, 0)}
	ev.Position = fyne.NewPos(310, 200)
	d.Dragged(ev)

	assert.True(t, d.Captured())
	assert.Equal(t, desktop.CrosshairCursor, d.Cursor())
	assert.InDelta(t, before.Pan.X-10/before.Scale, d.State().Pan.X, 1e-9)

	d.DragEnd()
	assert.False(t, d.Captured())
	assert.False(t, d.Controller().Dragging())
}

func TestDiagramCanvas_ResizeCancelsDrag(t *testing.T) {
	d := newTestDiagram(t)

	ev := &fyne.DragEvent{Dragged: fyne.NewDelta(5, 5)}
	ev.Position = fyne.NewPos(200, 200)
	d.Dragged(ev)
	require.True(t, d.Captured())

	d.Resize(fyne.NewSize(800, 600))

	assert.False(t, d.Captured())
	assert.InDelta(t, 1.504, d.State().Scale, 1e-9)
}

func TestDiagramCanvas_OnChanged(t *testing.T) {
	d := newTestDiagram(t)
	var calls int
	d.OnChanged = func(viewport.State) { calls++ }

	d.ZoomIn()
	d.ZoomOut()
	d.Fit()

	assert.Equal(t, 3, calls)
	assert.InDelta(t, 1.104, d.State().Scale, 1e-9)
}

func TestCanvasObjects(t *testing.T) {
	test.NewApp()
	l := testLayout()
	state := viewport.State{Scale: 1, Viewport: viewport.Size{W: 600, H: 400}}
	sc := scene.Build(state, l.Bin, l.Rectangles, scene.Options{})

	objs := CanvasObjects(sc)

	require.Len(t, objs, len(sc.Primitives))
	bg, ok := objs[0].(*canvas.Rectangle)
	require.True(t, ok)
	assert.Equal(t, fyne.NewSize(600, 400), bg.Size())

	var texts, lines int
	for _, o := range objs {
		switch o.(type) {
		case *canvas.Text:
			texts++
		case *canvas.Line:
			lines++
		}
	}
	assert.Equal(t, len(sc.Texts()), texts)
	assert.Positive(t, lines)
}

func TestTextObjectAnchors(t *testing.T) {
	test.NewApp()
	base := scene.Text{X: 100, Y: 50, Content: "250", Size: 10}

	start := textObject(base)
	base.Anchor = scene.AnchorEnd
	end := textObject(base)

	assert.Equal(t, float32(100), start.Position().X)
	assert.InDelta(t, 100-end.Size().Width, end.Position().X, 1e-3)
	assert.Equal(t, float32(42), start.Position().Y)
}

func TestDiagramCanvas_MouseButtons(t *testing.T) {
	d := newTestDiagram(t)
	at := fyne.PointEvent{Position: fyne.NewPos(100, 100)}

	d.MouseDown(&desktop.MouseEvent{PointEvent: at, Button: desktop.MouseButtonSecondary})
	assert.False(t, d.Captured(), "secondary button does not pan")

	d.MouseDown(&desktop.MouseEvent{PointEvent: at, Button: desktop.MouseButtonPrimary})
	assert.True(t, d.Captured())
	assert.True(t, d.Controller().Dragging())

	d.MouseUp(&desktop.MouseEvent{PointEvent: at, Button: desktop.MouseButtonPrimary})
	assert.False(t, d.Captured())
	assert.False(t, d.Controller().Dragging())
}
