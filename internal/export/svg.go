package export

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/piwi3910/PackView/internal/logging"
	"github.com/piwi3910/PackView/internal/scene"
)

const fontFamily = "sans-serif"

// errWriter remembers the first write error so the svgo calls, which do not
// report errors, can be checked once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// WriteSVG writes sc as a standalone SVG document with explicit width,
// height and viewBox.
func WriteSVG(w io.Writer, sc scene.Scene) error {
	if !(sc.Width > 0) || !(sc.Height > 0) {
		return ErrEmptyScene
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startview(sc.Width, sc.Height, 0, 0, sc.Width, sc.Height)

	for _, p := range sc.Primitives {
		switch v := p.(type) {
		case scene.Rect:
			if v.Radius > 0 {
				canvas.Roundrect(v.X, v.Y, v.W, v.H, v.Radius, v.Radius, rectStyle(v))
			} else {
				canvas.Rect(v.X, v.Y, v.W, v.H, rectStyle(v))
			}
		case scene.Line:
			canvas.Line(v.X1, v.Y1, v.X2, v.Y2, lineStyle(v))
		case scene.Text:
			canvas.Text(v.X, v.Y, v.Content, textStyle(v))
		}
	}
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("failed to write svg: %w", ew.err)
	}
	return nil
}

// ExportSVG renders sc to SVG bytes.
func ExportSVG(sc scene.Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sc); err != nil {
		return nil, err
	}
	logging.Logger().Debug("export: svg", "bytes", buf.Len(), "primitives", len(sc.Primitives))
	return buf.Bytes(), nil
}

func rectStyle(r scene.Rect) string {
	var parts []string
	parts = append(parts, fillDecl(r.Fill)...)
	parts = append(parts, strokeDecl(r.Stroke, r.StrokeWidth)...)
	if r.Radius == 0 {
		parts = append(parts, "shape-rendering:crispEdges")
	}
	return strings.Join(parts, ";")
}

func lineStyle(l scene.Line) string {
	parts := strokeDecl(l.Stroke, l.StrokeWidth)
	parts = append(parts, "shape-rendering:crispEdges")
	return strings.Join(parts, ";")
}

func textStyle(t scene.Text) string {
	parts := []string{
		"font-family:" + fontFamily,
		"font-size:" + strconv.FormatFloat(t.Size, 'f', -1, 64) + "px",
		"text-anchor:" + t.Anchor.String(),
	}
	parts = append(parts, fillDecl(t.Fill)...)
	return strings.Join(parts, ";")
}

func fillDecl(c color.NRGBA) []string {
	if c.A == 0 {
		return []string{"fill:none"}
	}
	return []string{"fill:" + hexColor(c), "fill-opacity:" + formatOpacity(c)}
}

func strokeDecl(c color.NRGBA, width float64) []string {
	if c.A == 0 || width <= 0 {
		return []string{"stroke:none"}
	}
	return []string{
		"stroke:" + hexColor(c),
		"stroke-opacity:" + formatOpacity(c),
		"stroke-width:" + strconv.FormatFloat(width, 'f', -1, 64),
	}
}
