package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/yofu/dxf"
	dxfcolor "github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/PackView/internal/logging"
	"github.com/piwi3910/PackView/internal/model"
)

// DXF layer names.
const (
	LayerBin    = "BIN"
	LayerParts  = "PARTS"
	LayerLabels = "LABELS"
)

// ExportDXF writes the layout as a CAD drawing in world units with y up.
// The bin outline and each rectangle are closed polylines; labels are text
// entities centred on their rectangle.
func ExportDXF(path string, layout model.Layout) error {
	if err := layout.Bin.Validate(); err != nil {
		return fmt.Errorf("failed to export dxf: %w", err)
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color dxfcolor.ColorNumber
	}{
		{LayerBin, dxfcolor.White},
		{LayerParts, dxfcolor.Cyan},
		{LayerLabels, dxfcolor.Yellow},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add dxf layer %s: %w", l.name, err)
		}
	}

	if err := d.ChangeLayer(LayerBin); err != nil {
		return fmt.Errorf("failed to select dxf layer: %w", err)
	}
	if _, err := d.LwPolyline(true, rectVertices(0, 0, layout.Bin.Width, layout.Bin.Height)...); err != nil {
		return fmt.Errorf("failed to draw bin outline: %w", err)
	}

	if err := d.ChangeLayer(LayerParts); err != nil {
		return fmt.Errorf("failed to select dxf layer: %w", err)
	}
	for _, r := range layout.Rectangles {
		if _, err := d.LwPolyline(true, rectVertices(r.X, r.Y, r.W, r.H)...); err != nil {
			return fmt.Errorf("failed to draw rectangle %s: %w", r.ID, err)
		}
	}

	if err := d.ChangeLayer(LayerLabels); err != nil {
		return fmt.Errorf("failed to select dxf layer: %w", err)
	}
	for _, r := range layout.Rectangles {
		h := dxfTextHeight(r)
		cx, cy := r.Center()
		label := r.Label()
		// Core DXF fonts are roughly 0.6 of the height per glyph.
		x := cx - float64(len([]rune(label)))*h*0.3
		if _, err := d.Text(label, x, cy-h/2, 0, h); err != nil {
			return fmt.Errorf("failed to draw label %s: %w", r.ID, err)
		}
	}

	if err := saveDrawing(d, path); err != nil {
		return err
	}
	logging.Logger().Debug("export: dxf", "path", path, "rectangles", len(layout.Rectangles))
	return nil
}

func rectVertices(x, y, w, h float64) [][]float64 {
	return [][]float64{
		{x, y},
		{x + w, y},
		{x + w, y + h},
		{x, y + h},
	}
}

func dxfTextHeight(r model.PlacedRectangle) float64 {
	return math.Max(0.5, math.Min(r.W, r.H)/8)
}

// saveDrawing writes through a temporary file so a failed save leaves no
// partial drawing at path.
func saveDrawing(d *drawing.Drawing, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	name := tmp.Name()
	tmp.Close()

	if err := d.SaveAs(name); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to write dxf: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
