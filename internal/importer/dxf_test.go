package importer

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/yofu/dxf"

	"github.com/piwi3910/PackView/internal/export"
	"github.com/piwi3910/PackView/internal/model"
)

func TestImportDXF_RoundTrip(t *testing.T) {
	layout := model.Layout{
		Name: "roundtrip",
		Bin:  model.Bin{Width: 500, Height: 250},
		Rectangles: []model.PlacedRectangle{
			{ID: "1", X: 0, Y: 0, W: 50, H: 30},
			{ID: "2", X: 100, Y: 40, W: 30, H: 60},
		},
	}
	path := filepath.Join(t.TempDir(), "layout.dxf")
	if err := export.ExportDXF(path, layout); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}

	result := ImportDXF(path)

	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Layout.Bin != layout.Bin {
		t.Errorf("expected bin %+v, got %+v", layout.Bin, result.Layout.Bin)
	}
	if len(result.Layout.Rectangles) != 2 {
		t.Fatalf("expected 2 rectangles, got %d", len(result.Layout.Rectangles))
	}
	for i, want := range layout.Rectangles {
		got := result.Layout.Rectangles[i]
		if got != want {
			t.Errorf("rectangle %d: expected %+v, got %+v", i, want, got)
		}
	}
}

func TestImportDXF_ChainedLines(t *testing.T) {
	d := dxf.NewDrawing()
	// Bin 200x100 offset to (10, 20), drawn as loose lines out of order.
	square := func(x, y, w, h float64) {
		d.Line(x, y, 0, x+w, y, 0)
		d.Line(x+w, y+h, 0, x, y+h, 0)
		d.Line(x+w, y, 0, x+w, y+h, 0)
		d.Line(x, y+h, 0, x, y, 0)
	}
	square(10, 20, 200, 100)
	square(30, 30, 40, 20)

	path := filepath.Join(t.TempDir(), "lines.dxf")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save drawing: %v", err)
	}

	result := ImportDXF(path)

	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Layout.Bin != (model.Bin{Width: 200, Height: 100}) {
		t.Errorf("unexpected bin %+v", result.Layout.Bin)
	}
	if len(result.Layout.Rectangles) != 1 {
		t.Fatalf("expected 1 rectangle, got %d", len(result.Layout.Rectangles))
	}
	r := result.Layout.Rectangles[0]
	if r.X != 20 || r.Y != 10 || r.W != 40 || r.H != 20 {
		t.Errorf("expected rectangle relative to the bin origin, got %+v", r)
	}
}

func TestImportDXF_NoEnclosingOutline(t *testing.T) {
	d := dxf.NewDrawing()
	d.Circle(0, 0, 0, 10)
	d.Circle(100, 0, 0, 5)

	path := filepath.Join(t.TempDir(), "circles.dxf")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save drawing: %v", err)
	}

	result := ImportDXF(path)

	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Layout.Rectangles) != 2 {
		t.Fatalf("expected both circles as rectangles, got %d", len(result.Layout.Rectangles))
	}
	if math.Abs(result.Layout.Bin.Width-115) > 1e-6 || math.Abs(result.Layout.Bin.Height-20) > 1e-6 {
		t.Errorf("expected bin to be the drawing extents, got %+v", result.Layout.Bin)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning about the missing bin outline")
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	if result := ImportDXF("/nonexistent/layout.dxf"); result.OK() {
		t.Error("expected error for missing file")
	}
}

func TestChainSegments_OpenChainDropped(t *testing.T) {
	segs := []segment{
		{point{0, 0}, point{1, 0}},
	}
	if got := chainSegments(segs, chainTolerance); len(got) != 0 {
		t.Errorf("expected no outlines, got %v", got)
	}
}

func TestBulgeArcPoints_Semicircle(t *testing.T) {
	pts := bulgeArcPoints(point{0, 0}, point{2, 0}, 1, 16)
	for _, p := range pts {
		if d := math.Hypot(p.x-1, p.y); math.Abs(d-1) > 1e-9 {
			t.Fatalf("point %+v is not on the unit circle around (1,0)", p)
		}
	}
}
