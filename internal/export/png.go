package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"sync"
	"time"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/piwi3910/PackView/internal/logging"
	"github.com/piwi3910/PackView/internal/scene"
)

// maxRasterSide bounds each side of the raster surface in pixels.
const maxRasterSide = 16384

var (
	regularOnce sync.Once
	regularFont *opentype.Font
	regularErr  error
)

func goRegular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = opentype.Parse(goregular.TTF)
	})
	return regularFont, regularErr
}

// RasterResult is the outcome of an asynchronous PNG export.
type RasterResult struct {
	Data []byte
	Err  error
}

// RasterSize returns the pixel size of a scene rasterised at dpr.
func RasterSize(sc scene.Scene, dpr float64) (int, int) {
	return int(math.Ceil(sc.Width * dpr)), int(math.Ceil(sc.Height * dpr))
}

// RenderImage rasterises sc at the device pixel ratio dpr. Shapes are drawn
// from the scene's SVG document; text is drawn on top with Go Regular.
func RenderImage(sc scene.Scene, dpr float64) (*image.RGBA, error) {
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPixelRatio, dpr)
	}
	w, h := RasterSize(sc, dpr)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyScene
	}
	if w > maxRasterSide || h > maxRasterSide {
		return nil, fmt.Errorf("failed to rasterize: %dx%d px exceeds %d px", w, h, maxRasterSide)
	}

	doc, err := ExportSVG(sc)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(doc), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, sc.Width*dpr, sc.Height*dpr)
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	if err := drawTexts(img, sc.Texts(), dpr); err != nil {
		return nil, err
	}
	return img, nil
}

// ExportPNG rasterises sc at dpr and encodes it as PNG.
func ExportPNG(sc scene.Scene, dpr float64) ([]byte, error) {
	start := time.Now()
	img, err := RenderImage(sc, dpr)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	logging.Logger().Debug("export: png",
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy(),
		"bytes", buf.Len(), "elapsed", time.Since(start))
	return buf.Bytes(), nil
}

// ExportPNGAsync runs ExportPNG on its own goroutine and delivers exactly
// one result on the returned channel. If ctx ends first the result carries
// ctx.Err(). The scene is copied, so the caller may keep building new ones.
func ExportPNGAsync(ctx context.Context, sc scene.Scene, dpr float64) <-chan RasterResult {
	snapshot := scene.Scene{
		Width:      sc.Width,
		Height:     sc.Height,
		Primitives: append([]scene.Primitive(nil), sc.Primitives...),
	}
	out := make(chan RasterResult, 1)

	go func() {
		defer close(out)
		done := make(chan RasterResult, 1)
		go func() {
			data, err := ExportPNG(snapshot, dpr)
			done <- RasterResult{Data: data, Err: err}
		}()

		select {
		case <-ctx.Done():
			out <- RasterResult{Err: ctx.Err()}
		case r := <-done:
			out <- r
		}
	}()
	return out
}

func drawTexts(img *image.RGBA, texts []scene.Text, dpr float64) error {
	if len(texts) == 0 {
		return nil
	}
	f, err := goRegular()
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	faces := make(map[float64]font.Face)
	defer func() {
		for _, face := range faces {
			face.Close()
		}
	}()

	for _, t := range texts {
		size := t.Size * dpr
		if !(size > 0) || t.Content == "" {
			continue
		}
		face, ok := faces[size]
		if !ok {
			face, err = opentype.NewFace(f, &opentype.FaceOptions{
				Size:    size,
				DPI:     72,
				Hinting: font.HintingFull,
			})
			if err != nil {
				return fmt.Errorf("failed to create font face: %w", err)
			}
			faces[size] = face
		}

		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(t.Fill),
			Face: face,
		}
		x := t.X * dpr
		switch t.Anchor {
		case scene.AnchorMiddle:
			x -= float64(d.MeasureString(t.Content)) / 64 / 2
		case scene.AnchorEnd:
			x -= float64(d.MeasureString(t.Content)) / 64
		}
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(math.Round(x * 64)),
			Y: fixed.Int26_6(math.Round(t.Y * dpr * 64)),
		}
		d.DrawString(t.Content)
	}
	return nil
}
