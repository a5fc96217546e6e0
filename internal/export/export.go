// Package export writes a diagram scene as SVG, PNG or PDF, and a layout as
// a DXF drawing or a sheet of QR-coded part labels.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Default file names offered by the host when saving.
const (
	DefaultSVGName    = "packing.svg"
	DefaultPNGName    = "packing.png"
	DefaultPDFName    = "packing.pdf"
	DefaultDXFName    = "packing.dxf"
	DefaultLabelsName = "packing-labels.pdf"
)

var (
	// ErrInvalidPixelRatio is returned for a non-positive or non-finite
	// device pixel ratio.
	ErrInvalidPixelRatio = errors.New("invalid device pixel ratio")
	// ErrEmptyScene is returned when a scene has no drawable area.
	ErrEmptyScene = errors.New("scene has no drawable area")
	// ErrNoRectangles is returned when a layout has nothing to export.
	ErrNoRectangles = errors.New("layout has no placed rectangles")
)

// SaveFile writes the output of write to path. The data goes to a temporary
// file in the same directory which replaces path only when write succeeds,
// so a failed export never leaves a partial file behind.
func SaveFile(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// WriteFile saves data to path through SaveFile.
func WriteFile(path string, data []byte) error {
	return SaveFile(path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	})
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

func formatOpacity(c color.NRGBA) string {
	return strconv.FormatFloat(opacity(c), 'f', 3, 64)
}
