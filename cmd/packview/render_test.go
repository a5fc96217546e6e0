package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PackView/internal/model"
	"github.com/piwi3910/PackView/internal/viewport"
)

const responseJSON = `{
  "success": true,
  "visualization": {
    "container": {"width": 500, "height": 250},
    "packed_rects": [
      {"x": 0, "y": 0, "width": 50, "height": 30, "rotated": false},
      {"x": 100, "y": 40, "width": 30, "height": 60, "rotated": true}
    ]
  }
}`

func writeResponse(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, []byte(responseJSON), 0644))
	return path
}

func TestParseDimensions(t *testing.T) {
	size, err := parseDimensions("600x400")
	require.NoError(t, err)
	assert.Equal(t, viewport.Size{W: 600, H: 400}, size)

	size, err = parseDimensions(" 800X600.5 ")
	require.NoError(t, err)
	assert.Equal(t, viewport.Size{W: 800, H: 600.5}, size)

	for _, bad := range []string{"", "600", "ax400", "600xb", "0x400", "600x-1"} {
		_, err := parseDimensions(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseBin(t *testing.T) {
	bin, err := parseBin("1220x2440")
	require.NoError(t, err)
	assert.Equal(t, model.Bin{Width: 1220, Height: 2440}, bin)
}

func TestRender_SVG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.svg")
	opts := renderOptions{Size: viewport.Size{W: 600, H: 400}}

	require.NoError(t, render(writeResponse(t), out, model.DefaultAppConfig(), opts))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `viewBox="0.00 0.00 600.00 400.00"`)
	assert.Contains(t, string(data), "2 • 30×60")
}

func TestRender_PNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	opts := renderOptions{Size: viewport.Size{W: 300, H: 200}, PixelRatio: 2}

	require.NoError(t, render(writeResponse(t), out, model.DefaultAppConfig(), opts))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestRender_OtherFormats(t *testing.T) {
	dir := t.TempDir()
	layout := writeResponse(t)
	opts := renderOptions{Size: viewport.Size{W: 600, H: 400}}

	for _, name := range []string{"out.pdf", "out.dxf"} {
		out := filepath.Join(dir, name)
		require.NoError(t, render(layout, out, model.DefaultAppConfig(), opts), name)
		assert.FileExists(t, out)
	}

	labels := filepath.Join(dir, "labels.pdf")
	opts.Labels = true
	require.NoError(t, render(layout, labels, model.DefaultAppConfig(), opts))
	data, err := os.ReadFile(labels)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	opts := renderOptions{Size: viewport.Size{W: 600, H: 400}}

	err := render(writeResponse(t), filepath.Join(dir, "out.bmp"), model.DefaultAppConfig(), opts)
	assert.ErrorContains(t, err, "unsupported export format")

	err = render(filepath.Join(dir, "missing.json"), filepath.Join(dir, "out.svg"), model.DefaultAppConfig(), opts)
	assert.Error(t, err)
}
