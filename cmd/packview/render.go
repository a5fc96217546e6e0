package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/PackView/internal/export"
	"github.com/piwi3910/PackView/internal/importer"
	"github.com/piwi3910/PackView/internal/model"
	"github.com/piwi3910/PackView/internal/project"
	"github.com/piwi3910/PackView/internal/scene"
	"github.com/piwi3910/PackView/internal/viewport"
)

// defaultTableBin is used for CSV and Excel tables when -bin is not given.
var defaultTableBin = model.Bin{Width: 1000, Height: 500}

type renderOptions struct {
	Size       viewport.Size
	PixelRatio float64
	Bin        model.Bin
	Labels     bool
}

// render loads layoutPath, fits it into opts.Size with the same controller
// the window uses, and writes the export chosen by the extension of out.
func render(layoutPath, out string, cfg model.AppConfig, opts renderOptions) error {
	layout, err := loadLayout(layoutPath, opts.Bin)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(out))
	switch {
	case opts.Labels:
		return export.ExportLabels(out, layout)
	case ext == ".dxf":
		return export.ExportDXF(out, layout)
	}

	ctrl, err := viewport.NewController(viewport.ConfigFromApp(cfg), layout.Bin, opts.Size)
	if err != nil {
		return err
	}
	sc := scene.Build(ctrl.State(), layout.Bin, layout.Rectangles, scene.OptionsFromApp(cfg))

	switch ext {
	case ".svg":
		return export.SaveFile(out, func(w io.Writer) error { return export.WriteSVG(w, sc) })
	case ".png":
		dpr := opts.PixelRatio
		if dpr == 0 {
			dpr = cfg.PixelRatio
		}
		data, err := export.ExportPNG(sc, dpr)
		if err != nil {
			return err
		}
		return export.WriteFile(out, data)
	case ".pdf":
		return export.ExportPDF(out, sc)
	default:
		return fmt.Errorf("unsupported export format %q", ext)
	}
}

func loadLayout(path string, bin model.Bin) (model.Layout, error) {
	if strings.EqualFold(filepath.Ext(path), project.FileExtension) {
		return project.LoadLayout(path)
	}
	if bin == (model.Bin{}) {
		bin = defaultTableBin
	}
	result := importer.Import(path, bin)
	if !result.OK() {
		return model.Layout{}, fmt.Errorf("failed to import %s: %s", path, strings.Join(result.Errors, "; "))
	}
	return result.Layout, nil
}

// parseDimensions parses "WxH" into a viewport size.
func parseDimensions(s string) (viewport.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return viewport.Size{}, fmt.Errorf("expected WxH, got %q", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return viewport.Size{}, fmt.Errorf("invalid width %q", w)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return viewport.Size{}, fmt.Errorf("invalid height %q", h)
	}
	if width <= 0 || height <= 0 {
		return viewport.Size{}, fmt.Errorf("size must be positive, got %q", s)
	}
	return viewport.Size{W: width, H: height}, nil
}

func parseBin(s string) (model.Bin, error) {
	size, err := parseDimensions(s)
	if err != nil {
		return model.Bin{}, err
	}
	bin := model.Bin{Width: size.W, Height: size.H}
	return bin, bin.Validate()
}
