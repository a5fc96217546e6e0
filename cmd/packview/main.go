// PackView - Bin Packing Diagram Viewer
//
// A cross-platform desktop viewer for already-computed 2D bin packing
// layouts, with pan/zoom and SVG, PNG, PDF, DXF and label export.
//
// Usage:
//   packview [layout]
//   packview -export out.svg|out.png|out.pdf|out.dxf [-labels] [-size 600x400] [-dpr 2] [-bin 1000x500] layout
//
// Build:
//   go build -o packview ./cmd/packview
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"github.com/piwi3910/PackView/internal/logging"
	"github.com/piwi3910/PackView/internal/model"
	"github.com/piwi3910/PackView/internal/project"
	"github.com/piwi3910/PackView/internal/ui"
)

func main() {
	out := flag.String("export", "", "Render the layout headless to this file (.svg, .png, .pdf, .dxf)")
	labels := flag.Bool("labels", false, "With -export, write a QR label sheet PDF instead of the diagram")
	size := flag.String("size", "600x400", "Viewport size in screen pixels for headless rendering")
	dpr := flag.Float64("dpr", 0, "Device pixel ratio for PNG output (default from config)")
	bin := flag.String("bin", "", "Bin size for CSV and Excel tables, e.g. 1220x2440")
	configPath := flag.String("config", project.DefaultConfigPath(), "Path to the preferences file")
	verbose := flag.Bool("v", false, "Log debug output to stderr")
	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load preferences: %v\n", err)
		cfg = model.DefaultAppConfig()
	}

	if *out != "" {
		if flag.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: packview -export <out> [-labels] [-size WxH] [-dpr N] [-bin WxH] <layout>")
			os.Exit(2)
		}
		opts := renderOptions{Labels: *labels, PixelRatio: *dpr}
		if opts.Size, err = parseDimensions(*size); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -size: %v\n", err)
			os.Exit(2)
		}
		if *bin != "" {
			if opts.Bin, err = parseBin(*bin); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid -bin: %v\n", err)
				os.Exit(2)
			}
		}
		if err := render(flag.Arg(0), *out, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runGUI(cfg, *configPath, flag.Arg(0))
}

func runGUI(cfg model.AppConfig, configPath, layoutPath string) {
	application := app.NewWithID("com.piwi3910.packview")
	window := application.NewWindow("PackView - Bin Packing Diagram Viewer")

	appUI := ui.NewApp(application, window, cfg, configPath)
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1000, 700))
	window.CenterOnScreen()

	if layoutPath != "" {
		if _, err := appUI.OpenLayout(layoutPath, defaultTableBin); err != nil {
			dialog.ShowError(err, window)
		}
	}
	window.ShowAndRun()
}
