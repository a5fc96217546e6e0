package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/PackView/internal/export"
	"github.com/piwi3910/PackView/internal/importer"
	"github.com/piwi3910/PackView/internal/logging"
	"github.com/piwi3910/PackView/internal/model"
	"github.com/piwi3910/PackView/internal/project"
	"github.com/piwi3910/PackView/internal/scene"
	"github.com/piwi3910/PackView/internal/ui/widgets"
	"github.com/piwi3910/PackView/internal/viewport"
)

// defaultBin is offered for table imports when no layout is open yet.
var defaultBin = model.Bin{Width: 1000, Height: 500}

// App holds all application state and UI references.
type App struct {
	app        fyne.App
	window     fyne.Window
	config     model.AppConfig
	configPath string
	theme      *PackViewTheme

	diagram *widgets.DiagramCanvas
	history *History
	status  *widget.Label
	rtlItem *fyne.MenuItem

	cancelExport context.CancelFunc
}

// NewApp creates the application around window. configPath is where
// preference changes are saved; an empty path disables saving.
func NewApp(app fyne.App, window fyne.Window, cfg model.AppConfig, configPath string) *App {
	a := &App{
		app:        app,
		window:     window,
		config:     cfg,
		configPath: configPath,
		theme:      NewPackViewTheme(cfg.Theme),
		history:    NewHistory(),
		status:     widget.NewLabel("Open a layout to begin."),
	}
	app.Settings().SetTheme(a.theme)

	a.diagram = widgets.NewDiagramCanvas(viewport.ConfigFromApp(cfg), a.sceneOptions())
	a.diagram.OnChanged = func(viewport.State) { a.updateStatus() }
	return a
}

// Diagram returns the diagram widget.
func (a *App) Diagram() *widgets.DiagramCanvas {
	return a.diagram
}

// Config returns the current preferences.
func (a *App) Config() model.AppConfig {
	return a.config
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	recent := fyne.NewMenuItem("Open Recent", nil)
	recent.ChildMenu = a.recentMenu()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Layout...", a.openLayoutDialog),
		recent,
		fyne.NewMenuItem("Save Layout...", a.saveLayoutDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export SVG...", func() { a.exportDialog(export.DefaultSVGName, ".svg", a.exportSVG) }),
		fyne.NewMenuItem("Export PNG...", func() { a.exportDialog(export.DefaultPNGName, ".png", a.exportPNG) }),
		fyne.NewMenuItem("Export PDF...", func() { a.exportDialog(export.DefaultPDFName, ".pdf", a.exportPDF) }),
		fyne.NewMenuItem("Export DXF...", func() { a.exportDialog(export.DefaultDXFName, ".dxf", a.exportDXF) }),
		fyne.NewMenuItem("Export Labels...", func() { a.exportDialog(export.DefaultLabelsName, ".pdf", a.exportLabels) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Bin Size...", a.binSizeDialog),
	)

	a.rtlItem = fyne.NewMenuItem("Right-to-Left Labels", func() {
		a.SetRTL(!a.config.RTLLabels)
	})
	a.rtlItem.Checked = a.config.RTLLabels

	themeItem := fyne.NewMenuItem("Theme", nil)
	themeItem.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("Light", func() { a.SetTheme(ThemeLight) }),
		fyne.NewMenuItem("Dark", func() { a.SetTheme(ThemeDark) }),
		fyne.NewMenuItem("System", func() { a.SetTheme(ThemeSystem) }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Fit to Window", a.diagram.Fit),
		fyne.NewMenuItem("Zoom In", a.diagram.ZoomIn),
		fyne.NewMenuItem("Zoom Out", a.diagram.ZoomOut),
		fyne.NewMenuItemSeparator(),
		a.rtlItem,
		themeItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

func (a *App) recentMenu() *fyne.Menu {
	if len(a.config.RecentLayouts) == 0 {
		item := fyne.NewMenuItem("(none)", nil)
		item.Disabled = true
		return fyne.NewMenu("", item)
	}
	items := make([]*fyne.MenuItem, 0, len(a.config.RecentLayouts))
	for _, path := range a.config.RecentLayouts {
		path := path
		items = append(items, fyne.NewMenuItem(filepath.Base(path), func() {
			a.openPath(path)
		}))
	}
	return fyne.NewMenu("", items...)
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PackView",
		"PackView - Bin Packing Diagram Viewer\n\n"+
			"Pan and zoom packing layouts and export them\n"+
			"as SVG, PNG, PDF, DXF or part labels.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	toolbar := newToolbar(
		toolAction{theme.FolderOpenIcon(), "Open layout", a.openLayoutDialog},
		toolAction{theme.DocumentSaveIcon(), "Save layout", a.saveLayoutDialog},
		toolAction{},
		toolAction{theme.ZoomInIcon(), "Zoom in (+)", a.diagram.ZoomIn},
		toolAction{theme.ZoomOutIcon(), "Zoom out (-)", a.diagram.ZoomOut},
		toolAction{theme.ZoomFitIcon(), "Fit to window (0)", a.diagram.Fit},
		toolAction{},
		toolAction{theme.ContentUndoIcon(), "Undo", a.undo},
		toolAction{theme.ContentRedoIcon(), "Redo", a.redo},
	)

	a.installShortcuts()
	a.window.SetOnClosed(func() {
		if a.cancelExport != nil {
			a.cancelExport()
		}
	})

	content := container.NewBorder(toolbar, a.status, nil, nil, a.diagram)
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

func (a *App) installShortcuts() {
	c := a.window.Canvas()
	c.SetOnTypedRune(func(r rune) {
		switch r {
		case '+', '=':
			a.diagram.ZoomIn()
		case '-', '_':
			a.diagram.ZoomOut()
		case '0':
			a.diagram.Fit()
		}
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(fyne.Shortcut) { a.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.openLayoutDialog() })
}

// ─── Layout ────────────────────────────────────────────────

// OpenLayout loads path and shows it. bin is used by CSV and Excel tables
// only. Import warnings are returned for display.
func (a *App) OpenLayout(path string, bin model.Bin) ([]string, error) {
	layout, warnings, err := loadLayoutFile(path, bin)
	if err != nil {
		return nil, err
	}
	if err := a.replaceLayout(layout, "Open "+filepath.Base(path)); err != nil {
		return nil, err
	}
	a.config.AddRecentLayout(path)
	a.saveConfig()
	return warnings, nil
}

// SetBin resizes the bin of the current layout.
func (a *App) SetBin(bin model.Bin) error {
	layout := copyLayout(a.diagram.CurrentLayout())
	layout.Bin = bin
	layout.Density = 0
	return a.replaceLayout(layout, "Bin size")
}

// Undo restores the previous layout. It reports whether anything changed.
func (a *App) Undo() bool {
	current := MakeSnapshot(a.diagram.CurrentLayout(), "current")
	snap, ok := a.history.Undo(current)
	if !ok {
		return false
	}
	a.showSnapshot(snap)
	return true
}

// Redo reapplies the last undone layout. It reports whether anything changed.
func (a *App) Redo() bool {
	current := MakeSnapshot(a.diagram.CurrentLayout(), "current")
	snap, ok := a.history.Redo(current)
	if !ok {
		return false
	}
	a.showSnapshot(snap)
	return true
}

func (a *App) undo() { a.Undo() }
func (a *App) redo() { a.Redo() }

func (a *App) showSnapshot(s Snapshot) {
	if err := a.diagram.SetLayout(s.Layout); err != nil {
		logging.Logger().Warn("ui: restoring layout failed", "label", s.Label, "error", err)
	}
}

// replaceLayout shows layout and records the previous one for undo.
func (a *App) replaceLayout(layout model.Layout, label string) error {
	previous := a.diagram.CurrentLayout()
	if err := layout.Bin.Validate(); err != nil {
		return err
	}
	if err := a.diagram.SetLayout(layout); err != nil {
		return err
	}
	if previous.Bin.Validate() == nil {
		a.history.Push(MakeSnapshot(previous, label))
	}
	logging.Logger().Debug("ui: layout shown", "name", layout.Name, "rectangles", len(layout.Rectangles))
	return nil
}

// loadLayoutFile reads a saved .packview layout or imports any other
// supported file.
func loadLayoutFile(path string, bin model.Bin) (model.Layout, []string, error) {
	if strings.EqualFold(filepath.Ext(path), project.FileExtension) {
		layout, err := project.LoadLayout(path)
		return layout, nil, err
	}
	result := importer.Import(path, bin)
	if !result.OK() {
		return model.Layout{}, result.Warnings, fmt.Errorf("failed to import %s:\n%s",
			filepath.Base(path), strings.Join(result.Errors, "\n"))
	}
	return result.Layout, result.Warnings, nil
}

// needsBin reports whether importing path requires the user to supply the
// bin size.
func needsBin(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".dxf", project.FileExtension:
		return false
	}
	return true
}

// parseBin parses user-entered bin dimensions.
func parseBin(width, height string) (model.Bin, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(width), 64)
	if err != nil {
		return model.Bin{}, fmt.Errorf("invalid width %q", width)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(height), 64)
	if err != nil {
		return model.Bin{}, fmt.Errorf("invalid height %q", height)
	}
	bin := model.Bin{Width: w, Height: h}
	if err := bin.Validate(); err != nil {
		return model.Bin{}, err
	}
	return bin, nil
}

func (a *App) currentBin() model.Bin {
	if bin := a.diagram.CurrentLayout().Bin; bin.Validate() == nil {
		return bin
	}
	return defaultBin
}

func (a *App) openLayoutDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.openPath(path)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{
		project.FileExtension, ".json", ".csv", ".txt", ".xlsx", ".xlsm", ".xls", ".dxf",
	}))
	d.Show()
}

func (a *App) openPath(path string) {
	open := func(bin model.Bin) {
		warnings, err := a.OpenLayout(path, bin)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.SetupMenus()
		if len(warnings) > 0 {
			dialog.ShowInformation("Import Warnings", strings.Join(warnings, "\n"), a.window)
		}
	}
	if !needsBin(path) {
		open(model.Bin{})
		return
	}
	a.askBin("Bin Size for "+filepath.Base(path), a.currentBin(), open)
}

func (a *App) binSizeDialog() {
	if a.diagram.Controller() == nil {
		dialog.ShowInformation("No layout", "Open a layout first.", a.window)
		return
	}
	a.askBin("Bin Size", a.currentBin(), func(bin model.Bin) {
		if err := a.SetBin(bin); err != nil {
			dialog.ShowError(err, a.window)
		}
	})
}

func (a *App) askBin(title string, initial model.Bin, done func(model.Bin)) {
	widthEntry := widget.NewEntry()
	widthEntry.SetText(model.FormatNumber(initial.Width))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(model.FormatNumber(initial.Height))

	form := dialog.NewForm(title, "OK", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Width", widthEntry),
			widget.NewFormItem("Height", heightEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			bin, err := parseBin(widthEntry.Text, heightEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			done(bin)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(360, 220))
	form.Show()
}

func (a *App) saveLayoutDialog() {
	layout := a.diagram.CurrentLayout()
	if layout.Bin.Validate() != nil {
		dialog.ShowInformation("No layout", "Open a layout first.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.SaveLayout(path, layout); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.config.AddRecentLayout(path)
		a.saveConfig()
		a.SetupMenus()
	}, a.window)
	d.SetFileName(layout.Name + project.FileExtension)
	d.Show()
}

// ─── Export ────────────────────────────────────────────────

func (a *App) exportDialog(defaultName, ext string, save func(path string) error) {
	if a.diagram.Controller() == nil {
		dialog.ShowInformation("Nothing to export", "Open a layout first.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := save(path); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFileName(defaultName)
	d.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	d.Show()
}

func (a *App) exportSVG(path string) error {
	sc := a.diagram.Scene()
	if err := export.SaveFile(path, func(w io.Writer) error { return export.WriteSVG(w, sc) }); err != nil {
		return err
	}
	a.exported(path)
	return nil
}

func (a *App) exportPDF(path string) error {
	if err := export.ExportPDF(path, a.diagram.Scene()); err != nil {
		return err
	}
	a.exported(path)
	return nil
}

func (a *App) exportDXF(path string) error {
	if err := export.ExportDXF(path, a.diagram.CurrentLayout()); err != nil {
		return err
	}
	a.exported(path)
	return nil
}

func (a *App) exportLabels(path string) error {
	if err := export.ExportLabels(path, a.diagram.CurrentLayout()); err != nil {
		return err
	}
	a.exported(path)
	return nil
}

// exportPNG rasterizes off the UI goroutine. A newer PNG export cancels
// one still running.
func (a *App) exportPNG(path string) error {
	if a.cancelExport != nil {
		a.cancelExport()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelExport = cancel
	a.status.SetText("Rendering " + filepath.Base(path) + "...")

	results := export.ExportPNGAsync(ctx, a.diagram.Scene(), a.config.PixelRatio)
	go func() {
		r := <-results
		if r.Err == nil {
			r.Err = export.WriteFile(path, r.Data)
		}
		fyne.Do(func() {
			cancel()
			switch {
			case errors.Is(r.Err, context.Canceled):
				logging.Logger().Debug("ui: png export superseded", "path", path)
			case r.Err != nil:
				a.updateStatus()
				dialog.ShowError(r.Err, a.window)
			default:
				a.exported(path)
			}
		})
	}()
	return nil
}

func (a *App) exported(path string) {
	a.status.SetText("Exported " + filepath.Base(path))
}

// ─── Preferences ───────────────────────────────────────────

// SetRTL switches label anchoring and saves the preference.
func (a *App) SetRTL(rtl bool) {
	a.config.RTLLabels = rtl
	if a.rtlItem != nil {
		a.rtlItem.Checked = rtl
		if menu := a.window.MainMenu(); menu != nil {
			menu.Refresh()
		}
	}
	a.diagram.SetOptions(a.sceneOptions())
	a.saveConfig()
}

// SetTheme switches between ThemeLight, ThemeDark and ThemeSystem.
func (a *App) SetTheme(name string) {
	a.config.Theme = name
	a.theme.SetName(name)
	a.app.Settings().SetTheme(a.theme)
	a.diagram.SetOptions(a.sceneOptions())
	a.saveConfig()
}

func (a *App) sceneOptions() scene.Options {
	opts := scene.OptionsFromApp(a.config)
	opts.Theme = a.theme.DiagramTheme(a.app.Settings().ThemeVariant())
	return opts
}

func (a *App) saveConfig() {
	if a.configPath == "" {
		return
	}
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		logging.Logger().Warn("ui: saving preferences failed", "path", a.configPath, "error", err)
	}
}

func (a *App) updateStatus() {
	layout := a.diagram.CurrentLayout()
	if a.diagram.Controller() == nil {
		a.status.SetText("Open a layout to begin.")
		return
	}
	parts := []string{
		layout.Name,
		fmt.Sprintf("%s x %s", model.FormatNumber(layout.Bin.Width), model.FormatNumber(layout.Bin.Height)),
		fmt.Sprintf("%d rectangles", len(layout.Rectangles)),
		fmt.Sprintf("%.1f%% used", layout.Utilization()*100),
		fmt.Sprintf("zoom %.0f%%", a.diagram.State().Scale*100),
	}
	if out := layout.OutOfBin(); len(out) > 0 {
		parts = append(parts, fmt.Sprintf("%d outside bin", len(out)))
	}
	if len(layout.Unplaced) > 0 {
		parts = append(parts, fmt.Sprintf("%d unplaced", len(layout.Unplaced)))
	}
	a.status.SetText(strings.Join(parts, "  |  "))
}
