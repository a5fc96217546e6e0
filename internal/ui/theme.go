// Package ui provides the PackView application window and its widgets.
//
// This file defines the Fyne theme and maps it onto diagram colours.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/piwi3910/PackView/internal/scene"
)

// Theme names stored in AppConfig.Theme.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// systemVariant marks a theme that follows the OS light/dark setting.
const systemVariant fyne.ThemeVariant = 99

// PackViewTheme wraps the default Fyne theme with a fixed or system
// variant and compact sizing around the diagram.
type PackViewTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewPackViewTheme creates a theme for one of the ThemeLight, ThemeDark or
// ThemeSystem names. Unknown names follow the system.
func NewPackViewTheme(name string) *PackViewTheme {
	t := &PackViewTheme{base: theme.DefaultTheme()}
	t.SetName(name)
	return t
}

// SetName switches the variant by theme name.
func (t *PackViewTheme) SetName(name string) {
	switch name {
	case ThemeLight:
		t.variant = theme.VariantLight
	case ThemeDark:
		t.variant = theme.VariantDark
	default:
		t.variant = systemVariant
	}
}

// Variant resolves the effective variant; system is the variant passed in
// by Fyne for the current OS setting.
func (t *PackViewTheme) Variant(system fyne.ThemeVariant) fyne.ThemeVariant {
	if t.variant == systemVariant {
		return system
	}
	return t.variant
}

// DiagramTheme returns the diagram palette matching the effective variant.
func (t *PackViewTheme) DiagramTheme(system fyne.ThemeVariant) scene.Theme {
	if t.Variant(system) == theme.VariantDark {
		return scene.DarkTheme()
	}
	return scene.DefaultTheme()
}

// Color delegates to the base theme with the resolved variant.
func (t *PackViewTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.Variant(variant))
}

// Font delegates to the base theme.
func (t *PackViewTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *PackViewTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size keeps toolbars and the status line compact so the diagram gets the room.
func (t *PackViewTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 18
	default:
		return t.base.Size(name)
	}
}
