package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/PackView/internal/scene"
)

func TestPackViewTheme_Variant(t *testing.T) {
	light := NewPackViewTheme(ThemeLight)
	assert.Equal(t, theme.VariantLight, light.Variant(theme.VariantDark))

	dark := NewPackViewTheme(ThemeDark)
	assert.Equal(t, theme.VariantDark, dark.Variant(theme.VariantLight))

	system := NewPackViewTheme(ThemeSystem)
	assert.Equal(t, theme.VariantDark, system.Variant(theme.VariantDark))
	assert.Equal(t, theme.VariantLight, system.Variant(theme.VariantLight))

	unknown := NewPackViewTheme("sepia")
	assert.Equal(t, theme.VariantDark, unknown.Variant(theme.VariantDark))
}

func TestPackViewTheme_DiagramTheme(t *testing.T) {
	th := NewPackViewTheme(ThemeSystem)
	assert.Equal(t, scene.DarkTheme(), th.DiagramTheme(theme.VariantDark))
	assert.Equal(t, scene.DefaultTheme(), th.DiagramTheme(theme.VariantLight))

	th.SetName(ThemeDark)
	assert.Equal(t, scene.DarkTheme(), th.DiagramTheme(theme.VariantLight))
}

func TestPackViewTheme_CompactSizes(t *testing.T) {
	th := NewPackViewTheme(ThemeLight)
	assert.Equal(t, float32(12), th.Size(theme.SizeNameText))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNameScrollBar), th.Size(theme.SizeNameScrollBar))
}
