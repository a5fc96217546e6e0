package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// toolAction is one toolbar button.
type toolAction struct {
	icon    fyne.Resource
	tooltip string
	tapped  func()
}

// newIconButtonWithTooltip creates an icon-only button with a tooltip that appears on hover.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// newToolbar lays out icon buttons in a row. A nil tapped func inserts a
// separator.
func newToolbar(actions ...toolAction) *fyne.Container {
	row := container.NewHBox()
	for _, a := range actions {
		if a.tapped == nil {
			row.Add(widget.NewSeparator())
			continue
		}
		row.Add(newIconButtonWithTooltip(a.icon, a.tooltip, a.tapped))
	}
	return row
}
