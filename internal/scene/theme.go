package scene

import "image/color"

// Theme holds the palette and font sizes of a scene.
type Theme struct {
	Background    color.NRGBA
	GridMinor     color.NRGBA
	GridMajor     color.NRGBA
	BinFill       color.NRGBA
	BinStroke     color.NRGBA
	RectFill      color.NRGBA
	RectStroke    color.NRGBA
	LabelBackdrop color.NRGBA
	LabelText     color.NRGBA
	AxisTick      color.NRGBA
	AxisLabel     color.NRGBA

	LabelSize float64
	AxisSize  float64
}

// DefaultTheme returns the stock diagram palette.
func DefaultTheme() Theme {
	return Theme{
		Background:    color.NRGBA{R: 255, G: 248, B: 240, A: 255},
		GridMinor:     color.NRGBA{A: 20},  // black at 8%
		GridMajor:     color.NRGBA{A: 46},  // black at 18%
		BinFill:       color.NRGBA{R: 255, G: 255, B: 255, A: 179},
		BinStroke:     color.NRGBA{A: 179},
		RectFill:      color.NRGBA{R: 100, G: 150, B: 220, A: 89},
		RectStroke:    color.NRGBA{A: 179},
		LabelBackdrop: color.NRGBA{R: 255, G: 255, B: 255, A: 217},
		LabelText:     color.NRGBA{A: 255},
		AxisTick:      color.NRGBA{A: 153},
		AxisLabel:     color.NRGBA{A: 204},
		LabelSize:     12,
		AxisSize:      11,
	}
}

// DarkTheme returns a palette for dark host themes.
func DarkTheme() Theme {
	t := DefaultTheme()
	t.Background = color.NRGBA{R: 30, G: 30, B: 34, A: 255}
	t.GridMinor = color.NRGBA{R: 255, G: 255, B: 255, A: 20}
	t.GridMajor = color.NRGBA{R: 255, G: 255, B: 255, A: 46}
	t.BinFill = color.NRGBA{R: 50, G: 50, B: 56, A: 179}
	t.BinStroke = color.NRGBA{R: 220, G: 220, B: 220, A: 179}
	t.RectStroke = color.NRGBA{R: 220, G: 220, B: 220, A: 179}
	t.AxisTick = color.NRGBA{R: 255, G: 255, B: 255, A: 153}
	t.AxisLabel = color.NRGBA{R: 255, G: 255, B: 255, A: 204}
	return t
}
