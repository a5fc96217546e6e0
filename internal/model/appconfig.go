package model

// AppConfig holds application-wide viewer preferences.
type AppConfig struct {
	// Viewport behaviour
	FitMargin   float64 `json:"fit_margin"`   // screen px kept around the bin when fitting
	MinScale    float64 `json:"min_scale"`    // screen px per world unit
	MaxScale    float64 `json:"max_scale"`    // screen px per world unit
	ZoomDamping float64 `json:"zoom_damping"` // wheel factor = exp(-delta*damping)
	Overscroll  float64 `json:"overscroll"`   // pan slack as a fraction of the longest bin side

	// Rendering and export
	RTLLabels  bool    `json:"rtl_labels"`  // right-to-left text anchoring
	PixelRatio float64 `json:"pixel_ratio"` // device pixel ratio for PNG export

	// Application preferences
	RecentLayouts []string `json:"recent_layouts"`
	Theme         string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with the viewer defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		FitMargin:     24,
		MinScale:      0.1,
		MaxScale:      10,
		ZoomDamping:   0.0015,
		Overscroll:    0.2,
		RTLLabels:     false,
		PixelRatio:    2,
		RecentLayouts: []string{},
		Theme:         "system",
	}
}

const maxRecentLayouts = 10

// AddRecentLayout moves path to the front of the recent list, dropping
// duplicates and trimming the list to ten entries.
func (c *AppConfig) AddRecentLayout(path string) {
	recent := []string{path}
	for _, p := range c.RecentLayouts {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentLayouts {
		recent = recent[:maxRecentLayouts]
	}
	c.RecentLayouts = recent
}
