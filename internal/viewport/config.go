package viewport

import "github.com/piwi3910/PackView/internal/model"

// Config holds the constants of the pan/zoom behaviour.
type Config struct {
	FitMargin    float64 // screen px kept around the bin on fit
	MinScale     float64
	MaxScale     float64
	ZoomDamping  float64 // wheel factor = exp(-delta*ZoomDamping)
	Overscroll   float64 // pan slack as a fraction of the longest bin side
	KeyZoomDelta float64 // wheel delta applied by ZoomIn/ZoomOut
}

// DefaultConfig returns the stock viewer behaviour.
func DefaultConfig() Config {
	return Config{
		FitMargin:    24,
		MinScale:     0.1,
		MaxScale:     10,
		ZoomDamping:  0.0015,
		Overscroll:   0.2,
		KeyZoomDelta: 100,
	}
}

// ConfigFromApp builds a Config from the persisted application settings.
func ConfigFromApp(app model.AppConfig) Config {
	cfg := DefaultConfig()
	cfg.FitMargin = app.FitMargin
	cfg.MinScale = app.MinScale
	cfg.MaxScale = app.MaxScale
	cfg.ZoomDamping = app.ZoomDamping
	cfg.Overscroll = app.Overscroll
	return cfg.normalized()
}

// normalized replaces unusable values by their defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if !isFinite(c.FitMargin) || c.FitMargin < 0 {
		c.FitMargin = def.FitMargin
	}
	if !isFinite(c.MinScale) || c.MinScale <= 0 {
		c.MinScale = def.MinScale
	}
	if !isFinite(c.MaxScale) || c.MaxScale <= 0 {
		c.MaxScale = def.MaxScale
	}
	if c.MaxScale < c.MinScale {
		c.MinScale, c.MaxScale = def.MinScale, def.MaxScale
	}
	if !isFinite(c.ZoomDamping) || c.ZoomDamping <= 0 {
		c.ZoomDamping = def.ZoomDamping
	}
	if !isFinite(c.Overscroll) || c.Overscroll < 0 {
		c.Overscroll = def.Overscroll
	}
	if !isFinite(c.KeyZoomDelta) || c.KeyZoomDelta <= 0 {
		c.KeyZoomDelta = def.KeyZoomDelta
	}
	return c
}
