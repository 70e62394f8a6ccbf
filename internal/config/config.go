// Package config loads the TOML configuration passed explicitly into drawing,
// formatting and rendering.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
	"github.com/pelletier/go-toml/v2"
)

// Config is the complete configuration
type Config struct {
	Units    Units                     `toml:"units"`
	Defaults measurement.ConcreteStyle `toml:"defaults"`
	Draw     Draw                      `toml:"draw"`
	Debug    Debug                     `toml:"debug"`
	Render   Render                    `toml:"render"`
}

// Units selects the unit system; precision and hide_suffix override the default style when set
type Units struct {
	System     measurement.UnitSystem `toml:"system"`
	Scale      float64                `toml:"scale"`
	Precision  *int                   `toml:"precision,omitempty"`
	HideSuffix *bool                  `toml:"hide_suffix,omitempty"`
}

// Draw holds orchestrator options
type Draw struct {
	Ghost      bool `toml:"ghost"`
	ArcQuality int  `toml:"arc_quality"`
}

// Debug holds the overlay toggles
type Debug struct {
	Vertices      bool              `toml:"vertices"`
	VertexIndices bool              `toml:"vertex_indices"`
	Faces         bool              `toml:"faces"`
	FaceIndices   bool              `toml:"face_indices"`
	Objects       bool              `toml:"objects"`
	Color         measurement.Color `toml:"color"`
	FontSize      float64           `toml:"font_size"`
	PointRadius   float64           `toml:"point_radius"`
}

// Render holds the software renderer settings
type Render struct {
	Width      int               `toml:"width"`
	Height     int               `toml:"height"`
	Background measurement.Color `toml:"background"`
	Wireframe  bool              `toml:"wireframe"`
	WireColor  measurement.Color `toml:"wire_color"`
	Frames     int               `toml:"frames"`
	OrbitStep  float64           `toml:"orbit_step"` // Degrees of turntable rotation per frame
	FOV        float64           `toml:"fov"`
}

// Default returns the built-in configuration
func Default() *Config {
	opts := draw.DefaultOptions()
	return &Config{
		Units:    Units{System: opts.Units.System, Scale: opts.Units.Scale},
		Defaults: opts.Defaults,
		Draw: Draw{
			Ghost:      opts.Ghost,
			ArcQuality: opts.ArcQuality,
		},
		Debug: Debug{
			Color:       opts.Debug.Color,
			FontSize:    opts.Debug.FontSize,
			PointRadius: opts.Debug.PointRadius,
		},
		Render: Render{
			Width:      1024,
			Height:     768,
			Background: measurement.Color{0.12, 0.12, 0.14, 1},
			Wireframe:  true,
			WireColor:  measurement.Color{0.6, 0.6, 0.6, 1},
			Frames:     1,
			OrbitStep:  10,
			FOV:        45,
		},
	}
}

// Load decodes a TOML file over the defaults and validates the result
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown configuration keys:\n%s", strict.String())
		}
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes the configuration as TOML
func (c *Config) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate clamps the arc quality and rejects out-of-range values
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	if c.Draw.ArcQuality < tessellate.MinArcSegments {
		c.Draw.ArcQuality = tessellate.MinArcSegments
	}

	check(c.Units.Scale > 0, "units.scale must be positive, got %v", c.Units.Scale)
	if c.Units.Precision != nil {
		check(*c.Units.Precision >= 0 && *c.Units.Precision <= 6, "units.precision must be in 0..6, got %d", *c.Units.Precision)
	}

	d := c.Defaults
	check(d.Precision >= 0 && d.Precision <= 6, "defaults.precision must be in 0..6, got %d", d.Precision)
	check(d.FontSize >= 6 && d.FontSize <= 150, "defaults.font_size must be in 6..150, got %v", d.FontSize)
	check(d.LineWidth >= 1 && d.LineWidth <= 20, "defaults.line_width must be in 1..20, got %v", d.LineWidth)
	check(d.ArrowSize >= 6 && d.ArrowSize <= 500, "defaults.arrow_size must be in 6..500, got %v", d.ArrowSize)
	check(d.ArcArrowSize >= 6 && d.ArcArrowSize <= 500, "defaults.arc_arrow_size must be in 6..500, got %v", d.ArcArrowSize)
	check(d.DashScale > 0, "defaults.dash_scale must be positive, got %v", d.DashScale)

	check(c.Debug.FontSize >= 6 && c.Debug.FontSize <= 150, "debug.font_size must be in 6..150, got %v", c.Debug.FontSize)
	check(c.Debug.PointRadius > 0, "debug.point_radius must be positive, got %v", c.Debug.PointRadius)

	check(c.Render.Width > 0 && c.Render.Height > 0, "render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	check(c.Render.Frames >= 1, "render.frames must be at least 1, got %d", c.Render.Frames)
	check(c.Render.FOV > 0 && c.Render.FOV < 180, "render.fov must be in (0, 180), got %v", c.Render.FOV)

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// MeasureUnits returns the unit system and scale
func (c *Config) MeasureUnits() measurement.Units {
	return measurement.Units{System: c.Units.System, Scale: c.Units.Scale}
}

// Style returns the scene default style with the unit overrides applied
func (c *Config) Style() measurement.ConcreteStyle {
	style := c.Defaults
	if c.Units.Precision != nil {
		style.Precision = *c.Units.Precision
	}
	if c.Units.HideSuffix != nil {
		style.HideUnits = *c.Units.HideSuffix
	}
	return style
}

// Options converts the configuration into per-frame draw options
func (c *Config) Options(metrics tessellate.Metrics) draw.Options {
	return draw.Options{
		Ghost:      c.Draw.Ghost,
		ArcQuality: c.Draw.ArcQuality,
		Units:      c.MeasureUnits(),
		Defaults:   c.Style(),
		Debug: draw.Debug{
			Vertices:      c.Debug.Vertices,
			VertexIndices: c.Debug.VertexIndices,
			Faces:         c.Debug.Faces,
			FaceIndices:   c.Debug.FaceIndices,
			Objects:       c.Debug.Objects,
			Color:         c.Debug.Color,
			FontSize:      c.Debug.FontSize,
			PointRadius:   c.Debug.PointRadius,
		},
		Metrics: metrics,
	}
}
