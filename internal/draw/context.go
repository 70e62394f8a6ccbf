// Package draw is the scene draw orchestrator: it walks every visible entity,
// resolves geometry and style, tessellates the primitives and submits them to a
// sink in as few style batches as possible. Nothing is cached between frames.
package draw

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// Object is one mesh object carrying measurements
type Object interface {
	Name() string
	Vertices() []geometry.Vector3
	Faces() [][]int
	Transform() mgl64.Mat4
	Visible() bool // False when hidden or its collection is hidden
	Selected() bool
	Measures() *measurement.Store
}

// Scene lists the objects of a frame and resolves link targets and styles
type Scene interface {
	measurement.ObjectLookup
	Objects() []Object
	Styles() measurement.StyleLookup
}

// Debug toggles the diagnostic overlays drawn on selected objects
type Debug struct {
	Vertices      bool
	VertexIndices bool
	Faces         bool
	FaceIndices   bool
	Objects       bool
	Color         measurement.Color
	FontSize      float64
	PointRadius   float64
}

// Enabled reports whether any overlay is on
func (d Debug) Enabled() bool {
	return d.Vertices || d.VertexIndices || d.Faces || d.FaceIndices || d.Objects
}

// Options is the explicit per-frame configuration
type Options struct {
	Ghost      bool // Draw measurements of every visible object, not only selected ones
	ArcQuality int
	Units      measurement.Units
	Defaults   measurement.ConcreteStyle
	Debug      Debug
	Metrics    tessellate.Metrics // Nil falls back to a fixed bitmap face
}

// DefaultOptions returns options with stock defaults
func DefaultOptions() Options {
	return Options{
		Ghost:      true,
		ArcQuality: 64,
		Units:      measurement.DefaultUnits(),
		Defaults:   measurement.DefaultStyle(),
		Debug: Debug{
			Color:       measurement.Color{1, 0.3, 0.1, 1},
			FontSize:    12,
			PointRadius: 3,
		},
	}
}

// FrameContext is everything one frame needs
type FrameContext struct {
	Scene    Scene
	ViewProj mgl64.Mat4
	Viewport tessellate.Viewport
	Sink     Sink
	Options  Options
}

func (fc FrameContext) metrics() tessellate.Metrics {
	if fc.Options.Metrics != nil {
		return fc.Options.Metrics
	}
	return (*tessellate.FontCache)(nil)
}

// FrameStats summarizes one frame
type FrameStats struct {
	Objects    int
	Entities   int
	Skipped    int
	Warnings   int
	Batches    int
	TextLines  int
	SinkErrors int
	Sums       measurement.GroupSums
}
