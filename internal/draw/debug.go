package draw

import (
	"strconv"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// debugStyle derives the overlay style from the scene defaults
func debugStyle(opts Options) measurement.ConcreteStyle {
	style := opts.Defaults
	style.Color = opts.Debug.Color
	style.LineWidth = 1
	style.Dashed = false
	style.FontSize = opts.Debug.FontSize
	style.FontRotation = 0
	style.FontAlign = measurement.AlignLeft
	style.FontOffset = [2]float64{4, 4}
	return style
}

// debug draws vertex, face and origin overlays for one object
func (f *frame) debug(obj Object) {
	d := f.fc.Options.Debug
	style := debugStyle(f.fc.Options)
	m := obj.Transform()

	locals := obj.Vertices()
	world := make([]geometry.Vector3, len(locals))
	for i, p := range locals {
		world[i] = geometry.TransformPoint(m, p)
	}

	for i, p := range world {
		if d.Vertices {
			f.marker(p, d.PointRadius, d.Color)
		}
		if d.VertexIndices {
			f.label(p, []string{strconv.Itoa(i)}, style)
		}
	}

	if d.Faces || d.FaceIndices {
	faces:
		for i, face := range obj.Faces() {
			loop := make([]geometry.Vector3, len(face))
			for j, idx := range face {
				if idx < 0 || idx >= len(world) {
					continue faces
				}
				loop[j] = world[idx]
			}
			if d.Faces {
				f.loop(loop, style)
			}
			if d.FaceIndices {
				_, centroid := geometry.PolygonArea(loop)
				f.label(centroid, []string{strconv.Itoa(i)}, style)
			}
		}
	}

	if d.Objects {
		origin := geometry.Origin(m)
		f.marker(origin, d.PointRadius*1.5, d.Color)
		f.label(origin, []string{obj.Name()}, style)
	}
}
