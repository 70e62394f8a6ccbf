package tessellate

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// SegmentCount returns the chord count for a sweep: quality chords per full turn,
// never below MinArcSegments per turn and never fewer than one
func SegmentCount(sweep float64, quality int) int {
	if quality < MinArcSegments {
		quality = MinArcSegments
	}
	n := int(math.Ceil(float64(quality) * math.Abs(sweep) / (2 * math.Pi)))
	if n < 1 {
		n = 1
	}
	return n
}

// ArcPoints samples an arc into segments+1 world points with their accumulated arc length
func ArcPoints(arc geometry.Arc, segments int) ([]geometry.Vector3, []float32) {
	points := make([]geometry.Vector3, segments+1)
	arcs := make([]float32, segments+1)
	step := arc.Sweep / float64(segments)
	for i := range points {
		points[i] = arc.Point(arc.Start + step*float64(i))
		arcs[i] = float32(arc.Radius * math.Abs(step) * float64(i))
	}
	return points, arcs
}

// Arc tessellates a world-space arc into thick chords
func Arc(viewProj mgl64.Mat4, arc geometry.Arc, quality int, width float32, vp Viewport) Mesh {
	points, arcs := ArcPoints(arc, SegmentCount(arc.Sweep, quality))
	clip := make([]mgl32.Vec4, len(points))
	for i, p := range points {
		clip[i] = Project(viewProj, p)
	}
	return Polyline(clip, arcs, width, vp)
}

// PointMarker emits a PointSides-gon fan of the given pixel radius around center
func PointMarker(center mgl32.Vec4, radius float32, vp Viewport) Mesh {
	if center[3] <= 0 || center[2]+center[3] < 0 {
		return Mesh{}
	}

	m := Mesh{
		Vertices: make([]Vertex, 0, PointSides+1),
		Indices:  make([]uint16, 0, PointSides*3),
	}
	m.Vertices = append(m.Vertices, Vertex{Pos: center})
	for i := 0; i < PointSides; i++ {
		theta := 2 * math32.Pi * float32(i) / PointSides
		m.Vertices = append(m.Vertices, Vertex{
			Pos: fromPixels(center, radius*math32.Cos(theta), radius*math32.Sin(theta), vp),
		})
		next := uint16(i+1)%PointSides + 1
		m.Indices = append(m.Indices, 0, uint16(i+1), next)
	}
	return m
}
