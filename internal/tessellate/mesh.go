// Package tessellate turns drawing primitives into clip-space triangle meshes.
//
// Every function is pure: identical input yields identical output. Widths and
// marker sizes are screen-space, so the offsets are applied after projection and
// scaled back by w to stay constant regardless of depth.
package tessellate

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

const (
	// LineWidthScale converts a line width into an aspect-corrected NDC half-width
	LineWidthScale = 0.00118
	// TextDepthOffset pulls text toward the viewer in NDC depth
	TextDepthOffset = 0.001
	// PointSides is the number of fan triangles in a point marker
	PointSides = 12
	// MinArcSegments is the chord count of a full circle at the lowest quality
	MinArcSegments = 16
)

// Viewport is the target size in pixels
type Viewport struct {
	Width, Height float32
}

// Aspect returns width over height
func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return v.Width / v.Height
}

// Vertex is one clip-space vertex
type Vertex struct {
	Pos mgl32.Vec4 // Clip-space position
	Arc float32    // Accumulated world arc length, for dash discard
	UV  mgl32.Vec2 // Texture coordinate, text quads only
}

// Mesh is an indexed triangle list
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16
}

// MaxVertices is the largest vertex count addressable by 16-bit indices
const MaxVertices = math.MaxUint16 + 1

// Empty reports whether the mesh has no triangles
func (m Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// Triangles returns the triangle count
func (m Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Fits reports whether o can be appended without overflowing 16-bit indices
func (m Mesh) Fits(o Mesh) bool {
	return len(m.Vertices)+len(o.Vertices) <= MaxVertices
}

// Append adds o, rebasing its indices
func (m *Mesh) Append(o Mesh) {
	base := uint16(len(m.Vertices))
	m.Vertices = append(m.Vertices, o.Vertices...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// Project maps a world point to clip space
func Project(viewProj mgl64.Mat4, p geometry.Vector3) mgl32.Vec4 {
	c := viewProj.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
}

// ndc performs the perspective divide on x and y
func ndc(p mgl32.Vec4) mgl32.Vec2 {
	return mgl32.Vec2{p[0] / p[3], p[1] / p[3]}
}

// fromPixels offsets a clip-space point by a pixel delta (y up), keeping its depth
func fromPixels(base mgl32.Vec4, dx, dy float32, vp Viewport) mgl32.Vec4 {
	n := ndc(base)
	w := base[3]
	return mgl32.Vec4{(n[0] + dx*2/vp.Width) * w, (n[1] + dy*2/vp.Height) * w, base[2], w}
}

// toPixels returns the pixel position (y up, origin at the viewport center)
func toPixels(p mgl32.Vec4, vp Viewport) mgl32.Vec2 {
	n := ndc(p)
	return mgl32.Vec2{n[0] * vp.Width / 2, n[1] * vp.Height / 2}
}

// quad returns two triangles over four corners ordered a0, a1, b0, b1
func quad(vs [4]Vertex) Mesh {
	return Mesh{
		Vertices: vs[:],
		Indices:  []uint16{0, 1, 2, 2, 1, 3},
	}
}
