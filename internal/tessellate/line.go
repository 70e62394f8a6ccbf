package tessellate

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// HalfWidth returns the aspect-corrected NDC offset a line of width w is thickened by
func HalfWidth(width float32, vp Viewport) float32 {
	return LineWidthScale * width * vp.Aspect()
}

// ThickLine expands a clip-space segment into a screen-aligned quad of constant width
func ThickLine(p0, p1 mgl32.Vec4, width float32, vp Viewport) Mesh {
	return thick(p0, p1, 0, 0, width, vp)
}

// DashedLine is ThickLine with world arc lengths carried on each vertex.
// The consumer discards fragments where DashVisible reports false.
func DashedLine(p0, p1 mgl32.Vec4, arc0, arc1, width float32, vp Viewport) Mesh {
	return thick(p0, p1, arc0, arc1, width, vp)
}

// DashVisible is the fragment test for dashed strokes
func DashVisible(arc, scale float32) bool {
	return math32.Sin(arc*scale) > 0.5
}

// DashPeriod returns the arc-length period of the dash pattern
func DashPeriod(scale float32) float32 {
	return 2 * math32.Pi / scale
}

// Polyline thickens consecutive points; arcs may be nil
func Polyline(points []mgl32.Vec4, arcs []float32, width float32, vp Viewport) Mesh {
	var m Mesh
	for i := 0; i+1 < len(points); i++ {
		var a0, a1 float32
		if arcs != nil {
			a0, a1 = arcs[i], arcs[i+1]
		}
		m.Append(thick(points[i], points[i+1], a0, a1, width, vp))
	}
	return m
}

func thick(p0, p1 mgl32.Vec4, arc0, arc1, width float32, vp Viewport) Mesh {
	q0, q1, t0, t1, ok := clipNear(p0, p1)
	if !ok {
		return Mesh{}
	}
	a0 := arc0 + (arc1-arc0)*t0
	a1 := arc0 + (arc1-arc0)*t1

	// Step 1: direction in aspect-corrected NDC so the perpendicular is square on screen
	aspect := vp.Aspect()
	n0, n1 := ndc(q0), ndc(q1)
	dir := mgl32.Vec2{(n1[0] - n0[0]) * aspect, n1[1] - n0[1]}
	if l := dir.Len(); l > 1e-9 {
		dir = dir.Mul(1 / l)
	} else {
		dir = mgl32.Vec2{1, 0}
	}

	// Step 2: perpendicular offset, x undone from aspect correction
	offset := mgl32.Vec2{-dir[1], dir[0]}.Mul(HalfWidth(width, vp))
	offset[0] /= aspect

	// Step 3: offset post-divide, then scale back by w
	corner := func(q mgl32.Vec4, n mgl32.Vec2, side, arc float32) Vertex {
		w := q[3]
		return Vertex{
			Pos: mgl32.Vec4{(n[0] + side*offset[0]) * w, (n[1] + side*offset[1]) * w, q[2], w},
			Arc: arc,
		}
	}

	return quad([4]Vertex{
		corner(q0, n0, 1, a0),
		corner(q0, n0, -1, a0),
		corner(q1, n1, 1, a1),
		corner(q1, n1, -1, a1),
	})
}

// clipNear clips a segment against the near plane z = -w.
// t0 and t1 are the kept parameter range along p0 -> p1.
func clipNear(p0, p1 mgl32.Vec4) (mgl32.Vec4, mgl32.Vec4, float32, float32, bool) {
	d0 := p0[2] + p0[3]
	d1 := p1[2] + p1[3]
	if d0 < 0 && d1 < 0 {
		return p0, p1, 0, 1, false
	}

	t0, t1 := float32(0), float32(1)
	if d0 < 0 {
		t0 = d0 / (d0 - d1)
	} else if d1 < 0 {
		t1 = d0 / (d0 - d1)
	}

	q0 := lerp4(p0, p1, t0)
	q1 := lerp4(p0, p1, t1)
	if q0[3] <= 0 || q1[3] <= 0 {
		return p0, p1, 0, 1, false
	}
	return q0, q1, t0, t1, true
}

func lerp4(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}

// maxDashDepth bounds the subdivision of SplitDashed
const maxDashDepth = 6

// SplitDashed returns the visible dash parts of m as plain triangles, for sinks
// without a fragment discard. Triangles are halved until their arc span is under
// an eighth of the dash period and kept when their centroid passes DashVisible.
func SplitDashed(m Mesh, scale float32) Mesh {
	var out Mesh
	limit := DashPeriod(scale) / 8

	var split func(a, b, c Vertex, depth int)
	split = func(a, b, c Vertex, depth int) {
		lo := min(a.Arc, b.Arc, c.Arc)
		hi := max(a.Arc, b.Arc, c.Arc)
		if hi-lo <= limit || depth >= maxDashDepth {
			if !DashVisible((a.Arc+b.Arc+c.Arc)/3, scale) || len(out.Vertices)+3 > MaxVertices {
				return
			}
			out.Append(Mesh{Vertices: []Vertex{a, b, c}, Indices: []uint16{0, 1, 2}})
			return
		}
		ab, bc, ca := midVertex(a, b), midVertex(b, c), midVertex(c, a)
		split(a, ab, ca, depth+1)
		split(ab, b, bc, depth+1)
		split(ca, bc, c, depth+1)
		split(ab, bc, ca, depth+1)
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		split(m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]], m.Vertices[m.Indices[i+2]], 0)
	}
	return out
}

// midVertex interpolates in clip space, which keeps the arc perspective-correct
func midVertex(a, b Vertex) Vertex {
	return Vertex{
		Pos: a.Pos.Add(b.Pos).Mul(0.5),
		Arc: (a.Arc + b.Arc) / 2,
		UV:  a.UV.Add(b.UV).Mul(0.5),
	}
}
