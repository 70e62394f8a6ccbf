package tessellate

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testViewport = Viewport{Width: 800, Height: 600}

// offsetNDC returns the half-width of the quad at its first endpoint in aspect-corrected NDC
func offsetNDC(m Mesh, vp Viewport) float32 {
	a := ndc(m.Vertices[0].Pos)
	b := ndc(m.Vertices[1].Pos)
	d := mgl32.Vec2{(a[0] - b[0]) * vp.Aspect(), a[1] - b[1]}
	return d.Len() / 2
}

func TestThickLineQuad(t *testing.T) {
	m := ThickLine(mgl32.Vec4{-0.5, 0, 0, 1}, mgl32.Vec4{0.5, 0.2, 0, 1}, 2, testViewport)

	require.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint16{0, 1, 2, 2, 1, 3}, m.Indices)
	assert.Equal(t, 2, m.Triangles())
}

func TestThickLineConstantScreenWidth(t *testing.T) {
	for _, w := range []float32{1, 3, 25} {
		p0 := mgl32.Vec4{-0.3 * w, 0.1 * w, 0, w}
		p1 := mgl32.Vec4{0.4 * w, -0.2 * w, 0.5 * w, w}
		m := ThickLine(p0, p1, 4, testViewport)

		require.Len(t, m.Vertices, 4)
		assert.InDelta(t, HalfWidth(4, testViewport), offsetNDC(m, testViewport), 1e-5, "w=%v", w)
	}
}

func TestThickLineVerticalAndHorizontalMatch(t *testing.T) {
	h := ThickLine(mgl32.Vec4{-0.5, 0, 0, 1}, mgl32.Vec4{0.5, 0, 0, 1}, 1, testViewport)
	v := ThickLine(mgl32.Vec4{0, -0.5, 0, 1}, mgl32.Vec4{0, 0.5, 0, 1}, 1, testViewport)

	assert.InDelta(t, offsetNDC(h, testViewport), offsetNDC(v, testViewport), 1e-6)
}

func TestThickLineBehindCamera(t *testing.T) {
	m := ThickLine(mgl32.Vec4{0, 0, -3, 1}, mgl32.Vec4{1, 0, -4, 1}, 1, testViewport)
	assert.True(t, m.Empty())
}

func TestThickLineClipsNearPlane(t *testing.T) {
	m := DashedLine(mgl32.Vec4{0, 0, -3, 1}, mgl32.Vec4{0, 1, 1, 1}, 0, 10, 1, testViewport)

	require.Len(t, m.Vertices, 4)
	for _, v := range m.Vertices {
		assert.GreaterOrEqual(t, v.Pos[2]+v.Pos[3], float32(-1e-6))
	}
	assert.InDelta(t, 5, m.Vertices[0].Arc, 1e-5)
	assert.InDelta(t, 10, m.Vertices[3].Arc, 1e-5)
}

func TestDashPeriodic(t *testing.T) {
	for _, scale := range []float32{1, 4, 10} {
		period := DashPeriod(scale)
		for i := 0; i < 50; i++ {
			arc := float32(i)*0.173 + 0.01
			expected := DashVisible(arc, scale)
			shifted := arc + period
			// Skip samples right on a dash boundary where float error could flip the result
			if math32.Abs(math32.Sin(arc*scale)-0.5) < 1e-3 {
				continue
			}
			assert.Equal(t, expected, DashVisible(shifted, scale), "scale=%v arc=%v", scale, arc)
		}
	}
}

func TestDashedLineCarriesArc(t *testing.T) {
	m := DashedLine(mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec4{1, 0, 0, 1}, 2, 7, 1, testViewport)

	require.Len(t, m.Vertices, 4)
	assert.Equal(t, float32(2), m.Vertices[0].Arc)
	assert.Equal(t, float32(2), m.Vertices[1].Arc)
	assert.Equal(t, float32(7), m.Vertices[2].Arc)
	assert.Equal(t, float32(7), m.Vertices[3].Arc)
}

func triangleArea(a, b, c Vertex) float32 {
	p, q, r := ndc(a.Pos), ndc(b.Pos), ndc(c.Pos)
	return math32.Abs((q[0]-p[0])*(r[1]-p[1])-(r[0]-p[0])*(q[1]-p[1])) / 2
}

func meshArea(m Mesh) float32 {
	var sum float32
	for i := 0; i+2 < len(m.Indices); i += 3 {
		sum += triangleArea(m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]], m.Vertices[m.Indices[i+2]])
	}
	return sum
}

func TestSplitDashed(t *testing.T) {
	const scale = 10
	line := DashedLine(mgl32.Vec4{-0.8, 0, 0, 1}, mgl32.Vec4{0.8, 0, 0, 1}, 0, 4*DashPeriod(scale), 8, testViewport)
	dashes := SplitDashed(line, scale)

	require.False(t, dashes.Empty())
	for i := 0; i+2 < len(dashes.Indices); i += 3 {
		a, b, c := dashes.Vertices[dashes.Indices[i]], dashes.Vertices[dashes.Indices[i+1]], dashes.Vertices[dashes.Indices[i+2]]
		assert.True(t, DashVisible((a.Arc+b.Arc+c.Arc)/3, scale))
	}

	// sin(x) > 0.5 holds for a third of each period
	assert.InDelta(t, 1.0/3, meshArea(dashes)/meshArea(line), 0.05)
}

func TestPolyline(t *testing.T) {
	pts := []mgl32.Vec4{{0, 0, 0, 1}, {0.1, 0, 0, 1}, {0.2, 0.1, 0, 1}}
	m := Polyline(pts, nil, 1, testViewport)

	assert.Len(t, m.Vertices, 8)
	assert.Equal(t, 4, m.Triangles())
	assert.Equal(t, uint16(4), m.Indices[6])
}

func TestSegmentCount(t *testing.T) {
	tests := []struct {
		sweep   float64
		quality int
		want    int
	}{
		{2 * math.Pi, 16, 16},
		{2 * math.Pi, 4, 16},
		{math.Pi, 64, 32},
		{-math.Pi / 2, 16, 4},
		{0, 16, 1},
		{1e-6, 16, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SegmentCount(tt.sweep, tt.quality), "sweep=%v quality=%v", tt.sweep, tt.quality)
	}
}

func TestArcPoints(t *testing.T) {
	arc, err := geometry.ArcThrough(
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
		geometry.NewVector3(-1, 0, 0),
		false,
	)
	require.NoError(t, err)

	pts, arcs := ArcPoints(arc, 8)
	require.Len(t, pts, 9)
	assert.True(t, pts[0].NearlyEqual(geometry.NewVector3(1, 0, 0), 1e-9))
	assert.True(t, pts[8].NearlyEqual(geometry.NewVector3(-1, 0, 0), 1e-9))
	assert.InDelta(t, math.Pi, arcs[8], 1e-5)
	for _, p := range pts {
		assert.InDelta(t, 1, p.Length(), 1e-9)
	}
}

func TestArcMesh(t *testing.T) {
	arc, err := geometry.ArcThrough(
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
		geometry.NewVector3(-1, 0, 0),
		true,
	)
	require.NoError(t, err)

	viewProj := mgl64.Ortho(-2, 2, -2, 2, -10, 10)
	m := Arc(viewProj, arc, 16, 1, testViewport)

	assert.Len(t, m.Vertices, 16*4)
	assert.Equal(t, 32, m.Triangles())
}

func TestPointMarker(t *testing.T) {
	m := PointMarker(mgl32.Vec4{0, 0, 0, 2}, 5, testViewport)

	require.Len(t, m.Vertices, PointSides+1)
	assert.Equal(t, PointSides, m.Triangles())
	center := toPixels(m.Vertices[0].Pos, testViewport)
	for _, v := range m.Vertices[1:] {
		d := toPixels(v.Pos, testViewport).Sub(center)
		assert.InDelta(t, 5, d.Len(), 1e-3)
	}
	assert.Equal(t, uint16(1), m.Indices[len(m.Indices)-1])

	assert.True(t, PointMarker(mgl32.Vec4{0, 0, 0, -1}, 5, testViewport).Empty())
}

func TestArrow(t *testing.T) {
	tip := mgl32.Vec4{0, 0, 0, 1}
	tail := mgl32.Vec4{0.5, 0, 0, 1}

	assert.True(t, Arrow(tip, tail, ArrowNone, 15, 1, testViewport).Empty())
	assert.Equal(t, 4, Arrow(tip, tail, ArrowLine, 15, 1, testViewport).Triangles())
	assert.Equal(t, 1, Arrow(tip, tail, ArrowTriangle, 15, 1, testViewport).Triangles())
	assert.Equal(t, 2, Arrow(tip, tail, ArrowTShape, 15, 1, testViewport).Triangles())

	// Wings point back toward the tail
	tri := Arrow(tip, tail, ArrowTriangle, 15, 1, testViewport)
	for _, v := range tri.Vertices[1:] {
		assert.Greater(t, toPixels(v.Pos, testViewport)[0], float32(0))
	}

	assert.True(t, Arrow(tip, tip, ArrowLine, 15, 1, testViewport).Empty())
}

type fixedMetrics struct{}

func (fixedMetrics) LineMetrics(text string, size float32) (float32, float32) {
	return float32(len(text)) * size / 2, size
}

func TestTextQuadsAlignment(t *testing.T) {
	block := TextSpec{
		Anchor: mgl32.Vec4{0, 0, 0.5, 1},
		Lines:  []string{"abcd"},
		Size:   10,
	}

	for _, tt := range []struct {
		align Align
		left  float32
	}{
		{AlignLeft, 0},
		{AlignCenter, -10},
		{AlignRight, -20},
	} {
		block.Align = tt.align
		lines := TextQuads(block, fixedMetrics{}, testViewport)
		require.Len(t, lines, 1)
		bl := toPixels(lines[0].Quad.Vertices[0].Pos, testViewport)
		assert.InDelta(t, tt.left, bl[0], 1e-3, "align=%v", tt.align)
		assert.InDelta(t, 0, bl[1], 1e-3)
	}
}

func TestTextQuadsStacking(t *testing.T) {
	lines := TextQuads(TextSpec{
		Anchor: mgl32.Vec4{0, 0, 0, 1},
		Lines:  []string{"top", "bottom"},
		Size:   12,
		Offset: mgl32.Vec2{3, 4},
	}, fixedMetrics{}, testViewport)

	require.Len(t, lines, 2)
	assert.Equal(t, "top", lines[0].Text)
	assert.Equal(t, "bottom", lines[1].Text)

	topBL := toPixels(lines[0].Quad.Vertices[0].Pos, testViewport)
	bottomBL := toPixels(lines[1].Quad.Vertices[0].Pos, testViewport)
	assert.InDelta(t, 4, bottomBL[1], 1e-3)
	assert.InDelta(t, 16, topBL[1], 1e-3)
	assert.InDelta(t, 3, bottomBL[0], 1e-3)

	assert.Equal(t, mgl32.Vec2{0, 1}, lines[0].Quad.Vertices[0].UV)
	assert.Equal(t, mgl32.Vec2{1, 0}, lines[0].Quad.Vertices[3].UV)
	assert.InDelta(t, -TextDepthOffset, lines[0].Quad.Vertices[0].Pos[2], 1e-7)
}

func TestTextQuadsRotation(t *testing.T) {
	lines := TextQuads(TextSpec{
		Anchor:   mgl32.Vec4{0, 0, 0, 1},
		Lines:    []string{"ab"},
		Size:     10,
		Rotation: 90,
	}, fixedMetrics{}, testViewport)

	require.Len(t, lines, 1)
	br := toPixels(lines[0].Quad.Vertices[2].Pos, testViewport)
	assert.InDelta(t, 0, br[0], 1e-3)
	assert.InDelta(t, 10, br[1], 1e-3)
}

func TestTextQuadsHidden(t *testing.T) {
	assert.Nil(t, TextQuads(TextSpec{Anchor: mgl32.Vec4{0, 0, 0, -1}, Lines: []string{"x"}}, fixedMetrics{}, testViewport))
	assert.Nil(t, TextQuads(TextSpec{Anchor: mgl32.Vec4{0, 0, 0, 1}}, fixedMetrics{}, testViewport))
}

func TestTessellationIsPure(t *testing.T) {
	p0 := mgl32.Vec4{0.1, 0.2, 0.3, 1.5}
	p1 := mgl32.Vec4{-0.4, 0.6, 0.1, 2}

	assert.Equal(t, ThickLine(p0, p1, 3, testViewport), ThickLine(p0, p1, 3, testViewport))
	assert.Equal(t, PointMarker(p0, 4, testViewport), PointMarker(p0, 4, testViewport))
}

func TestMeshAppend(t *testing.T) {
	var m Mesh
	assert.True(t, m.Empty())

	q := ThickLine(mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec4{1, 0, 0, 1}, 1, testViewport)
	m.Append(q)
	m.Append(q)

	assert.Len(t, m.Vertices, 8)
	assert.Equal(t, []uint16{0, 1, 2, 2, 1, 3, 4, 5, 6, 6, 5, 7}, m.Indices)
	assert.True(t, m.Fits(q))
	assert.False(t, Mesh{Vertices: make([]Vertex, MaxVertices)}.Fits(q))
}

func TestFontCache(t *testing.T) {
	fc, err := NewFontCache()
	require.NoError(t, err)

	w1, h1 := fc.LineMetrics("12.50 m", 14)
	w2, h2 := fc.LineMetrics("12.50 m", 28)
	assert.Greater(t, w1, float32(0))
	assert.Greater(t, w2, w1)
	assert.Greater(t, h2, h1)
	assert.Same(t, fc.Face(14), fc.Face(14))

	img := fc.Render("42", 14)
	assert.Greater(t, img.Bounds().Dx(), 0)

	var nilCache *FontCache
	w, _ := nilCache.LineMetrics("ab", 14)
	assert.Equal(t, float32(14), w)
}
