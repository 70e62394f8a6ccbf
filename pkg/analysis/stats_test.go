package analysis

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unit square split into two triangles sharing the diagonal 0-2
var (
	squareVerts = []geometry.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	squareFaces = [][]int{{0, 1, 2}, {0, 2, 3}}
)

func TestAnalyze(t *testing.T) {
	s := Analyze(squareVerts, squareFaces, mgl64.Ident4())

	assert.Equal(t, 4, s.VertexCount)
	assert.Equal(t, 2, s.FaceCount)
	assert.Equal(t, 5, s.EdgeCount)
	assert.InDelta(t, 1.0, s.SurfaceArea, 1e-9)
	assert.InDelta(t, 1.0, s.MinEdgeLength, 1e-9)
	assert.InDelta(t, math.Sqrt2, s.MaxEdgeLength, 1e-9)
	assert.InDelta(t, (4+math.Sqrt2)/5, s.AvgEdgeLength, 1e-9)
	assert.True(t, s.Dimensions.NearlyEqual(geometry.NewVector3(1, 1, 0), 1e-9))
}

func TestAnalyzeTransform(t *testing.T) {
	m := geometry.Compose(geometry.NewVector3(5, 0, 0), geometry.Vector3{}, geometry.NewVector3(2, 3, 1))
	s := Analyze(squareVerts, squareFaces, m)

	assert.InDelta(t, 6.0, s.SurfaceArea, 1e-9)
	assert.InDelta(t, 5.0, s.BoundingBox.Min.X, 1e-9)
	assert.InDelta(t, 7.0, s.BoundingBox.Max.X, 1e-9)
	assert.InDelta(t, 3.0, s.Dimensions.Y, 1e-9)
}

func TestAnalyzeInvalidFaces(t *testing.T) {
	faces := [][]int{{0, 1, 2}, {0, 9, 1}, {0, 1}}
	s := Analyze(squareVerts, faces, mgl64.Ident4())

	assert.Equal(t, 1, s.FaceCount)
	assert.Equal(t, 2, s.InvalidFaces)
	assert.Equal(t, 3, s.EdgeCount)
	assert.InDelta(t, 0.5, s.SurfaceArea, 1e-9)
}

func TestAnalyzeEmpty(t *testing.T) {
	s := Analyze(nil, nil, mgl64.Ident4())

	assert.Zero(t, s.EdgeCount)
	assert.Zero(t, s.MinEdgeLength)
	assert.True(t, s.BoundingBox.Empty())
}

func TestEdgeQueries(t *testing.T) {
	s := Analyze(squareVerts, squareFaces, mgl64.Ident4())

	longest := s.LongestEdges(1)
	require.Len(t, longest, 1)
	assert.Equal(t, Edge{A: 0, B: 2, Length: longest[0].Length}, longest[0])

	assert.Len(t, s.ShortestEdges(10), 5)
	assert.InDelta(t, 1.0, s.ShortestEdges(1)[0].Length, 1e-9)
	assert.Len(t, s.EdgesByLength(0.9, 1.1), 4)
}

func TestNearestVertex(t *testing.T) {
	idx, d := NearestVertex(squareVerts, mgl64.Ident4(), geometry.NewVector3(0.9, 1.2, 0))
	assert.Equal(t, 2, idx)
	assert.InDelta(t, math.Hypot(0.1, 0.2), d, 1e-9)

	idx, _ = NearestVertex(nil, mgl64.Ident4(), geometry.Vector3{})
	assert.Equal(t, -1, idx)
}
