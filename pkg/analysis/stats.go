package analysis

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// Edge is a unique mesh edge between two vertex indices
type Edge struct {
	A, B   int
	Length float64
}

// MeshStats summarizes a polygon mesh in world space
type MeshStats struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	VertexCount   int
	FaceCount     int
	InvalidFaces  int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	Edges         []Edge
}

// Analyze computes statistics for vertices and face loops placed by transform.
// Faces with fewer than three corners or out-of-range indices are counted as
// invalid and excluded.
func Analyze(vertices []geometry.Vector3, faces [][]int, transform mgl64.Mat4) *MeshStats {
	world := make([]geometry.Vector3, len(vertices))
	for i, v := range vertices {
		world[i] = geometry.TransformPoint(transform, v)
	}

	result := &MeshStats{
		BoundingBox: geometry.BoundsOf(world),
		VertexCount: len(vertices),
	}
	result.Dimensions = result.BoundingBox.Size()

	// Step 1: surface area and unique edges
	seen := make(map[[2]int]bool)
	loop := make([]geometry.Vector3, 0, 4)
	for _, face := range faces {
		if !validFace(face, len(world)) {
			result.InvalidFaces++
			continue
		}
		result.FaceCount++

		loop = loop[:0]
		for i, idx := range face {
			loop = append(loop, world[idx])

			a, b := idx, face[(i+1)%len(face)]
			if a > b {
				a, b = b, a
			}
			if a == b || seen[[2]int{a, b}] {
				continue
			}
			seen[[2]int{a, b}] = true
			result.Edges = append(result.Edges, Edge{A: a, B: b, Length: world[a].Distance(world[b])})
		}
		area, _ := geometry.PolygonArea(loop)
		result.SurfaceArea += area
	}

	// Step 2: edge length statistics
	result.EdgeCount = len(result.Edges)
	if result.EdgeCount == 0 {
		return result
	}
	result.MinEdgeLength = math.MaxFloat64
	total := 0.0
	for _, e := range result.Edges {
		total += e.Length
		result.MinEdgeLength = min(result.MinEdgeLength, e.Length)
		result.MaxEdgeLength = max(result.MaxEdgeLength, e.Length)
	}
	result.AvgEdgeLength = total / float64(result.EdgeCount)

	return result
}

func validFace(face []int, n int) bool {
	if len(face) < 3 {
		return false
	}
	for _, idx := range face {
		if idx < 0 || idx >= n {
			return false
		}
	}
	return true
}

// LongestEdges returns the count longest edges, longest first
func (s *MeshStats) LongestEdges(count int) []Edge {
	edges := slices.Clone(s.Edges)
	slices.SortStableFunc(edges, func(a, b Edge) int {
		return compareFloat(b.Length, a.Length)
	})
	return edges[:min(count, len(edges))]
}

// ShortestEdges returns the count shortest edges, shortest first
func (s *MeshStats) ShortestEdges(count int) []Edge {
	edges := slices.Clone(s.Edges)
	slices.SortStableFunc(edges, func(a, b Edge) int {
		return compareFloat(a.Length, b.Length)
	})
	return edges[:min(count, len(edges))]
}

// EdgesByLength returns all edges with a length within [minLength, maxLength]
func (s *MeshStats) EdgesByLength(minLength, maxLength float64) []Edge {
	var edges []Edge
	for _, e := range s.Edges {
		if e.Length >= minLength && e.Length <= maxLength {
			edges = append(edges, e)
		}
	}
	return edges
}

// NearestVertex returns the index of the vertex closest to point and its distance.
// It returns -1 when there are no vertices.
func NearestVertex(vertices []geometry.Vector3, transform mgl64.Mat4, point geometry.Vector3) (int, float64) {
	nearest := -1
	best := math.MaxFloat64
	for i, v := range vertices {
		d := geometry.TransformPoint(transform, v).Distance(point)
		if d < best {
			nearest, best = i, d
		}
	}
	return nearest, best
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
