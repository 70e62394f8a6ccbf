package stl

import (
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// Model represents a complete STL model
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// Indexed welds coincident corners and returns a vertex list plus one
// three-vertex face loop per triangle, in file order.
func (m *Model) Indexed() ([]geometry.Vector3, [][]int) {
	lookup := make(map[geometry.Vector3]int)
	vertices := make([]geometry.Vector3, 0, len(m.Triangles))
	faces := make([][]int, 0, len(m.Triangles))

	index := func(v geometry.Vector3) int {
		if i, ok := lookup[v]; ok {
			return i
		}
		lookup[v] = len(vertices)
		vertices = append(vertices, v)
		return len(vertices) - 1
	}

	for _, t := range m.Triangles {
		faces = append(faces, []int{index(t.V1), index(t.V2), index(t.V3)})
	}

	return vertices, faces
}
