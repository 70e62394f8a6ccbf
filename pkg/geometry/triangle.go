package geometry

import "math"

// Triangle represents a triangular facet in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{Normal: normal, V1: v1, V2: v2, V3: v3}
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	return t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return t.V1.Add(t.V2).Add(t.V3).Mul(1.0 / 3.0)
}

// Vertices returns the corners in winding order
func (t Triangle) Vertices() [3]Vector3 {
	return [3]Vector3{t.V1, t.V2, t.V3}
}

// PolygonArea fans a planar polygon loop from its first vertex and returns the
// enclosed area with its area-weighted centroid.
// Triangle areas are signed along the loop's overall normal, so concave loops
// subtract the parts that fold back.
func PolygonArea(loop []Vector3) (float64, Vector3) {
	if len(loop) == 0 {
		return 0, Vector3{}
	}
	if len(loop) < 3 {
		return 0, average(loop)
	}

	// Step 1: accumulate the fan normal
	v0 := loop[0]
	var sum Vector3
	for i := 1; i < len(loop)-1; i++ {
		sum = sum.Add(loop[i].Sub(v0).Cross(loop[i+1].Sub(v0)))
	}
	area := sum.Length() / 2
	if area < 1e-12 {
		return 0, average(loop)
	}
	axis := sum.Normalize()

	// Step 2: weight each fan triangle centroid by its signed area
	var centroid Vector3
	var weight float64
	for i := 1; i < len(loop)-1; i++ {
		w := loop[i].Sub(v0).Cross(loop[i+1].Sub(v0)).Dot(axis) / 2
		centroid = centroid.Add(v0.Add(loop[i]).Add(loop[i+1]).Mul(w / 3))
		weight += w
	}
	if math.Abs(weight) < 1e-12 {
		return area, average(loop)
	}

	return area, centroid.Mul(1 / weight)
}

func average(points []Vector3) Vector3 {
	var sum Vector3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}
