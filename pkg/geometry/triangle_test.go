package geometry

import (
	"math"
	"testing"
)

func TestTriangleArea(t *testing.T) {
	// Create a right triangle with sides 3, 4, 5
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	area := tri.Area()
	expected := 6.0

	if math.Abs(area-expected) > 1e-10 {
		t.Errorf("Area failed: expected %v, got %v", expected, area)
	}
}

func TestTriangleEdgeLengths(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	lengths := tri.EdgeLengths()
	for i, expected := range []float64{3, 5, 4} {
		if math.Abs(lengths[i]-expected) > 1e-10 {
			t.Errorf("Edge %d length failed: expected %v, got %v", i, expected, lengths[i])
		}
	}
}

func TestPolygonAreaSquare(t *testing.T) {
	square := []Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 0, 0),
		NewVector3(2, 2, 0),
		NewVector3(0, 2, 0),
	}

	area, centroid := PolygonArea(square)
	if math.Abs(area-4) > 1e-10 {
		t.Errorf("Area failed: expected 4, got %v", area)
	}
	if !centroid.NearlyEqual(NewVector3(1, 1, 0), 1e-10) {
		t.Errorf("Centroid failed: expected (1,1,0), got %v", centroid)
	}
}

func TestPolygonAreaConcave(t *testing.T) {
	// L-shape: 2x2 square minus the 1x1 top-right corner
	shape := []Vector3{
		NewVector3(0, 0, 5),
		NewVector3(2, 0, 5),
		NewVector3(2, 1, 5),
		NewVector3(1, 1, 5),
		NewVector3(1, 2, 5),
		NewVector3(0, 2, 5),
	}

	area, centroid := PolygonArea(shape)
	if math.Abs(area-3) > 1e-10 {
		t.Errorf("Area failed: expected 3, got %v", area)
	}
	// Three unit squares centered at (0.5,0.5), (1.5,0.5), (0.5,1.5)
	expected := NewVector3(2.5/3, 2.5/3, 5)
	if !centroid.NearlyEqual(expected, 1e-10) {
		t.Errorf("Centroid failed: expected %v, got %v", expected, centroid)
	}
}

func TestPolygonAreaDegenerate(t *testing.T) {
	line := []Vector3{NewVector3(0, 0, 0), NewVector3(1, 0, 0), NewVector3(2, 0, 0)}
	area, centroid := PolygonArea(line)
	if area != 0 {
		t.Errorf("Area failed: expected 0, got %v", area)
	}
	if !centroid.NearlyEqual(NewVector3(1, 0, 0), 1e-10) {
		t.Errorf("Centroid failed: expected (1,0,0), got %v", centroid)
	}
}

func TestBoundingBox(t *testing.T) {
	b := BoundsOf([]Vector3{NewVector3(-1, 0, 2), NewVector3(3, 4, -2)})

	if b.Size() != NewVector3(4, 4, 4) {
		t.Errorf("Size failed: expected (4,4,4), got %v", b.Size())
	}
	if b.Center() != NewVector3(1, 2, 0) {
		t.Errorf("Center failed: expected (1,2,0), got %v", b.Center())
	}
	if !NewBoundingBox().Empty() {
		t.Errorf("Empty failed: new bounding box should be empty")
	}
}
