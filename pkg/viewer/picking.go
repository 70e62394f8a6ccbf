package viewer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// Ray is a half line in world space with a unit direction
type Ray struct {
	Origin    geometry.Vector3
	Direction geometry.Vector3
}

// Ray returns the world-space ray through pixel (x, y), y down
func (c *Camera) Ray(x, y float64, width, height int) Ray {
	inv := c.ViewProj(width, height).Inv()
	nx := 2*x/float64(width) - 1
	ny := 1 - 2*y/float64(height)

	unproject := func(nz float64) geometry.Vector3 {
		p := inv.Mul4x1(mgl64.Vec4{nx, ny, nz, 1})
		return geometry.NewVector3(p[0]/p[3], p[1]/p[3], p[2]/p[3])
	}
	near, far := unproject(-1), unproject(1)
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// RayPointDistance returns the distance from p to the closest point of r.
// Points behind the origin measure to the origin.
func RayPointDistance(r Ray, p geometry.Vector3) float64 {
	t := p.Sub(r.Origin).Dot(r.Direction)
	if t < 0 {
		t = 0
	}
	return p.Distance(r.Origin.Add(r.Direction.Mul(t)))
}

// PickThreshold is the largest ray distance that still selects a vertex
func PickThreshold(bounds geometry.BoundingBox) float64 {
	return math.Max(bounds.Diagonal()*0.02, 1e-6)
}

// PickVertex returns the index of the vertex nearest to r within threshold,
// measured in world space after transform
func PickVertex(r Ray, vertices []geometry.Vector3, transform mgl64.Mat4, threshold float64) (int, float64, bool) {
	best, bestDist := -1, math.MaxFloat64
	for i, v := range vertices {
		dist := RayPointDistance(r, geometry.TransformPoint(transform, v))
		if dist < bestDist && dist <= threshold {
			best, bestDist = i, dist
		}
	}
	return best, bestDist, best >= 0
}

// EntityPick identifies a measurement under the cursor
type EntityPick struct {
	Object   string
	ID       measurement.EntityID
	Distance float64 // Pixels from the cursor
}

// PickEntity returns the entity whose resolved points lie nearest to pixel
// (x, y) within threshold pixels. Points are joined in order, area faces by
// their loops. Hidden objects and unresolvable entities are skipped.
func PickEntity(s draw.Scene, viewProj mgl64.Mat4, width, height int, x, y, threshold float64) (EntityPick, bool) {
	var best EntityPick
	found := false

	for _, obj := range s.Objects() {
		store := obj.Measures()
		if !obj.Visible() || store == nil {
			continue
		}
		src := measurement.NewSource(obj.Vertices(), obj.Transform())
		for id, e := range store.All() {
			if !e.Visible {
				continue
			}
			r, err := measurement.Resolve(e, src, s)
			if err != nil {
				continue
			}
			dist := screenDistance(r, viewProj, width, height, x, y)
			if dist <= threshold && (!found || dist < best.Distance) {
				best = EntityPick{Object: obj.Name(), ID: id, Distance: dist}
				found = true
			}
		}
	}
	return best, found
}

// screenDistance is the pixel distance from (x, y) to the resolved outline
func screenDistance(r *measurement.Resolved, viewProj mgl64.Mat4, width, height int, x, y float64) float64 {
	var loops [][]geometry.Vector3
	if len(r.Faces) > 0 {
		for _, f := range r.Faces {
			if len(f.Loop) == 0 {
				continue
			}
			closed := append(append([]geometry.Vector3{}, f.Loop...), f.Loop[0])
			loops = append(loops, closed)
		}
	} else {
		loops = [][]geometry.Vector3{r.Points}
	}

	best := math.MaxFloat64
	for _, loop := range loops {
		var prev mgl64.Vec2
		havePrev := false
		for _, p := range loop {
			px, py, _, ok := Project(viewProj, p, width, height)
			if !ok {
				havePrev = false
				continue
			}
			cur := mgl64.Vec2{px, py}
			if havePrev {
				best = math.Min(best, segmentDistance(mgl64.Vec2{x, y}, prev, cur))
			} else {
				best = math.Min(best, cur.Sub(mgl64.Vec2{x, y}).Len())
			}
			prev, havePrev = cur, true
		}
	}
	return best
}

// segmentDistance is the distance from p to the segment a-b
func segmentDistance(p, a, b mgl64.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Sub(a).Len()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/lenSq))
	return p.Sub(a.Add(ab.Mul(t))).Len()
}
