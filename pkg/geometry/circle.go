package geometry

import (
	"fmt"
	"math"
)

// Circle is a circle embedded in 3D space with an orthonormal basis spanning its plane
type Circle struct {
	Center Vector3
	Normal Vector3 // Unit normal of the circle plane
	Radius float64
	U, V   Vector3 // In-plane basis, U x V = Normal
}

// Arc is a circular arc starting at angle Start and sweeping Sweep radians around Normal
type Arc struct {
	Circle
	Start float64
	Sweep float64
}

// ErrCollinear is returned when three points do not span a plane
var ErrCollinear = fmt.Errorf("points are collinear")

// Circumcircle returns the circle passing through a, b and c
//
// Uses the vector form of the circumcenter:
//
//	n = (b-a) x (c-a)
//	center = a + (|c-a|² (n x (b-a)) + |b-a|² ((c-a) x n)) / 2|n|²
func Circumcircle(a, b, c Vector3) (Circle, error) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	n := ab.Cross(ac)

	nn := n.Dot(n)
	scale := ab.Dot(ab) * ac.Dot(ac)
	if nn <= 1e-12*scale || nn == 0 {
		return Circle{}, ErrCollinear
	}

	offset := n.Cross(ab).Mul(ac.Dot(ac)).Add(ac.Cross(n).Mul(ab.Dot(ab))).Mul(1 / (2 * nn))
	center := a.Add(offset)
	normal := n.Normalize()
	u, v := PlaneBasis(normal)

	return Circle{
		Center: center,
		Normal: normal,
		Radius: offset.Length(),
		U:      u,
		V:      v,
	}, nil
}

// PlaneBasis returns two unit vectors spanning the plane orthogonal to normal
// The helper axis is the one least aligned with normal so the basis stays stable.
func PlaneBasis(normal Vector3) (Vector3, Vector3) {
	n := normal.Normalize()
	helper := NewVector3(1, 0, 0)
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	if ay < ax && ay <= az {
		helper = NewVector3(0, 1, 0)
	} else if az < ax && az < ay {
		helper = NewVector3(0, 0, 1)
	}

	u := n.Cross(helper).Normalize()
	v := n.Cross(u)
	return u, v
}

// Angle returns the polar angle of p around the circle center in the U/V basis
func (c Circle) Angle(p Vector3) float64 {
	d := p.Sub(c.Center)
	return math.Atan2(d.Dot(c.V), d.Dot(c.U))
}

// Point returns the point on the circle at polar angle theta
func (c Circle) Point(theta float64) Vector3 {
	return c.Center.
		Add(c.U.Mul(c.Radius * math.Cos(theta))).
		Add(c.V.Mul(c.Radius * math.Sin(theta)))
}

// ArcThrough returns the arc that starts at a, passes through b and ends at c
// When full is set the sweep covers the whole circle in the direction of travel.
func ArcThrough(a, b, c Vector3, full bool) (Arc, error) {
	circle, err := Circumcircle(a, b, c)
	if err != nil {
		return Arc{}, err
	}

	start := circle.Angle(a)
	toEnd := wrapAngle(circle.Angle(c) - start)
	toMid := wrapAngle(circle.Angle(b) - start)

	// Travel the side that contains b
	sweep := toEnd
	if toMid > toEnd {
		sweep = toEnd - 2*math.Pi
	}

	if full {
		sweep = math.Copysign(2*math.Pi, sweep)
	}

	return Arc{Circle: circle, Start: start, Sweep: sweep}, nil
}

// Length returns the arc length
func (a Arc) Length() float64 {
	return a.Radius * math.Abs(a.Sweep)
}

// End returns the point at the end of the sweep
func (a Arc) End() Vector3 {
	return a.Point(a.Start + a.Sweep)
}

// Mid returns the point halfway along the sweep
func (a Arc) Mid() Vector3 {
	return a.Point(a.Start + a.Sweep/2)
}

// wrapAngle maps an angle into [0, 2π)
func wrapAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}
