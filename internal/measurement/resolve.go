package measurement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// degenerateLength is the world distance under which a segment draws no arrows or text
const degenerateLength = 1e-9

// Source is the per-frame mesh state an entity resolves against
type Source struct {
	Vertices  []geometry.Vector3
	Transform mgl64.Mat4
}

// NewSource builds a source, treating a zero matrix as identity
func NewSource(vertices []geometry.Vector3, transform mgl64.Mat4) Source {
	if transform == (mgl64.Mat4{}) {
		transform = mgl64.Ident4()
	}
	return Source{Vertices: vertices, Transform: transform}
}

// ObjectLookup finds the source of a linked object by name
type ObjectLookup interface {
	Lookup(name string) (Source, bool)
}

// Resolved is the world-space geometry and scalars of one entity for one frame
type Resolved struct {
	Kind   Kind
	Points []geometry.Vector3 // A, B and C in world space, as far as the kind uses them

	// Distance kinds
	Full     float64
	Filtered float64

	Value      float64 // Displayed distance, angle in radians, arc length or area
	Secondary  float64 // Arc radius
	Degenerate bool
	Warning    *AxisWarning

	Arc   *geometry.Arc
	Faces []ResolvedFace
}

// ResolvedFace is one polygon loop of an area measurement
type ResolvedFace struct {
	Loop     []geometry.Vector3
	Centroid geometry.Vector3
	Area     float64
}

// Resolve computes the world-space geometry of e against its owning object.
// Errors wrap ErrUnresolvable; the caller skips the entity for this frame.
func Resolve(e *Entity, src Source, objects ObjectLookup) (*Resolved, error) {
	switch e.Kind {
	case KindSegment, KindFreeLine, KindProjected,
		KindVertexToVertexLink, KindVertexToObjectLink, KindObjectToVertexLink, KindObjectToObjectLink,
		KindVertexToOrigin, KindObjectToOrigin:
		a, b, err := endpoints(e, src, objects)
		if err != nil {
			return nil, err
		}
		return resolveDistance(e, a, b), nil

	case KindLabel:
		a, err := vertex(e.Kind, src, e.A)
		if err != nil {
			return nil, err
		}
		return &Resolved{Kind: e.Kind, Points: []geometry.Vector3{a}}, nil

	case KindAnnotation:
		return &Resolved{Kind: e.Kind, Points: []geometry.Vector3{geometry.Origin(src.Transform)}}, nil

	case KindAngle:
		return resolveAngle(e, src)

	case KindArc:
		return resolveArc(e, src)

	case KindArea:
		return resolveArea(e, src)
	}

	return nil, unresolvable(e.Kind, "unknown kind")
}

// vertex returns the world position of a local vertex index
func vertex(kind Kind, src Source, index int) (geometry.Vector3, error) {
	if index < 0 || index >= len(src.Vertices) {
		return geometry.Vector3{}, unresolvable(kind, "vertex %d out of range (%d vertices)", index, len(src.Vertices))
	}
	return geometry.TransformPoint(src.Transform, src.Vertices[index]), nil
}

func linked(e *Entity, objects ObjectLookup) (Source, error) {
	if objects == nil || e.Link == "" {
		return Source{}, unresolvable(e.Kind, "no linked object")
	}
	target, ok := objects.Lookup(e.Link)
	if !ok {
		return Source{}, unresolvable(e.Kind, "linked object %q not found", e.Link)
	}
	return target, nil
}

// endpoints locates A and B in world space for the two-point kinds
func endpoints(e *Entity, src Source, objects ObjectLookup) (geometry.Vector3, geometry.Vector3, error) {
	var a, b geometry.Vector3
	var err error

	switch e.Kind {
	case KindSegment, KindFreeLine:
		if a, err = vertex(e.Kind, src, e.A); err != nil {
			return a, b, err
		}
		b, err = vertex(e.Kind, src, e.B)

	case KindProjected:
		if e.A < 0 || e.A >= len(src.Vertices) {
			return a, b, unresolvable(e.Kind, "vertex %d out of range (%d vertices)", e.A, len(src.Vertices))
		}
		local := src.Vertices[e.A]
		a = geometry.TransformPoint(src.Transform, local)
		b = geometry.TransformPoint(src.Transform, local.WithComponent(e.Axis, 0))

	case KindVertexToOrigin:
		a, err = vertex(e.Kind, src, e.A)

	case KindObjectToOrigin:
		a = geometry.Origin(src.Transform)

	case KindVertexToVertexLink, KindVertexToObjectLink, KindObjectToVertexLink, KindObjectToObjectLink:
		target, lerr := linked(e, objects)
		if lerr != nil {
			return a, b, lerr
		}
		if e.Kind == KindVertexToVertexLink || e.Kind == KindVertexToObjectLink {
			if a, err = vertex(e.Kind, src, e.A); err != nil {
				return a, b, err
			}
		} else {
			a = geometry.Origin(src.Transform)
		}
		if e.Kind == KindVertexToVertexLink || e.Kind == KindObjectToVertexLink {
			b, err = vertex(e.Kind, target, e.B)
		} else {
			b = geometry.Origin(target.Transform)
		}
	}

	return a, b, err
}

// Snap applies the orthogonal snap of o to the endpoints
func (o OrthoSnap) Snap(a, b geometry.Vector3) (geometry.Vector3, geometry.Vector3) {
	for _, axis := range geometry.Axes {
		if !o.Axes.Includes(axis) {
			continue
		}
		switch o.Mode {
		case OrthoCopyAToB:
			b = b.WithComponent(axis, a.Component(axis))
		case OrthoCopyBToA:
			a = a.WithComponent(axis, b.Component(axis))
		}
	}
	return a, b
}

// resolveDistance snaps and decomposes the A-B distance
func resolveDistance(e *Entity, a, b geometry.Vector3) *Resolved {
	a, b = e.Ortho.Snap(a, b)

	delta := a.Sub(b)
	full := delta.Length()
	filtered := delta.Masked(e.Axes.X, e.Axes.Y, e.Axes.Z).Length()

	r := &Resolved{
		Kind:       e.Kind,
		Points:     []geometry.Vector3{a, b},
		Full:       full,
		Filtered:   filtered,
		Value:      full,
		Degenerate: full < degenerateLength,
	}
	if filtered != full {
		r.Value = filtered
	}

	if e.WarnExcluded && !e.Axes.All() {
		var w AxisWarning
		warn := false
		for i, axis := range geometry.Axes {
			d := delta.Component(axis)
			if !e.Axes.Includes(axis) && math.Abs(d) > degenerateLength {
				w.Excluded[i] = d
				warn = true
			}
		}
		if warn {
			r.Warning = &w
		}
	}

	return r
}

func resolveAngle(e *Entity, src Source) (*Resolved, error) {
	pts, err := triple(e, src)
	if err != nil {
		return nil, err
	}

	ba := pts[0].Sub(pts[1])
	bc := pts[2].Sub(pts[1])
	if ba.Length() < degenerateLength || bc.Length() < degenerateLength {
		return nil, unresolvable(e.Kind, "coincident points")
	}

	cos := ba.Normalize().Dot(bc.Normalize())
	cos = math.Max(-1, math.Min(1, cos))

	return &Resolved{Kind: e.Kind, Points: pts, Value: math.Acos(cos)}, nil
}

func resolveArc(e *Entity, src Source) (*Resolved, error) {
	pts, err := triple(e, src)
	if err != nil {
		return nil, err
	}

	arc, err := geometry.ArcThrough(pts[0], pts[1], pts[2], e.Arc.Full)
	if err != nil {
		return nil, unresolvable(e.Kind, "%v", err)
	}

	return &Resolved{
		Kind:      e.Kind,
		Points:    pts,
		Value:     arc.Length(),
		Secondary: arc.Radius,
		Arc:       &arc,
	}, nil
}

func triple(e *Entity, src Source) ([]geometry.Vector3, error) {
	pts := make([]geometry.Vector3, 3)
	for i, idx := range []int{e.A, e.B, e.C} {
		p, err := vertex(e.Kind, src, idx)
		if err != nil {
			return nil, err
		}
		pts[i] = p
	}
	return pts, nil
}

func resolveArea(e *Entity, src Source) (*Resolved, error) {
	if len(e.Faces) == 0 {
		return nil, unresolvable(e.Kind, "no faces")
	}

	r := &Resolved{Kind: e.Kind}
	for fi, face := range e.Faces {
		if len(face) < 3 {
			return nil, unresolvable(e.Kind, "face %d has fewer than three vertices", fi)
		}
		loop := make([]geometry.Vector3, len(face))
		for i, idx := range face {
			p, err := vertex(e.Kind, src, idx)
			if err != nil {
				return nil, err
			}
			loop[i] = p
		}

		area, centroid := geometry.PolygonArea(loop)
		r.Faces = append(r.Faces, ResolvedFace{Loop: loop, Centroid: centroid, Area: area})
		r.Value += area
	}

	// Label anchor: the centroid of the largest face
	best := 0
	for i, f := range r.Faces {
		if f.Area > r.Faces[best].Area {
			best = i
		}
	}
	r.Points = []geometry.Vector3{r.Faces[best].Centroid}

	return r, nil
}
