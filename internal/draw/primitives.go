package draw

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// angleRadiusFraction sizes the angle arc relative to the shorter leg
const angleRadiusFraction = 0.5

// frame accumulates the tessellated primitives of one DrawFrame call
type frame struct {
	fc      FrameContext
	b       *batcher
	metrics tessellate.Metrics
}

func (f *frame) project(p geometry.Vector3) mgl32.Vec4 {
	return tessellate.Project(f.fc.ViewProj, p)
}

func strokeClass(style measurement.ConcreteStyle, dashed bool) Class {
	if dashed && style.Dashed {
		return ClassDashed
	}
	return ClassSolid
}

// line draws a world-space segment, dashed when both the caller and the style ask for it
func (f *frame) line(a, b geometry.Vector3, style measurement.ConcreteStyle, dashed bool) {
	class := strokeClass(style, dashed)
	width := float32(style.LineWidth)
	pa, pb := f.project(a), f.project(b)

	var m tessellate.Mesh
	if class == ClassDashed {
		m = tessellate.DashedLine(pa, pb, 0, float32(a.Distance(b)), width, f.fc.Viewport)
	} else {
		m = tessellate.ThickLine(pa, pb, width, f.fc.Viewport)
	}
	f.b.add(class, style.Color, float32(style.DashScale), m)
}

// loop draws a closed world-space outline
func (f *frame) loop(points []geometry.Vector3, style measurement.ConcreteStyle) {
	for i := range points {
		f.line(points[i], points[(i+1)%len(points)], style, false)
	}
}

func (f *frame) arrow(tip, tail geometry.Vector3, kind measurement.ArrowKind, size float64, style measurement.ConcreteStyle) {
	if kind == measurement.ArrowNone {
		return
	}
	m := tessellate.Arrow(f.project(tip), f.project(tail), tessellate.ArrowKind(kind),
		float32(size), float32(style.LineWidth), f.fc.Viewport)
	f.b.add(ClassSolid, style.Color, 0, m)
}

func (f *frame) label(anchor geometry.Vector3, lines []string, style measurement.ConcreteStyle) {
	if len(lines) == 0 {
		return
	}
	size := float32(style.FontSize)
	quads := tessellate.TextQuads(tessellate.TextSpec{
		Anchor:   f.project(anchor),
		Lines:    lines,
		Size:     size,
		Rotation: float32(style.FontRotation),
		Align:    tessellate.Align(style.FontAlign),
		Offset:   mgl32.Vec2{float32(style.FontOffset[0]), float32(style.FontOffset[1])},
	}, f.metrics, f.fc.Viewport)
	f.b.text(style.Color, size, quads)
}

func (f *frame) marker(p geometry.Vector3, radius float64, color measurement.Color) {
	f.b.add(ClassSolid, color, 0, tessellate.PointMarker(f.project(p), float32(radius), f.fc.Viewport))
}

// fill triangulates a convex-ish world loop as a fan
func (f *frame) fill(points []geometry.Vector3, color measurement.Color) {
	if len(points) < 3 || len(points) > tessellate.MaxVertices {
		return
	}
	m := tessellate.Mesh{
		Vertices: make([]tessellate.Vertex, len(points)),
		Indices:  make([]uint16, 0, (len(points)-2)*3),
	}
	for i, p := range points {
		c := f.project(p)
		if c[3] <= 0 {
			return
		}
		m.Vertices[i].Pos = c
	}
	for i := 1; i+1 < len(points); i++ {
		m.Indices = append(m.Indices, 0, uint16(i), uint16(i+1))
	}
	f.b.add(ClassFill, color, 0, m)
}

// entity emits the primitives of one resolved entity
func (f *frame) entity(e *measurement.Entity, r *measurement.Resolved, style measurement.ConcreteStyle) {
	switch r.Kind {
	case measurement.KindLabel, measurement.KindAnnotation:
		f.label(r.Points[0], textLines(e, style), style)
	case measurement.KindAngle:
		f.angle(e, r, style)
	case measurement.KindArc:
		f.arc(e, r, style)
	case measurement.KindArea:
		f.area(e, r, style)
	default:
		f.distance(e, r, style)
	}
}

func textLines(e *measurement.Entity, style measurement.ConcreteStyle) []string {
	if !style.ShowText {
		return nil
	}
	return measurement.SplitLines(e.Text)
}

// offsetNormal returns the direction dimension lines are pushed along
func offsetNormal(p measurement.Placement, dir geometry.Vector3) geometry.Vector3 {
	if !p.Auto && p.Normal.Length() > 1e-9 {
		return p.Normal.Normalize()
	}
	up := geometry.NewVector3(0, 0, 1)
	if l := dir.Length(); l > 1e-9 && math.Abs(dir.Dot(up))/l > 0.99 {
		return geometry.NewVector3(1, 0, 0)
	}
	return up
}

func (f *frame) distance(e *measurement.Entity, r *measurement.Resolved, style measurement.ConcreteStyle) {
	a, b := r.Points[0], r.Points[1]
	units := f.fc.Options.Units

	if e.Kind == measurement.KindFreeLine {
		f.line(a, b, style, true)
		lines := textLines(e, style)
		if style.ShowDistance && !r.Degenerate {
			lines = append(lines, measurement.FormatDistance(r.Value, units, style.Precision, style.HideUnits))
		}
		f.label(a.Lerp(b, 0.5), lines, style)
		return
	}

	// Step 1: extension lines out to the offset dimension line
	off := offsetNormal(e.Placement, b.Sub(a)).Mul(style.Spacing)
	da, db := a.Add(off), b.Add(off)
	if style.Spacing != 0 {
		f.line(a, da, style, false)
		f.line(b, db, style, false)
	}

	// Step 2: dimension line
	f.line(da, db, style, true)
	if r.Degenerate {
		return
	}

	// Step 3: arrows and text
	f.arrow(da, db, style.ArrowA, style.ArrowSize, style)
	f.arrow(db, da, style.ArrowB, style.ArrowSize, style)

	lines := textLines(e, style)
	if style.ShowDistance {
		lines = append(lines, measurement.FormatDistance(r.Value, units, style.Precision, style.HideUnits))
	}
	f.label(da.Lerp(db, 0.5), lines, style)
}

// stroke draws an arc with its end arrows
func (f *frame) stroke(arc geometry.Arc, style measurement.ConcreteStyle) {
	points, arcs := tessellate.ArcPoints(arc, tessellate.SegmentCount(arc.Sweep, f.fc.Options.ArcQuality))
	clip := make([]mgl32.Vec4, len(points))
	for i, p := range points {
		clip[i] = f.project(p)
	}
	class := strokeClass(style, true)
	f.b.add(class, style.Color, float32(style.DashScale),
		tessellate.Polyline(clip, arcs, float32(style.LineWidth), f.fc.Viewport))

	last := len(points) - 1
	f.arrow(points[0], points[1], style.ArcArrowA, style.ArcArrowSize, style)
	f.arrow(points[last], points[last-1], style.ArcArrowB, style.ArcArrowSize, style)
}

func (f *frame) angle(e *measurement.Entity, r *measurement.Resolved, style measurement.ConcreteStyle) {
	a, v, c := r.Points[0], r.Points[1], r.Points[2]
	ba, bc := a.Sub(v), c.Sub(v)

	u := ba.Normalize()
	normal := ba.Cross(bc)
	if normal.Length() < 1e-12 {
		// Straight or null angle: any normal perpendicular to the first leg
		normal, _ = geometry.PlaneBasis(u)
	}
	normal = normal.Normalize()

	arc := geometry.Arc{
		Circle: geometry.Circle{
			Center: v,
			Normal: normal,
			Radius: math.Min(ba.Length(), bc.Length()) * angleRadiusFraction,
			U:      u,
			V:      normal.Cross(u),
		},
		Sweep: r.Value,
	}

	f.line(v, arc.Point(0), style, false)
	f.line(v, arc.End(), style, false)
	f.stroke(arc, style)

	lines := textLines(e, style)
	if style.ShowDistance {
		lines = append(lines, measurement.FormatAngle(r.Value, style.Precision, style.HideUnits))
	}
	f.label(arc.Mid(), lines, style)
}

func (f *frame) arc(e *measurement.Entity, r *measurement.Resolved, style measurement.ConcreteStyle) {
	arc := *r.Arc
	opts := e.Arc
	units := f.fc.Options.Units

	f.stroke(arc, style)
	if opts.ShowRadius {
		end := arc.Point(arc.Start)
		if opts.AdaptiveRadius {
			end = arc.Mid()
		}
		f.line(arc.Center, end, style, false)
	}

	lines := textLines(e, style)
	if style.ShowDistance {
		if opts.ShowRadius {
			lines = append(lines, opts.RadiusPrefix+measurement.FormatDistance(r.Secondary, units, style.Precision, style.HideUnits))
		}
		if opts.ShowLength {
			lines = append(lines, opts.LengthPrefix+measurement.FormatDistance(r.Value, units, style.Precision, style.HideUnits))
		}
		if opts.ShowAngle {
			lines = append(lines, opts.AnglePrefix+measurement.FormatAngle(math.Abs(arc.Sweep), style.Precision, style.HideUnits))
		}
	}
	f.label(arc.Mid(), lines, style)
}

func (f *frame) area(e *measurement.Entity, r *measurement.Resolved, style measurement.ConcreteStyle) {
	for _, face := range r.Faces {
		f.fill(face.Loop, style.AreaColor)
		f.loop(face.Loop, style)
	}

	lines := textLines(e, style)
	if style.ShowDistance {
		lines = append(lines, measurement.FormatArea(r.Value, f.fc.Options.Units, style.Precision, style.HideUnits))
	}
	f.label(r.Points[0], lines, style)
}
