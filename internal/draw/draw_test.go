package draw

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/tessellate"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObject struct {
	name     string
	verts    []geometry.Vector3
	faces    [][]int
	m        mgl64.Mat4
	hidden   bool
	selected bool
	store    *measurement.Store
}

func newTestObject(name string, verts ...geometry.Vector3) *testObject {
	return &testObject{name: name, verts: verts, m: mgl64.Ident4(), store: measurement.NewStore()}
}

func (o *testObject) Name() string                 { return o.name }
func (o *testObject) Vertices() []geometry.Vector3 { return o.verts }
func (o *testObject) Faces() [][]int               { return o.faces }
func (o *testObject) Transform() mgl64.Mat4        { return o.m }
func (o *testObject) Visible() bool                { return !o.hidden }
func (o *testObject) Selected() bool               { return o.selected }
func (o *testObject) Measures() *measurement.Store { return o.store }

type testScene struct {
	objects []*testObject
	styles  *measurement.StyleSet
}

func (s *testScene) Objects() []Object {
	out := make([]Object, len(s.objects))
	for i, o := range s.objects {
		out[i] = o
	}
	return out
}

func (s *testScene) Styles() measurement.StyleLookup { return s.styles }

func (s *testScene) Lookup(name string) (measurement.Source, bool) {
	for _, o := range s.objects {
		if o.name == name {
			return measurement.NewSource(o.verts, o.m), true
		}
	}
	return measurement.Source{}, false
}

type recordingSink struct {
	batches []Batch
	texts   []TextBatch
	fail    bool
}

func (s *recordingSink) Triangles(b Batch) error {
	if s.fail {
		return errors.New("device lost")
	}
	s.batches = append(s.batches, b)
	return nil
}

func (s *recordingSink) Text(t TextBatch) error {
	if s.fail {
		return errors.New("device lost")
	}
	s.texts = append(s.texts, t)
	return nil
}

func (s *recordingSink) strings() []string {
	var out []string
	for _, t := range s.texts {
		for _, l := range t.Lines {
			out = append(out, l.Text)
		}
	}
	return out
}

func (s *recordingSink) class(c Class) []Batch {
	var out []Batch
	for _, b := range s.batches {
		if b.Class == c {
			out = append(out, b)
		}
	}
	return out
}

func v(x, y, z float64) geometry.Vector3 { return geometry.NewVector3(x, y, z) }

func segment(t *testing.T, o *testObject, a, b int, mutate ...func(*measurement.Entity)) {
	t.Helper()
	e := measurement.NewEntity(measurement.KindSegment)
	e.A, e.B = a, b
	for _, m := range mutate {
		m(&e)
	}
	_, err := o.store.Add(e)
	require.NoError(t, err)
}

func frameFor(scene *testScene, sink Sink) FrameContext {
	return FrameContext{
		Scene:    scene,
		ViewProj: mgl64.Ortho(-10, 10, -10, 10, -20, 20),
		Viewport: tessellate.Viewport{Width: 800, Height: 600},
		Sink:     sink,
		Options:  DefaultOptions(),
	}
}

func TestDrawFrameSegment(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(1, 0, 0))
	segment(t, obj, 0, 1)
	sink := &recordingSink{}

	stats := DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, sink))

	assert.Equal(t, 1, stats.Objects)
	assert.Equal(t, 1, stats.Entities)
	assert.Zero(t, stats.Skipped)
	require.Len(t, sink.batches, 1)
	assert.Equal(t, ClassSolid, sink.batches[0].Class)
	assert.Equal(t, measurement.DefaultStyle().Color, sink.batches[0].Color)
	// Two extension lines and the dimension line
	assert.Equal(t, 6, sink.batches[0].Mesh.Triangles())
	assert.Equal(t, []string{"1.00 m"}, sink.strings())
}

func TestDrawFrameSkipsUnresolvable(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(2, 0, 0))
	segment(t, obj, 0, 99)
	segment(t, obj, 0, 1)
	sink := &recordingSink{}

	stats := DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, sink))

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Entities)
	assert.Equal(t, []string{"2.00 m"}, sink.strings())
}

func TestDrawFrameVisibility(t *testing.T) {
	shown := newTestObject("Shown", v(0, 0, 0), v(1, 0, 0))
	segment(t, shown, 0, 1)
	hidden := newTestObject("Hidden", v(0, 0, 0), v(1, 0, 0))
	hidden.hidden = true
	segment(t, hidden, 0, 1)
	scene := &testScene{objects: []*testObject{shown, hidden}, styles: measurement.NewStyleSet()}

	stats := DrawFrame(frameFor(scene, &recordingSink{}))
	assert.Equal(t, 1, stats.Objects)

	fc := frameFor(scene, &recordingSink{})
	fc.Options.Ghost = false
	stats = DrawFrame(fc)
	assert.Zero(t, stats.Objects)

	shown.selected = true
	stats = DrawFrame(fc)
	assert.Equal(t, 1, stats.Objects)
}

func TestDrawFrameHiddenEntity(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(1, 0, 0))
	bucketA, err := measurement.BucketOf('A')
	require.NoError(t, err)
	segment(t, obj, 0, 1, func(e *measurement.Entity) {
		e.Visible = false
		e.Bucket = bucketA
	})
	sink := &recordingSink{}

	stats := DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, sink))

	assert.Zero(t, stats.Entities)
	assert.Empty(t, sink.batches)
	assert.InDelta(t, 1.0, stats.Sums.Total, 1e-9)
}

func TestGroupSums(t *testing.T) {
	obj := newTestObject("Rail", v(0, 0, 0), v(1, 0, 0), v(3, 0, 0), v(6, 0, 0))
	bucketA, err := measurement.BucketOf('A')
	require.NoError(t, err)
	inA := func(e *measurement.Entity) { e.Bucket = bucketA }
	segment(t, obj, 0, 1, inA)
	segment(t, obj, 1, 2, inA)
	segment(t, obj, 2, 3, inA)
	segment(t, obj, 0, 3)
	scene := &testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}

	sums := Sums(obj, scene, measurement.DefaultUnits())
	assert.InDelta(t, 6.0, sums.Totals[bucketA.Index()], 1e-9)
	assert.InDelta(t, 6.0, sums.Total, 1e-9)
	for b := range sums.Buckets() {
		assert.Equal(t, bucketA, b)
	}

	stats := DrawFrame(frameFor(scene, nil))
	assert.Equal(t, sums, stats.Sums)

	scaled := Sums(obj, scene, measurement.Units{System: measurement.UnitsMetric, Scale: 0.5})
	assert.InDelta(t, 3.0, scaled.Total, 1e-9)
}

func TestDrawFrameBatchesByStyle(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(1, 0, 0), v(1, 1, 0))
	segment(t, obj, 0, 1)
	segment(t, obj, 1, 2)
	dashed := true
	segment(t, obj, 0, 2, func(e *measurement.Entity) { e.Style.Dashed = &dashed })
	sink := &recordingSink{}

	stats := DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, sink))

	assert.Equal(t, 2, stats.Batches)
	require.Len(t, sink.class(ClassSolid), 1)
	require.Len(t, sink.class(ClassDashed), 1)
	assert.Equal(t, float32(measurement.DefaultStyle().DashScale), sink.class(ClassDashed)[0].DashScale)
	// Extension lines stay solid on the dashed entity
	assert.Equal(t, 16, sink.class(ClassSolid)[0].Mesh.Triangles())
	assert.Equal(t, 2, sink.class(ClassDashed)[0].Mesh.Triangles())
	require.Len(t, sink.texts, 1)
	assert.Len(t, sink.texts[0].Lines, 3)
}

func TestDrawFrameNamedStyle(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(1, 0, 0))
	styles := measurement.NewStyleSet()
	red := measurement.Color{1, 0, 0, 1}
	id := styles.Add("red", measurement.StyleFields{Color: &red})
	segment(t, obj, 0, 1, func(e *measurement.Entity) { e.StyleRef = id })
	sink := &recordingSink{}

	DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: styles}, sink))
	require.NotEmpty(t, sink.batches)
	assert.Equal(t, red, sink.batches[0].Color)

	// Deleted styles fall back to the defaults
	styles.DeleteAll()
	sink = &recordingSink{}
	DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: styles}, sink))
	require.NotEmpty(t, sink.batches)
	assert.Equal(t, measurement.DefaultStyle().Color, sink.batches[0].Color)
}

func TestDrawFrameArrows(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(1, 0, 0))
	tri := measurement.ArrowTriangle
	segment(t, obj, 0, 1, func(e *measurement.Entity) {
		e.Style.ArrowA = &tri
		e.Style.ArrowB = &tri
	})
	sink := &recordingSink{}

	DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, sink))

	require.Len(t, sink.batches, 1)
	assert.Equal(t, 8, sink.batches[0].Mesh.Triangles())
}

func TestDrawFrameAngleAndArc(t *testing.T) {
	obj := newTestObject("Cube", v(1, 0, 0), v(0, 0, 0), v(0, 1, 0), v(-1, 0, 0))
	angle := measurement.NewEntity(measurement.KindAngle)
	angle.A, angle.B, angle.C = 0, 1, 2
	_, err := obj.store.Add(angle)
	require.NoError(t, err)

	arc := measurement.NewEntity(measurement.KindArc)
	arc.A, arc.B, arc.C = 0, 2, 3
	_, err = obj.store.Add(arc)
	require.NoError(t, err)
	sink := &recordingSink{}

	stats := DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, sink))

	assert.Equal(t, 2, stats.Entities)
	assert.Equal(t, []string{"90.00°", "r=1.00 m", "L=3.14 m", "A=180.00°"}, sink.strings())
}

func TestDrawFrameArea(t *testing.T) {
	obj := newTestObject("Plane", v(0, 0, 0), v(1, 0, 0), v(1, 1, 0), v(0, 1, 0))
	area := measurement.NewEntity(measurement.KindArea)
	area.Faces = [][]int{{0, 1, 2, 3}}
	_, err := obj.store.Add(area)
	require.NoError(t, err)
	sink := &recordingSink{}

	DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, sink))

	fills := sink.class(ClassFill)
	require.Len(t, fills, 1)
	assert.Equal(t, measurement.DefaultStyle().AreaColor, fills[0].Color)
	assert.Equal(t, 2, fills[0].Mesh.Triangles())
	assert.Equal(t, 8, sink.class(ClassSolid)[0].Mesh.Triangles())
	assert.Equal(t, []string{"1.00 m²"}, sink.strings())
}

func TestDrawFrameLabelAndFreeLine(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(1, 0, 0))
	label := measurement.NewEntity(measurement.KindLabel)
	label.Text = "Door|North"
	_, err := obj.store.Add(label)
	require.NoError(t, err)

	line := measurement.NewEntity(measurement.KindFreeLine)
	line.A, line.B = 0, 1
	line.Text = "line"
	_, err = obj.store.Add(line)
	require.NoError(t, err)
	sink := &recordingSink{}

	DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, sink))

	assert.Equal(t, []string{"Door", "North"}, sink.strings())
	require.Len(t, sink.batches, 1)
	assert.Equal(t, 2, sink.batches[0].Mesh.Triangles())
}

func TestDrawFrameLinks(t *testing.T) {
	a := newTestObject("A", v(0, 0, 0))
	b := newTestObject("B", v(0, 0, 0))
	b.m = mgl64.Translate3D(0, 3, 0)

	link := measurement.NewEntity(measurement.KindVertexToVertexLink)
	link.Link = "B"
	_, err := a.store.Add(link)
	require.NoError(t, err)

	broken := measurement.NewEntity(measurement.KindObjectToObjectLink)
	broken.Link = "Missing"
	_, err = a.store.Add(broken)
	require.NoError(t, err)
	sink := &recordingSink{}

	stats := DrawFrame(frameFor(&testScene{objects: []*testObject{a, b}, styles: measurement.NewStyleSet()}, sink))

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, []string{"3.00 m"}, sink.strings())
}

func TestDrawFrameWarnings(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(1, 1, 0))
	segment(t, obj, 0, 1, func(e *measurement.Entity) { e.Axes.Y = false })
	sink := &recordingSink{}

	stats := DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, sink))

	assert.Equal(t, 1, stats.Warnings)
	assert.Equal(t, []string{"1.00 m"}, sink.strings())
}

func TestDrawFrameSinkErrors(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(1, 0, 0))
	segment(t, obj, 0, 1)

	stats := DrawFrame(frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, &recordingSink{fail: true}))

	assert.Equal(t, 2, stats.SinkErrors)
	assert.Equal(t, 1, stats.Entities)
}

func TestDrawFrameDebugOverlay(t *testing.T) {
	obj := newTestObject("Tri", v(0, 0, 0), v(1, 0, 0), v(0, 1, 0))
	obj.faces = [][]int{{0, 1, 2}, {0, 1, 42}}
	obj.selected = true
	fc := frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, nil)
	sink := &recordingSink{}
	fc.Sink = sink
	fc.Options.Debug.Vertices = true
	fc.Options.Debug.VertexIndices = true
	fc.Options.Debug.FaceIndices = true
	fc.Options.Debug.Objects = true

	DrawFrame(fc)

	require.Len(t, sink.batches, 1)
	assert.Equal(t, fc.Options.Debug.Color, sink.batches[0].Color)
	assert.Equal(t, 4*tessellate.PointSides, sink.batches[0].Mesh.Triangles())
	assert.Equal(t, []string{"0", "1", "2", "0", "Tri"}, sink.strings())

	// Unselected objects get no overlay
	obj.selected = false
	sink = &recordingSink{}
	fc.Sink = sink
	DrawFrame(fc)
	assert.Empty(t, sink.batches)
}

func TestDrawFrameIsRepeatable(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(1, 0, 0), v(1, 1, 0))
	segment(t, obj, 0, 1)
	segment(t, obj, 1, 2)
	scene := &testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}

	first, second := &recordingSink{}, &recordingSink{}
	DrawFrame(frameFor(scene, first))
	DrawFrame(frameFor(scene, second))
	assert.Equal(t, first.batches, second.batches)

	// Geometry edits show up on the next frame without invalidation
	obj.verts[1] = v(4, 0, 0)
	third := &recordingSink{}
	DrawFrame(frameFor(scene, third))
	assert.Equal(t, []string{"4.00 m", "3.16 m"}, third.strings())
}

func TestBatcherSplitsOnOverflow(t *testing.T) {
	b := newBatcher()
	big := tessellate.Mesh{
		Vertices: make([]tessellate.Vertex, 40000),
		Indices:  []uint16{0, 1, 2},
	}
	color := measurement.Color{1, 1, 1, 1}

	b.add(ClassSolid, color, 0, big)
	b.add(ClassSolid, color, 0, big)
	b.add(ClassFill, color, 0, big)
	b.add(ClassSolid, color, 0, tessellate.Mesh{})

	require.Len(t, b.batches, 3)
	assert.Equal(t, ClassSolid, b.batches[0].Class)
	assert.Equal(t, ClassSolid, b.batches[1].Class)
	assert.Equal(t, ClassFill, b.batches[2].Class)
}

func TestOrchestratorLifecycle(t *testing.T) {
	obj := newTestObject("Cube", v(0, 0, 0), v(1, 0, 0))
	segment(t, obj, 0, 1)
	fc := frameFor(&testScene{objects: []*testObject{obj}, styles: measurement.NewStyleSet()}, &recordingSink{})

	o := NewOrchestrator()
	_, drawn := o.OnRedraw(fc)
	assert.False(t, drawn)

	o.Start()
	o.Start()
	assert.True(t, o.Running())
	stats, drawn := o.OnRedraw(fc)
	assert.True(t, drawn)
	assert.Equal(t, 1, stats.Entities)
	assert.Equal(t, int64(1), o.Frames())

	o.Stop()
	assert.False(t, o.Running())
	_, drawn = o.OnRedraw(fc)
	assert.False(t, drawn)
}

func TestRenderFramesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var written []int
	n, err := RenderFrames(ctx, 10, func(_ context.Context, frame int) error {
		written = append(written, frame)
		if frame == 2 {
			cancel()
		}
		return nil
	})

	assert.Equal(t, 3, n)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{0, 1, 2}, written)
}

func TestRenderFramesFailure(t *testing.T) {
	boom := errors.New("disk full")
	n, err := RenderFrames(t.Context(), 5, func(_ context.Context, frame int) error {
		if frame == 1 {
			return boom
		}
		return nil
	})

	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, boom)

	n, err = RenderFrames(t.Context(), 4, func(context.Context, int) error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}
