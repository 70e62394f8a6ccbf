package scene

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/draw"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/logx"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/openscad"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/stl"
	"gopkg.in/yaml.v3"
)

// Object is a mesh object with its measurements
type Object struct {
	name     string
	mesh     *MeshRef
	meshDeps []string
	vertices []geometry.Vector3
	faces    [][]int

	Location geometry.Vector3
	Rotation geometry.Vector3 // Euler XYZ, degrees
	Scale    geometry.Vector3

	Hidden            bool
	CollectionVisible bool
	IsSelected        bool

	selection measurement.Selection
	selFaces  []int
	measures  *measurement.Store
}

// Name implements draw.Object
func (o *Object) Name() string { return o.name }

// Vertices implements draw.Object
func (o *Object) Vertices() []geometry.Vector3 { return o.vertices }

// Faces implements draw.Object
func (o *Object) Faces() [][]int { return o.faces }

// Transform returns the object-to-world matrix
func (o *Object) Transform() mgl64.Mat4 {
	return geometry.Compose(o.Location, o.Rotation, o.Scale)
}

// Visible implements draw.Object
func (o *Object) Visible() bool { return !o.Hidden && o.CollectionVisible }

// Selected implements draw.Object
func (o *Object) Selected() bool { return o.IsSelected }

// Measures implements draw.Object
func (o *Object) Measures() *measurement.Store { return o.measures }

// Selection returns the edit-mode selection
func (o *Object) Selection() measurement.Selection { return o.selection }

// SelectVertices replaces the vertex selection; history is the pick order.
// Edge and face selections are cleared.
func (o *Object) SelectVertices(history []int) {
	var vertices []int
	seen := make(map[int]bool, len(history))
	for _, v := range history {
		if !seen[v] {
			seen[v] = true
			vertices = append(vertices, v)
		}
	}
	o.selection = measurement.Selection{
		Vertices: vertices,
		History:  append([]int(nil), history...),
		MeshSize: len(o.vertices),
	}
	o.selFaces = nil
}

// Source returns the resolution source of the object
func (o *Object) Source() measurement.Source {
	return measurement.NewSource(o.vertices, o.Transform())
}

// Bounds returns the world-space bounding box of the mesh
func (o *Object) Bounds() geometry.BoundingBox {
	m := o.Transform()
	world := make([]geometry.Vector3, len(o.vertices))
	for i, p := range o.vertices {
		world[i] = geometry.TransformPoint(m, p)
	}
	return geometry.BoundsOf(world)
}

// Scene is a loaded scene document
type Scene struct {
	Units   *measurement.Units
	styles  *measurement.StyleSet
	objects []*Object
	dir     string
}

// New returns an empty scene resolving mesh paths relative to dir
func New(dir string) *Scene {
	return &Scene{styles: measurement.NewStyleSet(), dir: dir}
}

// Objects implements draw.Scene
func (s *Scene) Objects() []draw.Object {
	out := make([]draw.Object, len(s.objects))
	for i, o := range s.objects {
		out[i] = o
	}
	return out
}

// All returns the concrete objects in document order
func (s *Scene) All() []*Object {
	return s.objects
}

// Object finds an object by name
func (s *Scene) Object(name string) (*Object, bool) {
	for _, o := range s.objects {
		if o.name == name {
			return o, true
		}
	}
	return nil, false
}

// Lookup implements measurement.ObjectLookup
func (s *Scene) Lookup(name string) (measurement.Source, bool) {
	o, ok := s.Object(name)
	if !ok {
		return measurement.Source{}, false
	}
	return o.Source(), true
}

// Styles implements draw.Scene
func (s *Scene) Styles() measurement.StyleLookup { return s.styles }

// StyleSet returns the mutable scene styles
func (s *Scene) StyleSet() *measurement.StyleSet { return s.styles }

// Bounds returns the bounding box of every visible object
func (s *Scene) Bounds() geometry.BoundingBox {
	box := geometry.NewBoundingBox()
	for _, o := range s.objects {
		if !o.Visible() || len(o.vertices) == 0 {
			continue
		}
		b := o.Bounds()
		box.Extend(b.Min)
		box.Extend(b.Max)
	}
	return box
}

// ResolveUnits returns the scene units, falling back to fallback
func (s *Scene) ResolveUnits(fallback measurement.Units) measurement.Units {
	if s.Units != nil {
		return *s.Units
	}
	return fallback
}

// Load parses a scene document. Mesh paths resolve relative to the document
// and freed measures are compacted away.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}

	s, err := FromDocument(doc, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// FromDocument builds a scene from a decoded document
func FromDocument(doc Document, dir string) (*Scene, error) {
	s := New(dir)
	s.Units = doc.Units

	for _, style := range doc.Styles {
		if err := s.styles.Restore(style); err != nil {
			return nil, err
		}
	}

	for i, od := range doc.Objects {
		if od.Name == "" {
			od.Name = fmt.Sprintf("Object.%03d", i)
		}
		if _, dup := s.Object(od.Name); dup {
			return nil, fmt.Errorf("duplicate object name %q", od.Name)
		}
		obj, err := s.buildObject(od)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", od.Name, err)
		}
		s.objects = append(s.objects, obj)
	}

	return s, nil
}

func (s *Scene) buildObject(od ObjectDoc) (*Object, error) {
	obj := &Object{
		name:              od.Name,
		mesh:              od.Mesh,
		Location:          vec(od.Location),
		Rotation:          vec(od.Rotation),
		Scale:             geometry.NewVector3(1, 1, 1),
		Hidden:            od.Hidden,
		CollectionVisible: od.CollectionVisible == nil || *od.CollectionVisible,
		IsSelected:        od.Selected,
		measures:          measurement.NewStore(),
	}
	if od.Scale != nil {
		obj.Scale = vec(*od.Scale)
	}

	// Step 1: mesh
	switch {
	case od.Mesh != nil && od.Mesh.STL != "":
		path := s.meshPath(od.Mesh.STL)
		model, err := stl.Parse(path)
		if err != nil {
			return nil, err
		}
		obj.vertices, obj.faces = model.Indexed()
		obj.meshDeps = []string{path}
	case od.Mesh != nil && od.Mesh.SCAD != "":
		model, deps, err := s.renderSCAD(od.Mesh.SCAD)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", od.Name, err)
		}
		obj.vertices, obj.faces = model.Indexed()
		obj.meshDeps = deps
	default:
		obj.vertices = make([]geometry.Vector3, len(od.Vertices))
		for i, p := range od.Vertices {
			obj.vertices[i] = vec(p)
		}
		obj.faces = od.Faces
	}
	for i, face := range obj.faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(obj.vertices) {
				return nil, fmt.Errorf("face %d references vertex %d of %d", i, idx, len(obj.vertices))
			}
		}
	}

	// Step 2: selection
	obj.selection.MeshSize = len(obj.vertices)
	if sel := od.Selection; sel != nil {
		obj.selection.Vertices = sel.Vertices
		obj.selection.History = sel.History
		obj.selection.Edges = sel.Edges
		obj.selFaces = sel.Faces
		for _, fi := range sel.Faces {
			if fi < 0 || fi >= len(obj.faces) {
				return nil, fmt.Errorf("selected face %d out of range (%d faces)", fi, len(obj.faces))
			}
			obj.selection.Faces = append(obj.selection.Faces, obj.faces[fi])
		}
	}

	// Step 3: measures, compacting freed entries
	freed := 0
	for _, m := range od.Measures {
		if m.Freed {
			freed++
			continue
		}
		obj.measures.Insert(m.Entity)
	}
	if freed > 0 {
		logx.Logger().Debug("compacted freed measures", "object", od.Name, "freed", freed)
	}

	return obj, nil
}

func (s *Scene) meshPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// renderSCAD renders a source into a temporary STL and returns the parsed
// model with every file the source depends on
func (s *Scene) renderSCAD(source string) (*stl.Model, []string, error) {
	r := openscad.NewRenderer(s.dir)
	deps, err := r.Dependencies(source)
	if err != nil {
		return nil, nil, err
	}

	tmp, err := os.MkdirTemp("", "measureit-scad-")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	out := filepath.Join(tmp, "mesh.stl")
	if err := r.RenderToSTL(context.Background(), source, out); err != nil {
		return nil, nil, err
	}
	model, err := stl.Parse(out)
	if err != nil {
		return nil, nil, err
	}
	logx.Logger().Debug("rendered openscad mesh", "source", source, "dependencies", len(deps))
	return model, deps, nil
}

// MeshFiles returns the external files the scene's meshes were built from,
// in object order
func (s *Scene) MeshFiles() []string {
	var files []string
	for _, o := range s.objects {
		files = append(files, o.meshDeps...)
	}
	return files
}

// Document returns the persisted form of the scene; freed slots are never written
func (s *Scene) Document() Document {
	doc := Document{Units: s.Units}
	for _, style := range s.styles.All() {
		doc.Styles = append(doc.Styles, *style)
	}

	for _, o := range s.objects {
		od := ObjectDoc{
			Name:     o.name,
			Mesh:     o.mesh,
			Location: arr(o.Location),
			Rotation: arr(o.Rotation),
			Hidden:   o.Hidden,
			Selected: o.IsSelected,
		}
		if o.Scale != geometry.NewVector3(1, 1, 1) {
			scale := arr(o.Scale)
			od.Scale = &scale
		}
		if !o.CollectionVisible {
			visible := false
			od.CollectionVisible = &visible
		}
		if o.mesh == nil || (o.mesh.STL == "" && o.mesh.SCAD == "") {
			od.Vertices = make([][3]float64, len(o.vertices))
			for i, p := range o.vertices {
				od.Vertices[i] = arr(p)
			}
			od.Faces = o.faces
		}
		sel := o.selection
		if len(sel.Vertices)+len(sel.History)+len(sel.Edges)+len(o.selFaces) > 0 {
			od.Selection = &SelectionDoc{
				Vertices: sel.Vertices,
				History:  sel.History,
				Edges:    sel.Edges,
				Faces:    o.selFaces,
			}
		}
		for _, e := range o.measures.Compact() {
			od.Measures = append(od.Measures, MeasureDoc{Entity: e})
		}
		doc.Objects = append(doc.Objects, od)
	}
	return doc
}

// Save writes the scene document to path
func (s *Scene) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.Document()); err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write scene: %w", err)
	}
	return nil
}

func vec(a [3]float64) geometry.Vector3 {
	return geometry.NewVector3(a[0], a[1], a[2])
}

func arr(v geometry.Vector3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
