// Package edit applies measurement add, delete and style operations to a loaded scene.
package edit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jaosorio1013/MeasureIt-ARCH/internal/logx"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/scene"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// ErrUnknownObject is returned when an operation names an object the scene lacks
var ErrUnknownObject = errors.New("unknown object")

// Kinds lists the add operations by name
var Kinds = []string{
	"segment", "line", "projected", "label", "angle", "arc",
	"area", "origin", "link", "annotation",
}

// Request describes one add operation
type Request struct {
	Kind      string
	Selection *measurement.Selection // Overrides the object's stored selection when set
	Axis      geometry.Axis
	Text      string
	Target    string
	TargetSel *measurement.Selection
	Style     string
	Group     string
}

// Add runs req against the named object and returns what it created
func Add(s *scene.Scene, object string, req Request) (measurement.AddResult, error) {
	obj, ok := s.Object(object)
	if !ok {
		return measurement.AddResult{}, fmt.Errorf("%w %q", ErrUnknownObject, object)
	}

	opts, err := addOptions(s, req)
	if err != nil {
		return measurement.AddResult{}, err
	}

	sel := obj.Selection()
	if req.Selection != nil {
		sel = *req.Selection
		sel.MeshSize = len(obj.Vertices())
	}

	store := obj.Measures()
	var res measurement.AddResult
	switch req.Kind {
	case "segment":
		res, err = measurement.AddSegments(store, sel, opts)
	case "line":
		res, err = measurement.AddLines(store, sel, opts)
	case "projected":
		res, err = measurement.AddProjected(store, sel, req.Axis, opts)
	case "label":
		res, err = measurement.AddLabel(store, sel, req.Text, opts)
	case "angle":
		res, err = measurement.AddAngle(store, sel, opts)
	case "arc":
		res, err = measurement.AddArc(store, sel, opts)
	case "area":
		res, err = measurement.AddArea(store, sel, opts)
	case "origin":
		res, err = measurement.AddOrigin(store, sel, opts)
	case "link":
		res, err = addLink(s, store, sel, req, opts)
	case "annotation":
		res, err = measurement.AddAnnotation(store, req.Text, opts)
	default:
		return res, fmt.Errorf("unknown measurement kind %q (want one of %s)", req.Kind, strings.Join(Kinds, ", "))
	}
	if err != nil {
		return res, err
	}

	logx.Logger().Info("added measures", "object", object, "kind", req.Kind,
		"created", len(res.Created), "duplicates", res.Duplicates)
	return res, nil
}

func addLink(s *scene.Scene, store *measurement.Store, sel measurement.Selection, req Request, opts measurement.AddOptions) (measurement.AddResult, error) {
	target, ok := s.Object(req.Target)
	if req.Target != "" && !ok {
		return measurement.AddResult{}, fmt.Errorf("%w %q", ErrUnknownObject, req.Target)
	}
	var targetSel measurement.Selection
	if ok {
		targetSel = target.Selection()
	}
	if req.TargetSel != nil {
		targetSel = *req.TargetSel
		if ok {
			targetSel.MeshSize = len(target.Vertices())
		}
	}
	return measurement.AddLink(store, sel, req.Target, targetSel, opts)
}

func addOptions(s *scene.Scene, req Request) (measurement.AddOptions, error) {
	var opts measurement.AddOptions
	if req.Style != "" {
		style, ok := s.StyleSet().ByName(req.Style)
		if !ok {
			return opts, fmt.Errorf("unknown style %q", req.Style)
		}
		opts.Style = style.ID
	}
	if req.Group != "" {
		if len(req.Group) != 1 {
			return opts, fmt.Errorf("group must be a single letter, got %q", req.Group)
		}
		b, err := measurement.BucketOf(req.Group[0])
		if err != nil {
			return opts, err
		}
		opts.Bucket = b
	}
	return opts, nil
}

// Delete removes the live entity in slot index of the named object
func Delete(s *scene.Scene, object string, index int) error {
	obj, ok := s.Object(object)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownObject, object)
	}
	id, _, ok := obj.Measures().At(index)
	if !ok {
		return fmt.Errorf("%w: no measure at index %d", measurement.ErrNotFound, index)
	}
	return obj.Measures().Delete(id)
}

// DeleteAll removes every measure of the named object, or of all objects when object is empty
func DeleteAll(s *scene.Scene, object string) (int, error) {
	objs, err := targets(s, object)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, o := range objs {
		n += o.Measures().Len()
		o.Measures().DeleteAll()
	}
	return n, nil
}

// ClearSums detaches every measure of the named object, or of all objects, from its group
func ClearSums(s *scene.Scene, object string) error {
	objs, err := targets(s, object)
	if err != nil {
		return err
	}
	for _, o := range objs {
		o.Measures().ClearGroupSums()
	}
	return nil
}

func targets(s *scene.Scene, object string) ([]*scene.Object, error) {
	if object == "" {
		return s.All(), nil
	}
	obj, ok := s.Object(object)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownObject, object)
	}
	return []*scene.Object{obj}, nil
}

// ParseIndices parses a comma separated vertex list such as "0,3,5"
func ParseIndices(text string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(text, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex index %q: %w", field, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("vertex index must not be negative, got %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}

// ParseEdges parses edges written as "a-b" and separated by commas
func ParseEdges(text string) ([][2]int, error) {
	var out [][2]int
	for _, field := range strings.Split(text, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		a, b, found := strings.Cut(field, "-")
		if !found {
			return nil, fmt.Errorf("invalid edge %q, want a-b", field)
		}
		ends, err := ParseIndices(a + "," + b)
		if err != nil || len(ends) != 2 {
			return nil, fmt.Errorf("invalid edge %q", field)
		}
		out = append(out, [2]int{ends[0], ends[1]})
	}
	return out, nil
}

// ParseFaces parses face loops written as "a:b:c" and separated by commas
func ParseFaces(text string) ([][]int, error) {
	var out [][]int
	for _, field := range strings.Split(text, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		loop, err := ParseIndices(strings.ReplaceAll(field, ":", ","))
		if err != nil {
			return nil, err
		}
		if len(loop) < 3 {
			return nil, fmt.Errorf("face %q needs at least three vertices", field)
		}
		out = append(out, loop)
	}
	return out, nil
}

// SelectionOf builds a selection from picked vertices in order, edges and face loops
func SelectionOf(vertices []int, edges [][2]int, faces [][]int) measurement.Selection {
	return measurement.Selection{
		Vertices: vertices,
		History:  vertices,
		Edges:    edges,
		Faces:    faces,
	}
}

// AddStyle registers a named style; the name must be new
func AddStyle(s *scene.Scene, name string, fields measurement.StyleFields) (measurement.StyleID, error) {
	if name == "" {
		return 0, errors.New("style name must not be empty")
	}
	if _, exists := s.StyleSet().ByName(name); exists {
		return 0, fmt.Errorf("style %q already exists", name)
	}
	return s.StyleSet().Add(name, fields), nil
}

// DeleteAllStyles drops every named style; measures referencing one fall back to the defaults
func DeleteAllStyles(s *scene.Scene) int {
	n := s.StyleSet().Len()
	s.StyleSet().DeleteAll()
	return n
}
