package measurement

import (
	"errors"

	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
)

// Selection is the edit-mode selection of one object
type Selection struct {
	Vertices []int    // Selected vertex indices
	History  []int    // Vertex indices in the order they were selected
	Edges    [][2]int // Selected edges, consulted before Vertices when pairing
	Faces    [][]int  // Selected faces as vertex loops
	MeshSize int      // Vertex count of the mesh; selecting all of them means the object itself
}

// picked returns the selected vertices, or nil when the whole mesh is selected
func (s Selection) picked() []int {
	if s.MeshSize > 1 && len(s.Vertices) == s.MeshSize {
		return nil
	}
	return s.Vertices
}

// pairs flattens the selection into consecutive (A, B) pairs
func (s Selection) pairs() [][2]int {
	if len(s.Edges) > 0 {
		return s.Edges
	}
	var out [][2]int
	for i := 0; i+1 < len(s.Vertices); i += 2 {
		out = append(out, [2]int{s.Vertices[i], s.Vertices[i+1]})
	}
	return out
}

// AddOptions are applied to every entity an add operation creates
type AddOptions struct {
	Style  StyleID
	Bucket Bucket
}

func (o AddOptions) entity(kind Kind) Entity {
	e := NewEntity(kind)
	e.StyleRef = o.Style
	if kind.Summable() {
		e.Bucket = o.Bucket
	}
	return e
}

// AddResult lists what an add operation created
type AddResult struct {
	Created    []EntityID
	Duplicates int
}

func (r *AddResult) add(s *Store, e Entity) error {
	id, err := s.Add(e)
	if errors.Is(err, ErrDuplicate) {
		r.Duplicates++
		return nil
	}
	if err != nil {
		return err
	}
	r.Created = append(r.Created, id)
	return nil
}

// AddSegments creates one segment per selected edge or vertex pair
func AddSegments(s *Store, sel Selection, opts AddOptions) (AddResult, error) {
	return addPairs(s, sel, KindSegment, opts)
}

// AddLines creates free lines with distance and text hidden
func AddLines(s *Store, sel Selection, opts AddOptions) (AddResult, error) {
	return addPairs(s, sel, KindFreeLine, opts)
}

func addPairs(s *Store, sel Selection, kind Kind, opts AddOptions) (AddResult, error) {
	var res AddResult
	pairs := sel.pairs()
	if len(pairs) == 0 {
		return res, precondition("select at least two vertices for a %s", kind)
	}
	for _, p := range pairs {
		e := opts.entity(kind)
		e.A, e.B = p[0], p[1]
		if err := res.add(s, e); err != nil {
			return res, err
		}
	}
	return res, nil
}

// AddProjected creates one axis-projected segment per selected vertex
func AddProjected(s *Store, sel Selection, axis geometry.Axis, opts AddOptions) (AddResult, error) {
	var res AddResult
	if len(sel.Vertices) == 0 {
		return res, precondition("select at least one vertex for a projected segment")
	}
	for _, v := range sel.Vertices {
		e := opts.entity(KindProjected)
		e.A, e.Axis = v, axis
		if err := res.add(s, e); err != nil {
			return res, err
		}
	}
	return res, nil
}

// AddLabel attaches text to the single selected vertex
func AddLabel(s *Store, sel Selection, text string, opts AddOptions) (AddResult, error) {
	var res AddResult
	if len(sel.Vertices) != 1 {
		return res, precondition("select exactly one vertex for a label, got %d", len(sel.Vertices))
	}
	e := opts.entity(KindLabel)
	e.A, e.Text = sel.Vertices[0], text
	err := res.add(s, e)
	return res, err
}

// AddAngle creates an angle at the second of three vertices in selection order
func AddAngle(s *Store, sel Selection, opts AddOptions) (AddResult, error) {
	return addTriple(s, sel, KindAngle, opts)
}

// AddArc creates an arc through three vertices in selection order
func AddArc(s *Store, sel Selection, opts AddOptions) (AddResult, error) {
	return addTriple(s, sel, KindArc, opts)
}

func addTriple(s *Store, sel Selection, kind Kind, opts AddOptions) (AddResult, error) {
	var res AddResult
	if len(sel.History) != 3 {
		return res, precondition("select exactly three vertices in order for an %s, got %d", kind, len(sel.History))
	}
	e := opts.entity(kind)
	e.A, e.B, e.C = sel.History[0], sel.History[1], sel.History[2]
	err := res.add(s, e)
	return res, err
}

// AddArea creates one area measurement covering every selected face
func AddArea(s *Store, sel Selection, opts AddOptions) (AddResult, error) {
	var res AddResult
	if len(sel.Faces) == 0 {
		return res, precondition("select at least one face for an area")
	}
	e := opts.entity(KindArea)
	e.Faces = make([][]int, len(sel.Faces))
	for i, f := range sel.Faces {
		e.Faces[i] = append([]int(nil), f...)
	}
	err := res.add(s, e)
	return res, err
}

// AddOrigin measures the selected vertex, or the object when none is picked, to the world origin
func AddOrigin(s *Store, sel Selection, opts AddOptions) (AddResult, error) {
	var res AddResult
	picked := sel.picked()
	var e Entity
	switch len(picked) {
	case 0:
		e = opts.entity(KindObjectToOrigin)
	case 1:
		e = opts.entity(KindVertexToOrigin)
		e.A = picked[0]
	default:
		return res, precondition("select zero or one vertex for an origin distance, got %d", len(picked))
	}
	err := res.add(s, e)
	return res, err
}

// AddLink measures between this object and target, using a vertex on each side when one is picked
func AddLink(s *Store, sel Selection, target string, targetSel Selection, opts AddOptions) (AddResult, error) {
	var res AddResult
	if target == "" {
		return res, precondition("a link needs a second object")
	}
	own, other := sel.picked(), targetSel.picked()
	if len(own) > 1 || len(other) > 1 {
		return res, precondition("select at most one vertex on each object for a link")
	}

	var e Entity
	switch {
	case len(own) == 1 && len(other) == 1:
		e = opts.entity(KindVertexToVertexLink)
		e.A, e.B = own[0], other[0]
	case len(own) == 1:
		e = opts.entity(KindVertexToObjectLink)
		e.A = own[0]
	case len(other) == 1:
		e = opts.entity(KindObjectToVertexLink)
		e.B = other[0]
	default:
		e = opts.entity(KindObjectToObjectLink)
	}
	e.Link = target
	err := res.add(s, e)
	return res, err
}

// AddAnnotation attaches free text to the object origin
func AddAnnotation(s *Store, text string, opts AddOptions) (AddResult, error) {
	var res AddResult
	e := opts.entity(KindAnnotation)
	e.Text = text
	err := res.add(s, e)
	return res, err
}
