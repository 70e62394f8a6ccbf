// Package session holds the state of an interactive viewer: the loaded scene,
// the vertices picked in it and the measurement picked for deletion. Edits
// are saved back to the scene file.
package session

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/edit"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/logx"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/measurement"
	"github.com/jaosorio1013/MeasureIt-ARCH/internal/scene"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/geometry"
	"github.com/jaosorio1013/MeasureIt-ARCH/pkg/viewer"
)

// ErrNothingPicked is returned by edits that need a pick first
var ErrNothingPicked = errors.New("nothing picked")

// WatchFunc adds files to a file watcher
type WatchFunc func(files ...string) error

// Session is the editable state behind a viewer window
type Session struct {
	path  string
	scene *scene.Scene
	watch WatchFunc

	object string // Object the picks belong to
	picks  []int  // Vertex indices in pick order
	entity *viewer.EntityPick
}

// New loads the scene at path and watches it with its mesh files; watch may be nil
func New(path string, watch WatchFunc) (*Session, error) {
	s := &Session{path: path, watch: watch}
	if err := s.load(); err != nil {
		return nil, err
	}
	if err := s.addWatch(path); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load() error {
	sc, err := scene.Load(s.path)
	if err != nil {
		return err
	}
	s.scene = sc
	return s.addWatch(sc.MeshFiles()...)
}

func (s *Session) addWatch(files ...string) error {
	if s.watch == nil || len(files) == 0 {
		return nil
	}
	if err := s.watch(files...); err != nil {
		return fmt.Errorf("failed to watch: %w", err)
	}
	return nil
}

// Scene returns the current scene
func (s *Session) Scene() *scene.Scene { return s.scene }

// Reload reads the scene file again and watches any mesh files it now
// references. Picks survive when their object and vertices still exist.
// The old scene is kept when loading fails.
func (s *Session) Reload() error {
	old := s.scene
	if err := s.load(); err != nil {
		s.scene = old
		return err
	}

	s.entity = nil
	obj, ok := s.scene.Object(s.object)
	if !ok {
		s.ClearPicks()
		return nil
	}
	for _, v := range s.picks {
		if v >= len(obj.Vertices()) {
			s.ClearPicks()
			return nil
		}
	}
	obj.SelectVertices(s.picks)
	return nil
}

// Picks returns the object and vertex indices picked so far, in pick order
func (s *Session) Picks() (string, []int) { return s.object, s.picks }

// PickedEntity returns the measurement picked for deletion
func (s *Session) PickedEntity() (viewer.EntityPick, bool) {
	if s.entity == nil {
		return viewer.EntityPick{}, false
	}
	return *s.entity, true
}

// PickVertex adds the vertex nearest to ray, over every visible object, to
// the picks. Picking on another object starts a new pick list.
func (s *Session) PickVertex(ray viewer.Ray, threshold float64) (string, int, bool) {
	var best *scene.Object
	bestIdx, bestDist := -1, threshold
	for _, obj := range s.scene.All() {
		if !obj.Visible() {
			continue
		}
		idx, dist, ok := viewer.PickVertex(ray, obj.Vertices(), obj.Transform(), bestDist)
		if ok && (best == nil || dist < bestDist) {
			best, bestIdx, bestDist = obj, idx, dist
		}
	}
	if best == nil {
		return "", -1, false
	}

	if best.Name() != s.object {
		s.ClearPicks()
		s.object = best.Name()
	}
	s.picks = append(s.picks, bestIdx)
	best.SelectVertices(s.picks)
	logx.Logger().Debug("picked vertex", "object", s.object, "vertex", bestIdx, "picks", len(s.picks))
	return s.object, bestIdx, true
}

// ClearPicks drops the picked vertices
func (s *Session) ClearPicks() {
	if obj, ok := s.scene.Object(s.object); ok {
		obj.SelectVertices(nil)
	}
	s.object = ""
	s.picks = nil
}

// PickEntity remembers the measurement nearest to pixel (x, y)
func (s *Session) PickEntity(viewProj mgl64.Mat4, width, height int, x, y, threshold float64) bool {
	pick, ok := viewer.PickEntity(s.scene, viewProj, width, height, x, y, threshold)
	if !ok {
		s.entity = nil
		return false
	}
	s.entity = &pick
	return true
}

// Add runs an add operation of kind on the picked vertices and saves the
// scene when something was created. The picks are kept so the next
// operation can reuse them.
func (s *Session) Add(kind string, axis geometry.Axis) (measurement.AddResult, error) {
	if s.object == "" {
		return measurement.AddResult{}, fmt.Errorf("%s: %w", kind, ErrNothingPicked)
	}
	sel := measurement.Selection{History: s.picks}
	if obj, ok := s.scene.Object(s.object); ok {
		sel = obj.Selection()
	}

	res, err := edit.Add(s.scene, s.object, edit.Request{Kind: kind, Selection: &sel, Axis: axis})
	if err != nil {
		return res, err
	}
	if len(res.Created) > 0 {
		if err := s.Save(); err != nil {
			return res, err
		}
	}
	return res, nil
}

// DeletePicked deletes the picked measurement and saves the scene
func (s *Session) DeletePicked() error {
	if s.entity == nil {
		return ErrNothingPicked
	}
	pick := *s.entity
	s.entity = nil

	obj, ok := s.scene.Object(pick.Object)
	if !ok {
		return fmt.Errorf("%w %q", edit.ErrUnknownObject, pick.Object)
	}
	if err := obj.Measures().Delete(pick.ID); err != nil {
		return err
	}
	logx.Logger().Info("deleted measure", "object", pick.Object, "id", pick.ID)
	return s.Save()
}

// Save writes the scene back to its file
func (s *Session) Save() error {
	return s.scene.Save(s.path)
}
