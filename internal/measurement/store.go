package measurement

import (
	"fmt"
	"iter"
)

// EntityID is a generation-tagged handle into a Store.
// A handle goes stale once its slot is deleted, even if the slot is reused.
type EntityID struct {
	Index      uint32
	Generation uint32
}

func (id EntityID) String() string {
	return fmt.Sprintf("%d@%d", id.Index, id.Generation)
}

type slot struct {
	entity     Entity
	generation uint32
	live       bool
}

// Store is the ordered collection of measurement entities owned by one object.
// It is not safe for concurrent use; edits and draws are serialized by the caller.
type Store struct {
	slots []slot
	free  []uint32
	live  int
}

// NewStore creates an empty entity store
func NewStore() *Store {
	return &Store{}
}

// Add stores e unless an equivalent live entity exists, reusing the lowest freed slot
func (s *Store) Add(e Entity) (EntityID, error) {
	if id, ok := s.Find(&e); ok {
		return id, fmt.Errorf("%w: %s matches %s", ErrDuplicate, e.Kind, id)
	}
	return s.Insert(e), nil
}

// Insert stores e without duplicate detection
func (s *Store) Insert(e Entity) EntityID {
	s.live++

	if len(s.free) > 0 {
		// Lowest freed slot keeps iteration order close to creation order
		best := 0
		for i, idx := range s.free {
			if idx < s.free[best] {
				best = i
			}
		}
		idx := s.free[best]
		s.free = append(s.free[:best], s.free[best+1:]...)

		sl := &s.slots[idx]
		sl.entity = e
		sl.live = true
		return EntityID{Index: idx, Generation: sl.generation}
	}

	s.slots = append(s.slots, slot{entity: e, live: true})
	return EntityID{Index: uint32(len(s.slots) - 1)}
}

// Find returns the live entity equivalent to e
func (s *Store) Find(e *Entity) (EntityID, bool) {
	for id, other := range s.All() {
		if other.equivalent(e) {
			return id, true
		}
	}
	return EntityID{}, false
}

// Get returns the entity behind id
func (s *Store) Get(id EntityID) (*Entity, bool) {
	if int(id.Index) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[id.Index]
	if !sl.live || sl.generation != id.Generation {
		return nil, false
	}
	return &sl.entity, true
}

// At returns the live entity in slot index
func (s *Store) At(index int) (EntityID, *Entity, bool) {
	if index < 0 || index >= len(s.slots) || !s.slots[index].live {
		return EntityID{}, nil, false
	}
	sl := &s.slots[index]
	return EntityID{Index: uint32(index), Generation: sl.generation}, &sl.entity, true
}

// Delete frees the slot behind id
func (s *Store) Delete(id EntityID) error {
	if _, ok := s.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sl := &s.slots[id.Index]
	sl.live = false
	sl.generation++
	sl.entity = Entity{}
	s.free = append(s.free, id.Index)
	s.live--
	return nil
}

// DeleteAll frees every slot
func (s *Store) DeleteAll() {
	for id := range s.All() {
		_ = s.Delete(id)
	}
}

// ClearGroupSums detaches every entity from its group-sum bucket
func (s *Store) ClearGroupSums() {
	for _, e := range s.All() {
		e.Bucket = BucketNone
	}
}

// Len returns the live entity count
func (s *Store) Len() int {
	return s.live
}

// All iterates live entities in slot order
func (s *Store) All() iter.Seq2[EntityID, *Entity] {
	return func(yield func(EntityID, *Entity) bool) {
		for i := range s.slots {
			sl := &s.slots[i]
			if !sl.live {
				continue
			}
			if !yield(EntityID{Index: uint32(i), Generation: sl.generation}, &sl.entity) {
				return
			}
		}
	}
}

// Compact returns a copy of the live entities in slot order with freed slots removed
func (s *Store) Compact() []Entity {
	out := make([]Entity, 0, s.live)
	for _, e := range s.All() {
		out = append(out, *e)
	}
	return out
}
