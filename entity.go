package depot

import "iter"

var _ Registry = &EntityStorage{}

// EntityStorage records which entities exist and whether each is enabled,
// disabled or pending destroy.
type EntityStorage struct {
	lifecycle
}

func newEntityStorage(capacity int) *EntityStorage {
	return &EntityStorage{lifecycle: newLifecycle(capacity)}
}

// Insert records id as an enabled entity.
func (s *EntityStorage) Insert(id EntityID) {
	s.track(id)
}

func (s *EntityStorage) Contains(id EntityID) bool {
	return s.tracked(id)
}

// Alive reports whether id exists and is enabled.
func (s *EntityStorage) Alive(id EntityID) bool {
	return s.visible(id)
}

func (s *EntityStorage) Remove(id EntityID) {
	s.forget(id)
}

func (s *EntityStorage) Clear() {
	s.reset()
}

func (s *EntityStorage) Update() {
	s.drain()
}

func (s *EntityStorage) Len() int {
	return len(s.states)
}

// All yields every known entity, whatever its state.
func (s *EntityStorage) All() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for id := range s.states {
			if !yield(id) {
				return
			}
		}
	}
}
