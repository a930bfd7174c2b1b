package depot

import "iter"

// entitySet is an ordered set with O(1) insert, remove and membership.
// Removal swaps the last id into the hole.
type entitySet struct {
	ids   []EntityID
	index map[EntityID]int
}

func newEntitySet() *entitySet {
	return &entitySet{index: make(map[EntityID]int)}
}

func (s *entitySet) insert(id EntityID) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

func (s *entitySet) remove(id EntityID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	last := len(s.ids) - 1
	if i != last {
		moved := s.ids[last]
		s.ids[i] = moved
		s.index[moved] = i
	}
	s.ids = s.ids[:last]
	delete(s.index, id)
	return true
}

func (s *entitySet) has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *entitySet) len() int {
	return len(s.ids)
}

func (s *entitySet) all() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for _, id := range s.ids {
			if !yield(id) {
				return
			}
		}
	}
}
