package depot

import (
	"fmt"
	"iter"

	"github.com/TheBitDrifter/table"
)

var _ storage = &ComponentStorage[struct{}]{}

// ComponentStorage holds every value of one component kind in a single-column
// table, one row per entity. Values of disabled or pending-destroy entries
// stay stored but are invisible to Get and GetMut.
//
// Pointers returned by Get and GetMut are valid until the next Insert or
// removal on the storage.
type ComponentStorage[T any] struct {
	lifecycle
	kind     ComponentKind
	name     string
	element  table.ElementType
	accessor table.Accessor[T]
	table    table.Table
	rows     map[EntityID]int
	ids      []EntityID // row order
}

func newComponentStorage[T any](kind ComponentKind, name string, capacity int) *ComponentStorage[T] {
	et := elementTypeOf[T]()
	s := &ComponentStorage[T]{
		lifecycle: newLifecycle(capacity),
		kind:      kind,
		name:      name,
		element:   et,
		accessor:  table.FactoryNewAccessor[T](et),
		rows:      make(map[EntityID]int, capacity),
		ids:       make([]EntityID, 0, capacity),
	}
	s.table = s.newTable()
	return s
}

func (s *ComponentStorage[T]) newTable() table.Table {
	tbl, err := table.NewTableBuilder().
		WithSchema(table.Factory.NewSchema()).
		WithEntryIndex(table.Factory.NewEntryIndex()).
		WithElementTypes(s.element).
		Build()
	if err != nil {
		panic(fmt.Sprintf("depot: %s storage: %v", s.name, err))
	}
	return tbl
}

func (s *ComponentStorage[T]) Kind() ComponentKind {
	return s.kind
}

func (s *ComponentStorage[T]) Name() string {
	return s.name
}

// Insert stores value for id and leaves it enabled.
func (s *ComponentStorage[T]) Insert(id EntityID, value T) {
	row, ok := s.rows[id]
	if !ok {
		if _, err := s.table.NewEntries(1); err != nil {
			panic(fmt.Sprintf("depot: %s storage: %v", s.name, err))
		}
		row = s.table.Length() - 1
		s.rows[id] = row
		s.ids = append(s.ids, id)
	}
	*s.accessor.Get(row, s.table) = value
	s.track(id)
}

// Set replaces the value of an enabled or disabled entry without touching its
// state. Absent and pending-destroy entries are left alone.
func (s *ComponentStorage[T]) Set(id EntityID, value T) bool {
	row, ok := s.rows[id]
	if !ok || !s.live(id) {
		return false
	}
	*s.accessor.Get(row, s.table) = value
	return true
}

func (s *ComponentStorage[T]) Get(id EntityID) (*T, bool) {
	if !s.visible(id) {
		return nil, false
	}
	row, ok := s.rows[id]
	if !ok {
		return nil, false
	}
	return s.accessor.Get(row, s.table), true
}

func (s *ComponentStorage[T]) GetMut(id EntityID) (*T, bool) {
	return s.Get(id)
}

func (s *ComponentStorage[T]) Contains(id EntityID) bool {
	_, ok := s.rows[id]
	return ok
}

func (s *ComponentStorage[T]) Remove(id EntityID) {
	s.deleteRow(id)
	s.forget(id)
}

func (s *ComponentStorage[T]) Clear() {
	s.table = s.newTable()
	clear(s.rows)
	s.ids = s.ids[:0]
	s.reset()
}

func (s *ComponentStorage[T]) Update() {
	for _, id := range s.drain() {
		s.deleteRow(id)
	}
}

// deleteRow drops the row of id. The table moves its last row into the gap,
// so the id owning that row is re-indexed.
func (s *ComponentStorage[T]) deleteRow(id EntityID) {
	row, ok := s.rows[id]
	if !ok {
		return
	}
	if _, err := s.table.DeleteEntries(row); err != nil {
		panic(fmt.Sprintf("depot: %s storage: %v", s.name, err))
	}
	last := len(s.ids) - 1
	if row != last {
		moved := s.ids[last]
		s.ids[row] = moved
		s.rows[moved] = row
	}
	s.ids = s.ids[:last]
	delete(s.rows, id)
}

func (s *ComponentStorage[T]) Len() int {
	return s.table.Length()
}

// All yields every stored value in row order, whatever its state.
func (s *ComponentStorage[T]) All() iter.Seq2[EntityID, *T] {
	return func(yield func(EntityID, *T) bool) {
		for row, id := range s.ids {
			if !yield(id, s.accessor.Get(row, s.table)) {
				return
			}
		}
	}
}

func (s *ComponentStorage[T]) insertAny(id EntityID, value any) {
	s.Insert(id, s.cast(value))
}

func (s *ComponentStorage[T]) setAny(id EntityID, value any) bool {
	return s.Set(id, s.cast(value))
}

func (s *ComponentStorage[T]) getAny(id EntityID) (any, bool) {
	p, ok := s.Get(id)
	if !ok {
		return nil, false
	}
	return p, true
}

// peekAny returns the value of an enabled or disabled entry.
func (s *ComponentStorage[T]) peekAny(id EntityID) (any, bool) {
	row, ok := s.rows[id]
	if !ok || !s.live(id) {
		return nil, false
	}
	return s.accessor.Get(row, s.table), true
}

func (s *ComponentStorage[T]) cast(value any) T {
	v, ok := value.(T)
	if !ok {
		panic(fmt.Sprintf("depot: %T stored into %s storage", value, s.name))
	}
	return v
}
