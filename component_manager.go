package depot

import "iter"

// MaxComponentKinds is the number of component kinds an archetype mask holds.
const MaxComponentKinds = 256

// ComponentManager owns one guarded storage per registered component kind.
type ComponentManager struct {
	storages Cache[ComponentKind, *guarded[storage]]
	capacity int
}

func newComponentManager(capacity int) *ComponentManager {
	return &ComponentManager{
		storages: FactoryNewCache[ComponentKind, *guarded[storage]](MaxComponentKinds),
		capacity: capacity,
	}
}

// register adds storage for c. Registering a kind twice keeps the first
// storage and reports false.
func (m *ComponentManager) register(c Component) bool {
	if _, ok := m.storages.GetIndex(c.Kind()); ok {
		return false
	}
	if _, err := m.storages.Register(c.Kind(), newGuarded(c.Name(), c.newStorage(m.capacity))); err != nil {
		panic(ComponentKindLimitError{Max: MaxComponentKinds})
	}
	return true
}

// Registered reports whether kind has storage.
func (m *ComponentManager) Registered(kind ComponentKind) bool {
	_, ok := m.storages.GetIndex(kind)
	return ok
}

// Kinds yields registered kinds in registration order.
func (m *ComponentManager) Kinds() iter.Seq[ComponentKind] {
	return func(yield func(ComponentKind) bool) {
		for kind := range m.storages.All() {
			if !yield(kind) {
				return
			}
		}
	}
}

// Len returns the number of registered kinds.
func (m *ComponentManager) Len() int {
	return m.storages.Len()
}

func (m *ComponentManager) slot(kind ComponentKind, name string) *guarded[storage] {
	idx, ok := m.storages.GetIndex(kind)
	if !ok {
		panic(KindNotRegisteredError{What: "component", Name: name, Kind: uint64(kind)})
	}
	return *m.storages.GetItem(idx)
}

func (m *ComponentManager) each(fn func(*guarded[storage])) {
	for _, slot := range m.storages.All() {
		fn(*slot)
	}
}

// Components borrows the storage of c shared.
func Components[T any](w *World, c ComponentType[T]) *Ref[ComponentStorage[T]] {
	slot := w.components.slot(c.kind, c.name)
	return newRef(&slot.guard, slot.value.(*ComponentStorage[T]))
}

// ComponentsMut borrows the storage of c exclusively.
func ComponentsMut[T any](w *World, c ComponentType[T]) *RefMut[ComponentStorage[T]] {
	slot := w.components.slot(c.kind, c.name)
	return newRefMut(&slot.guard, slot.value.(*ComponentStorage[T]))
}
