package depot

import (
	"io"
	"iter"
	"reflect"

	"go.uber.org/multierr"
)

type resourceValue[T any] struct {
	kind ResourceKind
	name string
	ptr  *T
}

func (r resourceValue[T]) Kind() ResourceKind { return r.kind }
func (r resourceValue[T]) Name() string       { return r.name }
func (r resourceValue[T]) value() any         { return r.ptr }

// NewResource wraps v for registration. The world keeps its own copy of v.
func NewResource[T any](v T) Resource {
	t := reflect.TypeFor[T]()
	return resourceValue[T]{
		kind: ResourceKind(typeHash(t)),
		name: typeName(t),
		ptr:  &v,
	}
}

// ResourceManager owns one guarded singleton per resource kind.
type ResourceManager struct {
	resources Cache[ResourceKind, *guarded[any]]
}

func newResourceManager() *ResourceManager {
	return &ResourceManager{
		resources: FactoryNewCache[ResourceKind, *guarded[any]](0),
	}
}

func (m *ResourceManager) register(r Resource) {
	if _, err := m.resources.Register(r.Kind(), newGuarded(r.Name(), r.value())); err != nil {
		panic(err)
	}
}

// Contains reports whether kind is registered.
func (m *ResourceManager) Contains(kind ResourceKind) bool {
	_, ok := m.resources.GetIndex(kind)
	return ok
}

// Kinds yields registered kinds in registration order.
func (m *ResourceManager) Kinds() iter.Seq[ResourceKind] {
	return func(yield func(ResourceKind) bool) {
		for kind := range m.resources.All() {
			if !yield(kind) {
				return
			}
		}
	}
}

func (m *ResourceManager) Len() int {
	return m.resources.Len()
}

func (m *ResourceManager) slot(kind ResourceKind, name string) *guarded[any] {
	idx, ok := m.resources.GetIndex(kind)
	if !ok {
		panic(KindNotRegisteredError{What: "resource", Name: name, Kind: uint64(kind)})
	}
	return *m.resources.GetItem(idx)
}

// close closes every resource implementing io.Closer, in reverse
// registration order, and drops them all.
func (m *ResourceManager) close() error {
	var slots []*guarded[any]
	for _, slot := range m.resources.All() {
		slots = append(slots, *slot)
	}
	var err error
	for i := len(slots) - 1; i >= 0; i-- {
		slots[i].with(borrowExclusive, func(v any) {
			if c, ok := v.(io.Closer); ok {
				err = multierr.Append(err, c.Close())
			}
		})
	}
	m.resources.Clear()
	return err
}

// Res borrows the resource T shared.
func Res[T any](w *World) *Ref[T] {
	slot := resourceSlot[T](w)
	return newRef(&slot.guard, slot.value.(*T))
}

// ResMut borrows the resource T exclusively.
func ResMut[T any](w *World) *RefMut[T] {
	slot := resourceSlot[T](w)
	return newRefMut(&slot.guard, slot.value.(*T))
}

func resourceSlot[T any](w *World) *guarded[any] {
	t := reflect.TypeFor[T]()
	return w.resources.slot(ResourceKind(typeHash(t)), typeName(t))
}
