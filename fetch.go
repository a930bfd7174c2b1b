package depot

type access uint8

const (
	accessEntity access = iota
	accessRead
	accessWrite
	accessCopy
)

// held is one fetched slot of the current query tuple.
type held struct {
	kind    ComponentKind
	access  access
	mode    borrowMode
	guard   *guard
	value   any
	present bool
}

func (h *held) release() {
	if h.guard == nil {
		return
	}
	h.guard.release(h.mode)
	h.guard = nil
}

var (
	_ Fetch = EntityFetch{}
	_ Fetch = ReadFetch[struct{}]{}
	_ Fetch = WriteFetch[struct{}]{}
	_ Fetch = CopiedFetch[struct{}]{}
	_ Fetch = OptionalFetch{}
)

// EntityFetch yields the id of the current entity. It never filters.
type EntityFetch struct{}

func FetchEntity() EntityFetch {
	return EntityFetch{}
}

func (EntityFetch) fetchKind() ComponentKind { return 0 }
func (EntityFetch) fetchName() string        { return "entity" }
func (EntityFetch) fetchAccess() access      { return accessEntity }
func (EntityFetch) required() bool           { return false }

func (EntityFetch) acquire(_ *World, id EntityID) (held, bool) {
	return held{access: accessEntity, value: id, present: true}, true
}

func (f EntityFetch) Get(q *Query) EntityID {
	return q.lookup(0, accessEntity, f.fetchName()).value.(EntityID)
}

// ReadFetch borrows component T shared for the lifetime of each tuple.
type ReadFetch[T any] struct {
	component ComponentType[T]
}

func Read[T any](c ComponentType[T]) ReadFetch[T] {
	return ReadFetch[T]{component: c}
}

func (f ReadFetch[T]) fetchKind() ComponentKind { return f.component.kind }
func (f ReadFetch[T]) fetchName() string        { return f.component.name }
func (f ReadFetch[T]) fetchAccess() access      { return accessRead }
func (f ReadFetch[T]) required() bool           { return true }

func (f ReadFetch[T]) acquire(w *World, id EntityID) (held, bool) {
	return borrowComponent(w, f.component, id, accessRead, borrowShared)
}

// Get returns the current entity's value, or nil when an optional wrapper
// found it absent.
func (f ReadFetch[T]) Get(q *Query) *T {
	h := q.lookup(f.component.kind, accessRead, f.component.name)
	if !h.present {
		return nil
	}
	return h.value.(*T)
}

// WriteFetch borrows component T exclusively for the lifetime of each tuple.
type WriteFetch[T any] struct {
	component ComponentType[T]
}

func Write[T any](c ComponentType[T]) WriteFetch[T] {
	return WriteFetch[T]{component: c}
}

func (f WriteFetch[T]) fetchKind() ComponentKind { return f.component.kind }
func (f WriteFetch[T]) fetchName() string        { return f.component.name }
func (f WriteFetch[T]) fetchAccess() access      { return accessWrite }
func (f WriteFetch[T]) required() bool           { return true }

func (f WriteFetch[T]) acquire(w *World, id EntityID) (held, bool) {
	return borrowComponent(w, f.component, id, accessWrite, borrowExclusive)
}

func (f WriteFetch[T]) Get(q *Query) *T {
	h := q.lookup(f.component.kind, accessWrite, f.component.name)
	if !h.present {
		return nil
	}
	return h.value.(*T)
}

// CopiedFetch copies component T out of storage. No borrow outlives the copy,
// so nested queries over the same kind are safe.
type CopiedFetch[T any] struct {
	component ComponentType[T]
}

func Copied[T any](c ComponentType[T]) CopiedFetch[T] {
	return CopiedFetch[T]{component: c}
}

func (f CopiedFetch[T]) fetchKind() ComponentKind { return f.component.kind }
func (f CopiedFetch[T]) fetchName() string        { return f.component.name }
func (f CopiedFetch[T]) fetchAccess() access      { return accessCopy }
func (f CopiedFetch[T]) required() bool           { return true }

func (f CopiedFetch[T]) acquire(w *World, id EntityID) (held, bool) {
	h, ok := borrowComponent(w, f.component, id, accessCopy, borrowShared)
	if !ok {
		return h, false
	}
	h.value = *h.value.(*T)
	h.release()
	return h, true
}

// Get returns the copied value, or the zero value when absent.
func (f CopiedFetch[T]) Get(q *Query) T {
	v, _ := f.Lookup(q)
	return v
}

func (f CopiedFetch[T]) Lookup(q *Query) (T, bool) {
	h := q.lookup(f.component.kind, accessCopy, f.component.name)
	if !h.present {
		var zero T
		return zero, false
	}
	return h.value.(T), true
}

// OptionalFetch wraps a fetch so that it no longer filters entities. When the
// component is absent or disabled the inner accessor reports nil or false.
type OptionalFetch struct {
	inner Fetch
}

func Optional(f Fetch) OptionalFetch {
	return OptionalFetch{inner: f}
}

func (f OptionalFetch) fetchKind() ComponentKind { return f.inner.fetchKind() }
func (f OptionalFetch) fetchName() string        { return f.inner.fetchName() }
func (f OptionalFetch) fetchAccess() access      { return f.inner.fetchAccess() }
func (f OptionalFetch) required() bool           { return false }

func (f OptionalFetch) acquire(w *World, id EntityID) (held, bool) {
	if h, ok := f.inner.acquire(w, id); ok {
		return h, true
	}
	return held{kind: f.inner.fetchKind(), access: f.inner.fetchAccess()}, true
}

// Present reports whether the wrapped component was found for the current
// entity.
func (f OptionalFetch) Present(q *Query) bool {
	return q.lookup(f.inner.fetchKind(), f.inner.fetchAccess(), f.inner.fetchName()).present
}

func borrowComponent[T any](w *World, c ComponentType[T], id EntityID, acc access, mode borrowMode) (held, bool) {
	slot := w.components.slot(c.kind, c.name)
	slot.guard.acquire(mode)
	p, ok := slot.value.(*ComponentStorage[T]).Get(id)
	if !ok {
		slot.guard.release(mode)
		return held{}, false
	}
	return held{
		kind:    c.kind,
		access:  acc,
		mode:    mode,
		guard:   &slot.guard,
		value:   p,
		present: true,
	}, true
}
