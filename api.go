package depot

import (
	"iter"

	"github.com/TheBitDrifter/table"
)

// Registry is the capability set shared by every per-kind storage so the world
// can operate on storages without knowing their element type.
type Registry interface {
	Contains(id EntityID) bool
	// Remove hard-deletes id. Used by the destroy cascade.
	Remove(id EntityID)
	Clear()
	// Update hard-deletes every pending-destroy entry. It is the only place a
	// storage shrinks.
	Update()
	Enable(id EntityID)
	Disable(id EntityID)
	Destroy(id EntityID)
}

// Component describes a component kind. ComponentType[T] is the only
// implementation.
type Component interface {
	Kind() ComponentKind
	Name() string
	elementType() table.ElementType
	newStorage(capacity int) storage
}

// Resource is a resource value ready for registration.
type Resource interface {
	Kind() ResourceKind
	Name() string
	value() any
}

// Fetch is a query parameter: how one component kind is accessed per entity.
type Fetch interface {
	fetchKind() ComponentKind
	fetchName() string
	fetchAccess() access
	required() bool
	acquire(w *World, id EntityID) (held, bool)
}

// QueryNode narrows the archetypes a query visits.
type QueryNode interface {
	Evaluate(archetype *Archetype, graph *ArchetypeGraph) bool
}

// Filter builds QueryNodes.
type Filter interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

// System runs against a world. The world is the only argument a system gets.
type System func(w *World)

// Observer is notified with the ids the last flush of an event kind touched.
type Observer func(ids []EntityID, w *World)

type Cache[K comparable, T any] interface {
	GetIndex(K) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(K, T) (int, error)
	Len() int
	All() iter.Seq2[K, *T]
	Clear()
}

// storage is the type-erased view the world keeps of a ComponentStorage[T].
type storage interface {
	Registry
	Kind() ComponentKind
	Name() string
	Len() int
	visible(id EntityID) bool
	insertAny(id EntityID, value any)
	setAny(id EntityID, value any) bool
	getAny(id EntityID) (any, bool)
	peekAny(id EntityID) (any, bool)
}
