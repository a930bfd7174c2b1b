package depot

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/oklog/ulid/v2"
)

// EntityID identifies an entity. Zero is never produced and means "no entity".
type EntityID uint64

// ComponentKind identifies a component type for the lifetime of the process.
type ComponentKind uint64

// ResourceKind identifies a resource type for the lifetime of the process.
type ResourceKind uint64

// ArchetypeID is a 1-based index into the archetype arena.
type ArchetypeID uint64

var (
	typeHashes sync.Map // reflect.Type -> uint64

	hashOwnersMu sync.Mutex
	hashOwners   = map[uint64]reflect.Type{}
)

// NewEntityID hashes a fresh random token into an id.
func NewEntityID() EntityID {
	for {
		token := ulid.Make()
		if id := EntityID(xxhash.Sum64(token[:])); id != 0 {
			return id
		}
	}
}

// KindOf returns the component kind of T.
func KindOf[T any]() ComponentKind {
	return ComponentKind(typeHash(reflect.TypeFor[T]()))
}

// ResourceKindOf returns the resource kind of T.
func ResourceKindOf[T any]() ResourceKind {
	return ResourceKind(typeHash(reflect.TypeFor[T]()))
}

// typeHash returns the kind of t: the xxhash of its qualified name. Distinct
// types with the same name, such as two function-local types, rehash with a
// sequence suffix until the hash is unused, so each type keeps its own kind.
func typeHash(t reflect.Type) uint64 {
	if h, ok := typeHashes.Load(t); ok {
		return h.(uint64)
	}
	hashOwnersMu.Lock()
	defer hashOwnersMu.Unlock()
	if h, ok := typeHashes.Load(t); ok {
		return h.(uint64)
	}

	name := typeName(t)
	h := xxhash.Sum64String(name)
	for n := 1; h == 0 || hashOwners[h] != nil; n++ {
		h = xxhash.Sum64String(name + "#" + strconv.Itoa(n))
	}
	hashOwners[h] = t
	typeHashes.Store(t, h)
	return h
}

// typeName qualifies t and its element types with their full package path.
func typeName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + typeName(t.Elem())
	case reflect.Slice:
		return "[]" + typeName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + typeName(t.Elem())
	case reflect.Map:
		return "map[" + typeName(t.Key()) + "]" + typeName(t.Elem())
	}
	return t.String()
}

func (id EntityID) String() string {
	return fmt.Sprintf("%#x", uint64(id))
}

func (k ComponentKind) String() string {
	return fmt.Sprintf("%#x", uint64(k))
}

func (k ResourceKind) String() string {
	return fmt.Sprintf("%#x", uint64(k))
}
