package depot

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

var _ Component = ComponentType[struct{}]{}

var elementTypes sync.Map // reflect.Type -> table.ElementType

// ComponentType describes component kind T. Values for the same T are
// interchangeable: the kind and element descriptor are derived once per type.
type ComponentType[T any] struct {
	element table.ElementType
	kind    ComponentKind
	name    string
}

func newComponentType[T any]() ComponentType[T] {
	t := reflect.TypeFor[T]()
	return ComponentType[T]{
		element: elementTypeOf[T](),
		kind:    ComponentKind(typeHash(t)),
		name:    typeName(t),
	}
}

// elementTypeOf returns the table element descriptor of T, created once per
// type so every table and schema agrees on its row.
func elementTypeOf[T any]() table.ElementType {
	t := reflect.TypeFor[T]()
	et, ok := elementTypes.Load(t)
	if !ok {
		et, _ = elementTypes.LoadOrStore(t, table.FactoryNewElementType[T]())
	}
	return et.(table.ElementType)
}

func (c ComponentType[T]) Kind() ComponentKind {
	return c.kind
}

func (c ComponentType[T]) Name() string {
	return c.name
}

// With pairs a value with its kind, for Spawn, AddComponent and UpdateComponent.
func (c ComponentType[T]) With(value T) ComponentValue {
	return ComponentValue{component: c, value: value}
}

func (c ComponentType[T]) elementType() table.ElementType {
	return c.element
}

func (c ComponentType[T]) newStorage(capacity int) storage {
	return newComponentStorage[T](c.kind, c.name, capacity)
}

// ComponentValue is a component value tagged with its kind.
type ComponentValue struct {
	component Component
	value     any
}

func (v ComponentValue) Component() Component {
	return v.component
}

func (v ComponentValue) Value() any {
	return v.value
}
