package depot

import "go.uber.org/zap"

// EventKind tags an Event. Kinds flush in declaration order: creates, then
// component changes, then entity state, then destroys.
type EventKind uint8

const (
	EventSpawn EventKind = iota
	EventAddComponent
	EventUpdateComponent
	EventRemoveComponent
	EventEnableComponent
	EventDisableComponent
	EventEnableEntity
	EventDisableEntity
	EventDestroy
	eventKindCount
)

func (k EventKind) String() string {
	switch k {
	case EventSpawn:
		return "spawn"
	case EventAddComponent:
		return "add_component"
	case EventUpdateComponent:
		return "update_component"
	case EventRemoveComponent:
		return "remove_component"
	case EventEnableComponent:
		return "enable_component"
	case EventDisableComponent:
		return "disable_component"
	case EventEnableEntity:
		return "enable_entity"
	case EventDisableEntity:
		return "disable_entity"
	case EventDestroy:
		return "destroy"
	}
	return "unknown"
}

// Event is a deferred structural or data change. Building one never touches
// a world; Execute applies it exactly once.
type Event struct {
	kind      EventKind
	entity    EntityID
	component Component
	value     any
	spawn     []ComponentValue
	executed  bool

	// before runs ahead of an add. merge derives the stored value from the
	// current one, nil when absent.
	before func(w *World)
	merge  func(current any) any
}

// Spawn creates an entity carrying values. The id is assigned now so it can be
// referenced before the flush.
func Spawn(values ...ComponentValue) *Event {
	return &Event{kind: EventSpawn, entity: NewEntityID(), spawn: values}
}

// AddComponent attaches v to id.
func AddComponent(id EntityID, v ComponentValue) *Event {
	return &Event{kind: EventAddComponent, entity: id, component: v.component, value: v.value}
}

// UpdateComponent replaces the value of a component id already has.
func UpdateComponent(id EntityID, v ComponentValue) *Event {
	return &Event{kind: EventUpdateComponent, entity: id, component: v.component, value: v.value}
}

// RemoveComponent detaches c from id. The value is discarded at the next
// compaction.
func RemoveComponent(id EntityID, c Component) *Event {
	return &Event{kind: EventRemoveComponent, entity: id, component: c}
}

func EnableComponent(id EntityID, c Component) *Event {
	return &Event{kind: EventEnableComponent, entity: id, component: c}
}

func DisableComponent(id EntityID, c Component) *Event {
	return &Event{kind: EventDisableComponent, entity: id, component: c}
}

func EnableEntity(id EntityID) *Event {
	return &Event{kind: EventEnableEntity, entity: id}
}

func DisableEntity(id EntityID) *Event {
	return &Event{kind: EventDisableEntity, entity: id}
}

// DestroyEntity removes id and every component it holds.
func DestroyEntity(id EntityID) *Event {
	return &Event{kind: EventDestroy, entity: id}
}

func (e *Event) Kind() EventKind {
	return e.kind
}

func (e *Event) Entity() EntityID {
	return e.entity
}

// Execute applies the event to w and returns the entity it affected. Running
// an event a second time does nothing.
func (e *Event) Execute(w *World) EntityID {
	if e.executed {
		return e.entity
	}
	e.executed = true

	switch e.kind {
	case EventSpawn:
		w.createEntity(e.entity)
		for _, v := range e.spawn {
			AddComponent(e.entity, v).Execute(w)
		}
	case EventAddComponent:
		if !w.placed(e.entity) {
			w.skip(e)
			break
		}
		if e.before != nil {
			e.before(w)
		}
		w.componentSlot(e.component).with(borrowExclusive, func(s storage) {
			value := e.value
			if e.merge != nil {
				current, _ := s.peekAny(e.entity)
				value = e.merge(current)
			}
			s.insertAny(e.entity, value)
		})
		w.archetypes.with(borrowExclusive, func(g *ArchetypeGraph) {
			g.AddComponent(e.entity, e.component.Kind())
		})
	case EventUpdateComponent:
		w.componentSlot(e.component).with(borrowExclusive, func(s storage) {
			if !s.setAny(e.entity, e.value) {
				w.skip(e)
			}
		})
	case EventRemoveComponent:
		w.componentSlot(e.component).with(borrowExclusive, func(s storage) {
			s.Destroy(e.entity)
		})
		w.archetypes.with(borrowExclusive, func(g *ArchetypeGraph) {
			g.RemoveComponent(e.entity, e.component.Kind())
		})
	case EventEnableComponent:
		w.componentSlot(e.component).with(borrowExclusive, func(s storage) {
			s.Enable(e.entity)
		})
	case EventDisableComponent:
		w.componentSlot(e.component).with(borrowExclusive, func(s storage) {
			s.Disable(e.entity)
		})
	case EventEnableEntity:
		w.entities.with(borrowExclusive, func(s *EntityStorage) {
			s.Enable(e.entity)
		})
	case EventDisableEntity:
		w.entities.with(borrowExclusive, func(s *EntityStorage) {
			s.Disable(e.entity)
		})
	case EventDestroy:
		w.destroyEntity(e.entity)
	}
	return e.entity
}

func (w *World) skip(e *Event) {
	w.logger.Warn("event skipped: entity not found",
		zap.Stringer("kind", e.kind),
		zap.Stringer("entity", e.entity),
	)
}
