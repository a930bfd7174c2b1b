package depot

import "go.uber.org/zap"

// World is the handle systems receive. It owns no lock of its own: each
// storage, the archetype graph, every resource and the event queue are
// guarded independently.
type World struct {
	entities   *guarded[*EntityStorage]
	archetypes *guarded[*ArchetypeGraph]
	components *ComponentManager
	resources  *ResourceManager
	events     *EventManager
	logger     *zap.Logger
}

func newWorld(logger *zap.Logger, capacity int) *World {
	return &World{
		entities:   newGuarded("entity storage", newEntityStorage(capacity)),
		archetypes: newGuarded("archetype graph", newArchetypeGraph(logger)),
		components: newComponentManager(capacity),
		resources:  newResourceManager(),
		events:     newEventManager(logger),
		logger:     logger,
	}
}

// Enqueue defers events until the next Flush.
func (w *World) Enqueue(events ...*Event) {
	w.events.Enqueue(events...)
}

// Observe registers obs to be called after each flush of kind.
func (w *World) Observe(kind EventKind, obs Observer) {
	w.events.Observe(kind, obs)
}

// Events exposes the event manager for take/give and observer swaps.
func (w *World) Events() *EventManager {
	return w.events
}

// Flush executes every queued event and notifies observers. It panics with
// BorrowConflictError if a live borrow overlaps a storage the flush touches.
func (w *World) Flush() {
	w.events.Flush(w)
}

// Compact hard-deletes every pending-destroy entry in the entity storage and
// every component storage. Call it where no query holds borrows.
func (w *World) Compact() {
	removed := 0
	w.entities.with(borrowExclusive, func(s *EntityStorage) {
		before := s.Len()
		s.Update()
		removed = before - s.Len()
	})
	w.components.each(func(slot *guarded[storage]) {
		slot.with(borrowExclusive, func(s storage) {
			s.Update()
		})
	})
	w.logger.Debug("world compacted", zap.Int("entities", removed))
}

// Run calls each system in order.
func (w *World) Run(systems ...System) {
	for _, system := range systems {
		system(w)
	}
}

// Clear drops every entity, component value, archetype and queued event.
// Registrations, resources and observers are kept.
func (w *World) Clear() {
	w.entities.with(borrowExclusive, func(s *EntityStorage) {
		s.Clear()
	})
	w.archetypes.with(borrowExclusive, func(g *ArchetypeGraph) {
		g.Clear()
	})
	w.components.each(func(slot *guarded[storage]) {
		slot.with(borrowExclusive, func(s storage) {
			s.Clear()
		})
	})
	w.events.Clear(w.events.Observers())
	w.logger.Debug("world cleared")
}

// Close clears the world and releases its resources. Resources implementing
// io.Closer are closed in reverse registration order.
func (w *World) Close() error {
	w.Clear()
	w.events.Clear(nil)
	return w.resources.close()
}

func (w *World) Logger() *zap.Logger {
	return w.logger
}

// Alive reports whether id exists and is enabled.
func (w *World) Alive(id EntityID) bool {
	alive := false
	w.entities.with(borrowShared, func(s *EntityStorage) {
		alive = s.Alive(id)
	})
	return alive
}

// Entities borrows the entity storage shared.
func (w *World) Entities() *Ref[EntityStorage] {
	return newRef(&w.entities.guard, w.entities.value)
}

// Archetypes borrows the archetype graph shared.
func (w *World) Archetypes() *Ref[ArchetypeGraph] {
	return newRef(&w.archetypes.guard, w.archetypes.value)
}

// ArchetypesMut borrows the archetype graph exclusively.
func (w *World) ArchetypesMut() *RefMut[ArchetypeGraph] {
	return newRefMut(&w.archetypes.guard, w.archetypes.value)
}

// Resources returns the resource registry.
func (w *World) Resources() *ResourceManager {
	return w.resources
}

// Components returns the component registry.
func (w *World) Components() *ComponentManager {
	return w.components
}

func (w *World) createEntity(id EntityID) {
	w.entities.with(borrowExclusive, func(s *EntityStorage) {
		s.Insert(id)
	})
	w.archetypes.with(borrowExclusive, func(g *ArchetypeGraph) {
		g.CreateEntity(id)
	})
}

func (w *World) placed(id EntityID) bool {
	ok := false
	w.archetypes.with(borrowShared, func(g *ArchetypeGraph) {
		_, ok = g.entityIndex[id]
	})
	return ok
}

func (w *World) componentSlot(c Component) *guarded[storage] {
	return w.components.slot(c.Kind(), c.Name())
}

// destroyEntity marks id pending destroy and purges it from every storage
// its archetype names.
func (w *World) destroyEntity(id EntityID) {
	w.entities.with(borrowExclusive, func(s *EntityStorage) {
		s.Destroy(id)
	})
	var kinds []ComponentKind
	w.archetypes.with(borrowExclusive, func(g *ArchetypeGraph) {
		if a, ok := g.DestroyEntity(id); ok {
			kinds = a.kinds
		}
	})
	for _, kind := range kinds {
		w.components.slot(kind, "").with(borrowExclusive, func(s storage) {
			s.Remove(id)
		})
	}
}
