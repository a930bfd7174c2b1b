/*
Package depot provides the entity/component/resource core of a real-time simulation engine.

Depot stores per-entity data grouped by the shape of data an entity currently has,
routes typed queries over that storage, and defers every structural change through
an event queue so iteration and mutation never alias.

Core Concepts:

  - Entity: An opaque 64-bit identifier, never reused.
  - Component: A data value attached to an entity, stored per kind.
  - Resource: A singleton value per kind (services, databases, timers).
  - Archetype: The exact set of component kinds a group of entities holds.
  - Event: A deferred command executed when the world is flushed.
  - Observer: A listener notified with the entity ids a flush touched.
  - Query: A sequence of per-entity fetch tuples over matching entities.

Every storage, resource and the archetype graph is guarded by its own
single-writer/multi-reader borrow. Conflicting borrows panic with
BorrowConflictError; asking for a kind that was never registered panics with
KindNotRegisteredError. Missing entities or components are never errors.

Basic Usage:

	position := depot.FactoryNewComponent[Position]()
	velocity := depot.FactoryNewComponent[Velocity]()

	world := depot.Factory.NewWorldBuilder().
		WithComponents(position, velocity).
		Build()

	world.Enqueue(depot.Spawn(position.With(Position{}), velocity.With(Velocity{X: 1})))
	world.Flush()

	pos, vel := depot.Write(position), depot.Read(velocity)
	query := depot.Factory.NewQuery(world, pos, vel)
	for query.Next() {
		p := pos.Get(query)
		v := vel.Get(query)
		p.X += v.X
		p.Y += v.Y
	}
*/
package depot
