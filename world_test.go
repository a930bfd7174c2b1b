package depot

import (
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWorldBuilderRegistration(t *testing.T) {
	w := Factory.NewWorldBuilder().
		WithComponents(posComp, velComp, posComp).
		WithCapacity(8).
		Build()

	if w.Components().Len() != 2 {
		t.Errorf("Registered %d kinds, expected 2", w.Components().Len())
	}
	kinds := slices.Collect(w.Components().Kinds())
	if !slices.Equal(kinds, []ComponentKind{posComp.Kind(), velComp.Kind()}) {
		t.Errorf("Kinds = %v", kinds)
	}
	if !w.Components().Registered(velComp.Kind()) || w.Components().Registered(healthComp.Kind()) {
		t.Errorf("Registered reports the wrong kinds")
	}
}

func TestWorldRun(t *testing.T) {
	w := newTestWorld()
	var order []string
	w.Run(
		func(w *World) {
			order = append(order, "spawn")
			w.Enqueue(Spawn(posComp.With(Position{})))
		},
		func(w *World) {
			order = append(order, "flush")
			w.Flush()
		},
		func(w *World) {
			order = append(order, "count")
			if n := len(positions(w)); n != 1 {
				t.Errorf("Counted %d entities, expected 1", n)
			}
		},
	)
	if !slices.Equal(order, []string{"spawn", "flush", "count"}) {
		t.Errorf("Systems ran in order %v", order)
	}
}

func TestWorldCompact(t *testing.T) {
	w := newTestWorld()
	a := spawn(w, posComp.With(Position{}), velComp.With(Velocity{}))
	b := spawn(w, posComp.With(Position{}), velComp.With(Velocity{}))

	w.Enqueue(DestroyEntity(a), RemoveComponent(b, velComp))
	w.Flush()
	w.Compact()

	entities := w.Entities()
	if entities.Get().Len() != 1 || !entities.Get().Contains(b) {
		t.Errorf("Entity storage after compaction holds %d ids", entities.Get().Len())
	}
	entities.Release()

	vel := Components(w, velComp)
	defer vel.Release()
	if vel.Get().Len() != 0 {
		t.Errorf("Velocity storage holds %d values after compaction", vel.Get().Len())
	}
}

func TestWorldClear(t *testing.T) {
	w := newTestWorld()
	calls := 0
	w.Observe(EventSpawn, func([]EntityID, *World) { calls++ })
	spawn(w, posComp.With(Position{}))
	w.Enqueue(Spawn(posComp.With(Position{})))

	w.Clear()

	if w.Events().Pending() != 0 {
		t.Errorf("Queued events survived Clear")
	}
	if n := len(positions(w)); n != 0 {
		t.Errorf("%d entities survived Clear", n)
	}

	// Registrations and observers are kept.
	id := spawn(w, posComp.With(Position{X: 1}))
	if got := positions(w); !sameIDs(got, []EntityID{id}) {
		t.Errorf("Query after Clear = %v", got)
	}
	if calls != 2 {
		t.Errorf("Observer called %d times, expected 2", calls)
	}
}

func TestWorldArchetypeBorrow(t *testing.T) {
	w := newTestWorld()
	graph := w.ArchetypesMut()
	w.Enqueue(Spawn())
	expectPanic[BorrowConflictError](t, func() { w.Flush() })
	graph.Release()
}

func TestWorldLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	w := Factory.NewWorldBuilder().
		WithComponents(posComp).
		WithLogger(zap.New(core)).
		Build()

	spawn(w, posComp.With(Position{}))
	w.Enqueue(UpdateComponent(NewEntityID(), posComp.With(Position{})))
	w.Flush()

	if n := logs.FilterMessage("events flushed").Len(); n != 2 {
		t.Errorf("Logged %d flush batches, expected 2", n)
	}
	if n := logs.FilterMessage("event skipped: entity not found").Len(); n != 1 {
		t.Errorf("Logged %d skipped events, expected 1", n)
	}
	if logs.FilterMessage("archetype created").Len() == 0 {
		t.Errorf("Archetype creation not logged")
	}
}

func TestUpdateAfterRemoveSkipped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	w := Factory.NewWorldBuilder().
		WithComponents(posComp).
		WithLogger(zap.New(core)).
		Build()

	id := spawn(w, posComp.With(Position{X: 1}))
	w.Enqueue(RemoveComponent(id, posComp))
	w.Flush()
	w.Enqueue(UpdateComponent(id, posComp.With(Position{X: 9})))
	w.Flush()

	if n := logs.FilterMessage("event skipped: entity not found").Len(); n != 1 {
		t.Errorf("Logged %d skipped events, expected 1", n)
	}
	store := Components(w, posComp)
	defer store.Release()
	for got, p := range store.Get().All() {
		if got == id && p.X != 1 {
			t.Errorf("Update wrote %v into a removed component", *p)
		}
	}
	if slices.Collect(store.Get().PendingDestroy()) == nil {
		t.Errorf("Removed component no longer pending destroy")
	}
}

func TestGlobalConfig(t *testing.T) {
	prev := Config.logger
	defer Config.SetLogger(prev)

	core, logs := observer.New(zap.DebugLevel)
	Config.SetLogger(zap.New(core))
	newTestWorld()
	if logs.FilterMessage("world built").Len() != 1 {
		t.Errorf("Builder ignored the global logger")
	}

	Config.SetLogger(nil)
	if Config.logger == nil {
		t.Errorf("SetLogger(nil) left no logger")
	}
}
