package depot

import (
	"slices"
	"testing"

	"go.uber.org/zap"
)

func newTestGraph(components ...Component) *ArchetypeGraph {
	g := newArchetypeGraph(zap.NewNop())
	for _, c := range components {
		g.bind(c)
	}
	return g
}

// placeWith creates an entity and adds kinds in the given order.
func placeWith(g *ArchetypeGraph, components ...Component) EntityID {
	id := NewEntityID()
	g.CreateEntity(id)
	for _, c := range components {
		g.AddComponent(id, c.Kind())
	}
	return id
}

func archetypesHolding(g *ArchetypeGraph, id EntityID) int {
	n := 0
	for a := range g.Archetypes() {
		if a.Contains(id) {
			n++
		}
	}
	return n
}

func TestArchetypeExclusivity(t *testing.T) {
	g := newTestGraph(posComp, velComp, healthComp)

	ids := []EntityID{
		placeWith(g),
		placeWith(g, posComp),
		placeWith(g, posComp, velComp),
		placeWith(g, velComp, posComp, healthComp),
	}
	g.RemoveComponent(ids[3], posComp.Kind())
	g.AddComponent(ids[1], healthComp.Kind())
	g.RemoveComponent(ids[2], velComp.Kind())

	for _, id := range ids {
		if n := archetypesHolding(g, id); n != 1 {
			t.Errorf("Entity %v is in %d archetypes, expected 1", id, n)
		}
		a, ok := g.ArchetypeOf(id)
		if !ok || !a.Contains(id) {
			t.Errorf("Entity index disagrees with archetype membership for %v", id)
		}
	}
}

func TestArchetypeCreation(t *testing.T) {
	tests := []struct {
		name                string
		firstComponents     []Component
		secondComponents    []Component
		expectSameArchetype bool
	}{
		{
			name:                "Identical components",
			firstComponents:     []Component{posComp, velComp},
			secondComponents:    []Component{posComp, velComp},
			expectSameArchetype: true,
		},
		{
			name:                "Different order",
			firstComponents:     []Component{posComp, velComp},
			secondComponents:    []Component{velComp, posComp},
			expectSameArchetype: true,
		},
		{
			name:                "Different components",
			firstComponents:     []Component{posComp},
			secondComponents:    []Component{velComp},
			expectSameArchetype: false,
		},
		{
			name:                "Subset components",
			firstComponents:     []Component{posComp, velComp},
			secondComponents:    []Component{posComp},
			expectSameArchetype: false,
		},
		{
			name:                "Superset components",
			firstComponents:     []Component{posComp},
			secondComponents:    []Component{posComp, velComp, healthComp},
			expectSameArchetype: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph(posComp, velComp, healthComp)

			a1, _ := g.ArchetypeOf(placeWith(g, tt.firstComponents...))
			a2, _ := g.ArchetypeOf(placeWith(g, tt.secondComponents...))

			if same := a1.ID() == a2.ID(); same != tt.expectSameArchetype {
				t.Errorf("Archetypes same: %v, expected: %v", same, tt.expectSameArchetype)
			}
		})
	}
}

func TestAddRemoveInverse(t *testing.T) {
	tests := []struct {
		name  string
		start []Component
		added Component
	}{
		{name: "From empty", start: nil, added: posComp},
		{name: "From single", start: []Component{velComp}, added: posComp},
		{name: "From pair", start: []Component{velComp, healthComp}, added: posComp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph(posComp, velComp, healthComp)
			id := placeWith(g, tt.start...)
			before, _ := g.ArchetypeOf(id)

			if !g.AddComponent(id, tt.added.Kind()) {
				t.Fatalf("AddComponent reported no change")
			}
			if !g.RemoveComponent(id, tt.added.Kind()) {
				t.Fatalf("RemoveComponent reported no change")
			}

			after, _ := g.ArchetypeOf(id)
			if after != before {
				t.Errorf("Returned to archetype %d, expected %d", after.ID(), before.ID())
			}
			if !slices.Equal(after.Type(), before.Type()) {
				t.Errorf("Type %v, expected %v", after.Type(), before.Type())
			}
		})
	}
}

func TestEdgeCaching(t *testing.T) {
	g := newTestGraph(posComp, velComp)
	a := placeWith(g, posComp)
	b := placeWith(g, posComp)
	src, _ := g.ArchetypeOf(a)

	g.AddComponent(a, velComp.Kind())
	count := g.Len()
	g.AddComponent(b, velComp.Kind())

	dstA, _ := g.ArchetypeOf(a)
	dstB, _ := g.ArchetypeOf(b)
	if dstA != dstB {
		t.Errorf("Entities from the same archetype landed in %d and %d", dstA.ID(), dstB.ID())
	}
	if g.Len() != count {
		t.Errorf("Second add created an archetype: %d -> %d", count, g.Len())
	}
	if to, ok := src.AddEdge(velComp.Kind()); !ok || to != dstA.ID() {
		t.Errorf("Add edge = %d, %v; expected %d", to, ok, dstA.ID())
	}
	if back, ok := dstA.RemoveEdge(velComp.Kind()); !ok || back != src.ID() {
		t.Errorf("Remove edge = %d, %v; expected %d", back, ok, src.ID())
	}
}

func TestArchetypePerKindMembership(t *testing.T) {
	g := newTestGraph(posComp, velComp)
	id := placeWith(g, posComp, velComp)
	a, _ := g.ArchetypeOf(id)

	for _, c := range []Component{posComp, velComp} {
		if !slices.Contains(slices.Collect(a.EntitiesFor(c.Kind())), id) {
			t.Errorf("Entity missing from %s set", c.Name())
		}
	}
	if n := len(slices.Collect(a.EntitiesFor(healthComp.Kind()))); n != 0 {
		t.Errorf("Archetype yielded %d entities for a kind it lacks", n)
	}
}

func TestEntitiesWith(t *testing.T) {
	g := newTestGraph(posComp, velComp, healthComp)
	e1 := placeWith(g, posComp)
	e2 := placeWith(g, posComp, velComp)
	e3 := placeWith(g, velComp, posComp)
	e4 := placeWith(g, velComp, healthComp)
	e5 := placeWith(g)

	tests := []struct {
		name     string
		kinds    []ComponentKind
		expected []EntityID
	}{
		{name: "Single kind", kinds: []ComponentKind{posComp.Kind()}, expected: []EntityID{e1, e2, e3}},
		{name: "Exact pair", kinds: []ComponentKind{posComp.Kind(), velComp.Kind()}, expected: []EntityID{e2, e3}},
		{name: "Pair reversed", kinds: []ComponentKind{velComp.Kind(), posComp.Kind()}, expected: []EntityID{e2, e3}},
		{name: "No match", kinds: []ComponentKind{posComp.Kind(), healthComp.Kind()}, expected: nil},
		{name: "Shared kind", kinds: []ComponentKind{velComp.Kind()}, expected: []EntityID{e2, e3, e4}},
		{name: "No exact archetype", kinds: []ComponentKind{healthComp.Kind()}, expected: []EntityID{e4}},
		{name: "Everything", kinds: nil, expected: []EntityID{e1, e2, e3, e4, e5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.EntitiesWith(tt.kinds...)
			if !sameIDs(got, tt.expected) {
				t.Errorf("EntitiesWith = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestEntitiesWithNoDuplicates(t *testing.T) {
	g := newTestGraph(posComp, velComp, healthComp)
	// Two insertion paths into {pos, vel, health} make a diamond.
	placeWith(g, posComp, velComp, healthComp)
	placeWith(g, posComp, healthComp, velComp)

	got := g.EntitiesWith(posComp.Kind())
	if len(got) != 2 {
		t.Errorf("EntitiesWith returned %d ids, expected 2: %v", len(got), got)
	}
}

func TestArchetypeTransitionsIgnored(t *testing.T) {
	g := newTestGraph(posComp, velComp)
	id := placeWith(g, posComp)

	if g.AddComponent(id, posComp.Kind()) {
		t.Errorf("Adding a held kind reported a change")
	}
	if g.RemoveComponent(id, velComp.Kind()) {
		t.Errorf("Removing a missing kind reported a change")
	}
	if g.AddComponent(NewEntityID(), posComp.Kind()) {
		t.Errorf("Adding to an unknown entity reported a change")
	}
}

func TestArchetypeUnboundKind(t *testing.T) {
	g := newTestGraph(posComp)
	id := placeWith(g, posComp)

	expectPanic[KindNotRegisteredError](t, func() { g.AddComponent(id, velComp.Kind()) })
}

func TestDestroyEntity(t *testing.T) {
	g := newTestGraph(posComp, velComp)
	id := placeWith(g, posComp, velComp)

	a, ok := g.DestroyEntity(id)
	if !ok {
		t.Fatalf("DestroyEntity found nothing")
	}
	if !slices.Equal(a.Type(), mustLookup(t, g, posComp, velComp).Type()) {
		t.Errorf("Returned archetype has type %v", a.Type())
	}
	if a.Contains(id) {
		t.Errorf("Entity still a member after destroy")
	}
	if _, ok := g.ArchetypeOf(id); ok {
		t.Errorf("Entity still indexed after destroy")
	}
	if _, ok := g.DestroyEntity(id); ok {
		t.Errorf("Second destroy found the entity")
	}
}

func mustLookup(t *testing.T, g *ArchetypeGraph, components ...Component) *Archetype {
	t.Helper()
	kinds := make([]ComponentKind, len(components))
	for i, c := range components {
		kinds[i] = c.Kind()
	}
	a, ok := g.Lookup(kinds...)
	if !ok {
		t.Fatalf("No archetype for %v", kinds)
	}
	return a
}

func TestArchetypeGraphClear(t *testing.T) {
	g := newTestGraph(posComp)
	id := placeWith(g, posComp)
	g.Clear()

	if g.Len() != 0 {
		t.Errorf("Len = %d after clear", g.Len())
	}
	if _, ok := g.ArchetypeOf(id); ok {
		t.Errorf("Entity still indexed after clear")
	}

	// Kinds stay bound.
	again := placeWith(g, posComp)
	if got := g.EntitiesWith(posComp.Kind()); !sameIDs(got, []EntityID{again}) {
		t.Errorf("EntitiesWith after clear = %v", got)
	}
}
