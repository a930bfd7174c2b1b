package depot

import (
	"slices"
	"testing"
)

func newHierarchyWorld() *World {
	return Factory.NewWorldBuilder().WithBuiltins().Build()
}

func TestAttachAndAncestors(t *testing.T) {
	w := newHierarchyWorld()
	root := spawn(w, TransformComponent.With(Transform{X: 10, Y: 10}))
	mid := spawn(w, TransformComponent.With(Transform{X: 1}))
	leaf := spawn(w, TransformComponent.With(Transform{Y: 1}))

	w.Enqueue(Attach(root, mid)...)
	w.Flush()
	w.Enqueue(Attach(mid, leaf)...)
	w.Flush()

	if got := Ancestors(w, leaf); !slices.Equal(got, []EntityID{mid, root}) {
		t.Errorf("Ancestors = %v, expected [%v %v]", got, mid, root)
	}
	if got := Ancestors(w, root); len(got) != 0 {
		t.Errorf("Root has ancestors %v", got)
	}

	children := Copied(ChildrenComponent)
	q := Factory.NewEntityQuery(w, root, children)
	if !q.Next() || !slices.Equal(children.Get(q).IDs, []EntityID{mid}) {
		t.Errorf("Root children not recorded")
	}
	q.Close()

	pos, ok := WorldPosition(w, leaf)
	if !ok || pos != (Transform{X: 11, Y: 11}) {
		t.Errorf("WorldPosition = %v, %v; expected {11 11}, true", pos, ok)
	}
}

func TestAttachTwice(t *testing.T) {
	w := newHierarchyWorld()
	parent, child := spawn(w), spawn(w)

	w.Enqueue(Attach(parent, child)...)
	w.Flush()
	w.Enqueue(Attach(parent, child)...)
	w.Flush()

	children := Copied(ChildrenComponent)
	q := Factory.NewEntityQuery(w, parent, children)
	defer q.Close()
	if !q.Next() || len(children.Get(q).IDs) != 1 {
		t.Errorf("Child recorded more than once")
	}
}

func childrenOf(t *testing.T, w *World, parent EntityID) []EntityID {
	t.Helper()
	children := Copied(ChildrenComponent)
	q := Factory.NewEntityQuery(w, parent, children)
	defer q.Close()
	if !q.Next() {
		return nil
	}
	return children.Get(q).IDs
}

func TestAttachInOneFlush(t *testing.T) {
	tests := []struct {
		name   string
		attach func(p1, p2, c1, c2 EntityID) [][]*Event
		expect func(p1, p2, c1, c2 EntityID) map[EntityID][]EntityID
		parent func(p1, p2 EntityID) EntityID
	}{
		{
			name: "Two children",
			attach: func(p1, p2, c1, c2 EntityID) [][]*Event {
				return [][]*Event{Attach(p1, c1), Attach(p1, c2)}
			},
			expect: func(p1, p2, c1, c2 EntityID) map[EntityID][]EntityID {
				return map[EntityID][]EntityID{p1: {c1, c2}, p2: nil}
			},
			parent: func(p1, p2 EntityID) EntityID { return p1 },
		},
		{
			name: "Reparent",
			attach: func(p1, p2, c1, c2 EntityID) [][]*Event {
				return [][]*Event{Attach(p1, c1), Attach(p1, c2), Attach(p2, c1)}
			},
			expect: func(p1, p2, c1, c2 EntityID) map[EntityID][]EntityID {
				return map[EntityID][]EntityID{p1: {c2}, p2: {c1}}
			},
			parent: func(p1, p2 EntityID) EntityID { return p2 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newHierarchyWorld()
			p1, p2, c1, c2 := spawn(w), spawn(w), spawn(w), spawn(w)
			for _, events := range tt.attach(p1, p2, c1, c2) {
				w.Enqueue(events...)
			}
			w.Flush()

			for parent, want := range tt.expect(p1, p2, c1, c2) {
				if got := childrenOf(t, w, parent); !slices.Equal(got, want) {
					t.Errorf("Children of %v = %v, expected %v", parent, got, want)
				}
			}
			if got := Ancestors(w, c1); !slices.Equal(got, []EntityID{tt.parent(p1, p2)}) {
				t.Errorf("Ancestors of c1 = %v", got)
			}
		})
	}
}

func TestReparentAcrossFlushes(t *testing.T) {
	w := newHierarchyWorld()
	p1, p2, child := spawn(w), spawn(w), spawn(w)
	w.Enqueue(Attach(p1, child)...)
	w.Flush()
	w.Enqueue(Attach(p2, child)...)
	w.Flush()

	if got := childrenOf(t, w, p1); len(got) != 0 {
		t.Errorf("Previous parent still lists %v", got)
	}
	if got := childrenOf(t, w, p2); !slices.Equal(got, []EntityID{child}) {
		t.Errorf("New parent lists %v", got)
	}
}

func TestAncestorsStopOnCycle(t *testing.T) {
	w := newHierarchyWorld()
	a, b := spawn(w), spawn(w)
	w.Enqueue(
		AddComponent(a, ParentComponent.With(Parent{ID: b})),
		AddComponent(b, ParentComponent.With(Parent{ID: a})),
	)
	w.Flush()

	if got := Ancestors(w, a); !slices.Equal(got, []EntityID{b}) {
		t.Errorf("Ancestors = %v, expected [%v]", got, b)
	}
}

func TestAncestorsStopAtDestroyedParent(t *testing.T) {
	w := newHierarchyWorld()
	parent, child := spawn(w), spawn(w)
	w.Enqueue(Attach(parent, child)...)
	w.Flush()
	w.Enqueue(DestroyEntity(parent))
	w.Flush()

	if got := Ancestors(w, child); len(got) != 0 {
		t.Errorf("Ancestors = %v after parent destroyed", got)
	}
}

func TestWorldPositionWithoutTransform(t *testing.T) {
	w := newHierarchyWorld()
	id := spawn(w)
	if _, ok := WorldPosition(w, id); ok {
		t.Errorf("WorldPosition reported a transform for a bare entity")
	}

	parent := spawn(w)
	child := spawn(w, TransformComponent.With(Transform{X: 2}))
	w.Enqueue(Attach(parent, child)...)
	w.Flush()
	if pos, ok := WorldPosition(w, child); !ok || pos.X != 2 {
		t.Errorf("WorldPosition = %v, %v; expected X=2", pos, ok)
	}
}
