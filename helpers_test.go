package depot

import (
	"errors"
	"slices"
	"testing"
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

type Health struct {
	Value int
}

var (
	posComp    = FactoryNewComponent[Position]()
	velComp    = FactoryNewComponent[Velocity]()
	healthComp = FactoryNewComponent[Health]()
)

func newTestWorld() *World {
	return Factory.NewWorldBuilder().
		WithComponents(posComp, velComp, healthComp).
		Build()
}

// spawn creates an entity and flushes so it is visible immediately.
func spawn(w *World, values ...ComponentValue) EntityID {
	e := Spawn(values...)
	w.Enqueue(e)
	w.Flush()
	return e.Entity()
}

func collect(q *Query) []EntityID {
	return slices.Collect(q.Entities())
}

// sameIDs compares id lists ignoring order.
func sameIDs(got, want []EntityID) bool {
	a := slices.Sorted(slices.Values(got))
	b := slices.Sorted(slices.Values(want))
	return slices.Equal(a, b)
}

// expectPanic runs fn and returns the error it panicked with. It fails the
// test when fn returns normally or panics with something else.
func expectPanic[E error](t *testing.T, fn func()) (err E) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %T, got none", err)
		}
		e, ok := r.(error)
		if !ok || !errors.As(e, &err) {
			t.Fatalf("expected panic with %T, got %v", err, r)
		}
	}()
	fn()
	return err
}
