package depot

type borrowMode uint8

const (
	borrowShared borrowMode = iota + 1
	borrowExclusive
)

func (m borrowMode) String() string {
	switch m {
	case borrowShared:
		return "shared"
	case borrowExclusive:
		return "exclusive"
	}
	return "unborrowed"
}

// guard is a single-writer/multi-reader flag. It never blocks: a conflicting
// request panics at the moment it is made.
type guard struct {
	name    string
	readers int
	writing bool
}

func (g *guard) acquire(mode borrowMode) {
	switch mode {
	case borrowShared:
		if g.writing {
			panic(BorrowConflictError{Target: g.name, Held: borrowExclusive.String(), Requested: mode.String()})
		}
		g.readers++
	case borrowExclusive:
		if g.writing {
			panic(BorrowConflictError{Target: g.name, Held: borrowExclusive.String(), Requested: mode.String()})
		}
		if g.readers > 0 {
			panic(BorrowConflictError{Target: g.name, Held: borrowShared.String(), Requested: mode.String()})
		}
		g.writing = true
	}
}

func (g *guard) release(mode borrowMode) {
	switch mode {
	case borrowShared:
		if g.readers > 0 {
			g.readers--
		}
	case borrowExclusive:
		g.writing = false
	}
}

// Borrowed reports whether any borrow is live.
func (g *guard) borrowed() bool {
	return g.writing || g.readers > 0
}

// guarded pairs a value with its guard.
type guarded[T any] struct {
	guard guard
	value T
}

func newGuarded[T any](name string, value T) *guarded[T] {
	return &guarded[T]{guard: guard{name: name}, value: value}
}

func (g *guarded[T]) with(mode borrowMode, fn func(T)) {
	g.guard.acquire(mode)
	defer g.guard.release(mode)
	fn(g.value)
}

type borrowed[T any] struct {
	value    *T
	guard    *guard
	mode     borrowMode
	released bool
}

// Get returns the borrowed value. It panics after Release.
func (b *borrowed[T]) Get() *T {
	if b.released {
		panic(ReleasedBorrowError{Target: b.guard.name})
	}
	return b.value
}

// Release ends the borrow. Calling it more than once is harmless.
func (b *borrowed[T]) Release() {
	if b.released {
		return
	}
	b.released = true
	b.guard.release(b.mode)
}

// Ref is a shared borrow. Any number of Refs to the same value may be live.
type Ref[T any] struct {
	borrowed[T]
}

// RefMut is an exclusive borrow. No other borrow of the value may be live.
type RefMut[T any] struct {
	borrowed[T]
}

func newRef[T any](g *guard, value *T) *Ref[T] {
	g.acquire(borrowShared)
	return &Ref[T]{borrowed[T]{value: value, guard: g, mode: borrowShared}}
}

func newRefMut[T any](g *guard, value *T) *RefMut[T] {
	g.acquire(borrowExclusive)
	return &RefMut[T]{borrowed[T]{value: value, guard: g, mode: borrowExclusive}}
}
