package depot

import "iter"

type queryMode uint8

const (
	queryArchetypes queryMode = iota
	queryFiltered
	querySingle
)

// Query is a forward-only cursor over the entities matching its fetches.
// Matching is resolved lazily on the first Next. Borrows taken for the
// current tuple live until the next call to Next, Close, or the end of the
// sequence; a query cannot be restarted.
type Query struct {
	world      *World
	fetches    []Fetch
	mode       queryMode
	candidates []EntityID
	node       QueryNode

	initialized bool
	done        bool
	matched     []EntityID
	index       int
	current     EntityID
	held        []held
}

func newQuery(w *World, fetches []Fetch, mode queryMode, candidates []EntityID) *Query {
	for _, f := range fetches {
		if f.fetchAccess() != accessEntity {
			w.components.slot(f.fetchKind(), f.fetchName())
		}
	}
	return &Query{
		world:      w,
		fetches:    fetches,
		mode:       mode,
		candidates: candidates,
		held:       make([]held, 0, len(fetches)),
	}
}

// Where excludes archetypes rejected by node. It has no effect once
// iteration started.
func (q *Query) Where(node QueryNode) *Query {
	if !q.initialized {
		q.node = node
	}
	return q
}

// Next advances to the next matching entity, releasing the borrows of the
// previous one.
func (q *Query) Next() bool {
	q.release()
	if q.done {
		return false
	}
	q.initialize()
	for q.index < len(q.matched) {
		id := q.matched[q.index]
		bound := q.bind(id)
		q.index++
		if bound {
			q.current = id
			return true
		}
	}
	q.finish()
	return false
}

// Entities ranges over the query. Breaking out of the loop releases the
// current borrows and ends the query.
func (q *Query) Entities() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		defer q.Close()
		for q.Next() {
			if !yield(q.current) {
				return
			}
		}
	}
}

// Entity returns the current entity, or zero between tuples.
func (q *Query) Entity() EntityID {
	return q.current
}

// Close releases held borrows and ends the query.
func (q *Query) Close() {
	q.release()
	q.finish()
}

// Matched returns the number of candidates resolved for the query. Some may
// still be skipped when their components are disabled.
func (q *Query) Matched() int {
	q.initialize()
	return len(q.matched)
}

// Remaining returns the number of candidates not yet visited.
func (q *Query) Remaining() int {
	q.initialize()
	return len(q.matched) - q.index
}

func (q *Query) initialize() {
	if q.initialized {
		return
	}
	q.initialized = true

	var kinds []ComponentKind
	for _, f := range q.fetches {
		if f.required() {
			kinds = append(kinds, f.fetchKind())
		}
	}

	q.world.archetypes.with(borrowShared, func(g *ArchetypeGraph) {
		switch q.mode {
		case queryArchetypes:
			q.matched = g.entitiesMatching(kinds, q.node)
		case queryFiltered:
			q.matched = intersect(q.candidates, g.entitiesMatching(kinds, q.node))
		case querySingle:
			for _, id := range q.candidates {
				if q.node != nil {
					a, ok := g.ArchetypeOf(id)
					if !ok || !q.node.Evaluate(a, g) {
						continue
					}
				}
				q.matched = append(q.matched, id)
			}
		}
	})
}

// bind borrows every fetch for id. On any miss it releases what it took. A
// conflict panics before the cursor advances, so Next can retry the same
// entity once the conflicting borrow is gone.
func (q *Query) bind(id EntityID) bool {
	if !q.world.Alive(id) {
		return false
	}
	for _, f := range q.fetches {
		h, ok := f.acquire(q.world, id)
		if !ok {
			q.release()
			return false
		}
		q.held = append(q.held, h)
	}
	return true
}

func (q *Query) release() {
	for i := range q.held {
		q.held[i].release()
	}
	q.held = q.held[:0]
	q.current = 0
}

func (q *Query) finish() {
	q.done = true
	q.initialized = true
	q.matched = nil
	q.index = 0
}

func (q *Query) lookup(kind ComponentKind, acc access, name string) *held {
	if q.current != 0 {
		for i := range q.held {
			if q.held[i].kind == kind && q.held[i].access == acc {
				return &q.held[i]
			}
		}
	}
	panic(UndeclaredFetchError{Component: name})
}

// intersect keeps the candidates present in matched, in candidate order and
// without repeats.
func intersect(candidates, matched []EntityID) []EntityID {
	set := make(map[EntityID]struct{}, len(matched))
	for _, id := range matched {
		set[id] = struct{}{}
	}
	out := make([]EntityID, 0, len(candidates))
	for _, id := range candidates {
		if _, ok := set[id]; ok {
			out = append(out, id)
			delete(set, id)
		}
	}
	return out
}
