package depot

type factory struct{}

// Factory groups the package's non-generic constructors.
var Factory factory

func (f factory) NewWorldBuilder() *WorldBuilder {
	return newWorldBuilder()
}

// NewQuery iterates every entity holding the kinds of the non-optional fetches.
func (f factory) NewQuery(w *World, fetches ...Fetch) *Query {
	return newQuery(w, fetches, queryArchetypes, nil)
}

// NewFilteredQuery is NewQuery restricted to candidates.
func (f factory) NewFilteredQuery(w *World, candidates []EntityID, fetches ...Fetch) *Query {
	return newQuery(w, fetches, queryFiltered, candidates)
}

// NewEntityQuery tests the single entity id, bypassing archetype lookup.
func (f factory) NewEntityQuery(w *World, id EntityID, fetches ...Fetch) *Query {
	return newQuery(w, fetches, querySingle, []EntityID{id})
}

// NewFilter returns an empty archetype filter.
func (f factory) NewFilter() Filter {
	return newFilter()
}

func (f factory) NewObservers() *Observers {
	return NewObservers()
}

// FactoryNewComponent returns the descriptor of component kind T. T must be a
// concrete, non-pointer type: its values live in table rows.
func FactoryNewComponent[T any]() ComponentType[T] {
	return newComponentType[T]()
}

// FactoryNewResource wraps v for WorldBuilder.WithResources.
func FactoryNewResource[T any](v T) Resource {
	return NewResource(v)
}

// FactoryNewCache returns a cache holding at most capacity items, or any
// number when capacity is zero or less.
func FactoryNewCache[K comparable, T any](capacity int) Cache[K, T] {
	return &SimpleCache[K, T]{
		itemIndices: make(map[K]int),
		maxCapacity: capacity,
	}
}
