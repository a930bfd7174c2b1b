package depot

import "iter"

var _ Cache[string, any] = &SimpleCache[string, any]{}

// SimpleCache is an insertion-ordered keyed slice. A capacity of zero or less
// means unbounded.
type SimpleCache[K comparable, T any] struct {
	keys        []K
	items       []T
	itemIndices map[K]int
	maxCapacity int
}

func (c *SimpleCache[K, T]) GetIndex(key K) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[K, T]) GetItem(index int) *T {
	return &c.items[index]
}

func (c *SimpleCache[K, T]) GetItem32(index uint32) *T {
	return &c.items[index]
}

// Register stores item under key and returns its index. Re-registering a key
// replaces the item in place.
func (c *SimpleCache[K, T]) Register(key K, item T) (int, error) {
	if idx, ok := c.itemIndices[key]; ok {
		c.items[idx] = item
		return idx, nil
	}
	if c.maxCapacity > 0 && len(c.itemIndices) >= c.maxCapacity {
		return -1, CacheCapacityError{Capacity: c.maxCapacity}
	}

	idx := len(c.items)
	c.itemIndices[key] = idx
	c.keys = append(c.keys, key)
	c.items = append(c.items, item)

	return idx, nil
}

func (c *SimpleCache[K, T]) Len() int {
	return len(c.items)
}

// All yields items in registration order.
func (c *SimpleCache[K, T]) All() iter.Seq2[K, *T] {
	return func(yield func(K, *T) bool) {
		for i := range c.items {
			if !yield(c.keys[i], &c.items[i]) {
				return
			}
		}
	}
}

func (c *SimpleCache[K, T]) Clear() {
	c.keys = nil
	c.items = nil
	c.itemIndices = make(map[K]int)
}
