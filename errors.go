package depot

import "fmt"

// KindNotRegisteredError is raised (as a panic) when a component or resource
// kind is requested that the builder never registered.
type KindNotRegisteredError struct {
	What string
	Name string
	Kind uint64
}

func (e KindNotRegisteredError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s kind %#x is not registered", e.What, e.Kind)
	}
	return fmt.Sprintf("%s %s (%#x) is not registered", e.What, e.Name, e.Kind)
}

// BorrowConflictError is raised (as a panic) when a borrow overlaps an
// incompatible live borrow of the same storage or resource.
type BorrowConflictError struct {
	Target    string
	Held      string
	Requested string
}

func (e BorrowConflictError) Error() string {
	return fmt.Sprintf("%s is borrowed %s: cannot borrow it %s", e.Target, e.Held, e.Requested)
}

// ReleasedBorrowError is raised when a borrow is used after Release.
type ReleasedBorrowError struct {
	Target string
}

func (e ReleasedBorrowError) Error() string {
	return fmt.Sprintf("borrow of %s used after release", e.Target)
}

// UndeclaredFetchError is raised when a fetch descriptor is read from a query
// that did not declare it, or that has no current entity.
type UndeclaredFetchError struct {
	Component string
}

func (e UndeclaredFetchError) Error() string {
	return fmt.Sprintf("query has no current fetch for %s", e.Component)
}

// ComponentKindLimitError is raised when more component kinds are registered
// than an archetype mask can hold.
type ComponentKindLimitError struct {
	Max int
}

func (e ComponentKindLimitError) Error() string {
	return fmt.Sprintf("component kind limit reached (%d)", e.Max)
}

// CacheCapacityError is returned when a cache is full.
type CacheCapacityError struct {
	Capacity int
}

func (e CacheCapacityError) Error() string {
	return fmt.Sprintf("cache at maximum capacity (%d)", e.Capacity)
}
