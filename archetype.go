package depot

import (
	"iter"
	"slices"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
)

// Archetype groups the entities holding exactly the same component kinds.
type Archetype struct {
	id      ArchetypeID
	kinds   []ComponentKind // sorted
	mask    mask.Mask
	members *entitySet
	byKind  map[ComponentKind]*entitySet
	add     map[ComponentKind]ArchetypeID
	remove  map[ComponentKind]ArchetypeID
}

func newArchetype(id ArchetypeID, kinds []ComponentKind, m mask.Mask) *Archetype {
	a := &Archetype{
		id:      id,
		kinds:   kinds,
		mask:    m,
		members: newEntitySet(),
		byKind:  make(map[ComponentKind]*entitySet, len(kinds)),
		add:     make(map[ComponentKind]ArchetypeID),
		remove:  make(map[ComponentKind]ArchetypeID),
	}
	for _, kind := range kinds {
		a.byKind[kind] = newEntitySet()
	}
	return a
}

func (a *Archetype) ID() ArchetypeID {
	return a.id
}

// Kinds yields the archetype's type in sorted order.
func (a *Archetype) Kinds() iter.Seq[ComponentKind] {
	return slices.Values(a.kinds)
}

// Type returns a copy of the sorted kind list.
func (a *Archetype) Type() []ComponentKind {
	return iter_util.Collect(a.Kinds())
}

func (a *Archetype) Mask() mask.Mask {
	return a.mask
}

func (a *Archetype) Has(kind ComponentKind) bool {
	_, ok := a.byKind[kind]
	return ok
}

// Len returns the number of member entities.
func (a *Archetype) Len() int {
	return a.members.len()
}

func (a *Archetype) Contains(id EntityID) bool {
	return a.members.has(id)
}

func (a *Archetype) Entities() iter.Seq[EntityID] {
	return a.members.all()
}

// EntitiesFor yields the members recorded under kind.
func (a *Archetype) EntitiesFor(kind ComponentKind) iter.Seq[EntityID] {
	set, ok := a.byKind[kind]
	if !ok {
		return func(func(EntityID) bool) {}
	}
	return set.all()
}

// AddEdge returns the cached target for adding kind.
func (a *Archetype) AddEdge(kind ComponentKind) (ArchetypeID, bool) {
	id, ok := a.add[kind]
	return id, ok
}

// RemoveEdge returns the cached target for removing kind.
func (a *Archetype) RemoveEdge(kind ComponentKind) (ArchetypeID, bool) {
	id, ok := a.remove[kind]
	return id, ok
}

// transfer moves id's membership from a to dst, kind by kind.
func (a *Archetype) transfer(id EntityID, dst *Archetype) {
	for kind, set := range a.byKind {
		if set.remove(id) {
			if to, ok := dst.byKind[kind]; ok {
				to.insert(id)
			}
		}
	}
	a.members.remove(id)
	dst.members.insert(id)
}

func (a *Archetype) drop(id EntityID) {
	for _, set := range a.byKind {
		set.remove(id)
	}
	a.members.remove(id)
}

func withKind(kinds []ComponentKind, kind ComponentKind) []ComponentKind {
	out := make([]ComponentKind, 0, len(kinds)+1)
	out = append(out, kinds...)
	out = append(out, kind)
	slices.Sort(out)
	return out
}

func withoutKind(kinds []ComponentKind, kind ComponentKind) []ComponentKind {
	out := make([]ComponentKind, 0, len(kinds))
	for _, k := range kinds {
		if k != kind {
			out = append(out, k)
		}
	}
	return out
}
