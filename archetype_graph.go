package depot

import (
	"iter"
	"slices"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"go.uber.org/zap"
)

// ArchetypeGraph indexes entities by the exact set of component kinds they
// hold. Archetypes live in an arena and refer to each other by index through
// cached add/remove edges. The graph only grows until Clear.
type ArchetypeGraph struct {
	schema      table.Schema
	bits        map[ComponentKind]uint32
	arena       []*Archetype
	byMask      map[mask.Mask]ArchetypeID
	byKind      map[ComponentKind][]ArchetypeID
	entityIndex map[EntityID]ArchetypeID
	logger      *zap.Logger
}

func newArchetypeGraph(logger *zap.Logger) *ArchetypeGraph {
	return &ArchetypeGraph{
		schema:      table.Factory.NewSchema(),
		bits:        make(map[ComponentKind]uint32),
		byMask:      make(map[mask.Mask]ArchetypeID),
		byKind:      make(map[ComponentKind][]ArchetypeID),
		entityIndex: make(map[EntityID]ArchetypeID),
		logger:      logger,
	}
}

// bind gives c a bit in archetype masks.
func (g *ArchetypeGraph) bind(c Component) {
	if _, ok := g.bits[c.Kind()]; ok {
		return
	}
	et := c.elementType()
	g.schema.Register(et)
	bit := g.schema.RowIndexFor(et)
	if bit >= MaxComponentKinds {
		panic(ComponentKindLimitError{Max: MaxComponentKinds})
	}
	g.bits[c.Kind()] = bit
}

func (g *ArchetypeGraph) bit(kind ComponentKind) uint32 {
	bit, ok := g.bits[kind]
	if !ok {
		panic(KindNotRegisteredError{What: "component", Kind: uint64(kind)})
	}
	return bit
}

// MaskOf returns the mask of kinds, or false if any kind is unknown.
func (g *ArchetypeGraph) MaskOf(kinds ...ComponentKind) (mask.Mask, bool) {
	var m mask.Mask
	for _, kind := range kinds {
		bit, ok := g.bits[kind]
		if !ok {
			return m, false
		}
		m.Mark(bit)
	}
	return m, true
}

func (g *ArchetypeGraph) get(id ArchetypeID) *Archetype {
	return g.arena[id-1]
}

// Archetype returns the archetype with id.
func (g *ArchetypeGraph) Archetype(id ArchetypeID) (*Archetype, bool) {
	if id == 0 || int(id) > len(g.arena) {
		return nil, false
	}
	return g.get(id), true
}

// ArchetypeOf returns the archetype id currently holds.
func (g *ArchetypeGraph) ArchetypeOf(id EntityID) (*Archetype, bool) {
	aid, ok := g.entityIndex[id]
	if !ok {
		return nil, false
	}
	return g.get(aid), true
}

// Lookup returns the archetype whose type is exactly kinds, in any order.
func (g *ArchetypeGraph) Lookup(kinds ...ComponentKind) (*Archetype, bool) {
	m, ok := g.MaskOf(kinds...)
	if !ok {
		return nil, false
	}
	return g.lookup(m)
}

func (g *ArchetypeGraph) lookup(m mask.Mask) (*Archetype, bool) {
	id, ok := g.byMask[m]
	if !ok {
		return nil, false
	}
	return g.get(id), true
}

// Len returns the number of archetypes.
func (g *ArchetypeGraph) Len() int {
	return len(g.arena)
}

// Archetypes yields archetypes in creation order.
func (g *ArchetypeGraph) Archetypes() iter.Seq[*Archetype] {
	return slices.Values(g.arena)
}

func (g *ArchetypeGraph) create(kinds []ComponentKind, m mask.Mask) *Archetype {
	id := ArchetypeID(len(g.arena) + 1)
	a := newArchetype(id, kinds, m)
	g.arena = append(g.arena, a)
	g.byMask[m] = id
	for _, kind := range kinds {
		g.byKind[kind] = append(g.byKind[kind], id)
	}
	g.logger.Debug("archetype created",
		zap.Uint64("archetype", uint64(id)),
		zap.Int("kinds", len(kinds)),
	)
	return a
}

func (g *ArchetypeGraph) root() *Archetype {
	var empty mask.Mask
	if a, ok := g.lookup(empty); ok {
		return a
	}
	return g.create(nil, empty)
}

// link caches the add edge from -> to and the matching remove edge back.
func link(from *Archetype, kind ComponentKind, to *Archetype) {
	from.add[kind] = to.id
	to.remove[kind] = from.id
}

// CreateEntity places id in the empty archetype. It is a no-op if id is
// already placed.
func (g *ArchetypeGraph) CreateEntity(id EntityID) {
	if _, ok := g.entityIndex[id]; ok {
		return
	}
	root := g.root()
	root.members.insert(id)
	g.entityIndex[id] = root.id
}

// AddComponent moves id to the archetype with kind added. It reports false
// when id is unknown or already has kind.
func (g *ArchetypeGraph) AddComponent(id EntityID, kind ComponentKind) bool {
	src, ok := g.ArchetypeOf(id)
	if !ok || src.Has(kind) {
		return false
	}
	dst := g.resolveAdd(src, kind)
	src.transfer(id, dst)
	dst.byKind[kind].insert(id)
	g.entityIndex[id] = dst.id
	return true
}

func (g *ArchetypeGraph) resolveAdd(src *Archetype, kind ComponentKind) *Archetype {
	if to, ok := src.add[kind]; ok {
		return g.get(to)
	}
	target := src.mask
	target.Mark(g.bit(kind))
	dst, ok := g.lookup(target)
	if !ok {
		dst = g.create(withKind(src.kinds, kind), target)
	}
	link(src, kind, dst)
	return dst
}

// RemoveComponent moves id to the archetype with kind removed. It reports
// false when id is unknown or lacks kind.
func (g *ArchetypeGraph) RemoveComponent(id EntityID, kind ComponentKind) bool {
	src, ok := g.ArchetypeOf(id)
	if !ok || !src.Has(kind) {
		return false
	}
	dst := g.resolveRemove(src, kind)
	src.transfer(id, dst)
	g.entityIndex[id] = dst.id
	return true
}

func (g *ArchetypeGraph) resolveRemove(src *Archetype, kind ComponentKind) *Archetype {
	if to, ok := src.remove[kind]; ok {
		return g.get(to)
	}
	target := src.mask
	target.Unmark(g.bit(kind))
	dst, ok := g.lookup(target)
	if !ok {
		dst = g.create(withoutKind(src.kinds, kind), target)
	}
	link(dst, kind, src)
	return dst
}

// DestroyEntity drops id from the graph and returns the archetype it was in,
// so the caller can purge every storage named by the archetype's type.
func (g *ArchetypeGraph) DestroyEntity(id EntityID) (*Archetype, bool) {
	a, ok := g.ArchetypeOf(id)
	if !ok {
		return nil, false
	}
	a.drop(id)
	delete(g.entityIndex, id)
	return a, true
}

// EntitiesWith returns the entities holding at least kinds.
func (g *ArchetypeGraph) EntitiesWith(kinds ...ComponentKind) []EntityID {
	return g.entitiesMatching(kinds, nil)
}

// entitiesMatching starts at the archetype whose type is exactly kinds and
// collects it and every archetype reachable through add edges. Supersets
// that were assembled along another path are found through the per-kind
// index. Archetypes rejected by node are skipped.
func (g *ArchetypeGraph) entitiesMatching(kinds []ComponentKind, node QueryNode) []EntityID {
	sorted := slices.Compact(slices.Sorted(slices.Values(kinds)))
	m, ok := g.MaskOf(sorted...)
	if !ok {
		return nil
	}

	visited := make(map[ArchetypeID]struct{})
	var ids []EntityID
	collect := func(a *Archetype) {
		if node == nil || node.Evaluate(a, g) {
			ids = append(ids, a.members.ids...)
		}
	}

	if start, ok := g.lookup(m); ok {
		g.walk(start, visited, collect)
	}
	for _, aid := range g.candidates(sorted) {
		if _, seen := visited[aid]; seen {
			continue
		}
		a := g.get(aid)
		if !a.mask.ContainsAll(m) {
			continue
		}
		visited[aid] = struct{}{}
		collect(a)
	}
	return ids
}

func (g *ArchetypeGraph) walk(a *Archetype, visited map[ArchetypeID]struct{}, collect func(*Archetype)) {
	if _, seen := visited[a.id]; seen {
		return
	}
	visited[a.id] = struct{}{}
	collect(a)
	for _, to := range a.add {
		g.walk(g.get(to), visited, collect)
	}
}

// candidates returns the archetypes holding the rarest of kinds.
func (g *ArchetypeGraph) candidates(kinds []ComponentKind) []ArchetypeID {
	if len(kinds) == 0 {
		all := make([]ArchetypeID, len(g.arena))
		for i := range g.arena {
			all[i] = ArchetypeID(i + 1)
		}
		return all
	}
	best := g.byKind[kinds[0]]
	for _, kind := range kinds[1:] {
		if ids := g.byKind[kind]; len(ids) < len(best) {
			best = ids
		}
	}
	return best
}

// Clear drops every archetype and placement. Kind bits are kept.
func (g *ArchetypeGraph) Clear() {
	g.arena = nil
	clear(g.byMask)
	clear(g.byKind)
	clear(g.entityIndex)
}
