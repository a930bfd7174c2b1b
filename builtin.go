package depot

import "slices"

// Parent links an entity to the entity it is attached to.
type Parent struct {
	ID EntityID
}

// Children lists the entities attached to an entity.
type Children struct {
	IDs []EntityID
}

// Transform is a 2D offset relative to the parent entity, if any.
type Transform struct {
	X, Y float64
}

var (
	ParentComponent    = FactoryNewComponent[Parent]()
	ChildrenComponent  = FactoryNewComponent[Children]()
	TransformComponent = FactoryNewComponent[Transform]()
)

// Attach returns the events that make child a child of parent. Both sides
// are resolved when the events execute: the child joins the parent's current
// Children, and leaves the Children of any previous parent, so several
// attaches can share one flush.
func Attach(parent, child EntityID) []*Event {
	link := AddComponent(child, ParentComponent.With(Parent{ID: parent}))
	link.before = func(w *World) {
		if previous, ok := parentOf(w, child); ok && previous != parent {
			detach(w, previous, child)
		}
	}
	adopt := AddComponent(parent, ChildrenComponent.With(Children{}))
	adopt.merge = func(current any) any {
		var ids []EntityID
		if c, ok := current.(*Children); ok {
			ids = slices.Clone(c.IDs)
		}
		if !slices.Contains(ids, child) {
			ids = append(ids, child)
		}
		return Children{IDs: ids}
	}
	return []*Event{link, adopt}
}

// parentOf reads the Parent of id whether or not it is enabled.
func parentOf(w *World, id EntityID) (EntityID, bool) {
	var parent EntityID
	w.componentSlot(ParentComponent).with(borrowShared, func(s storage) {
		if v, ok := s.peekAny(id); ok {
			parent = v.(*Parent).ID
		}
	})
	return parent, parent != 0
}

func detach(w *World, parent, child EntityID) {
	w.componentSlot(ChildrenComponent).with(borrowExclusive, func(s storage) {
		v, ok := s.peekAny(parent)
		if !ok {
			return
		}
		ids := slices.DeleteFunc(slices.Clone(v.(*Children).IDs), func(id EntityID) bool {
			return id == child
		})
		s.setAny(parent, Children{IDs: ids})
	})
}

// Ancestors returns the parent chain of id, nearest first. The walk stops at
// an entity without an enabled Parent, at a parent that is not alive, or on
// a cycle.
func Ancestors(w *World, id EntityID) []EntityID {
	parent := Copied(ParentComponent)
	seen := map[EntityID]struct{}{id: {}}
	var out []EntityID
	for current := id; ; {
		q := Factory.NewEntityQuery(w, current, parent)
		if !q.Next() {
			q.Close()
			return out
		}
		next := parent.Get(q).ID
		q.Close()
		if _, loop := seen[next]; loop || !w.Alive(next) {
			return out
		}
		seen[next] = struct{}{}
		out = append(out, next)
		current = next
	}
}

// WorldPosition composes the Transform of id with those of its ancestors.
// Ancestors without a Transform contribute nothing. It reports false when id
// has no enabled Transform.
func WorldPosition(w *World, id EntityID) (Transform, bool) {
	transform := Copied(TransformComponent)
	q := Factory.NewEntityQuery(w, id, transform)
	if !q.Next() {
		q.Close()
		return Transform{}, false
	}
	pos := transform.Get(q)
	q.Close()

	for _, ancestor := range Ancestors(w, id) {
		aq := Factory.NewEntityQuery(w, ancestor, Optional(transform))
		if aq.Next() {
			offset := transform.Get(aq)
			pos.X += offset.X
			pos.Y += offset.Y
		}
		aq.Close()
	}
	return pos, true
}
