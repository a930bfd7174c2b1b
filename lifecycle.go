package depot

import "iter"

type entryState uint8

const (
	stateEnabled entryState = iota + 1
	stateDisabled
	statePendingDestroy
)

// lifecycle tracks, per id, exactly one of enabled, disabled or
// pending-destroy. An id with no entry is absent.
type lifecycle struct {
	states  map[EntityID]entryState
	pending []EntityID
}

func newLifecycle(capacity int) lifecycle {
	return lifecycle{states: make(map[EntityID]entryState, capacity)}
}

// track marks id enabled, reviving it if it was pending destroy.
func (l *lifecycle) track(id EntityID) {
	l.states[id] = stateEnabled
}

func (l *lifecycle) tracked(id EntityID) bool {
	_, ok := l.states[id]
	return ok
}

func (l *lifecycle) visible(id EntityID) bool {
	return l.states[id] == stateEnabled
}

// live reports whether id is enabled or disabled.
func (l *lifecycle) live(id EntityID) bool {
	s := l.states[id]
	return s == stateEnabled || s == stateDisabled
}

func (l *lifecycle) Enable(id EntityID) {
	if s, ok := l.states[id]; ok && s != statePendingDestroy {
		l.states[id] = stateEnabled
	}
}

func (l *lifecycle) Disable(id EntityID) {
	if s, ok := l.states[id]; ok && s != statePendingDestroy {
		l.states[id] = stateDisabled
	}
}

func (l *lifecycle) Destroy(id EntityID) {
	if s, ok := l.states[id]; ok && s != statePendingDestroy {
		l.states[id] = statePendingDestroy
		l.pending = append(l.pending, id)
	}
}

func (l *lifecycle) forget(id EntityID) {
	delete(l.states, id)
}

// drain returns the ids still pending destroy and forgets them.
func (l *lifecycle) drain() []EntityID {
	var out []EntityID
	for _, id := range l.pending {
		if l.states[id] == statePendingDestroy {
			delete(l.states, id)
			out = append(out, id)
		}
	}
	l.pending = l.pending[:0]
	return out
}

func (l *lifecycle) reset() {
	clear(l.states)
	l.pending = l.pending[:0]
}

func (l *lifecycle) in(state entryState) iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for id, s := range l.states {
			if s == state && !yield(id) {
				return
			}
		}
	}
}

// Enabled yields ids in the enabled state.
func (l *lifecycle) Enabled() iter.Seq[EntityID] { return l.in(stateEnabled) }

// Disabled yields ids in the disabled state.
func (l *lifecycle) Disabled() iter.Seq[EntityID] { return l.in(stateDisabled) }

// PendingDestroy yields ids waiting for the next Update.
func (l *lifecycle) PendingDestroy() iter.Seq[EntityID] { return l.in(statePendingDestroy) }
