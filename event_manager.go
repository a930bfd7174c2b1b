package depot

import "go.uber.org/zap"

// Observers holds listeners per event kind.
type Observers struct {
	byKind [eventKindCount][]Observer
}

func NewObservers() *Observers {
	return &Observers{}
}

// Observe registers obs for kind. Observers run in registration order.
func (o *Observers) Observe(kind EventKind, obs Observer) {
	o.byKind[kind] = append(o.byKind[kind], obs)
}

// Len returns the number of observers for kind.
func (o *Observers) Len(kind EventKind) int {
	return len(o.byKind[kind])
}

func (o *Observers) Clear() {
	o.byKind = [eventKindCount][]Observer{}
}

// merge appends the observers of other after those of o.
func (o *Observers) merge(other *Observers) {
	for kind := range other.byKind {
		o.byKind[kind] = append(o.byKind[kind], other.byKind[kind]...)
	}
}

func (o *Observers) notify(kind EventKind, ids []EntityID, w *World) int {
	for _, obs := range o.byKind[kind] {
		obs(ids, w)
	}
	return len(o.byKind[kind])
}

type eventQueue [eventKindCount][]*Event

func (q *eventQueue) len() int {
	n := 0
	for _, events := range q {
		n += len(events)
	}
	return n
}

// EventManager queues events by kind and notifies observers when flushed.
type EventManager struct {
	guard     guard
	pending   eventQueue
	observers *Observers
	logger    *zap.Logger
}

func newEventManager(logger *zap.Logger) *EventManager {
	return &EventManager{
		guard:     guard{name: "event queue"},
		observers: NewObservers(),
		logger:    logger,
	}
}

// Enqueue appends events to their kind's queue. Nil events are ignored.
func (m *EventManager) Enqueue(events ...*Event) {
	m.guard.acquire(borrowExclusive)
	defer m.guard.release(borrowExclusive)
	for _, e := range events {
		if e == nil {
			continue
		}
		m.pending[e.kind] = append(m.pending[e.kind], e)
	}
}

// Observe registers obs for kind.
func (m *EventManager) Observe(kind EventKind, obs Observer) {
	m.observers.Observe(kind, obs)
}

// Pending returns the number of queued events.
func (m *EventManager) Pending() int {
	return m.pending.len()
}

// Observers returns the current observer set.
func (m *EventManager) Observers() *Observers {
	return m.observers
}

// Flush executes every queued event against w. Kinds run in EventKind order;
// within a kind, events run in the order they were enqueued. After each kind,
// its observers receive the ids it touched. Events enqueued while flushing
// wait for the next flush.
func (m *EventManager) Flush(w *World) {
	m.guard.acquire(borrowExclusive)
	queue := m.pending
	m.pending = eventQueue{}
	m.guard.release(borrowExclusive)

	for kind := range eventKindCount {
		events := queue[kind]
		if len(events) == 0 {
			continue
		}
		ids := make([]EntityID, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.Execute(w))
		}
		notified := m.observers.notify(kind, ids, w)
		m.logger.Debug("events flushed",
			zap.Stringer("kind", kind),
			zap.Int("events", len(events)),
			zap.Int("observers", notified),
		)
	}
}

// Take moves the queued events and observers into a new manager, leaving m
// empty.
func (m *EventManager) Take() *EventManager {
	m.guard.acquire(borrowExclusive)
	defer m.guard.release(borrowExclusive)

	taken := &EventManager{
		guard:     guard{name: m.guard.name},
		pending:   m.pending,
		observers: m.observers,
		logger:    m.logger,
	}
	m.pending = eventQueue{}
	m.observers = NewObservers()
	return taken
}

// Give takes back the observers of a manager returned by Take. Events queued
// and observers registered on m in the meantime are kept; those observers run
// after the returned ones.
func (m *EventManager) Give(other *EventManager) {
	if other.observers == m.observers {
		return
	}
	other.observers.merge(m.observers)
	m.observers = other.observers
}

// SwapObservers installs next and returns the previous set. Queued events
// are untouched.
func (m *EventManager) SwapObservers(next *Observers) *Observers {
	if next == nil {
		next = NewObservers()
	}
	prev := m.observers
	m.observers = next
	return prev
}

// Clear drops queued events and replaces the observers with obs, or empties
// them when obs is nil.
func (m *EventManager) Clear(obs *Observers) {
	m.guard.acquire(borrowExclusive)
	defer m.guard.release(borrowExclusive)

	m.pending = eventQueue{}
	if obs != nil {
		m.observers = obs
	} else {
		m.observers.Clear()
	}
}
