// Package schedule sequences systems against a depot world. It decides when
// events are flushed and storages compacted; the world itself never does.
package schedule

import (
	"github.com/TheBitDrifter/depot"
	"go.uber.org/zap"
)

// Phase is a point in a frame at which schedules run.
type Phase uint8

const (
	Start Phase = iota
	Update
	PostUpdate
	PreRender
	PostRender
	End
	phaseCount
)

// Phases lists every phase in run order.
var Phases = []Phase{Start, Update, PostUpdate, PreRender, PostRender, End}

func (p Phase) String() string {
	switch p {
	case Start:
		return "start"
	case Update:
		return "update"
	case PostUpdate:
		return "post_update"
	case PreRender:
		return "pre_render"
	case PostRender:
		return "post_render"
	case End:
		return "end"
	}
	return "unknown"
}

// Schedule is an ordered list of systems.
type Schedule struct {
	systems []depot.System
}

func New() *Schedule {
	return &Schedule{}
}

func (s *Schedule) Add(systems ...depot.System) *Schedule {
	s.systems = append(s.systems, systems...)
	return s
}

// Flush appends a system that flushes the world's events.
func (s *Schedule) Flush() *Schedule {
	return s.Add(FlushSystem)
}

// Compact appends a system that compacts every storage.
func (s *Schedule) Compact() *Schedule {
	return s.Add(CompactSystem)
}

func (s *Schedule) Len() int {
	return len(s.systems)
}

func (s *Schedule) Run(w *depot.World) {
	w.Run(s.systems...)
}

// FlushSystem flushes the world's queued events. The queue and observers are
// taken out for the duration, so events enqueued by observers wait for the
// next flush. Observers registered during the flush are kept and first run on
// the next one.
func FlushSystem(w *depot.World) {
	events := w.Events().Take()
	events.Flush(w)
	w.Events().Give(events)
}

// CompactSystem drops entries destroyed since the last compaction.
func CompactSystem(w *depot.World) {
	w.Compact()
}

// Builder collects schedules per phase.
type Builder struct {
	schedules [phaseCount][]*Schedule
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends schedule to phase. Schedules of a phase run in the order added.
func (b *Builder) Add(phase Phase, schedule *Schedule) *Builder {
	b.schedules[phase] = append(b.schedules[phase], schedule)
	return b
}

func (b *Builder) Build() *Scheduler {
	return &Scheduler{schedules: b.schedules}
}

// Scheduler runs schedules by phase.
type Scheduler struct {
	schedules [phaseCount][]*Schedule
}

// Run executes every schedule registered for phase.
func (s *Scheduler) Run(phase Phase, w *depot.World) {
	for _, schedule := range s.schedules[phase] {
		schedule.Run(w)
	}
}

// Tick runs every phase in order.
func (s *Scheduler) Tick(w *depot.World) {
	for _, phase := range Phases {
		s.Run(phase, w)
	}
	w.Logger().Debug("tick complete", zap.Int("schedules", s.Len()))
}

// Len returns the number of schedules across all phases.
func (s *Scheduler) Len() int {
	n := 0
	for _, schedules := range s.schedules {
		n += len(schedules)
	}
	return n
}

// Transition swaps in a new observer set for the next scene. Queued events
// carry over and will be seen by next; the previous set is returned.
func Transition(w *depot.World, next *depot.Observers) *depot.Observers {
	return w.Events().SwapObservers(next)
}
