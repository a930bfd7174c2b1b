package depot

import "go.uber.org/zap"

// WorldBuilder collects registrations. Components and resources can only be
// registered here: a built world never grows new kinds.
type WorldBuilder struct {
	components []Component
	resources  []Resource
	logger     *zap.Logger
	capacity   int
}

func newWorldBuilder() *WorldBuilder {
	return &WorldBuilder{
		logger:   Config.logger,
		capacity: Config.initialCapacity,
	}
}

// WithComponents registers component kinds. Repeated kinds are ignored.
func (b *WorldBuilder) WithComponents(components ...Component) *WorldBuilder {
	b.components = append(b.components, components...)
	return b
}

// WithResources registers resources. A later resource of the same kind
// replaces an earlier one.
func (b *WorldBuilder) WithResources(resources ...Resource) *WorldBuilder {
	b.resources = append(b.resources, resources...)
	return b
}

// WithBuiltins registers Parent, Children and Transform.
func (b *WorldBuilder) WithBuiltins() *WorldBuilder {
	return b.WithComponents(ParentComponent, ChildrenComponent, TransformComponent)
}

func (b *WorldBuilder) WithLogger(logger *zap.Logger) *WorldBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithCapacity sets the initial per-storage capacity hint.
func (b *WorldBuilder) WithCapacity(n int) *WorldBuilder {
	if n > 0 {
		b.capacity = n
	}
	return b
}

// Build creates the world. It panics with ComponentKindLimitError when more
// than MaxComponentKinds kinds were registered.
func (b *WorldBuilder) Build() *World {
	w := newWorld(b.logger, b.capacity)
	graph := w.archetypes.value
	for _, c := range b.components {
		if w.components.register(c) {
			graph.bind(c)
		}
	}
	for _, r := range b.resources {
		w.resources.register(r)
	}
	w.logger.Debug("world built",
		zap.Int("components", w.components.Len()),
		zap.Int("resources", w.resources.Len()),
	)
	return w
}
