package depot

import "go.uber.org/zap"

// Config holds global defaults picked up by every world builder.
var Config config = config{
	logger:          zap.NewNop(),
	initialCapacity: 64,
}

type config struct {
	logger          *zap.Logger
	initialCapacity int
}

// SetLogger sets the logger new worlds use unless the builder overrides it.
func (c *config) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// SetInitialCapacity sets the per-storage capacity hint for new worlds.
func (c *config) SetInitialCapacity(n int) {
	if n > 0 {
		c.initialCapacity = n
	}
}
