package diagnostics

import (
	"log/slog"
	"sync"
)

// Context records which warnings have already been emitted during one
// invocation.
type Context struct {
	mu       sync.Mutex
	logger   *slog.Logger
	seen     map[string]struct{}
	warnings []string
}

// New creates an empty diagnostics context that logs through logger. A nil
// logger falls back to slog.Default().
func New(logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

// WarnOnce logs msg at warn level unless a warning with the same key was
// already emitted. It reports whether the warning was emitted.
func (c *Context) WarnOnce(key, msg string, args ...any) bool {
	c.mu.Lock()
	if _, ok := c.seen[key]; ok {
		c.mu.Unlock()
		return false
	}
	c.seen[key] = struct{}{}
	c.warnings = append(c.warnings, msg)
	c.mu.Unlock()

	c.logger.Warn(msg, args...)
	return true
}

// Warnings returns the emitted warning messages in emission order.
func (c *Context) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Reset forgets every recorded warning.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seen = make(map[string]struct{})
	c.warnings = nil
}
