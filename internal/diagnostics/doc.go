// Package diagnostics holds the per-invocation warning registry. A Context is
// created by the caller at the start of each invocation and passed down to the
// components that may warn (the selector, the builder), so a warning keyed by
// the same value is emitted once per run and never leaks into the next one.
package diagnostics
