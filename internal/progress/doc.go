// Package progress carries per-node start and completion events from the run
// coordinator to whoever presents them. Sinks must be safe for concurrent
// use; the coordinator emits from one goroutine but a Tracker is also read
// by the status endpoint.
package progress
