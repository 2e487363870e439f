// Package runner is the run coordinator. It owns every result of a run.
//
// A run builds the subset graph, rejects cycles before anything is
// dispatched, runs the start hooks, then drives the execution queue either
// through a worker pool or inline on the calling goroutine. All completion
// bookkeeping happens here, on one goroutine: the result is recorded, skip
// causes are attached to the failed node's descendants, and only then is the
// node marked done so no descendant can be dequeued in between.
//
// Cancelling the context stops dispatch, asks the adapter to abort in-flight
// work when it can, waits for the workers and returns the partial report
// marked as interrupted.
package runner
