// Package executor runs dispatched nodes through a pluggable Adapter.
//
// A Worker turns one scheduler.Task into an Outcome: skipped tasks and
// ephemeral models get a synthesized result, everything else is executed
// through a per-node Conn that is always closed again. Errors coming back
// from the adapter are sorted into three groups:
//   - *NodeError: the node failed, recorded as status error.
//   - *InternalError: an engine or adapter bug tied to one node, recorded as
//     status error and logged loudly.
//   - anything else, including panics: fatal to the run.
//
// A Pool runs N workers against one scheduler.Queue and reports every
// dispatch and completion to the run coordinator over a channel. Workers
// never mark nodes done themselves.
package executor
