// Package scheduler provides the execution queue that feeds ready nodes to
// the worker pool.
//
// # How It Works
//
// A Queue is built once per run from a validated subset graph:
//  1. Every node gets a priority score: the number of blocking (non-ephemeral)
//     descendants it has inside the subset.
//  2. Nodes with no unfinished dependencies are pushed onto a ready heap,
//     highest score first, ties broken by ascending node id.
//  3. Get pops the best ready node and marks it in progress. It blocks while
//     nothing is ready but work is still outstanding.
//  4. MarkDone retires a node and pushes every dependent whose last
//     dependency just finished.
//
// # Skip Causes
//
// When a node fails, the run coordinator attaches a skip cause to each of its
// descendants that has not been dispatched yet. The cause is handed out with
// the Task when the node is dequeued and then cleared, so a worker can record
// the node as skipped without running it.
//
// # Thread-Safety
//
// All bookkeeping lives behind one mutex. Blocking callers wait on a
// notification channel that is closed and replaced on every state change, so
// waits can be combined with context cancellation.
package scheduler
