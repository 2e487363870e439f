package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
	"github.com/RayMarquina/dbt-project-sub004/internal/scheduler"
)

// Outcome is what a worker reports for one task: either a result or a fatal
// error that must abort the run.
type Outcome struct {
	Result *result.RunResult
	Err    error
}

// Fatal reports whether the outcome aborts the run.
func (o Outcome) Fatal() bool { return o.Err != nil }

// Worker executes tasks one at a time.
type Worker struct {
	id      int
	adapter Adapter
}

// NewWorker creates a worker that executes nodes through adapter.
func NewWorker(id int, adapter Adapter) *Worker {
	return &Worker{id: id, adapter: adapter}
}

// ID returns the worker's index in its pool.
func (w *Worker) ID() int { return w.id }

// Process handles one dequeued task.
func (w *Worker) Process(ctx context.Context, t scheduler.Task) Outcome {
	n := t.Node
	logger := ctxlog.FromContext(ctx).With("workerID", w.id, "nodeID", n.ID())

	if t.SkipCause != nil {
		logger.Info("⏭️ Skipping node due to upstream failure.", "upstream", t.SkipCause.UpstreamID())
		return Outcome{Result: result.Skipped(n.ID(), t.SkipCause)}
	}
	if n.Ephemeral() {
		logger.Debug("Ephemeral node compiled, not executed.")
		return Outcome{Result: result.Compiled(n.ID())}
	}

	logger.Info("▶️ Starting node.")
	start := time.Now()
	res, err := w.execute(ctx, n)
	elapsed := time.Since(start)

	if err == nil && res == nil {
		err = &InternalError{NodeID: n.ID(), Err: errors.New("adapter returned no result")}
	}

	var nodeErr *NodeError
	var internalErr *InternalError
	switch {
	case err == nil:
	case errors.As(err, &nodeErr):
		logger.Error("Node execution failed.", "error", err)
		res = result.Errored(n.ID(), err)
	case errors.As(err, &internalErr):
		logger.Error("Internal error while executing node, please report.", "error", err)
		res = result.Errored(n.ID(), err)
	default:
		args := []any{"error", err}
		var panicErr *PanicError
		if errors.As(err, &panicErr) {
			args = append(args, "stack", string(panicErr.Stack))
		}
		logger.Error("Unhandled error while executing node.", args...)
		return Outcome{Err: fmt.Errorf("executing node '%s': %w", n.ID(), err)}
	}

	if res.NodeID == "" {
		res.NodeID = n.ID()
	}
	res.Duration = elapsed
	logger.Info("✅ Finished node.", "status", res.Status, "duration", elapsed)
	return Outcome{Result: res}
}

// execute runs n under a fresh connection. In-flight work is only stopped
// through the adapter's Canceler, so the context passed down is detached
// from cancellation.
func (w *Worker) execute(ctx context.Context, n *node.Node) (res *result.RunResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &PanicError{NodeID: n.ID(), Value: r, Stack: debug.Stack()}
		}
	}()

	execCtx := context.WithoutCancel(ctx)
	conn, err := w.adapter.Open(execCtx, n)
	if err != nil {
		return nil, err
	}
	defer func() {
		cerr := conn.Close()
		if cerr == nil {
			return
		}
		ctxlog.FromContext(ctx).Error("Releasing connection failed.", "nodeID", n.ID(), "error", cerr)
		// An error or warning already reported by the node wins over the close error.
		if err == nil && (res == nil || res.Status == result.StatusSuccess) {
			res = nil
			err = &NodeError{NodeID: n.ID(), Err: fmt.Errorf("closing connection: %w", cerr)}
		}
	}()

	return conn.Execute(execCtx)
}
