package runner

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/executor"
	"github.com/RayMarquina/dbt-project-sub004/internal/graph"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/progress"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
	"github.com/RayMarquina/dbt-project-sub004/internal/scheduler"
)

// coordinator holds the mutable state of one run. It is only touched from
// the goroutine that called Run.
type coordinator struct {
	runner *Runner
	graph  *graph.Graph
	queue  *scheduler.Queue
	report *result.Report

	total   int
	indexes map[string]int

	fatal       error
	interrupted bool
}

func (c *coordinator) runConcurrent(ctx context.Context) {
	pool := executor.NewPool(c.runner.opts.Threads, c.runner.adapter)
	events := make(chan executor.Event)
	poolDone := make(chan error, 1)
	go func() { poolDone <- pool.Run(ctx, c.queue, events) }()

	cancelled := ctx.Done()
	for {
		select {
		case ev := <-events:
			switch ev.Type {
			case executor.EventStarted:
				c.started(ctx, ev.WorkerID, ev.Task)
			case executor.EventFinished:
				c.finished(ctx, ev.Task, ev.Outcome)
			}
		case <-cancelled:
			cancelled = nil
			c.interrupt(ctx)
		case err := <-poolDone:
			if err != nil && c.fatal == nil {
				c.fatal = err
			}
			if cancelled != nil && ctx.Err() != nil && len(c.queue.Unfinished()) > 0 {
				c.interrupt(ctx)
			}
			return
		}
	}
}

func (c *coordinator) runSynchronous(ctx context.Context) {
	w := executor.NewWorker(0, c.runner.adapter)
	for c.fatal == nil {
		if ctx.Err() != nil {
			c.interrupt(ctx)
			return
		}
		t, ok := c.queue.TryGet()
		if !ok {
			return
		}
		c.started(ctx, w.ID(), t)
		c.finished(ctx, t, w.Process(ctx, t))
	}
}

func (c *coordinator) started(ctx context.Context, workerID int, t scheduler.Task) {
	ctxlog.FromContext(ctx).Debug("Node dispatched.",
		"nodeID", t.Node.ID(), "workerID", workerID, "priority", c.queue.Score(t.Node.ID()))
	if t.SkipCause != nil || t.Node.Ephemeral() {
		return
	}
	c.emit(ctx, progress.Event{
		Type:     progress.NodeStarted,
		NodeID:   t.Node.ID(),
		WorkerID: workerID,
		Index:    c.indexOf(t.Node.ID()),
		Total:    c.total,
	})
}

// finished records an outcome. Skip causes are attached before the node is
// marked done so none of its dependents can be dequeued first.
func (c *coordinator) finished(ctx context.Context, t scheduler.Task, out executor.Outcome) {
	logger := ctxlog.FromContext(ctx)
	id := t.Node.ID()

	res := out.Result
	if out.Fatal() {
		res = result.Errored(id, out.Err)
	}
	c.report.Results = append(c.report.Results, res)

	if !t.Node.Ephemeral() {
		c.emit(ctx, progress.Event{
			Type:     progress.NodeFinished,
			NodeID:   id,
			Status:   res.Status,
			Message:  res.Message,
			Duration: res.Duration,
			Index:    c.indexOf(id),
			Total:    c.total,
		})
	}

	switch {
	case out.Fatal():
		c.abort(ctx, out.Err)
	case res.Failed() && c.runner.opts.FailFast:
		c.abort(ctx, fmt.Errorf("node '%s' failed with fail-fast enabled", id))
	case res.Failed():
		cause := &result.SkipCause{Upstream: res}
		if skipped := c.queue.AttachSkipCause(c.graph.Descendants(id), cause); len(skipped) > 0 {
			logger.Debug("Marked descendants to skip.", "nodeID", id, "count", len(skipped))
		}
	}

	if err := c.queue.MarkDone(id); err != nil {
		c.abort(ctx, fmt.Errorf("internal error, please report: %w", err))
	}
}

func (c *coordinator) abort(ctx context.Context, err error) {
	if c.fatal != nil {
		return
	}
	ctxlog.FromContext(ctx).Error("Aborting run.", "error", err)
	c.fatal = err
	c.queue.Shutdown()
}

func (c *coordinator) interrupt(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Warn("Cancellation requested, no further nodes will be dispatched.")
	c.interrupted = true
	c.queue.Shutdown()

	canceler, ok := c.runner.adapter.(executor.Canceler)
	if !ok || !canceler.IsCancelable() {
		logger.Warn("Adapter does not support cancellation, waiting for running nodes to finish.")
		return
	}
	if ids := canceler.CancelAll(); len(ids) > 0 {
		logger.Warn("Cancelled running nodes.", "nodes", ids)
	}
}

// runHooks executes commands in order through the adapter. The first failing
// hook stops the sequence.
func (c *coordinator) runHooks(ctx context.Context, name string, commands []string) error {
	w := executor.NewWorker(0, c.runner.adapter)
	for i, command := range commands {
		n := node.New(node.KindOperation, c.runner.opts.HookPackage, fmt.Sprintf("%s.%d", name, i), node.WithCommand(command))

		out := w.Process(ctx, scheduler.Task{Node: n})
		if out.Fatal() {
			c.report.Hooks = append(c.report.Hooks, result.Errored(n.ID(), out.Err))
			return fmt.Errorf("hook '%s' failed: %w", n.ID(), out.Err)
		}
		c.report.Hooks = append(c.report.Hooks, out.Result)
		if out.Result.Failed() {
			return fmt.Errorf("hook '%s' failed: %s", n.ID(), out.Result.Message)
		}
	}
	return nil
}

func (c *coordinator) finish(ctx context.Context, state result.RunState) {
	r := c.report
	r.State = state
	r.Interrupted = c.interrupted
	r.Elapsed = time.Since(r.StartedAt)

	seen := make(map[string]struct{}, len(r.Results))
	for _, res := range r.Results {
		seen[res.NodeID] = struct{}{}
	}
	r.NotReached = nil
	for _, id := range c.graph.IDs() {
		if _, ok := seen[id]; !ok {
			r.NotReached = append(r.NotReached, id)
		}
	}
	slices.Sort(r.NotReached)

	c.emit(ctx, progress.Event{Type: progress.RunFinished, State: state.String(), Duration: r.Elapsed, Total: c.total})
}

// indexOf assigns 1-based progress positions in first-seen order.
func (c *coordinator) indexOf(id string) int {
	if i, ok := c.indexes[id]; ok {
		return i
	}
	i := len(c.indexes) + 1
	c.indexes[id] = i
	return i
}

func (c *coordinator) emit(ctx context.Context, ev progress.Event) {
	ev.InvocationID = c.report.InvocationID
	ev.Time = time.Now()
	c.runner.opts.Sink.Emit(ctx, ev)
}
