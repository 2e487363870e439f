package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/executor"
	"github.com/RayMarquina/dbt-project-sub004/internal/graph"
	"github.com/RayMarquina/dbt-project-sub004/internal/progress"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
	"github.com/RayMarquina/dbt-project-sub004/internal/scheduler"
	"github.com/RayMarquina/dbt-project-sub004/internal/topology"
	"github.com/google/uuid"
)

var (
	// ErrAborted is returned when a run stops early because of a fatal error,
	// a failing start hook or fail-fast.
	ErrAborted = errors.New("run aborted")
	// ErrInterrupted is returned when the context was cancelled mid-run.
	ErrInterrupted = errors.New("run interrupted")
)

// Hooks are shell-style commands run through the adapter around a run.
type Hooks struct {
	Start []string
	End   []string
}

// Options configure a Runner.
type Options struct {
	// Threads is the worker count. Values below one mean one.
	Threads int
	// Synchronous executes nodes one by one on the calling goroutine.
	Synchronous bool
	// FailFast aborts the run on the first failed node.
	FailFast bool
	Hooks    Hooks
	// Sink receives progress events. Nil discards them.
	Sink progress.Sink
	// InvocationID identifies the run. A random one is generated when empty.
	InvocationID string
	// HookPackage is the package name given to synthesized hook nodes.
	HookPackage string
}

// Runner executes selected nodes of a project.
type Runner struct {
	adapter executor.Adapter
	opts    Options
}

// New creates a runner that executes nodes through adapter.
func New(adapter executor.Adapter, opts Options) *Runner {
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	if opts.Sink == nil {
		opts.Sink = progress.Discard{}
	}
	if opts.HookPackage == "" {
		opts.HookPackage = "hooks"
	}
	return &Runner{adapter: adapter, opts: opts}
}

// Run executes the nodes in ids. A cycle among them is reported before
// anything runs. The report is returned whenever execution started, also
// alongside ErrAborted or ErrInterrupted.
func (r *Runner) Run(ctx context.Context, store *topology.Store, ids []string) (*result.Report, error) {
	g, err := graph.New(store, ids)
	if err != nil {
		return nil, err
	}
	q, err := scheduler.New(g)
	if err != nil {
		return nil, err
	}

	invocationID := r.opts.InvocationID
	if invocationID == "" {
		invocationID = uuid.NewString()
	}
	ctx, logger := ctxlog.With(ctx, "invocationID", invocationID)

	c := &coordinator{
		runner:  r,
		graph:   g,
		queue:   q,
		indexes: make(map[string]int),
		report: &result.Report{
			InvocationID: invocationID,
			State:        result.Running,
			StartedAt:    time.Now(),
		},
	}
	for _, id := range g.IDs() {
		if n, _ := g.Node(id); !n.Ephemeral() {
			c.total++
		}
	}

	if err := c.runHooks(ctx, "on_run_start", r.opts.Hooks.Start); err != nil {
		c.finish(ctx, result.Aborted)
		return c.report, fmt.Errorf("%w: %w", ErrAborted, err)
	}

	c.emit(ctx, progress.Event{Type: progress.RunStarted, Total: c.total})
	if r.opts.Synchronous {
		c.runSynchronous(ctx)
	} else {
		c.runConcurrent(ctx)
	}

	state := result.Completed
	if c.fatal != nil || c.interrupted {
		state = result.Aborted
	}

	var hookErr error
	if !c.interrupted {
		hookErr = c.runHooks(ctx, "on_run_end", r.opts.Hooks.End)
		if hookErr != nil {
			logger.Error("End hook failed.", "error", hookErr)
		}
	}
	c.finish(ctx, state)

	switch {
	case c.interrupted:
		return c.report, ErrInterrupted
	case c.fatal != nil:
		return c.report, fmt.Errorf("%w: %w", ErrAborted, c.fatal)
	default:
		return c.report, hookErr
	}
}
