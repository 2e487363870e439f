package executor

import (
	"context"
	"errors"

	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

// EventType distinguishes the two reports a worker sends per task.
type EventType int

const (
	// EventStarted is sent right after a task is dequeued.
	EventStarted EventType = iota
	// EventFinished carries the task's Outcome.
	EventFinished
)

// Event is a worker report delivered to the run coordinator.
type Event struct {
	Type     EventType
	WorkerID int
	Task     scheduler.Task
	Outcome  Outcome
}

// Pool is a fixed-size set of workers sharing one queue.
type Pool struct {
	workers []*Worker
}

// NewPool creates size workers. A size below one is raised to one.
func NewPool(size int, adapter Adapter) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{workers: make([]*Worker, size)}
	for i := range p.workers {
		p.workers[i] = NewWorker(i, adapter)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Run starts every worker and blocks until all of them have exited, which
// happens once q is drained or shut down, or ctx is done. Every event is
// sent on events; the caller must keep receiving until Run returns.
func (p *Pool) Run(ctx context.Context, q *scheduler.Queue, events chan<- Event) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range p.workers {
		g.Go(func() error {
			return w.loop(gctx, q, events)
		})
	}
	return g.Wait()
}

func (w *Worker) loop(ctx context.Context, q *scheduler.Queue, events chan<- Event) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", w.id)
	defer logger.Debug("Worker finished.", "workerID", w.id)

	for {
		t, err := q.Get(ctx)
		switch {
		case err == nil:
		case errors.Is(err, scheduler.ErrDrained), errors.Is(err, scheduler.ErrClosed), ctx.Err() != nil:
			return nil
		default:
			return err
		}

		events <- Event{Type: EventStarted, WorkerID: w.id, Task: t}
		out := w.Process(ctx, t)
		events <- Event{Type: EventFinished, WorkerID: w.id, Task: t, Outcome: out}
	}
}
