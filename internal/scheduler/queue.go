package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/RayMarquina/dbt-project-sub004/internal/graph"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
)

var (
	// ErrClosed is returned by blocking calls after Shutdown.
	ErrClosed = errors.New("execution queue is shut down")
	// ErrDrained is returned by Get once every node has been marked done.
	ErrDrained = errors.New("execution queue is drained")
)

// State is the lifecycle position of a node inside the queue.
type State int

const (
	// StatePending nodes still wait on at least one dependency.
	StatePending State = iota
	// StateQueued nodes sit in the ready heap.
	StateQueued
	// StateInProgress nodes were handed out by Get.
	StateInProgress
	// StateDone nodes were retired by MarkDone.
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateQueued:
		return "queued"
	case StateInProgress:
		return "in_progress"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Task is one unit of work handed to a worker.
type Task struct {
	Node *node.Node
	// SkipCause is set when an upstream failure was propagated to this node
	// before it was dequeued.
	SkipCause *result.SkipCause
}

// Queue is the priority-ordered execution queue of one run.
type Queue struct {
	mu      sync.Mutex
	changed chan struct{}

	graph     *graph.Graph
	ready     readyHeap
	indegree  map[string]int
	states    map[string]State
	scores    map[string]int
	skip      map[string]*result.SkipCause
	remaining int
	closed    bool
}

// New builds a queue over g. The graph must be acyclic.
func New(g *graph.Graph) (*Queue, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	q := &Queue{
		changed:   make(chan struct{}),
		graph:     g,
		indegree:  make(map[string]int, g.Len()),
		states:    make(map[string]State, g.Len()),
		scores:    Priorities(g),
		skip:      make(map[string]*result.SkipCause),
		remaining: g.Len(),
	}
	for _, id := range g.IDs() {
		q.indegree[id] = len(g.Dependencies(id))
		q.states[id] = StatePending
		if q.indegree[id] == 0 {
			q.pushLocked(id)
		}
	}
	return q, nil
}

// Get blocks until a node is ready and returns it marked in progress. It
// returns ErrDrained once every node is done, ErrClosed after Shutdown, or
// the context error.
func (q *Queue) Get(ctx context.Context) (Task, error) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return Task{}, ErrClosed
		}
		if q.ready.Len() > 0 {
			t := q.popLocked()
			q.mu.Unlock()
			return t, nil
		}
		if q.remaining == 0 {
			q.mu.Unlock()
			return Task{}, ErrDrained
		}
		wait := q.changed
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Task{}, ctx.Err()
		case <-wait:
		}
	}
}

// TryGet is the non-blocking form of Get. It reports false when no node is
// ready right now or the queue is shut down.
func (q *Queue) TryGet() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.ready.Len() == 0 {
		return Task{}, false
	}
	return q.popLocked(), true
}

// MarkDone retires an in-progress node and releases dependents whose last
// outstanding dependency it was. Each dispatched node must be marked done
// exactly once.
func (q *Queue) MarkDone(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	state, ok := q.states[id]
	if !ok {
		return fmt.Errorf("node '%s' is not part of this run", id)
	}
	if state != StateInProgress {
		return fmt.Errorf("node '%s' marked done while %s", id, state)
	}

	q.states[id] = StateDone
	q.remaining--
	for _, dependent := range q.graph.Dependents(id) {
		q.indegree[dependent]--
		if q.indegree[dependent] == 0 && q.states[dependent] == StatePending {
			q.pushLocked(dependent)
		}
	}
	q.notifyLocked()
	return nil
}

// AttachSkipCause records cause on every listed node that has not been
// dispatched yet and has no cause already. It returns the ids that received
// the cause.
func (q *Queue) AttachSkipCause(ids []string, cause *result.SkipCause) []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	var attached []string
	for _, id := range ids {
		state, ok := q.states[id]
		if !ok || (state != StatePending && state != StateQueued) {
			continue
		}
		if _, exists := q.skip[id]; exists {
			continue
		}
		q.skip[id] = cause
		attached = append(attached, id)
	}
	return attached
}

// Empty reports whether no node remains that has not been handed out yet.
// In-progress nodes do not count.
func (q *Queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, s := range q.states {
		if s == StatePending || s == StateQueued {
			return false
		}
	}
	return true
}

// Join blocks until every node has been marked done. It returns ErrClosed if
// the queue is shut down first.
func (q *Queue) Join(ctx context.Context) error {
	for {
		q.mu.Lock()
		if q.remaining == 0 {
			q.mu.Unlock()
			return nil
		}
		if q.closed {
			q.mu.Unlock()
			return ErrClosed
		}
		wait := q.changed
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wait:
		}
	}
}

// Shutdown stops further dispatch and wakes every blocked caller. Nodes that
// are in progress may still be marked done.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.notifyLocked()
}

// State returns the current state of id.
func (q *Queue) State(id string) (State, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	s, ok := q.states[id]
	return s, ok
}

// Score returns the precomputed priority of id.
func (q *Queue) Score(id string) int {
	return q.scores[id]
}

// Unfinished returns the ids not yet marked done, sorted.
func (q *Queue) Unfinished() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []string
	for id, s := range q.states {
		if s != StateDone {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func (q *Queue) pushLocked(id string) {
	q.states[id] = StateQueued
	heap.Push(&q.ready, readyItem{id: id, score: q.scores[id]})
}

func (q *Queue) popLocked() Task {
	item := heap.Pop(&q.ready).(readyItem)
	q.states[item.id] = StateInProgress

	n, _ := q.graph.Node(item.id)
	t := Task{Node: n, SkipCause: q.skip[item.id]}
	delete(q.skip, item.id)
	q.notifyLocked()
	return t
}

func (q *Queue) notifyLocked() {
	close(q.changed)
	q.changed = make(chan struct{})
}
