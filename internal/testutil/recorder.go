package testutil

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/RayMarquina/dbt-project-sub004/internal/executor"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
)

// ErrCancelled is returned, wrapped in a NodeError, by nodes released
// through CancelAll.
var ErrCancelled = errors.New("cancelled by test")

// ExecutionRecord holds the start and end times for a single node execution.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Behavior scripts what the recorder does for one node.
type Behavior struct {
	// Status is returned when Err and Panic are unset. Defaults to success.
	Status result.Status
	// Err is returned as-is from Execute.
	Err   error
	Panic any
	Delay time.Duration
	// WaitForCancel blocks the node until CancelAll is called.
	WaitForCancel bool
	// Started, when set, receives the node id once execution begins.
	Started chan<- string
}

// Recorder is an executor.Adapter that records the order in which nodes
// start and end.
type Recorder struct {
	mu         sync.Mutex
	timeline   []string
	records    map[string]*ExecutionRecord
	running    map[string]struct{}
	behaviors  map[string]Behavior
	cancelable bool
	cancelOnce sync.Once
	cancelled  chan struct{}
}

// NewRecorder creates a recorder where every node succeeds.
func NewRecorder() *Recorder {
	return &Recorder{
		records:   make(map[string]*ExecutionRecord),
		running:   make(map[string]struct{}),
		behaviors: make(map[string]Behavior),
		cancelled: make(chan struct{}),
	}
}

// On scripts the behavior of id.
func (r *Recorder) On(id string, b Behavior) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.behaviors[id] = b
	return r
}

// Cancelable makes IsCancelable report true.
func (r *Recorder) Cancelable() *Recorder {
	r.cancelable = true
	return r
}

func (r *Recorder) Open(_ context.Context, n *node.Node) (executor.Conn, error) {
	return &recorderConn{r: r, id: n.ID()}, nil
}

// IsCancelable implements executor.Canceler.
func (r *Recorder) IsCancelable() bool { return r.cancelable }

// CancelAll releases every node waiting for cancellation.
func (r *Recorder) CancelAll() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.running))
	for id := range r.running {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	r.cancelOnce.Do(func() { close(r.cancelled) })
	slices.Sort(ids)
	return ids
}

// Timeline returns "start:<id>" and "end:<id>" entries in the order they
// happened.
func (r *Recorder) Timeline() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.timeline)
}

// Dispatched returns executed node ids in start order.
func (r *Recorder) Dispatched() []string {
	var out []string
	for _, e := range r.Timeline() {
		if id, ok := strings.CutPrefix(e, "start:"); ok {
			out = append(out, id)
		}
	}
	return out
}

// Record returns the timing of id.
func (r *Recorder) Record(id string) (ExecutionRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return ExecutionRecord{}, false
	}
	return *rec, true
}

func (r *Recorder) begin(id string) Behavior {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeline = append(r.timeline, "start:"+id)
	r.records[id] = &ExecutionRecord{Start: time.Now()}
	r.running[id] = struct{}{}
	return r.behaviors[id]
}

func (r *Recorder) end(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeline = append(r.timeline, "end:"+id)
	r.records[id].End = time.Now()
	delete(r.running, id)
}

type recorderConn struct {
	r  *Recorder
	id string
}

func (c *recorderConn) Execute(context.Context) (*result.RunResult, error) {
	b := c.r.begin(c.id)
	defer c.r.end(c.id)

	if b.Started != nil {
		b.Started <- c.id
	}
	if b.Delay > 0 {
		time.Sleep(b.Delay)
	}
	if b.WaitForCancel {
		<-c.r.cancelled
		return nil, &executor.NodeError{NodeID: c.id, Err: ErrCancelled}
	}
	if b.Panic != nil {
		panic(b.Panic)
	}
	if b.Err != nil {
		return nil, b.Err
	}
	status := b.Status
	if status == "" {
		status = result.StatusSuccess
	}
	return &result.RunResult{NodeID: c.id, Status: status}, nil
}

func (c *recorderConn) Close() error { return nil }
