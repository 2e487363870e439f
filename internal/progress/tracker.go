package progress

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/RayMarquina/dbt-project-sub004/internal/result"
)

// Snapshot is a point-in-time view of a run.
type Snapshot struct {
	InvocationID string                `json:"invocation_id"`
	Total        int                   `json:"total"`
	Finished     int                   `json:"finished"`
	Running      []string              `json:"running"`
	Counts       map[result.Status]int `json:"counts"`
	Done         bool                  `json:"done"`
}

// Tracker aggregates events into a Snapshot.
type Tracker struct {
	mu       sync.Mutex
	snapshot Snapshot
	running  map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		snapshot: Snapshot{Counts: make(map[result.Status]int)},
		running:  make(map[string]struct{}),
	}
}

func (t *Tracker) Emit(_ context.Context, ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Type {
	case RunStarted:
		t.snapshot = Snapshot{InvocationID: ev.InvocationID, Total: ev.Total, Counts: make(map[result.Status]int)}
		clear(t.running)
	case NodeStarted:
		t.running[ev.NodeID] = struct{}{}
	case NodeFinished:
		delete(t.running, ev.NodeID)
		t.snapshot.Finished++
		t.snapshot.Counts[ev.Status]++
	case RunFinished:
		t.snapshot.Done = true
	}
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.snapshot
	s.Counts = maps.Clone(t.snapshot.Counts)
	s.Running = slices.Sorted(maps.Keys(t.running))
	return s
}
