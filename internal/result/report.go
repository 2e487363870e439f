package result

import (
	"slices"
	"time"
)

// RunState is the coordinator's lifecycle state.
type RunState int

const (
	NotStarted RunState = iota
	Running
	Completed
	Aborted
)

func (s RunState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Counts summarises a report by outcome.
type Counts struct {
	Success    int `json:"success"`
	Error      int `json:"error"`
	Fail       int `json:"fail"`
	Warn       int `json:"warn"`
	Skipped    int `json:"skipped"`
	Ephemeral  int `json:"ephemeral"`
	NotReached int `json:"not_reached"`
}

// Report is what the coordinator hands back after a run.
type Report struct {
	InvocationID string
	State        RunState
	// Interrupted is true when the run was cancelled from outside before the
	// graph drained.
	Interrupted bool
	// Results are in completion order.
	Results []*RunResult
	// Hooks holds the results of on-run-start and on-run-end hooks.
	Hooks []*RunResult
	// NotReached lists, sorted, the selected nodes that never produced a result.
	NotReached []string
	StartedAt  time.Time
	Elapsed    time.Duration
}

// Result returns the recorded result for id.
func (r *Report) Result(id string) (*RunResult, bool) {
	for _, res := range r.Results {
		if res.NodeID == id {
			return res, true
		}
	}
	return nil, false
}

// Counts tallies results by status. Ephemeral results are counted apart from
// successes since they never ran.
func (r *Report) Counts() Counts {
	var c Counts
	for _, res := range r.Results {
		if res.Ephemeral && res.Status == StatusSuccess {
			c.Ephemeral++
			continue
		}
		switch res.Status {
		case StatusSuccess:
			c.Success++
		case StatusError:
			c.Error++
		case StatusFail:
			c.Fail++
		case StatusWarn:
			c.Warn++
		case StatusSkipped:
			c.Skipped++
		}
	}
	c.NotReached = len(r.NotReached)
	return c
}

// Failed reports whether any node finished with error or fail.
func (r *Report) Failed() bool {
	return slices.ContainsFunc(r.Results, (*RunResult).Failed)
}

// Complete reports whether the run drained the whole graph.
func (r *Report) Complete() bool {
	return r.State == Completed && !r.Interrupted && len(r.NotReached) == 0
}

// Skipped returns the skipped results keyed by node id.
func (r *Report) Skipped() map[string]*SkipCause {
	out := make(map[string]*SkipCause)
	for _, res := range r.Results {
		if res.Status == StatusSkipped {
			out[res.NodeID] = res.SkipCause
		}
	}
	return out
}

// ExitCode maps the report to a process exit status: 130 when interrupted,
// 1 when any node failed or the run aborted, 0 otherwise.
func (r *Report) ExitCode() int {
	switch {
	case r.Interrupted:
		return 130
	case r.State == Aborted || r.Failed():
		return 1
	default:
		return 0
	}
}
