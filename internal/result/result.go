package result

import (
	"fmt"
	"time"
)

// Status is the outcome of one node.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	// StatusFail is a soft failure, e.g. a test whose assertion did not hold.
	StatusFail    Status = "fail"
	StatusWarn    Status = "warn"
	StatusSkipped Status = "skipped"
)

// RunResult is the outcome of one node's attempted execution. It is never
// mutated after the coordinator records it.
type RunResult struct {
	NodeID   string
	Status   Status
	Message  string
	Duration time.Duration
	// Payload is opaque adapter-supplied data.
	Payload any
	// SkipCause is set when Status is StatusSkipped.
	SkipCause *SkipCause
	// Ephemeral marks a result synthesized for an ephemeral node that was
	// compiled but never executed.
	Ephemeral bool
}

// SkipCause associates a skipped node with the failing result upstream.
type SkipCause struct {
	Upstream *RunResult
}

// UpstreamID returns the id of the node whose failure caused the skip.
func (c *SkipCause) UpstreamID() string {
	if c == nil || c.Upstream == nil {
		return ""
	}
	return c.Upstream.NodeID
}

// Failed reports whether the result should propagate skips downstream and
// make the run exit non-zero.
func (r *RunResult) Failed() bool {
	return r.Status == StatusError || r.Status == StatusFail
}

// Skipped builds the result for a node diverted by an upstream failure.
func Skipped(nodeID string, cause *SkipCause) *RunResult {
	return &RunResult{
		NodeID:    nodeID,
		Status:    StatusSkipped,
		Message:   fmt.Sprintf("skipped due to upstream failure of '%s'", cause.UpstreamID()),
		SkipCause: cause,
	}
}

// Compiled builds the result for an ephemeral node.
func Compiled(nodeID string) *RunResult {
	return &RunResult{
		NodeID:    nodeID,
		Status:    StatusSuccess,
		Message:   "compiled, not executed",
		Ephemeral: true,
	}
}

// Errored builds an error result.
func Errored(nodeID string, err error) *RunResult {
	return &RunResult{
		NodeID:  nodeID,
		Status:  StatusError,
		Message: err.Error(),
	}
}
