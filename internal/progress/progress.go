package progress

import (
	"context"
	"time"

	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
)

// EventType names a progress event.
type EventType string

const (
	RunStarted   EventType = "run_started"
	NodeStarted  EventType = "node_started"
	NodeFinished EventType = "node_finished"
	RunFinished  EventType = "run_finished"
)

// Event is one progress notification.
type Event struct {
	Type         EventType     `json:"type"`
	InvocationID string        `json:"invocation_id"`
	NodeID       string        `json:"node_id,omitempty"`
	WorkerID     int           `json:"worker_id,omitempty"`
	Status       result.Status `json:"status,omitempty"`
	Message      string        `json:"message,omitempty"`
	// State is the final run state on RunFinished.
	State    string        `json:"state,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
	// Index is the 1-based position of the node among counted nodes.
	Index int `json:"index,omitempty"`
	// Total is the number of nodes that count toward progress.
	Total int       `json:"total"`
	Time  time.Time `json:"time"`
}

// Sink consumes progress events.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(context.Context, Event) {}

// Multi fans an event out to every sink in order.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, ev Event) {
	for _, s := range m {
		s.Emit(ctx, ev)
	}
}

// LogSink writes events through the context logger.
type LogSink struct{}

func (LogSink) Emit(ctx context.Context, ev Event) {
	logger := ctxlog.FromContext(ctx)
	switch ev.Type {
	case RunStarted:
		logger.Info("Running nodes.", "total", ev.Total, "invocationID", ev.InvocationID)
	case NodeStarted:
		logger.Info("Node started.", "nodeID", ev.NodeID, "index", ev.Index, "total", ev.Total)
	case NodeFinished:
		args := []any{"nodeID", ev.NodeID, "status", ev.Status, "duration", ev.Duration, "index", ev.Index, "total", ev.Total}
		if ev.Message != "" {
			args = append(args, "message", ev.Message)
		}
		switch ev.Status {
		case result.StatusError, result.StatusFail:
			logger.Error("Node finished.", args...)
		case result.StatusWarn, result.StatusSkipped:
			logger.Warn("Node finished.", args...)
		default:
			logger.Info("Node finished.", args...)
		}
	case RunFinished:
		logger.Info("Run finished.", "state", ev.State, "duration", ev.Duration)
	}
}
