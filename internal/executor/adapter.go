package executor

import (
	"context"
	"fmt"

	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
)

// Adapter connects the engine to whatever actually runs a node.
type Adapter interface {
	// Open acquires the per-node handle used to execute n.
	Open(ctx context.Context, n *node.Node) (Conn, error)
}

// Conn executes a single node. Close is called on every exit path.
type Conn interface {
	Execute(ctx context.Context) (*result.RunResult, error)
	Close() error
}

// Canceler is implemented by adapters that can abort in-flight work.
type Canceler interface {
	// IsCancelable reports whether CancelAll is supported right now.
	IsCancelable() bool
	// CancelAll aborts every running execution and returns the ids of the
	// nodes it cancelled.
	CancelAll() []string
}

// NodeError is a recoverable failure of one node.
type NodeError struct {
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node '%s' failed: %v", e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// InternalError is an unexpected engine or adapter error attributed to one
// node. The node is recorded as errored and the run continues.
type InternalError struct {
	NodeID string
	Err    error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in node '%s': %v", e.NodeID, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// PanicError wraps a panic recovered while executing a node.
type PanicError struct {
	NodeID string
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic while executing node '%s': %v", e.NodeID, e.Value)
}
