package adapters

import (
	"context"

	"github.com/RayMarquina/dbt-project-sub004/internal/executor"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/result"
)

// Dry reports success for every node without running anything.
type Dry struct{}

func (Dry) Open(_ context.Context, n *node.Node) (executor.Conn, error) {
	return dryConn{id: n.ID()}, nil
}

type dryConn struct{ id string }

func (c dryConn) Execute(context.Context) (*result.RunResult, error) {
	return &result.RunResult{NodeID: c.id, Status: result.StatusSuccess, Message: "dry run"}, nil
}

func (dryConn) Close() error { return nil }
