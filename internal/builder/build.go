package builder

import (
	"context"
	"fmt"

	"github.com/RayMarquina/dbt-project-sub004/internal/config"
	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/graph"
	"github.com/RayMarquina/dbt-project-sub004/internal/topology"
)

// Build constructs a complete, validated node registry from a config model.
func Build(ctx context.Context, model *config.Model) (*topology.Store, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	if model == nil || model.Project == nil {
		return nil, fmt.Errorf("cannot build graph: project configuration is missing")
	}

	store := topology.New()

	// First pass: create all nodes.
	if err := createNodes(ctx, model, store); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "node_count", store.Len())

	// Second pass: link dependencies.
	if err := linkNodes(ctx, model, store); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	// Final validation: cycle detection over the whole project.
	g, err := graph.New(store, store.IDs())
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	logger.Info("Build: Graph construction successful.", "node_count", store.Len())
	return store, nil
}
