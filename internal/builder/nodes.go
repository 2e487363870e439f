package builder

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/RayMarquina/dbt-project-sub004/internal/config"
	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/nodeid"
	"github.com/RayMarquina/dbt-project-sub004/internal/topology"
)

func createNodes(ctx context.Context, model *config.Model, store *topology.Store) error {
	logger := ctxlog.FromContext(ctx)
	pkg := model.Project.Name

	for _, r := range model.Resources {
		n, err := newNode(pkg, r)
		if err != nil {
			return err
		}
		logger.Debug("Creating node.", "nodeID", n.ID(), "fqn", n.FQN().String())
		if err := store.AddNode(n); err != nil {
			return fmt.Errorf("%s: %w", r.DeclRange, err)
		}
	}
	return nil
}

func newNode(pkg string, r *config.Resource) (*node.Node, error) {
	if err := nodeid.ValidateSegment(r.Name); err != nil {
		return nil, fmt.Errorf("%s: %s name: %w", r.DeclRange, r.Kind, err)
	}

	opts := []node.Option{
		node.WithFQN(fqnFor(pkg, r.Path, r.Name)),
		node.WithPath(r.Path),
		node.WithTags(r.Tags...),
		node.WithMaterialized(r.Materialized),
		node.WithCommand(r.Command),
		node.WithMeta(r.Meta),
	}
	switch r.Kind {
	case node.KindTest:
		opts = append(opts, node.WithTestConfig(node.TestConfig{Severity: r.Severity}))
	case node.KindSnapshot:
		opts = append(opts, node.WithSnapshotConfig(node.SnapshotConfig{Strategy: r.Strategy, UniqueKey: r.UniqueKey}))
	}
	return node.New(r.Kind, pkg, r.Name, opts...), nil
}

// fqnFor derives a qualified name: the package, the directories of p below
// its first directory, then the name. "models/staging/x.sql" in package
// "shop" gives shop.staging.<name>.
func fqnFor(pkg, p, name string) *nodeid.FQN {
	segments := []string{pkg}
	if p != "" {
		dir := path.Dir(path.Clean(strings.ReplaceAll(p, "\\", "/")))
		parts := strings.Split(dir, "/")
		if len(parts) > 1 {
			for _, part := range parts[1:] {
				if part != "" && part != "." {
					segments = append(segments, part)
				}
			}
		}
	}
	segments = append(segments, name)
	return nodeid.New(segments...)
}
