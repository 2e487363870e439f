package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/RayMarquina/dbt-project-sub004/internal/config"
	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/topology"
)

// UnresolvedRefError reports a `depends_on` entry that matches no node, or
// more than one.
type UnresolvedRefError struct {
	NodeID     string
	Ref        string
	Candidates []string
}

func (e *UnresolvedRefError) Error() string {
	if len(e.Candidates) > 0 {
		return fmt.Sprintf("node '%s' has ambiguous dependency '%s' (matches %v)", e.NodeID, e.Ref, e.Candidates)
	}
	return fmt.Sprintf("node '%s' depends on non-existent node '%s'", e.NodeID, e.Ref)
}

// resolver indexes nodes by every form a reference may take.
type resolver struct {
	byID   map[string]string
	byName map[string][]string
}

func newResolver(store *topology.Store) *resolver {
	r := &resolver{byID: make(map[string]string), byName: make(map[string][]string)}
	for _, n := range store.Nodes() {
		r.byID[n.ID()] = n.ID()
		qualified := n.Package() + "." + n.Name()
		r.byName[qualified] = append(r.byName[qualified], n.ID())
		r.byName[n.Name()] = append(r.byName[n.Name()], n.ID())
	}
	return r
}

func (r *resolver) resolve(from, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if id, ok := r.byID[ref]; ok {
		return id, nil
	}
	candidates := r.byName[ref]
	switch len(candidates) {
	case 0:
		return "", &UnresolvedRefError{NodeID: from, Ref: ref}
	case 1:
		return candidates[0], nil
	default:
		return "", &UnresolvedRefError{NodeID: from, Ref: ref, Candidates: candidates}
	}
}

func linkNodes(ctx context.Context, model *config.Model, store *topology.Store) error {
	r := newResolver(store)
	pkg := model.Project.Name

	for _, res := range model.Resources {
		from := node.ID(res.Kind, pkg, res.Name)
		logger := ctxlog.FromContext(ctx).With("nodeID", from)

		for _, ref := range res.DependsOn {
			logger.Debug("Resolving explicit dependency.", "depends_on", ref)
			to, err := r.resolve(from, ref)
			if err != nil {
				return fmt.Errorf("%s: %w", res.DeclRange, err)
			}
			logger.Debug("Linking explicit dependency.", "to_nodeID", to)
			if err := store.AddDependency(from, to); err != nil {
				return fmt.Errorf("error linking explicit dependency: %w", err)
			}
		}
	}
	return nil
}
