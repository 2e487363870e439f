package selector

import (
	"maps"
	"slices"

	"github.com/RayMarquina/dbt-project-sub004/internal/diagnostics"
	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/topology"
)

type idSet map[string]struct{}

// Select evaluates spec against every node in store and returns the selected
// ids in ascending order. The result depends only on the store and the spec;
// the diagnostics context only collects warnings for patterns that matched
// nothing. diags may be nil.
func Select(store *topology.Store, spec *Spec, diags *diagnostics.Context) []string {
	if spec == nil {
		spec = &Spec{}
	}
	nodes := store.Nodes()

	selected := idSet{}
	if len(spec.Include) == 0 {
		for _, n := range nodes {
			selected[n.ID()] = struct{}{}
		}
	} else {
		for _, p := range spec.Include {
			maps.Copy(selected, evalPattern(store, nodes, p, diags))
		}
	}

	for _, p := range spec.Exclude {
		for id := range evalPattern(store, nodes, p, diags) {
			delete(selected, id)
		}
	}

	if len(spec.ResourceTypes) > 0 {
		for id := range selected {
			n, _ := store.Node(id)
			if !slices.Contains(spec.ResourceTypes, n.Kind()) {
				delete(selected, id)
			}
		}
	}

	addEphemeralParents(store, selected)

	return slices.Sorted(maps.Keys(selected))
}

// evalPattern intersects the matches of every criterion in p.
func evalPattern(store *topology.Store, nodes []*node.Node, p Pattern, diags *diagnostics.Context) idSet {
	var out idSet
	for i, c := range p.Criteria {
		matched := evalCriterion(store, nodes, c)
		if i == 0 {
			out = matched
			continue
		}
		for id := range out {
			if _, ok := matched[id]; !ok {
				delete(out, id)
			}
		}
	}
	if len(out) == 0 && diags != nil {
		diags.WarnOnce("selector:"+p.Raw, "Selector pattern matched no nodes.", "pattern", p.Raw)
	}
	return out
}

func evalCriterion(store *topology.Store, nodes []*node.Node, c Criterion) idSet {
	out := idSet{}
	for _, n := range nodes {
		if !c.matches(n) {
			continue
		}
		id := n.ID()
		out[id] = struct{}{}
		if c.Parents {
			for _, a := range store.Ancestors(id, c.ParentsDepth) {
				out[a] = struct{}{}
			}
		}
		if c.Children {
			for _, d := range store.Descendants(id, c.ChildrenDepth) {
				out[d] = struct{}{}
			}
		}
	}
	return out
}

// addEphemeralParents pulls in ephemeral models that feed a selected node,
// following chains of ephemeral models upstream. Non-ephemeral parents stop
// the walk.
func addEphemeralParents(store *topology.Store, selected idSet) {
	queue := slices.Sorted(maps.Keys(selected))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		deps, err := store.DependenciesOf(id)
		if err != nil {
			continue
		}
		for _, dep := range deps {
			if _, ok := selected[dep]; ok {
				continue
			}
			n, ok := store.Node(dep)
			if !ok || !n.Ephemeral() {
				continue
			}
			selected[dep] = struct{}{}
			queue = append(queue, dep)
		}
	}
}
