package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/topology"
)

// CycleError reports a dependency cycle. Path starts and ends on the same
// node and follows depends-on edges.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}

// Graph is an immutable dependency graph over a subset of the topology.
type Graph struct {
	nodes      map[string]*node.Node
	ids        []string
	deps       map[string][]string
	dependents map[string][]string
}

// New projects store onto ids. Unknown ids are an error; duplicate ids are
// collapsed.
func New(store *topology.Store, ids []string) (*Graph, error) {
	g := &Graph{
		nodes:      make(map[string]*node.Node, len(ids)),
		deps:       make(map[string][]string, len(ids)),
		dependents: make(map[string][]string, len(ids)),
	}

	for _, id := range ids {
		n, ok := store.Node(id)
		if !ok {
			return nil, fmt.Errorf("selected node '%s' not found in topology", id)
		}
		g.nodes[id] = n
	}

	for id := range g.nodes {
		g.ids = append(g.ids, id)
		deps, err := store.DependenciesOf(id)
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			if _, ok := g.nodes[dep]; !ok {
				continue
			}
			g.deps[id] = append(g.deps[id], dep)
			g.dependents[dep] = append(g.dependents[dep], id)
		}
	}

	slices.Sort(g.ids)
	for id := range g.dependents {
		slices.Sort(g.dependents[id])
	}
	return g, nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.ids)
}

// IDs returns the node ids, sorted.
func (g *Graph) IDs() []string {
	return slices.Clone(g.ids)
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*node.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Contains reports whether id is part of the graph.
func (g *Graph) Contains(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Dependencies returns the sorted ids id directly depends on within the graph.
func (g *Graph) Dependencies(id string) []string {
	return slices.Clone(g.deps[id])
}

// Dependents returns the sorted ids that directly depend on id within the graph.
func (g *Graph) Dependents(id string) []string {
	return slices.Clone(g.dependents[id])
}

// Roots returns the sorted ids with no dependencies inside the graph.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.ids {
		if len(g.deps[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Ancestors returns every node id reachable from id through dependency edges.
func (g *Graph) Ancestors(id string) []string {
	return g.reach(id, g.deps)
}

// Descendants returns every node id reachable from id through dependent edges.
func (g *Graph) Descendants(id string) []string {
	return g.reach(id, g.dependents)
}

func (g *Graph) reach(start string, adjacency map[string][]string) []string {
	seen := map[string]struct{}{start: {}}
	stack := slices.Clone(adjacency[start])
	var out []string

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		stack = append(stack, adjacency[id]...)
	}

	slices.Sort(out)
	return out
}
