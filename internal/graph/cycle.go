package graph

import "slices"

const (
	unvisited = iota
	visiting
	visited
)

// FindCycle returns the first dependency cycle in the graph, or nil.
func (g *Graph) FindCycle() []string {
	// Classic three-colour depth-first search. The stack mirrors the current
	// recursion path so a back edge can be turned into the full cycle.
	color := make(map[string]int, len(g.ids))
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		color[id] = visiting
		stack = append(stack, id)

		for _, dep := range g.deps[id] {
			switch color[dep] {
			case visiting:
				start := slices.Index(stack, dep)
				cycle := slices.Clone(stack[start:])
				return append(cycle, dep)
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = visited
		return nil
	}

	for _, id := range g.ids {
		if color[id] == unvisited {
			if cycle := visit(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// Validate returns a *CycleError if the graph contains a cycle.
func (g *Graph) Validate() error {
	if cycle := g.FindCycle(); cycle != nil {
		return &CycleError{Path: cycle}
	}
	return nil
}
