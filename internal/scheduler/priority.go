package scheduler

import (
	"math/bits"

	"github.com/RayMarquina/dbt-project-sub004/internal/graph"
)

// Priorities returns the priority score of every node in g: the number of
// distinct blocking descendants reachable through the subset graph. An
// ephemeral node still gets its own score but never adds to anyone else's.
//
// Scores are accumulated bottom-up in one reverse topological sweep, carrying
// a descendant bitset per node, so the cost is O(V·(V+E)/64). g must be
// acyclic.
func Priorities(g *graph.Graph) map[string]int {
	ids := g.IDs()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	blocking := newBitset(len(ids))
	for i, id := range ids {
		if n, _ := g.Node(id); n.Blocking() {
			blocking.set(i)
		}
	}

	order := topoOrder(g)
	reach := make([]bitset, len(ids))
	scores := make(map[string]int, len(ids))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		own := newBitset(len(ids))
		for _, dependent := range g.Dependents(id) {
			j := index[dependent]
			own.set(j)
			own.or(reach[j])
		}
		reach[index[id]] = own
		scores[id] = own.countAnd(blocking)
	}
	return scores
}

// topoOrder returns the ids of g so that every node precedes its dependents.
// Among nodes available at the same time the smaller id comes first.
func topoOrder(g *graph.Graph) []string {
	indegree := make(map[string]int, g.Len())
	var frontier []string
	for _, id := range g.IDs() {
		indegree[id] = len(g.Dependencies(id))
		if indegree[id] == 0 {
			frontier = append(frontier, id)
		}
	}

	order := make([]string, 0, g.Len())
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		order = append(order, id)
		for _, dependent := range g.Dependents(id) {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				frontier = append(frontier, dependent)
			}
		}
	}
	return order
}

type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << (uint(i) % 64)
}

func (b bitset) or(other bitset) {
	for i := range other {
		b[i] |= other[i]
	}
}

func (b bitset) countAnd(mask bitset) int {
	n := 0
	for i := range b {
		n += bits.OnesCount64(b[i] & mask[i])
	}
	return n
}
