package topology

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/RayMarquina/dbt-project-sub004/internal/node"
)

// ErrDuplicateNode is returned when two nodes share a unique id.
var ErrDuplicateNode = errors.New("duplicate node")

// Store holds every node of the project and the edges between them, using
// maps and a mutex for thread-safe concurrent access.
type Store struct {
	mu         sync.RWMutex
	nodes      map[string]*node.Node
	deps       map[string]map[string]struct{} // Key: node ID, Value: set of dependency IDs
	dependents map[string]map[string]struct{} // Key: node ID, Value: set of dependent IDs
}

// New creates a new, empty store.
func New() *Store {
	return &Store{
		nodes:      make(map[string]*node.Node),
		deps:       make(map[string]map[string]struct{}),
		dependents: make(map[string]map[string]struct{}),
	}
}

// AddNode registers a node. Registering a second node with the same id is an
// error.
func (s *Store) AddNode(n *node.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID()]; exists {
		return fmt.Errorf("%w: '%s'", ErrDuplicateNode, n.ID())
	}
	s.nodes[n.ID()] = n
	return nil
}

// AddDependency records that dependent depends on dependency. Both nodes must
// already be registered.
func (s *Store) AddDependency(dependent, dependency string) error {
	if dependent == dependency {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", dependent, dependency)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[dependent]; !exists {
		return fmt.Errorf("dependent node '%s' not found in topology", dependent)
	}
	if _, exists := s.nodes[dependency]; !exists {
		return fmt.Errorf("dependency node '%s' not found in topology", dependency)
	}

	if s.deps[dependent] == nil {
		s.deps[dependent] = make(map[string]struct{})
	}
	s.deps[dependent][dependency] = struct{}{}

	if s.dependents[dependency] == nil {
		s.dependents[dependency] = make(map[string]struct{})
	}
	s.dependents[dependency][dependent] = struct{}{}
	return nil
}

// Node retrieves a single node by id.
func (s *Store) Node(id string) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	return n, ok
}

// Len returns the number of registered nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// IDs returns every node id, sorted.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Nodes returns every node, sorted by id.
func (s *Store) Nodes() []*node.Node {
	ids := s.IDs()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*node.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.nodes[id])
	}
	return out
}

// DependenciesOf returns the sorted ids the given node directly depends on.
func (s *Store) DependenciesOf(id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.nodes[id]; !exists {
		return nil, fmt.Errorf("node '%s' not found in topology", id)
	}
	return sortedKeys(s.deps[id]), nil
}

// DependentsOf returns the sorted ids that directly depend on the given node.
func (s *Store) DependentsOf(id string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.nodes[id]; !exists {
		return nil, fmt.Errorf("node '%s' not found in topology", id)
	}
	return sortedKeys(s.dependents[id]), nil
}

// Ancestors returns the sorted ids reachable by following dependency edges
// from id, at most depth hops away. A negative depth means unlimited.
func (s *Store) Ancestors(id string, depth int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return walk(id, depth, s.deps)
}

// Descendants returns the sorted ids reachable by following dependent edges
// from id, at most depth hops away. A negative depth means unlimited.
func (s *Store) Descendants(id string, depth int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return walk(id, depth, s.dependents)
}

// walk is a breadth-first traversal over adjacency, excluding the start node.
func walk(start string, depth int, adjacency map[string]map[string]struct{}) []string {
	seen := map[string]struct{}{start: {}}
	frontier := []string{start}
	var out []string

	for level := 0; len(frontier) > 0 && (depth < 0 || level < depth); level++ {
		var next []string
		for _, id := range frontier {
			for adj := range adjacency[id] {
				if _, ok := seen[adj]; ok {
					continue
				}
				seen[adj] = struct{}{}
				out = append(out, adj)
				next = append(next, adj)
			}
		}
		frontier = next
	}

	slices.Sort(out)
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
