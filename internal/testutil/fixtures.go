package testutil

import (
	"strings"
	"testing"

	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/topology"
	"github.com/stretchr/testify/require"
)

// Package is the package every fixture node is declared in.
const Package = "p"

// ID returns the unique id of the fixture model name.
func ID(name string) string {
	return node.ID(node.KindModel, Package, name)
}

// IDs maps ID over names.
func IDs(names ...string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = ID(name)
	}
	return out
}

// Models builds a store with one model per name. Each edge is written
// "A->B", meaning A depends on B.
func Models(t *testing.T, names []string, edges ...string) *topology.Store {
	t.Helper()
	s := topology.New()
	for _, name := range names {
		require.NoError(t, s.AddNode(node.New(node.KindModel, Package, name)))
	}
	Link(t, s, edges...)
	return s
}

// Link adds "A->B" edges between fixture models.
func Link(t *testing.T, s *topology.Store, edges ...string) {
	t.Helper()
	for _, e := range edges {
		dependent, dependency, ok := strings.Cut(e, "->")
		require.True(t, ok, "malformed edge %q", e)
		require.NoError(t, s.AddDependency(ID(strings.TrimSpace(dependent)), ID(strings.TrimSpace(dependency))))
	}
}
