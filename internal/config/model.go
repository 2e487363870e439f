package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/RayMarquina/dbt-project-sub004/internal/node"
)

// Model is the unified, format-agnostic representation of a project.
type Model struct {
	Project   *Project
	Resources []*Resource
	Selectors map[string]*Selector
}

// Project holds project-wide settings. Pointer fields are nil when unset so
// they can be merged under command-line overrides.
type Project struct {
	Name       string
	Threads    *int
	FailFast   *bool
	OnRunStart []string
	OnRunEnd   []string
}

// Resource is one declared node of any kind.
type Resource struct {
	Kind         node.Kind
	Name         string
	Path         string
	Tags         []string
	Materialized string
	DependsOn    []string
	Command      string
	Meta         map[string]any

	// Severity is only read for tests.
	Severity string
	// Strategy and UniqueKey are only read for snapshots.
	Strategy  string
	UniqueKey string

	// DeclRange is a human-readable source location, e.g. "models.hcl:12".
	DeclRange string
}

// Selector is a named, reusable selection.
type Selector struct {
	Name    string
	Include []string
	Exclude []string
}

// Selector returns the named selector.
func (m *Model) Selector(name string) (*Selector, error) {
	s, ok := m.Selectors[name]
	if !ok {
		return nil, fmt.Errorf("selector '%s' is not defined (available: %v)", name, slices.Sorted(maps.Keys(m.Selectors)))
	}
	return s, nil
}
