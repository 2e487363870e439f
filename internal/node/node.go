package node

import (
	"fmt"
	"maps"
	"slices"

	"github.com/RayMarquina/dbt-project-sub004/internal/nodeid"
)

// MaterializedEphemeral marks a model that is inlined into its consumers
// instead of being built on its own.
const MaterializedEphemeral = "ephemeral"

// Node is a single vertex in the project graph. All attributes are fixed by
// New; accessors hand out copies of the slice and map ones.
type Node struct {
	// id is the unique identifier, `<kind>.<package>.<name>`.
	id   string
	name string
	pkg  string
	kind Kind
	fqn  *nodeid.FQN
	path string
	tags []string
	// materialized is only meaningful for models.
	materialized string
	// command is the raw code handed to the adapter.
	command string
	meta    map[string]any

	details any
}

// Option sets an attribute while a node is constructed.
type Option func(*Node)

// WithFQN overrides the default `<package>.<name>` qualified name.
func WithFQN(f *nodeid.FQN) Option {
	return func(n *Node) { n.fqn = f }
}

// WithPath records the project-relative file the node was declared for.
func WithPath(p string) Option {
	return func(n *Node) { n.path = p }
}

// WithTags sets the labels used by `tag:` selectors.
func WithTags(tags ...string) Option {
	return func(n *Node) { n.tags = slices.Clone(tags) }
}

// WithMaterialized sets the model materialization.
func WithMaterialized(m string) Option {
	return func(n *Node) { n.materialized = m }
}

// WithCommand sets the code the adapter executes.
func WithCommand(c string) Option {
	return func(n *Node) { n.command = c }
}

// WithMeta sets arbitrary user metadata.
func WithMeta(meta map[string]any) Option {
	return func(n *Node) { n.meta = maps.Clone(meta) }
}

// New creates a node and derives its unique id.
func New(kind Kind, pkg, name string, opts ...Option) *Node {
	n := &Node{
		id:   ID(kind, pkg, name),
		name: name,
		pkg:  pkg,
		kind: kind,
		fqn:  nodeid.New(pkg, name),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ID formats the unique id of a node.
func ID(kind Kind, pkg, name string) string {
	return fmt.Sprintf("%s.%s.%s", kind, pkg, name)
}

// ID returns the node's unique id.
func (n *Node) ID() string {
	return n.id
}

// Name is the node's own name as declared in the project.
func (n *Node) Name() string { return n.name }

// Package is the package that declares the node.
func (n *Node) Package() string { return n.pkg }

// Kind is the node's resource type.
func (n *Node) Kind() Kind { return n.kind }

// FQN is the hierarchical qualified name used by the selector.
func (n *Node) FQN() *nodeid.FQN { return n.fqn }

// Path is the project-relative file the node was declared for, if any.
func (n *Node) Path() string { return n.path }

// Tags returns a copy of the node's tags.
func (n *Node) Tags() []string { return slices.Clone(n.tags) }

func (n *Node) Materialized() string { return n.materialized }

func (n *Node) Command() string { return n.command }

// Meta returns a shallow copy of the user metadata.
func (n *Node) Meta() map[string]any { return maps.Clone(n.meta) }

// Ephemeral reports whether the node is an ephemeral model. Ephemeral nodes
// participate in ordering but are never executed.
func (n *Node) Ephemeral() bool {
	return n.kind == KindModel && n.materialized == MaterializedEphemeral
}

// Blocking reports whether unfinished work on this node counts toward
// scheduling priority.
func (n *Node) Blocking() bool {
	return !n.Ephemeral()
}

// HasTag reports whether the node carries tag.
func (n *Node) HasTag(tag string) bool {
	return slices.Contains(n.tags, tag)
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return n.id
}
