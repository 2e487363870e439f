// internal/nodeid/doc.go

/*
Package nodeid provides a structured representation for the qualified name
(FQN) of a node: the package it belongs to, the directories it lives under and
its own name.

The canonical format is a dot-separated sequence of segments, e.g.
`jaffle_shop.staging.stg_orders`. The first segment is always the package.

This package centralizes parsing and formatting so the builder and the
selector agree on what a qualified name looks like.
*/
package nodeid
