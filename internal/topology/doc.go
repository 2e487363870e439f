// Package topology is the node registry: the full, static structure of a
// project graph (every node and every depends-on edge).
//
// The store is populated once per invocation by the builder and is read-only
// afterwards. The selector queries it to evaluate patterns and to expand
// ancestors and descendants; the dependency graph used for scheduling is a
// projection of it onto the selected subset (see package graph).
//
// An edge is recorded as (dependent, dependency): the dependency must finish
// before the dependent may start.
package topology
