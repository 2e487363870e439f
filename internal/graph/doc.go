// Package graph provides the dependency graph used for one run: the project
// topology projected onto the selected subset of node ids.
//
// Every edge whose endpoints are both selected is kept; edges leaving the
// subset are dropped. The graph is built once, before scheduling, and never
// mutated afterwards, so workers and the coordinator may read it without
// locking.
//
// Cycle detection is mandatory before execution: FindCycle returns the first
// cycle found by a depth-first search in node-id order, as a path that starts
// and ends on the same node.
package graph
