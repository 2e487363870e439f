// Package node defines the unit of work the engine schedules: a model, test,
// seed, snapshot or operation. A Node is immutable once the project graph is
// built; its execution outcome lives in package result.
package node
