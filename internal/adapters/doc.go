// Package adapters provides the built-in executor.Adapter implementations.
//
//   - shell runs each node's command with `sh -c` from the project directory
//     and can kill in-flight commands on cancellation.
//   - dry compiles nothing and executes nothing; every node succeeds.
package adapters
