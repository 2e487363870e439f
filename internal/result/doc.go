// Package result defines the outcome types of a run: one RunResult per node
// that was reached, the SkipCause linking a skipped node to the failure that
// caused it, and the Report aggregated by the run coordinator.
package result
