// internal/nodeid/fqn.go
package nodeid

import (
	"slices"
	"strings"
)

// String serializes the FQN into its canonical dotted representation.
func (f *FQN) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(f.Segments, ".")
}

// Equal checks for deep equality between two FQN pointers.
func (f *FQN) Equal(other *FQN) bool {
	if f == nil || other == nil {
		return f == other
	}
	return slices.Equal(f.Segments, other.Segments)
}
