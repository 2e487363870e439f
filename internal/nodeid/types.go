// internal/nodeid/types.go
package nodeid

// FQN is the structured representation of a node's qualified name.
type FQN struct {
	Segments []string
}

// New creates an FQN from already-validated segments.
func New(segments ...string) *FQN {
	out := make([]string, len(segments))
	copy(out, segments)
	return &FQN{Segments: out}
}

// Len returns the number of segments.
func (f *FQN) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Segments)
}

// Package returns the leading package segment.
func (f *FQN) Package() string {
	if f.Len() == 0 {
		return ""
	}
	return f.Segments[0]
}

// Name returns the last segment, which is the node's own name.
func (f *FQN) Name() string {
	if f.Len() == 0 {
		return ""
	}
	return f.Segments[len(f.Segments)-1]
}

// Unscoped returns the segments without the package prefix.
func (f *FQN) Unscoped() []string {
	if f.Len() < 2 {
		return nil
	}
	return f.Segments[1:]
}
