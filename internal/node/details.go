package node

// Severity of a failing test.
const (
	SeverityError = "error"
	SeverityWarn  = "warn"
)

// TestConfig is data only tests carry.
type TestConfig struct {
	// Severity is SeverityError or SeverityWarn.
	Severity string
}

// SnapshotConfig is data only snapshots carry.
type SnapshotConfig struct {
	Strategy  string
	UniqueKey string
}

// WithTestConfig attaches test settings. It is ignored for other kinds.
func WithTestConfig(c TestConfig) Option {
	return func(n *Node) {
		if n.kind != KindTest {
			return
		}
		if c.Severity == "" {
			c.Severity = SeverityError
		}
		n.details = c
	}
}

// TestConfig returns the test settings of a test node.
func (n *Node) TestConfig() (TestConfig, bool) {
	c, ok := n.details.(TestConfig)
	return c, ok
}

// WithSnapshotConfig attaches snapshot settings. It is ignored for other
// kinds.
func WithSnapshotConfig(c SnapshotConfig) Option {
	return func(n *Node) {
		if n.kind != KindSnapshot {
			return
		}
		n.details = c
	}
}

// SnapshotConfig returns the snapshot settings of a snapshot node.
func (n *Node) SnapshotConfig() (SnapshotConfig, bool) {
	c, ok := n.details.(SnapshotConfig)
	return c, ok
}
