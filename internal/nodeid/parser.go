// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex validates a single segment of a qualified name.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	return name != "-" && name != "_"
}

// ValidateSegment reports whether s may appear as one segment of an FQN.
func ValidateSegment(s string) error {
	if s == "" {
		return fmt.Errorf("qualified name contains empty segment")
	}
	if !segmentRegex.MatchString(s) {
		return fmt.Errorf("invalid segment format: %q", s)
	}
	if !isValidSegmentName(s) {
		return fmt.Errorf("invalid segment name: %q", s)
	}
	return nil
}

// Parse creates a new FQN by parsing its canonical string representation.
func Parse(raw string) (*FQN, error) {
	if raw == "" {
		return nil, fmt.Errorf("qualified name cannot be empty")
	}

	fqn := &FQN{}
	for _, segment := range strings.Split(raw, ".") {
		if err := ValidateSegment(segment); err != nil {
			return nil, err
		}
		fqn.Segments = append(fqn.Segments, segment)
	}
	return fqn, nil
}
