package selector

import (
	"strings"

	"github.com/RayMarquina/dbt-project-sub004/internal/node"
)

// Spec is a complete selection query.
type Spec struct {
	// Include patterns are unioned. An empty list selects every node.
	Include []Pattern
	// Exclude patterns are unioned and subtracted from the includes.
	Exclude []Pattern
	// ResourceTypes, when non-empty, keeps only nodes of these kinds.
	ResourceTypes []node.Kind
}

// ParseSpec builds a Spec from flag-style values. Every value may hold
// several whitespace-separated patterns.
func ParseSpec(include, exclude []string) (*Spec, error) {
	spec := &Spec{}
	var err error
	if spec.Include, err = parseAll(include); err != nil {
		return nil, err
	}
	if spec.Exclude, err = parseAll(exclude); err != nil {
		return nil, err
	}
	return spec, nil
}

func parseAll(values []string) ([]Pattern, error) {
	var out []Pattern
	for _, v := range values {
		for _, raw := range strings.Fields(v) {
			p, err := ParsePattern(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// WithResourceTypes returns a copy of the spec restricted to kinds.
func (s *Spec) WithResourceTypes(kinds ...node.Kind) *Spec {
	cp := *s
	cp.ResourceTypes = kinds
	return &cp
}
