package selector

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/RayMarquina/dbt-project-sub004/internal/node"
)

// Method is the attribute a criterion matches on.
type Method string

const (
	MethodFQN          Method = "fqn"
	MethodTag          Method = "tag"
	MethodPath         Method = "path"
	MethodPackage      Method = "package"
	MethodResourceType Method = "resource_type"
)

var knownMethods = map[Method]struct{}{
	MethodFQN:          {},
	MethodTag:          {},
	MethodPath:         {},
	MethodPackage:      {},
	MethodResourceType: {},
}

// Unlimited is the depth of a graph operator without an explicit limit.
const Unlimited = -1

// SyntaxError reports a pattern that cannot be parsed. It is fatal to the run.
type SyntaxError struct {
	Pattern string
	Reason  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid selector %q: %s", e.Pattern, e.Reason)
}

// Criterion is a single method/value match with optional graph operators.
type Criterion struct {
	Raw    string
	Method Method
	Value  string

	Parents       bool
	ParentsDepth  int
	Children      bool
	ChildrenDepth int

	kind node.Kind
}

// Pattern is a set of criteria whose matches are intersected.
type Pattern struct {
	Raw      string
	Criteria []Criterion
}

var (
	parentsRegex  = regexp.MustCompile(`^(\d*)\+`)
	childrenRegex = regexp.MustCompile(`\+(\d*)$`)
)

// ParsePattern parses one whitespace-free pattern string.
func ParsePattern(raw string) (Pattern, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Pattern{}, &SyntaxError{Pattern: raw, Reason: "pattern is empty"}
	}

	p := Pattern{Raw: raw}
	for _, part := range strings.Split(raw, ",") {
		c, err := parseCriterion(part)
		if err != nil {
			return Pattern{}, err
		}
		p.Criteria = append(p.Criteria, c)
	}
	return p, nil
}

func parseCriterion(raw string) (Criterion, error) {
	c := Criterion{Raw: raw, Method: MethodFQN, ParentsDepth: Unlimited, ChildrenDepth: Unlimited}
	rest := raw

	if m := parentsRegex.FindStringSubmatch(rest); m != nil {
		c.Parents = true
		if m[1] != "" {
			c.ParentsDepth, _ = strconv.Atoi(m[1])
		}
		rest = rest[len(m[0]):]
	}
	if m := childrenRegex.FindStringSubmatch(rest); m != nil {
		c.Children = true
		if m[1] != "" {
			c.ChildrenDepth, _ = strconv.Atoi(m[1])
		}
		rest = rest[:len(rest)-len(m[0])]
	}

	if method, value, ok := strings.Cut(rest, ":"); ok {
		c.Method = Method(method)
		rest = value
	}
	c.Value = rest

	if _, ok := knownMethods[c.Method]; !ok {
		return Criterion{}, &SyntaxError{Pattern: raw, Reason: fmt.Sprintf("unknown selector method %q", c.Method)}
	}
	if c.Value == "" {
		return Criterion{}, &SyntaxError{Pattern: raw, Reason: "missing value"}
	}
	if strings.ContainsAny(c.Value, "+:") {
		return Criterion{}, &SyntaxError{Pattern: raw, Reason: "graph operators are only allowed at the start or end"}
	}

	switch c.Method {
	case MethodResourceType:
		kind, err := node.ParseKind(c.Value)
		if err != nil {
			return Criterion{}, &SyntaxError{Pattern: raw, Reason: err.Error()}
		}
		c.kind = kind
	case MethodFQN:
		for _, seg := range strings.Split(c.Value, ".") {
			if err := validateGlob(seg); err != nil {
				return Criterion{}, &SyntaxError{Pattern: raw, Reason: err.Error()}
			}
		}
	default:
		if err := validateGlob(c.Value); err != nil {
			return Criterion{}, &SyntaxError{Pattern: raw, Reason: err.Error()}
		}
	}
	return c, nil
}

func validateGlob(s string) error {
	if s == "" {
		return fmt.Errorf("empty segment")
	}
	if _, err := path.Match(s, ""); err != nil {
		return fmt.Errorf("bad glob %q: %w", s, err)
	}
	return nil
}
