package selector

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/RayMarquina/dbt-project-sub004/internal/node"
	"github.com/RayMarquina/dbt-project-sub004/internal/nodeid"
)

// matches reports whether n satisfies the criterion's method/value, before
// any graph operator is applied.
func (c Criterion) matches(n *node.Node) bool {
	switch c.Method {
	case MethodFQN:
		return matchFQN(strings.Split(c.Value, "."), n.FQN())
	case MethodTag:
		return slices.ContainsFunc(n.Tags(), func(tag string) bool { return glob(c.Value, tag) })
	case MethodPath:
		return matchPath(c.Value, n.Path())
	case MethodPackage:
		return glob(c.Value, n.Package())
	case MethodResourceType:
		return n.Kind() == c.kind
	default:
		return false
	}
}

// matchFQN matches a dotted selector against a qualified name. A single
// segment also matches the node's own name; otherwise the selector must match
// a leading run of segments, either of the full name or of the name without
// its package.
func matchFQN(sel []string, fqn *nodeid.FQN) bool {
	if fqn == nil {
		return false
	}
	if len(sel) == 1 && glob(sel[0], fqn.Name()) {
		return true
	}
	return matchPrefix(sel, fqn.Segments) || matchPrefix(sel, fqn.Unscoped())
}

func matchPrefix(sel, segments []string) bool {
	if len(sel) == 0 || len(sel) > len(segments) {
		return false
	}
	for i, s := range sel {
		if !glob(s, segments[i]) {
			return false
		}
	}
	return true
}

// matchPath matches a file or directory selector against a node path.
func matchPath(sel, nodePath string) bool {
	if nodePath == "" {
		return false
	}
	sel = cleanPath(sel)
	nodePath = cleanPath(nodePath)
	if glob(sel, nodePath) {
		return true
	}
	return strings.HasPrefix(nodePath, sel+"/")
}

func cleanPath(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	return strings.TrimPrefix(p, "./")
}

func glob(pattern, s string) bool {
	ok, err := path.Match(pattern, s)
	return err == nil && ok
}
