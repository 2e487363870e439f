package node

import "fmt"

// Kind distinguishes the resource types a project can declare.
type Kind int

const (
	// KindModel is a transformation that materializes a relation.
	KindModel Kind = iota
	// KindTest is a data test asserting a property of its parents.
	KindTest
	// KindSeed loads static data.
	KindSeed
	// KindSnapshot records slowly changing history of a source.
	KindSnapshot
	// KindOperation is a hook or standalone operation.
	KindOperation
)

var kindNames = map[Kind]string{
	KindModel:     "model",
	KindTest:      "test",
	KindSeed:      "seed",
	KindSnapshot:  "snapshot",
	KindOperation: "operation",
}

// String returns the lowercase resource type name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a resource type name to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown resource type %q", s)
}

// Kinds returns every Kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindModel, KindTest, KindSeed, KindSnapshot, KindOperation}
}
