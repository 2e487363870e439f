package adapters

import (
	"fmt"
	"maps"
	"slices"

	"github.com/RayMarquina/dbt-project-sub004/internal/executor"
)

// Options configure the built-in adapters.
type Options struct {
	// Dir is the working directory for shell commands.
	Dir string
	// Env is appended to the process environment of shell commands.
	Env []string
}

// Factory builds a fresh adapter for one run.
type Factory func(opts Options) executor.Adapter

var factories = map[string]Factory{
	"shell": func(opts Options) executor.Adapter { return NewShell(opts.Dir, opts.Env...) },
	"dry":   func(Options) executor.Adapter { return Dry{} },
}

// New returns the adapter registered under name.
func New(name string, opts Options) (executor.Adapter, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown adapter '%s' (available: %v)", name, Names())
	}
	return f(opts), nil
}

// Names lists the registered adapter names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(factories))
}
