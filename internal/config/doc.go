// Package config defines the format-agnostic project model and the Loader
// interface that reads it from disk.
//
// The `config.Model` is the single source of truth for the builder, which
// links it into the node registry. Concrete loaders, such as for HCL, are
// provided in separate packages.
package config
