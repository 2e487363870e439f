// Package selector reduces the project to the subset of nodes one invocation
// works on.
//
// A selection is a list of include patterns and a list of exclude patterns.
// Each pattern is one or more comma-joined criteria that are intersected; a
// criterion is
//
//	[N]+ method:value +[N]
//
// where the optional leading `+` adds the ancestors of every match and the
// optional trailing `+` adds the descendants, each optionally limited to N
// hops. Methods are `fqn` (the default when no method is given), `tag`,
// `path`, `package` and `resource_type`. Values may use shell-style globs;
// a qualified name is matched segment by segment with or without its leading
// package.
//
// Include results are unioned, exclude results are subtracted, the optional
// resource-type filter is applied and finally ephemeral models feeding a
// selected node are added back so they can be inlined.
package selector
