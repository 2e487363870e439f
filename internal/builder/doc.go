/*
Package builder turns a loaded project configuration into the node registry
the rest of the engine works on.

Construction is a multi-phase process:

 1. Node Creation: every declared resource becomes a *node.Node. Its unique id
    is `<kind>.<package>.<name>` and its qualified name is derived from the
    project name, the resource path and the resource name. Duplicate ids are
    fatal.

 2. Dependency Linking: each `depends_on` entry is resolved against the nodes
    created in phase one. A reference may be a unique id, `package.name`, or a
    bare name. A bare name that matches nodes of several kinds is ambiguous and,
    like a reference that matches nothing, fatal.

 3. Validation: the complete registry is checked for dependency cycles so a
    broken project is rejected before any selection happens.
*/
package builder
