// Package binding propagates prop value changes along the bindings a
// catalog declares between props of the same node.
//
// A [Bus] is the change channel: the editor publishes a prop after every
// edit, and subscribers registered for that prop's id are called with its
// new value. A [Resolver] reads a node type's bindings, turns each into a
// transform, and subscribes one handler per source prop that pushes the
// transformed value into every target prop via [Resolver.Apply].
//
// Two kinds of binding are recognised:
//
//   - Explicit bindings name a source prop and one of the transforms in
//     package meta (extract_ref, extract_array_names, resolve_from_array).
//   - Implicit bindings come from a prop type's dependsOn when it has no
//     explicit binding. A thumbnail or text prop whose display is
//     "#{value}.field" takes that field from the asset item named by the
//     depended-on select's current option.
//
// Resolution problems (a missing source or target prop, an unknown
// transform, an unsupported dependsOn pair) are logged and skipped. They
// never prevent the node from being created.
package binding
