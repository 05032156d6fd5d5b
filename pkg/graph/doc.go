// Package graph provides the in-memory model behind the node editor.
//
// # Overview
//
// A graph is made of four kinds of objects, all sharing a single id space:
//
//   - [Node]: a vertex with fixed-role pins and an ordered list of props
//   - [Pin]: a typed connection point owned by exactly one node or one prop
//   - [Link]: a directed edge from an output pin to an input pin
//   - [Prop]: a node property with its own data payload and optional pins
//
// Every object implements [Object]. The set is closed: only the types in this
// package (and prop variants embedding [PropBase]) satisfy it, so exhaustive
// switches over [Object] never need a silent default branch.
//
// # Identity
//
// Ids are issued by an explicit [IDAllocator]. Live creation takes the next
// id from the allocator; deserialization restores persisted ids through the
// Restore* constructors and then raises the allocator floor once with
// [IDAllocator.ResetFloor]. Independent graphs use independent allocators.
//
// # Ownership
//
// Pins are owned through an [Attachment], which is either a [NodeAttachment]
// or a [PropAttachment]. Links register themselves in the outgoing list of the
// source pin's node and the incoming list of the destination pin's node when
// they are constructed, and must be detached with [Link.Disconnect]. Never
// edit those lists directly.
//
// # Container
//
// [Graph] owns the flat collections and the id index. [Graph.Add] and
// [Graph.Remove] cascade: adding a node adds its pins, props and prop pins;
// removing a node removes all of them and disconnects every link touching
// any removed pin.
//
// # Link Validation
//
// [CanLink] decides whether two pins may be connected. It returns nil or one
// of the sentinel errors [ErrSelfLink], [ErrPinKind], [ErrPinType],
// [ErrSameNode] or [ErrSameProp], checked in that order.
//
// # Frames
//
// Interaction layers iterate the collections while drawing, so they must not
// mutate them in the same pass. A [Frame] collects link and delete requests
// during a pass so they can be applied afterwards, creations first.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. All mutation is
// expected to happen on the goroutine that drives the interaction loop.
package graph
