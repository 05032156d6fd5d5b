// Package editor is the model behind the node editor's user interface.
//
// An [Editor] owns one graph together with the id allocator, binding bus
// and node factory that serve it. The interaction layer calls into it to
// create nodes, link pins, apply a frame's deferred requests and edit prop
// values; the editor keeps bindings flowing and reports activity through
// the hooks in package observability.
//
// Documents are persisted through a [store.Store]. [Editor.Save] and
// [Editor.Load] ask a [Chooser] for the document name first, so the same
// code serves an interactive file dialog and a scripted caller.
//
// An Editor is not safe for concurrent use. It is meant to be driven from
// the single goroutine that runs the UI loop.
package editor
