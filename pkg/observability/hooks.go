// Package observability provides hooks for tracing and logging editor events.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about document persistence, graph mutation and binding
// installation.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the editor packages
// never import a tracing backend directly. [TracingHooks] is the bundled
// OpenTelemetry implementation of [DocumentHooks].
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDocumentHooks(observability.NewTracingHooks())
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Document().OnLoadStart(ctx, name)
//	// ... import ...
//	observability.Document().OnLoadComplete(ctx, name, nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Document Hooks
// =============================================================================

// DocumentHooks receives events from document save and load.
type DocumentHooks interface {
	OnLoadStart(ctx context.Context, name string)
	OnLoadComplete(ctx context.Context, name string, nodeCount int, duration time.Duration, err error)
	OnSaveComplete(ctx context.Context, name string, nodeCount int, duration time.Duration, err error)
}

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events from interactive graph mutation.
type GraphHooks interface {
	// OnNodeCreated records a node created from a catalog node type.
	OnNodeCreated(nodeTypeID string, id uint64)

	// OnLinkCreated records a new link. appearance is "FLOW" or "DATA".
	OnLinkCreated(id uint64, appearance string)

	// OnLinkRejected records a link request that failed validation.
	OnLinkRejected(reason error)

	// OnObjectRemoved records the removal of a top-level object. Objects
	// removed by cascade are not reported individually.
	OnObjectRemoved(kind string, id uint64)
}

// =============================================================================
// Binding Hooks
// =============================================================================

// BindingHooks receives events from the binding resolver.
type BindingHooks interface {
	OnBindingInstalled(nodeTypeID, sourceID, targetID, transform string)
	OnBindingSkipped(nodeTypeID, propTypeID, reason string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDocumentHooks is a no-op implementation of DocumentHooks.
type NoopDocumentHooks struct{}

func (NoopDocumentHooks) OnLoadStart(context.Context, string)                               {}
func (NoopDocumentHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopDocumentHooks) OnSaveComplete(context.Context, string, int, time.Duration, error) {}

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnNodeCreated(string, uint64)   {}
func (NoopGraphHooks) OnLinkCreated(uint64, string)   {}
func (NoopGraphHooks) OnLinkRejected(error)           {}
func (NoopGraphHooks) OnObjectRemoved(string, uint64) {}

// NoopBindingHooks is a no-op implementation of BindingHooks.
type NoopBindingHooks struct{}

func (NoopBindingHooks) OnBindingInstalled(string, string, string, string) {}
func (NoopBindingHooks) OnBindingSkipped(string, string, string)           {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	documentHooks DocumentHooks = NoopDocumentHooks{}
	graphHooks    GraphHooks    = NoopGraphHooks{}
	bindingHooks  BindingHooks  = NoopBindingHooks{}
	hooksMu       sync.RWMutex
)

// SetDocumentHooks registers custom document hooks.
// This should be called once at application startup.
func SetDocumentHooks(h DocumentHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		documentHooks = h
	}
}

// SetGraphHooks registers custom graph hooks.
// This should be called once at application startup.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetBindingHooks registers custom binding hooks.
// This should be called once at application startup.
func SetBindingHooks(h BindingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		bindingHooks = h
	}
}

// Document returns the registered document hooks.
func Document() DocumentHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return documentHooks
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Binding returns the registered binding hooks.
func Binding() BindingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return bindingHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	documentHooks = NoopDocumentHooks{}
	graphHooks = NoopGraphHooks{}
	bindingHooks = NoopBindingHooks{}
}
