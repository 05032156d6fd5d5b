package editor

import (
	"github.com/charmbracelet/log"

	"github.com/bploeckelman/nodes/pkg/binding"
	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/factory"
	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/io"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/observability"
	"github.com/bploeckelman/nodes/pkg/props"
	"github.com/bploeckelman/nodes/pkg/store"
)

// Options configures an [Editor].
type Options struct {
	// Catalog is the metadata catalog new nodes are created from. It may be
	// nil until a document is loaded.
	Catalog *meta.Catalog
	// Registry constructs props. Nil means props.Default().
	Registry *props.Registry
	Store    store.Store
	Chooser  Chooser
	// Policy is the import policy for documents with unknown prop classes.
	Policy io.Policy
	Logger *log.Logger
}

// Editor holds the graph being edited and everything needed to change it.
type Editor struct {
	registry *props.Registry
	store    store.Store
	chooser  Chooser
	policy   io.Policy
	logger   *log.Logger

	catalog  *meta.Catalog
	graph    *graph.Graph
	ids      *graph.IDAllocator
	bus      *binding.Bus
	resolver *binding.Resolver
	factory  *factory.Factory
	name     string
}

// New returns an editor with an empty graph.
func New(opts Options) *Editor {
	e := &Editor{
		registry: opts.Registry,
		store:    opts.Store,
		chooser:  opts.Chooser,
		policy:   opts.Policy,
		logger:   opts.Logger,
	}
	if e.registry == nil {
		e.registry = props.Default()
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	e.reset(opts.Catalog, graph.New(), graph.NewIDAllocator())
	return e
}

// reset swaps in a graph and allocator with a fresh bus bound to c.
func (e *Editor) reset(c *meta.Catalog, g *graph.Graph, ids *graph.IDAllocator) {
	e.catalog = c
	e.graph = g
	e.ids = ids
	e.bus = binding.NewBus(e.logger)
	e.resolver = binding.NewResolver(c, e.bus, e.logger)
	e.factory = &factory.Factory{
		Catalog:  c,
		Registry: e.registry,
		Resolver: e.resolver,
		Logger:   e.logger,
	}
}

// Clear discards the graph and starts over with a fresh allocator and bus.
// The catalog is kept.
func (e *Editor) Clear() {
	e.reset(e.catalog, graph.New(), graph.NewIDAllocator())
	e.name = ""
}

// Graph returns the graph being edited. Callers must not add or remove
// objects directly; use the editor's methods so hooks and bindings follow.
func (e *Editor) Graph() *graph.Graph { return e.graph }

// Catalog returns the current metadata catalog, or nil.
func (e *Editor) Catalog() *meta.Catalog { return e.catalog }

// Bus returns the bus prop changes are published on.
func (e *Editor) Bus() *binding.Bus { return e.bus }

// IDs returns the allocator for new objects.
func (e *Editor) IDs() *graph.IDAllocator { return e.ids }

// Name returns the name the document was last saved or loaded under.
func (e *Editor) Name() string { return e.name }

// =============================================================================
// Graph operations
// =============================================================================

// Add adds obj, with everything it owns, to the graph.
func (e *Editor) Add(obj graph.Object) { e.graph.Add(obj) }

// Remove removes obj and everything it owns, disconnecting any link that
// touches a removed pin. Bindings into or out of removed props are dropped.
func (e *Editor) Remove(obj graph.Object) {
	e.graph.Remove(obj)
	e.dropSubscriptions(obj)
	observability.Graph().OnObjectRemoved(obj.Kind().String(), uint64(obj.ID()))
	e.logger.Debug("removed object", "kind", obj.Kind(), "id", obj.ID())
}

// RemoveByID removes the object with the given id.
func (e *Editor) RemoveByID(id graph.ID) error {
	obj, ok := e.graph.Find(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no object with id %d", id)
	}
	e.Remove(obj)
	return nil
}

func (e *Editor) dropSubscriptions(obj graph.Object) {
	switch o := obj.(type) {
	case *graph.Node:
		for _, p := range o.Props() {
			e.bus.Drop(p.ID())
			e.resolver.Unbind(p.ID())
		}
	case graph.Prop:
		e.bus.Drop(o.ID())
		e.resolver.Unbind(o.ID())
	}
}

func (e *Editor) FindNode(id graph.ID) (*graph.Node, bool) { return e.graph.FindNode(id) }
func (e *Editor) FindPin(id graph.ID) (*graph.Pin, bool)   { return e.graph.FindPin(id) }
func (e *Editor) FindProp(id graph.ID) (graph.Prop, bool)  { return e.graph.FindProp(id) }
func (e *Editor) FindLink(id graph.ID) (*graph.Link, bool) { return e.graph.FindLink(id) }

// CanLink reports whether a and b can be linked; see [graph.CanLink].
func (e *Editor) CanLink(a, b *graph.Pin) error { return graph.CanLink(a, b) }

// Link validates and creates a link between a and b.
func (e *Editor) Link(a, b *graph.Pin) (*graph.Link, error) {
	l, err := graph.NewLink(e.ids, a, b)
	if err != nil {
		observability.Graph().OnLinkRejected(err)
		e.logger.Debug("link rejected", "a", a.Label(), "b", b.Label(), "reason", err)
		return nil, err
	}
	e.graph.Add(l)
	observability.Graph().OnLinkCreated(uint64(l.ID()), l.Appearance().String())
	e.logger.Debug("linked", "link", l.Label())
	return l, nil
}

// LinkByID links the pins with the given ids.
func (e *Editor) LinkByID(a, b graph.ID) (*graph.Link, error) {
	pa, ok := e.graph.FindPin(a)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no pin with id %d", a)
	}
	pb, ok := e.graph.FindPin(b)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no pin with id %d", b)
	}
	return e.Link(pa, pb)
}

// CreateNode creates a node of the given catalog node type at pos and adds
// it to the graph.
func (e *Editor) CreateNode(nodeTypeID string, pos graph.Position) (*graph.Node, error) {
	if e.catalog == nil {
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "no catalog loaded")
	}
	n, err := e.factory.CreateNodeByID(e.ids, nodeTypeID)
	if err != nil {
		return nil, err
	}
	n.Position = pos
	e.graph.Add(n)
	observability.Graph().OnNodeCreated(nodeTypeID, uint64(n.ID()))
	e.logger.Debug("created node", "node", n.Label(), "x", pos.X, "y", pos.Y)
	return n, nil
}

// ApplyFrame applies the link and delete requests collected during one
// interaction pass. Links are created before anything is deleted.
func (e *Editor) ApplyFrame(f *graph.Frame) graph.FrameResult {
	res := f.Apply(e.graph, e.ids)
	hooks := observability.Graph()
	for _, l := range res.Created {
		hooks.OnLinkCreated(uint64(l.ID()), l.Appearance().String())
	}
	for _, r := range res.Rejected {
		hooks.OnLinkRejected(r.Err)
		e.logger.Debug("link rejected", "a", r.A.Label(), "b", r.B.Label(), "reason", r.Err)
	}
	for _, obj := range res.Removed {
		e.dropSubscriptions(obj)
		hooks.OnObjectRemoved(obj.Kind().String(), uint64(obj.ID()))
	}
	return res
}
