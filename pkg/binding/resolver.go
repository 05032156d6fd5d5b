package binding

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/observability"
	"github.com/bploeckelman/nodes/pkg/props"
)

// Resolver installs the bindings of a node type on a node's props.
type Resolver struct {
	Catalog *meta.Catalog
	Bus     *Bus
	Logger  *log.Logger

	mu       sync.Mutex
	bindings map[graph.ID][]func() // subscription cancels keyed by target prop id
}

// NewResolver returns a resolver that subscribes on bus.
func NewResolver(c *meta.Catalog, bus *Bus, logger *log.Logger) *Resolver {
	return &Resolver{Catalog: c, Bus: bus, Logger: logger}
}

type edge struct {
	target    graph.Prop
	targetID  string
	transform Transform
	kind      string
}

// Resolve installs n's bindings and publishes each source once, so every
// target starts consistent with its source. It returns the number of
// bindings installed.
func (r *Resolver) Resolve(n *graph.Node, nt *meta.NodeType) int {
	return r.install(n, nt, true)
}

// Rewire installs n's bindings without the initial publish. It is used
// after loading a document, where targets already hold persisted values.
func (r *Resolver) Rewire(n *graph.Node, nt *meta.NodeType) int {
	return r.install(n, nt, false)
}

func (r *Resolver) install(n *graph.Node, nt *meta.NodeType, publish bool) int {
	hooks := observability.Binding()

	byType := make(map[string]graph.Prop, len(n.Props()))
	for _, p := range n.Props() {
		byType[p.Base().PropTypeID] = p
	}

	var sources []string
	edges := make(map[string][]edge)
	for i := range nt.Props {
		pt := &nt.Props[i]

		var sourceID, kind string
		var tf Transform
		var err error
		switch {
		case pt.Binding != nil:
			sourceID, kind = pt.Binding.SourceID, pt.Binding.TransformType
			tf, err = r.newTransform(pt.Binding, byType)
		case pt.DependsOn != "":
			sourceID, kind = pt.DependsOn, "dependsOn"
			source, ok := nt.FindPropType(pt.DependsOn)
			if !ok {
				r.log().Warn("dependsOn references a missing prop type", "nodeType", nt.ID, "prop", pt.ID, "dependsOn", pt.DependsOn)
				hooks.OnBindingSkipped(nt.ID, pt.ID, "missing dependsOn prop type")
				continue
			}
			tf, err = r.newImplicit(pt, source)
		default:
			continue
		}
		if err != nil {
			r.log().Warn("skipping binding", "nodeType", nt.ID, "prop", pt.ID, "err", err)
			hooks.OnBindingSkipped(nt.ID, pt.ID, err.Error())
			continue
		}

		target, ok := byType[pt.ID]
		if !ok {
			r.log().Warn("binding target prop not found", "nodeType", nt.ID, "prop", pt.ID)
			hooks.OnBindingSkipped(nt.ID, pt.ID, "missing target prop")
			continue
		}
		if _, seen := edges[sourceID]; !seen {
			sources = append(sources, sourceID)
		}
		edges[sourceID] = append(edges[sourceID], edge{target: target, targetID: pt.ID, transform: tf, kind: kind})
	}

	installed := 0
	var published []graph.Prop
	for _, sourceID := range sources {
		source, ok := byType[sourceID]
		if !ok {
			r.log().Warn("binding source prop not found", "nodeType", nt.ID, "source", sourceID)
			for _, e := range edges[sourceID] {
				hooks.OnBindingSkipped(nt.ID, e.targetID, "missing source prop")
			}
			continue
		}

		group := edges[sourceID]
		for _, e := range group {
			cancel := r.Bus.Subscribe(source.ID(), func(value any) {
				r.Apply(e.target, e.transform(value))
			})
			r.track(e.target.ID(), cancel)
			hooks.OnBindingInstalled(nt.ID, sourceID, e.targetID, e.kind)
			r.log().Debug("binding installed", "node", n.Label(), "source", sourceID, "target", e.targetID, "transform", e.kind)
		}
		installed += len(group)
		published = append(published, source)
	}

	if publish {
		for _, p := range published {
			r.Bus.Publish(p)
		}
	}
	return installed
}

// Unbind cancels every binding that writes into the prop with the given
// id and returns how many were cancelled. The prop's own subscribers, the
// bindings it is a source of, are left alone; see [Bus.Drop].
func (r *Resolver) Unbind(targetID graph.ID) int {
	r.mu.Lock()
	cancels := r.bindings[targetID]
	delete(r.bindings, targetID)
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return len(cancels)
}

func (r *Resolver) track(targetID graph.ID, cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bindings == nil {
		r.bindings = make(map[graph.ID][]func())
	}
	r.bindings[targetID] = append(r.bindings[targetID], cancel)
}

// Apply pushes a transformed value into a target prop and publishes the
// target when it changed, so chained bindings cascade. Values the target
// cannot take are logged at debug level and ignored.
func (r *Resolver) Apply(target graph.Prop, value any) {
	switch t := target.(type) {
	case *props.Thumbnail:
		switch v := value.(type) {
		case meta.AssetRef:
			t.SetRef(v)
		case nil:
			t.ClearRef()
		default:
			r.unsupported(target, value)
			return
		}
	case *props.Select:
		v, ok := value.([]string)
		if !ok {
			r.unsupported(target, value)
			return
		}
		t.SetOptions(v)
	case *props.Text:
		switch v := value.(type) {
		case string:
			t.Text = v
		case nil:
			t.Text = ""
		default:
			r.unsupported(target, value)
			return
		}
	case *props.Float:
		v, ok := number(value)
		if !ok {
			r.unsupported(target, value)
			return
		}
		t.Value = v
	case *props.Integer:
		v, ok := number(value)
		if !ok {
			r.unsupported(target, value)
			return
		}
		t.Value = int(v)
	default:
		r.unsupported(target, value)
		return
	}
	r.Bus.Publish(target)
}

func (r *Resolver) unsupported(target graph.Prop, value any) {
	r.log().Debug("binding value not applicable", "target", target.Base().Label(), "class", target.TypeTag(), "value", value)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func (r *Resolver) log() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}
